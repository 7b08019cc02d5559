package env

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("KDCAR_TEST_VALUE", "  json ")
	if got := Get("KDCAR_TEST_VALUE", "console"); got != "json" {
		t.Fatalf("expected trimmed value, got %q", got)
	}

	t.Setenv("KDCAR_TEST_VALUE", "   ")
	if got := Get("KDCAR_TEST_VALUE", "console"); got != "console" {
		t.Fatalf("expected fallback for blank value, got %q", got)
	}
}

func TestFirst(t *testing.T) {
	t.Setenv("KDCAR_TEST_A", "")
	t.Setenv("KDCAR_TEST_B", "b")
	if got := First("z", "KDCAR_TEST_A", "KDCAR_TEST_B"); got != "b" {
		t.Fatalf("expected b, got %q", got)
	}
	if got := First("z"); got != "z" {
		t.Fatalf("expected fallback, got %q", got)
	}
}
