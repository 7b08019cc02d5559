package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateBundledCatalog(t *testing.T) {
	out, err := runCmd(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "catalog: bundled")
	assert.Contains(t, out, "records: 4")
	assert.NotContains(t, out, "duplicate slug")
}

func TestValidateReportsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cars.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"slug":"a","brand":"BMW"},{"slug":"a","brand":"Audi"},{"id":7}]`), 0o600))

	out, err := runCmd(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "records: 2")
	assert.Contains(t, out, "duplicate slug: a")

	_, err = runCmd(t, "validate", "--strict", path)
	assert.Error(t, err)
}

func TestValidateMissingFile(t *testing.T) {
	_, err := runCmd(t, "validate", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestListUsesFallbackWithoutRemote(t *testing.T) {
	t.Setenv("CARMS_BASE_URL", "")
	t.Setenv("KDCAR_FALLBACK_CATALOG_PATH", "")

	out, err := runCmd(t, "list", "--make", "BMW", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, `"source": "local"`)
	assert.Contains(t, out, `"make": "BMW"`)
	assert.NotContains(t, out, `"make": "Audi"`)
}

func TestGetRequiresSlug(t *testing.T) {
	_, err := runCmd(t, "get")
	assert.Error(t, err)
}
