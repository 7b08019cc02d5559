package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdcar/kdcar-backend/internal/inventory"
	"github.com/kdcar/kdcar-backend/pkg/pagination"
)

func TestParseLeadingInt(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{raw: "12", want: 12, ok: true},
		{raw: "12abc", want: 12, ok: true},
		{raw: "  42 ", want: 42, ok: true},
		{raw: "+7", want: 7, ok: true},
		{raw: "-5", want: -5, ok: true},
		{raw: "3.9", want: 3, ok: true},
		{raw: "", ok: false},
		{raw: "abc", ok: false},
		{raw: "-", ok: false},
		{raw: "99999999999999999999", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, ok := ParseLeadingInt(tc.raw)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestInventoryFiltersParsesEveryParameter(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/cars?search=+amg+&make=Mercedes-Benz&model=G63&transmission=Automatic"+
		"&fuelType=Benzin&vehicleType=SUV&minPrice=1000&maxPrice=250000eur&minPower=300&maxPower=700&page=2&limit=24", nil)

	f := InventoryFilters(req)

	assert.Equal(t, "amg", f.Search)
	assert.Equal(t, "Mercedes-Benz", f.Make)
	assert.Equal(t, "G63", f.Model)
	assert.Equal(t, "Automatic", f.Transmission)
	assert.Equal(t, "Benzin", f.FuelType)
	assert.Equal(t, "SUV", f.VehicleType)
	require.NotNil(t, f.MinPrice)
	assert.Equal(t, int64(1000), *f.MinPrice)
	require.NotNil(t, f.MaxPrice)
	assert.Equal(t, int64(250000), *f.MaxPrice)
	require.NotNil(t, f.MinPower)
	assert.Equal(t, int64(300), *f.MinPower)
	require.NotNil(t, f.MaxPower)
	assert.Equal(t, int64(700), *f.MaxPower)
	require.NotNil(t, f.Page)
	assert.Equal(t, 2, *f.Page)
	require.NotNil(t, f.Limit)
	assert.Equal(t, 24, *f.Limit)
}

func TestInventoryFiltersDropsInvalidValues(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/cars?minPrice=-1&maxPrice=abc&minPower=-20&page=0&limit=101", nil)

	assert.Equal(t, inventory.Filters{}, InventoryFilters(req))
}

func TestInventoryFiltersLimitBounds(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/cars?limit=100", nil)
	f := InventoryFilters(req)
	require.NotNil(t, f.Limit)
	assert.Equal(t, pagination.MaxLimit, *f.Limit)

	req = httptest.NewRequest("GET", "/api/cars?limit=1", nil)
	f = InventoryFilters(req)
	require.NotNil(t, f.Limit)
	assert.Equal(t, 1, *f.Limit)
}

func TestInventoryFiltersKeepsValidFieldsNextToInvalidOnes(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/cars?minPrice=-1&maxPrice=5000&page=-3&limit=10", nil)
	f := InventoryFilters(req)

	assert.Nil(t, f.MinPrice)
	require.NotNil(t, f.MaxPrice)
	assert.Equal(t, int64(5000), *f.MaxPrice)
	assert.Nil(t, f.Page)
	require.NotNil(t, f.Limit)
	assert.Equal(t, 10, *f.Limit)
}

func TestInventoryFiltersCapsTextLength(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/cars?search="+strings.Repeat("x", 500), nil)
	assert.Len(t, InventoryFilters(req).Search, maxTextLen)
}
