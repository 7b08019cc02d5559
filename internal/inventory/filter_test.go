package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func int64Ptr(v int64) *int64 { return &v }

func intPtr(v int) *int { return &v }

func sampleCars() []Car {
	return []Car{
		{Slug: "g63", Make: "Mercedes-Benz", Model: "G63 AMG", Title: "Mercedes-Benz G63 AMG", Price: 185000, Horsepower: "585 PS", Transmission: "Automatic", FuelType: "Benzin", VehicleType: "SUV"},
		{Slug: "m8", Make: "BMW", Model: "M8 Competition", Title: "BMW M8 Competition", Price: 165000, Horsepower: "625 PS", Transmission: "Automatic", FuelType: "Benzin", VehicleType: "Coupé"},
		{Slug: "i4", Make: "bmw", Model: "i4", Title: "BMW i4 eDrive40", Price: 52000, Horsepower: "Keine Angabe", Transmission: "Automatic", FuelType: "Elektro"},
		{Slug: "911", Make: "Porsche", Model: "911 Turbo S", Title: "Porsche 911 Turbo S", Price: 220000, Horsepower: "650 PS", Transmission: "PDK Automatic", FuelType: "Benzin", VehicleType: "Coupé"},
	}
}

func slugs(cars []Car) []string {
	out := make([]string, 0, len(cars))
	for _, c := range cars {
		out = append(out, c.Slug)
	}
	return out
}

func TestFiltersApply(t *testing.T) {
	cases := []struct {
		name    string
		filters Filters
		want    []string
	}{
		{name: "no filters", filters: Filters{}, want: []string{"g63", "m8", "i4", "911"}},
		{name: "make case-insensitive", filters: Filters{Make: "BMW"}, want: []string{"m8", "i4"}},
		{name: "all means any", filters: Filters{Make: "all", Transmission: "all"}, want: []string{"g63", "m8", "i4", "911"}},
		{name: "search over title", filters: Filters{Search: "edrive"}, want: []string{"i4"}},
		{name: "search over make and model", filters: Filters{Search: "turbo"}, want: []string{"911"}},
		{name: "price range inclusive", filters: Filters{MinPrice: int64Ptr(165000), MaxPrice: int64Ptr(185000)}, want: []string{"g63", "m8"}},
		{name: "min power excludes unparseable", filters: Filters{MinPower: int64Ptr(1)}, want: []string{"g63", "m8", "911"}},
		{name: "max power keeps unparseable", filters: Filters{MaxPower: int64Ptr(600)}, want: []string{"g63", "i4"}},
		{name: "transmission exact", filters: Filters{Transmission: "automatic"}, want: []string{"g63", "m8", "i4"}},
		{name: "fuel type", filters: Filters{FuelType: "elektro"}, want: []string{"i4"}},
		{name: "vehicle type missing on record", filters: Filters{VehicleType: "coupé"}, want: []string{"m8", "911"}},
		{name: "model exact", filters: Filters{Model: "m8"}, want: []string{}},
		{name: "combined", filters: Filters{Make: "bmw", MinPrice: int64Ptr(100000)}, want: []string{"m8"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, slugs(tc.filters.Apply(sampleCars())))
		})
	}
}

func TestPowerValue(t *testing.T) {
	assert.Equal(t, int64(450), PowerValue("450 PS"))
	assert.Equal(t, int64(331), PowerValue("ca. 331 kW (450 PS)"))
	assert.Equal(t, int64(0), PowerValue("Keine Angabe"))
}

func TestFiltersQuery(t *testing.T) {
	q := Filters{}.Query()
	assert.Equal(t, "limit=12", q.Encode())

	q = Filters{
		Search:   "amg",
		Make:     "Mercedes-Benz",
		MinPrice: int64Ptr(0),
		MaxPower: int64Ptr(700),
		Page:     intPtr(2),
		Limit:    intPtr(24),
	}.Query()
	assert.Equal(t, "24", q.Get("limit"))
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "amg", q.Get("search"))
	assert.Equal(t, "Mercedes-Benz", q.Get("make"))
	assert.Equal(t, "0", q.Get("minPrice"))
	assert.Equal(t, "700", q.Get("maxPower"))

	q = Filters{Limit: intPtr(500)}.Query()
	assert.Equal(t, "100", q.Get("limit"))
	assert.False(t, q.Has("model"))
	assert.False(t, q.Has("maxPrice"))
}
