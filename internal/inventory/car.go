package inventory

import (
	"strconv"

	"github.com/kdcar/kdcar-backend/internal/carms"
	"github.com/kdcar/kdcar-backend/pkg/pagination"
)

// Source names where an inventory result came from.
type Source string

const (
	SourceCarms Source = "carms"
	SourceLocal Source = "local"
)

// Car is the normalized vehicle record served to the website. Every string
// field is non-empty except the optional ones, Images is never empty and
// Image mirrors Images[0].
type Car struct {
	ID            string   `json:"id"`
	Slug          string   `json:"slug"`
	Make          string   `json:"make"`
	Model         string   `json:"model"`
	Title         string   `json:"title"`
	Year          int      `json:"year"`
	Price         int64    `json:"price"`
	Mileage       int64    `json:"mileage"`
	Transmission  string   `json:"transmission"`
	Engine        string   `json:"engine"`
	Horsepower    string   `json:"horsepower"`
	ExteriorColor string   `json:"exteriorColor"`
	InteriorColor string   `json:"interiorColor"`
	Description   string   `json:"description"`
	Features      []string `json:"features"`
	Image         string   `json:"image"`
	Images        []string `json:"images"`
	VAT           bool     `json:"vat"`
	FuelType      string   `json:"fuelType,omitempty"`
	VehicleType   string   `json:"vehicleType,omitempty"`
	URL           string   `json:"url,omitempty"`
}

// Clone returns a copy that shares no slices with c.
func (c Car) Clone() Car {
	c.Features = cloneStrings(c.Features)
	c.Images = cloneStrings(c.Images)
	return c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append(make([]string, 0, len(in)), in...)
}

// Raw converts the record back into the raw upstream shape. Normalizing the
// result yields the same record.
func (c Car) Raw() carms.RawCar {
	raw := carms.RawCar{
		Slug:              carms.TextOf(c.Slug),
		Brand:             carms.TextOf(c.Make),
		Model:             carms.TextOf(c.Model),
		Title:             carms.TextOf(c.Title),
		FirstRegistration: carms.TextOf(strconv.Itoa(c.Year)),
		Kilometers:        carms.NumericInt(c.Mileage),
		Transmission:      carms.TextOf(c.Transmission),
		Power:             carms.NumericText(c.Horsepower),
		Price:             carms.NumericInt(c.Price),
		VAT:               carms.FlagBool(c.VAT),
		Images:            carms.TextListOf(append([]string(nil), c.Images...)...),
		Image:             carms.TextOf(c.Image),
		Description:       carms.TextOf(c.Description),
		Features:          carms.TextListOf(append([]string(nil), c.Features...)...),
		Engine:            carms.TextOf(c.Engine),
		ExteriorColor:     carms.TextOf(c.ExteriorColor),
		InteriorColor:     carms.TextOf(c.InteriorColor),
	}
	if c.FuelType != "" {
		raw.FuelType = carms.TextOf(c.FuelType)
	}
	if c.VehicleType != "" {
		raw.VehicleType = carms.TextOf(c.VehicleType)
	}
	if c.URL != "" {
		raw.URL = carms.TextOf(c.URL)
	}
	return raw
}

// Result is the list envelope. Error is advisory text, set whenever the
// records did not come from the inventory API as requested.
type Result struct {
	Cars       []Car            `json:"cars"`
	Source     Source           `json:"source"`
	Pagination *pagination.Page `json:"pagination,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// CarResult is the single-record envelope. Car is nil when nothing matched.
type CarResult struct {
	Car    *Car   `json:"car"`
	Source Source `json:"source"`
	Error  string `json:"error,omitempty"`
}
