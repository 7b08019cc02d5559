package inventory

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kdcar/kdcar-backend/internal/carms"
)

func genDecimal() *rapid.Generator[decimal.Decimal] {
	return rapid.Custom(func(t *rapid.T) decimal.Decimal {
		return decimal.New(rapid.Int64().Draw(t, "coefficient"), int32(rapid.IntRange(-6, 6).Draw(t, "exponent")))
	})
}

func genLooseString() *rapid.Generator[string] {
	return rapid.OneOf(
		rapid.String(),
		rapid.SampledFrom([]string{"", "  ", "12.345 €", "03/2021", "ja", "[\"a\", 1]", "a, b; c", "https://x.test/a.jpg", "/api/carms-image?path=a"}),
	)
}

func genText() *rapid.Generator[carms.Text] {
	return rapid.Custom(func(t *rapid.T) carms.Text {
		if !rapid.Bool().Draw(t, "present") {
			return carms.Text{}
		}
		return carms.TextOf(genLooseString().Draw(t, "text"))
	})
}

func genIdentifier() *rapid.Generator[carms.Identifier] {
	return rapid.Custom(func(t *rapid.T) carms.Identifier {
		switch rapid.IntRange(0, 2).Draw(t, "kind") {
		case 1:
			return carms.IdentifierText(genLooseString().Draw(t, "id"))
		case 2:
			return carms.IdentifierNumber(genDecimal().Draw(t, "id"))
		}
		return carms.Identifier{}
	})
}

func genNumeric() *rapid.Generator[carms.Numeric] {
	return rapid.Custom(func(t *rapid.T) carms.Numeric {
		switch rapid.IntRange(0, 2).Draw(t, "kind") {
		case 1:
			return carms.NumericText(genLooseString().Draw(t, "numeric"))
		case 2:
			return carms.NumericNumber(genDecimal().Draw(t, "numeric"))
		}
		return carms.Numeric{}
	})
}

func genFlag() *rapid.Generator[carms.Flag] {
	return rapid.Custom(func(t *rapid.T) carms.Flag {
		switch rapid.IntRange(0, 3).Draw(t, "kind") {
		case 1:
			return carms.FlagBool(rapid.Bool().Draw(t, "flag"))
		case 2:
			return carms.FlagNumber(genDecimal().Draw(t, "flag"))
		case 3:
			return carms.FlagText(genLooseString().Draw(t, "flag"))
		}
		return carms.Flag{}
	})
}

func genTextList() *rapid.Generator[carms.TextList] {
	return rapid.Custom(func(t *rapid.T) carms.TextList {
		switch rapid.IntRange(0, 2).Draw(t, "kind") {
		case 1:
			return carms.TextListOf(rapid.SliceOfN(genLooseString(), 0, 5).Draw(t, "list")...)
		case 2:
			return carms.TextListText(genLooseString().Draw(t, "list"))
		}
		return carms.TextList{}
	})
}

func genRawCar() *rapid.Generator[carms.RawCar] {
	return rapid.Custom(func(t *rapid.T) carms.RawCar {
		return carms.RawCar{
			ID:                genIdentifier().Draw(t, "id"),
			Slug:              genText().Draw(t, "slug"),
			Brand:             genText().Draw(t, "brand"),
			Model:             genText().Draw(t, "model"),
			Title:             genText().Draw(t, "title"),
			FirstRegistration: genText().Draw(t, "firstRegistration"),
			Kilometers:        genNumeric().Draw(t, "kilometers"),
			Transmission:      genText().Draw(t, "transmission"),
			Power:             genNumeric().Draw(t, "power"),
			Price:             genNumeric().Draw(t, "price"),
			VAT:               genFlag().Draw(t, "vat"),
			Images:            genTextList().Draw(t, "images"),
			Image:             genText().Draw(t, "image"),
			Description:       genText().Draw(t, "description"),
			Features:          genTextList().Draw(t, "features"),
			FuelType:          genText().Draw(t, "fuelType"),
			VehicleType:       genText().Draw(t, "vehicleType"),
			URL:               genText().Draw(t, "url"),
			Engine:            genText().Draw(t, "engine"),
			Horsepower:        genText().Draw(t, "horsepower"),
			ExteriorColor:     genText().Draw(t, "exteriorColor"),
			InteriorColor:     genText().Draw(t, "interiorColor"),
		}
	})
}

func genResolver() *rapid.Generator[ImageResolver] {
	return rapid.Custom(func(t *rapid.T) ImageResolver {
		return NewImageResolver(rapid.SampledFrom([]string{"", "https://carms.example.com/api"}).Draw(t, "baseURL"))
	})
}

func TestNormalizeInvariantsHoldForAnyInput(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		car := Normalize(genRawCar().Draw(t, "raw"), genResolver().Draw(t, "resolver"), fixedNow)

		required := map[string]string{
			"slug":          car.Slug,
			"make":          car.Make,
			"model":         car.Model,
			"title":         car.Title,
			"transmission":  car.Transmission,
			"engine":        car.Engine,
			"horsepower":    car.Horsepower,
			"exteriorColor": car.ExteriorColor,
			"interiorColor": car.InteriorColor,
			"description":   car.Description,
		}
		for name, value := range required {
			if strings.TrimSpace(value) == "" {
				t.Fatalf("%s is blank", name)
			}
		}
		if car.ID != car.Slug {
			t.Fatalf("id %q differs from slug %q", car.ID, car.Slug)
		}
		if car.Price < 0 || car.Mileage < 0 {
			t.Fatalf("negative price %d or mileage %d", car.Price, car.Mileage)
		}
		if car.Year < 1900 || car.Year > 2099 {
			t.Fatalf("implausible year %d", car.Year)
		}
		if len(car.Images) == 0 || car.Image != car.Images[0] {
			t.Fatalf("bad images %q / %q", car.Images, car.Image)
		}
		for _, img := range car.Images {
			if img == "" {
				t.Fatalf("empty image entry in %q", car.Images)
			}
		}
		if car.Features == nil {
			t.Fatalf("features must not be nil")
		}
		for _, feature := range car.Features {
			if strings.TrimSpace(feature) == "" {
				t.Fatalf("blank feature in %q", car.Features)
			}
		}
	})
}

func TestNormalizeIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		resolver := genResolver().Draw(t, "resolver")
		first := Normalize(genRawCar().Draw(t, "raw"), resolver, fixedNow)
		second := Normalize(first.Raw(), resolver, fixedNow)

		require.Equal(t, first, second)
	})
}
