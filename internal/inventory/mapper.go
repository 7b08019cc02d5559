package inventory

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kdcar/kdcar-backend/internal/carms"
)

const (
	unknownLabel        = "Unbekannt"
	notSpecifiedLabel   = "Keine Angabe"
	defaultTransmission = "Automatic"
	defaultDescription  = "Weitere Informationen folgen in Kuerze."

	minPlausibleYear = 1900
	maxPlausibleYear = 2099
)

var (
	registrationYearPattern = regexp.MustCompile(`\d{4}`)
	slugYearPattern         = regexp.MustCompile(`(19|20)\d{2}`)
	nonDigitPattern         = regexp.MustCompile(`\D`)
	whitespacePattern       = regexp.MustCompile(`\s+`)
	listSeparatorPattern    = regexp.MustCompile(`[,;]`)

	maxWholeNumber = decimal.NewFromInt(math.MaxInt64)
)

// Normalize maps one raw record onto a Car. It accepts any input and never
// fails; missing or malformed values fall back to defaults. now only feeds
// the registration year when neither the registration nor the slug has one.
func Normalize(raw carms.RawCar, images ImageResolver, now time.Time) Car {
	slug := slugFor(raw)
	vehicleMake := firstText(unknownLabel, raw.Brand, raw.Model)
	model := firstText(unknownLabel, raw.Model, raw.Brand)
	title := text(raw.Title, vehicleMake+" "+model)

	year, ok := registrationYear(raw.FirstRegistration)
	if !ok {
		year = yearFromSlug(slug, now)
	}

	gallery := imageList(raw.Images, raw.Image, images)

	return Car{
		ID:            slug,
		Slug:          slug,
		Make:          vehicleMake,
		Model:         model,
		Title:         title,
		Year:          year,
		Price:         wholeNumber(raw.Price),
		Mileage:       wholeNumber(raw.Kilometers),
		Transmission:  text(raw.Transmission, defaultTransmission),
		Engine:        text(raw.Engine, notSpecifiedLabel),
		Horsepower:    horsepower(raw.Power, raw.Horsepower),
		ExteriorColor: text(raw.ExteriorColor, notSpecifiedLabel),
		InteriorColor: text(raw.InteriorColor, notSpecifiedLabel),
		Description:   text(raw.Description, defaultDescription),
		Features:      featureList(raw.Features),
		Image:         gallery[0],
		Images:        gallery,
		VAT:           vatApplies(raw.VAT),
		FuelType:      text(raw.FuelType, ""),
		VehicleType:   text(raw.VehicleType, ""),
		URL:           text(raw.URL, ""),
	}
}

// text returns the trimmed value or fallback when it is absent or blank.
func text(value carms.Text, fallback string) string {
	if value.Kind == carms.KindText {
		if trimmed := strings.TrimSpace(value.Value); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func firstText(fallback string, values ...carms.Text) string {
	for _, v := range values {
		if s := text(v, ""); s != "" {
			return s
		}
	}
	return fallback
}

func slugFor(raw carms.RawCar) string {
	if slug := text(raw.Slug, ""); slug != "" {
		return slug
	}
	switch raw.ID.Kind {
	case carms.KindText:
		if id := strings.TrimSpace(raw.ID.Text); id != "" {
			return id
		}
	case carms.KindNumber:
		return raw.ID.Number.String()
	}
	brand := hyphenate(text(raw.Brand, ""), "car")
	model := hyphenate(text(raw.Model, ""), "model")
	return brand + "-" + model
}

func hyphenate(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return whitespacePattern.ReplaceAllString(strings.ToLower(value), "-")
}

func registrationYear(value carms.Text) (int, bool) {
	if value.Kind != carms.KindText {
		return 0, false
	}
	for _, match := range registrationYearPattern.FindAllString(value.Value, -1) {
		year, err := strconv.Atoi(match)
		if err == nil && year >= minPlausibleYear && year <= maxPlausibleYear {
			return year, true
		}
	}
	return 0, false
}

func yearFromSlug(slug string, now time.Time) int {
	if match := slugYearPattern.FindString(slug); match != "" {
		if year, err := strconv.Atoi(match); err == nil {
			return year
		}
	}
	return now.Year()
}

// wholeNumber coerces a price or mileage into a non-negative integer. Text
// keeps only its digits, so "12.345 €" becomes 12345.
func wholeNumber(value carms.Numeric) int64 {
	var d decimal.Decimal
	switch value.Kind {
	case carms.KindNumber:
		d = value.Number.Truncate(0)
	case carms.KindText:
		digits := nonDigitPattern.ReplaceAllString(value.Text, "")
		if digits == "" {
			return 0
		}
		parsed, err := decimal.NewFromString(digits)
		if err != nil {
			return 0
		}
		d = parsed
	default:
		return 0
	}
	if d.IsNegative() {
		return 0
	}
	if d.GreaterThan(maxWholeNumber) {
		return math.MaxInt64
	}
	return d.IntPart()
}

func horsepower(power carms.Numeric, fallback carms.Text) string {
	switch power.Kind {
	case carms.KindNumber:
		return power.Number.String() + " PS"
	case carms.KindText:
		if trimmed := strings.TrimSpace(power.Text); trimmed != "" {
			return trimmed
		}
	}
	return text(fallback, notSpecifiedLabel)
}

func vatApplies(value carms.Flag) bool {
	switch value.Kind {
	case carms.KindBool:
		return value.Bool
	case carms.KindNumber:
		return value.Number.IsPositive()
	case carms.KindText:
		switch strings.ToLower(strings.TrimSpace(value.Text)) {
		case "true", "yes", "1", "ja":
			return true
		}
	}
	return false
}

// textList flattens a list-or-text field into trimmed, non-empty entries.
// Text holding a JSON array is decoded; any other text is split on commas
// and semicolons.
func textList(value carms.TextList) []string {
	var entries []string
	switch value.Kind {
	case carms.KindList:
		entries = value.List
	case carms.KindText:
		entries = splitList(value.Text)
	}

	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if trimmed := strings.TrimSpace(entry); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// featureList is textList except that text holding any JSON value other
// than an array yields no features.
func featureList(value carms.TextList) []string {
	if value.Kind == carms.KindText {
		trimmed := strings.TrimSpace(value.Text)
		if !strings.HasPrefix(trimmed, "[") && json.Valid([]byte(trimmed)) {
			return []string{}
		}
	}
	return textList(value)
}

func splitList(value string) []string {
	var decoded carms.TextList
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "[") && json.Valid([]byte(trimmed)) {
		_ = json.Unmarshal([]byte(trimmed), &decoded)
		return decoded.List
	}
	return listSeparatorPattern.Split(value, -1)
}

func imageList(list carms.TextList, fallback carms.Text, images ImageResolver) []string {
	var out []string
	for _, entry := range textList(list) {
		if resolved := images.Resolve(entry); resolved != "" {
			out = append(out, resolved)
		}
	}
	if len(out) == 0 {
		if resolved := images.Resolve(text(fallback, "")); resolved != "" {
			out = append(out, resolved)
		}
	}
	if len(out) == 0 {
		out = []string{PlaceholderImage}
	}
	return out
}
