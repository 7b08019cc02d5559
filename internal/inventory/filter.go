package inventory

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/kdcar/kdcar-backend/pkg/pagination"
)

// anyValue disables an equality filter.
const anyValue = "all"

var leadingNumberPattern = regexp.MustCompile(`\d+`)

// Filters narrows an inventory listing. Zero values and nil pointers mean
// "no constraint". Page and Limit only matter to the inventory API.
type Filters struct {
	Search       string
	Make         string
	Model        string
	Transmission string
	FuelType     string
	VehicleType  string
	MinPrice     *int64
	MaxPrice     *int64
	MinPower     *int64
	MaxPower     *int64
	Page         *int
	Limit        *int
}

// Apply returns the cars matching every set predicate, in input order.
func (f Filters) Apply(cars []Car) []Car {
	out := make([]Car, 0, len(cars))
	for _, car := range cars {
		if f.Match(car) {
			out = append(out, car)
		}
	}
	return out
}

// Match reports whether car satisfies every set predicate.
func (f Filters) Match(car Car) bool {
	if f.Search != "" {
		haystack := strings.ToLower(car.Make + " " + car.Model + " " + car.Title)
		if !strings.Contains(haystack, strings.ToLower(f.Search)) {
			return false
		}
	}
	if !equalsFilter(f.Make, car.Make) || !equalsFilter(f.Model, car.Model) {
		return false
	}
	if f.MinPrice != nil && car.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && car.Price > *f.MaxPrice {
		return false
	}
	if f.MinPower != nil || f.MaxPower != nil {
		power := PowerValue(car.Horsepower)
		if f.MinPower != nil && power < *f.MinPower {
			return false
		}
		if f.MaxPower != nil && power > *f.MaxPower {
			return false
		}
	}
	return equalsFilter(f.Transmission, car.Transmission) &&
		equalsFilter(f.FuelType, car.FuelType) &&
		equalsFilter(f.VehicleType, car.VehicleType)
}

func equalsFilter(want, got string) bool {
	if want == "" || want == anyValue {
		return true
	}
	return strings.ToLower(got) == strings.ToLower(want)
}

// PowerValue extracts the first run of digits from a horsepower label.
// Labels without digits yield 0.
func PowerValue(label string) int64 {
	match := leadingNumberPattern.FindString(label)
	if match == "" {
		return 0
	}
	value, err := strconv.ParseInt(match, 10, 64)
	if err != nil {
		return math.MaxInt64
	}
	return value
}

// Query renders the filters as inventory API query parameters. The page size
// defaults to pagination.DefaultLimit and never exceeds pagination.MaxLimit.
func (f Filters) Query() url.Values {
	q := url.Values{}
	limit := 0
	if f.Limit != nil {
		limit = *f.Limit
	}
	q.Set("limit", strconv.Itoa(pagination.NormalizeLimit(limit)))

	setText := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	setInt := func(key string, value *int64) {
		if value != nil {
			q.Set(key, strconv.FormatInt(*value, 10))
		}
	}

	setText("search", f.Search)
	setText("make", f.Make)
	setText("model", f.Model)
	setText("transmission", f.Transmission)
	setText("fuelType", f.FuelType)
	setText("vehicleType", f.VehicleType)
	setInt("minPrice", f.MinPrice)
	setInt("maxPrice", f.MaxPrice)
	setInt("minPower", f.MinPower)
	setInt("maxPower", f.MaxPower)
	if f.Page != nil {
		q.Set("page", strconv.Itoa(*f.Page))
	}
	return q
}
