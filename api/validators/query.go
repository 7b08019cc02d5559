package validators

import (
	"errors"
	"math"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/kdcar/kdcar-backend/internal/inventory"
)

// maxTextLen bounds free-text filter values; longer values are cut.
const maxTextLen = 200

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// listQuery holds the numeric inventory filters before range checks.
// Limit's upper bound mirrors pagination.MaxLimit.
type listQuery struct {
	MinPrice *int64 `query:"minPrice" validate:"omitnil,min=0"`
	MaxPrice *int64 `query:"maxPrice" validate:"omitnil,min=0"`
	MinPower *int64 `query:"minPower" validate:"omitnil,min=0"`
	MaxPower *int64 `query:"maxPower" validate:"omitnil,min=0"`
	Page     *int   `query:"page" validate:"omitnil,min=1"`
	Limit    *int   `query:"limit" validate:"omitnil,min=1,max=100"`
}

// InventoryFilters reads the listing filters from r's query string. Filters
// that are missing, unparseable or out of range are dropped, never rejected.
func InventoryFilters(r *http.Request) inventory.Filters {
	values := r.URL.Query()

	q := listQuery{
		MinPrice: queryInt64(values, "minPrice"),
		MaxPrice: queryInt64(values, "maxPrice"),
		MinPower: queryInt64(values, "minPower"),
		MaxPower: queryInt64(values, "maxPower"),
		Page:     queryInt(values, "page"),
		Limit:    queryInt(values, "limit"),
	}
	dropInvalid(&q)

	return inventory.Filters{
		Search:       queryText(values, "search"),
		Make:         queryText(values, "make"),
		Model:        queryText(values, "model"),
		Transmission: queryText(values, "transmission"),
		FuelType:     queryText(values, "fuelType"),
		VehicleType:  queryText(values, "vehicleType"),
		MinPrice:     q.MinPrice,
		MaxPrice:     q.MaxPrice,
		MinPower:     q.MinPower,
		MaxPower:     q.MaxPower,
		Page:         q.Page,
		Limit:        q.Limit,
	}
}

func dropInvalid(q *listQuery) {
	err := validate.Struct(q)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return
	}
	for _, fe := range verrs {
		switch fe.Field() {
		case "minPrice":
			q.MinPrice = nil
		case "maxPrice":
			q.MaxPrice = nil
		case "minPower":
			q.MinPower = nil
		case "maxPower":
			q.MaxPower = nil
		case "page":
			q.Page = nil
		case "limit":
			q.Limit = nil
		}
	}
}

func queryText(values url.Values, key string) string {
	value := strings.TrimSpace(values.Get(key))
	if utf8.RuneCountInString(value) <= maxTextLen {
		return value
	}
	return strings.TrimSpace(string([]rune(value)[:maxTextLen]))
}

func queryInt64(values url.Values, key string) *int64 {
	value, ok := ParseLeadingInt(values.Get(key))
	if !ok {
		return nil
	}
	return &value
}

func queryInt(values url.Values, key string) *int {
	value, ok := ParseLeadingInt(values.Get(key))
	if !ok || value > math.MaxInt32 || value < math.MinInt32 {
		return nil
	}
	v := int(value)
	return &v
}

// ParseLeadingInt parses the optionally signed run of decimal digits at the
// start of raw, ignoring leading whitespace and anything after the digits:
// "12abc" is 12, "abc" and "" fail. Values outside int64 fail too.
func ParseLeadingInt(raw string) (int64, bool) {
	s := strings.TrimLeft(raw, " \t\n\r\f\v")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	value, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
