package pagination

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// DefaultLimit is the page size requested from the inventory API when a
	// caller does not provide one.
	DefaultLimit = 12
	// MaxLimit caps how many records a single page can request.
	MaxLimit = 100
)

// Page is the page-number pagination block returned by the inventory API.
type Page struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

var maxCount = decimal.NewFromInt(math.MaxInt32)

// UnmarshalJSON accepts counts sent as integers, floats or numeric strings
// and flags sent as booleans, numbers or strings. Values it cannot read
// become zero, and a block that is not an object decodes as empty.
func (p *Page) UnmarshalJSON(data []byte) error {
	*p = Page{}
	var raw struct {
		Page       json.RawMessage `json:"page"`
		Limit      json.RawMessage `json:"limit"`
		Total      json.RawMessage `json:"total"`
		TotalPages json.RawMessage `json:"totalPages"`
		HasNext    json.RawMessage `json:"hasNext"`
		HasPrev    json.RawMessage `json:"hasPrev"`
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' || json.Unmarshal(trimmed, &raw) != nil {
		return nil
	}
	*p = Page{
		Page:       count(raw.Page),
		Limit:      count(raw.Limit),
		Total:      count(raw.Total),
		TotalPages: count(raw.TotalPages),
		HasNext:    flag(raw.HasNext),
		HasPrev:    flag(raw.HasPrev),
	}
	return nil
}

func scalar(raw json.RawMessage) string {
	value := strings.TrimSpace(string(raw))
	if unquoted, err := strconv.Unquote(value); err == nil {
		value = strings.TrimSpace(unquoted)
	}
	return value
}

// count truncates toward zero and clamps into 0..MaxInt32.
func count(raw json.RawMessage) int {
	d, err := decimal.NewFromString(scalar(raw))
	if err != nil || d.IsNegative() {
		return 0
	}
	if d.GreaterThan(maxCount) {
		return math.MaxInt32
	}
	return int(d.IntPart())
}

func flag(raw json.RawMessage) bool {
	value := scalar(raw)
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	d, err := decimal.NewFromString(value)
	return err == nil && !d.IsZero()
}

// NormalizeLimit enforces the default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
