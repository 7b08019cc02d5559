package carms

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kdcar/kdcar-backend/pkg/pagination"
)

// Kind tags which variant of a loosely typed field was received.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindText
	KindNumber
	KindBool
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	default:
		return "absent"
	}
}

// Text is a field that is either a JSON string or absent. Any other JSON
// type decodes as absent.
type Text struct {
	Kind  Kind
	Value string
}

// TextOf builds a present Text.
func TextOf(value string) Text {
	return Text{Kind: KindText, Value: value}
}

// Identifier is a record id sent as either a string or a number.
type Identifier struct {
	Kind   Kind
	Text   string
	Number decimal.Decimal
}

func IdentifierText(value string) Identifier {
	return Identifier{Kind: KindText, Text: value}
}

func IdentifierNumber(value decimal.Decimal) Identifier {
	return Identifier{Kind: KindNumber, Number: value}
}

// Numeric is a quantity sent as a JSON number or as free text such as
// "12.345 €" or "450 PS".
type Numeric struct {
	Kind   Kind
	Number decimal.Decimal
	Text   string
}

func NumericNumber(value decimal.Decimal) Numeric {
	return Numeric{Kind: KindNumber, Number: value}
}

func NumericInt(value int64) Numeric {
	return NumericNumber(decimal.NewFromInt(value))
}

func NumericText(value string) Numeric {
	return Numeric{Kind: KindText, Text: value}
}

// Flag is a yes/no value sent as a bool, a number or text.
type Flag struct {
	Kind   Kind
	Bool   bool
	Number decimal.Decimal
	Text   string
}

func FlagBool(value bool) Flag {
	return Flag{Kind: KindBool, Bool: value}
}

func FlagNumber(value decimal.Decimal) Flag {
	return Flag{Kind: KindNumber, Number: value}
}

func FlagText(value string) Flag {
	return Flag{Kind: KindText, Text: value}
}

// TextList is either a list of strings, a string holding a JSON array or a
// comma/semicolon delimited list, or absent. Non-string list entries are
// dropped while decoding.
type TextList struct {
	Kind Kind
	List []string
	Text string
}

func TextListOf(values ...string) TextList {
	return TextList{Kind: KindList, List: values}
}

func TextListText(value string) TextList {
	return TextList{Kind: KindText, Text: value}
}

// RawCar is one vehicle as the inventory API (and the bundled fallback
// catalog) delivers it.
type RawCar struct {
	ID                Identifier `json:"id"`
	Slug              Text       `json:"slug"`
	Brand             Text       `json:"brand"`
	Model             Text       `json:"model"`
	Title             Text       `json:"title"`
	FirstRegistration Text       `json:"firstRegistration"`
	Kilometers        Numeric    `json:"kilometers"`
	Transmission      Text       `json:"transmission"`
	Power             Numeric    `json:"power"`
	Price             Numeric    `json:"price"`
	VAT               Flag       `json:"vat"`
	Images            TextList   `json:"images"`
	Image             Text       `json:"image"`
	Description       Text       `json:"description"`
	Features          TextList   `json:"features"`
	FuelType          Text       `json:"fuelType"`
	VehicleType       Text       `json:"vehicleType"`
	URL               Text       `json:"url"`
	Engine            Text       `json:"engine"`
	Horsepower        Text       `json:"horsepower"`
	ExteriorColor     Text       `json:"exteriorColor"`
	InteriorColor     Text       `json:"interiorColor"`
}

// UnmarshalJSON decodes an object field by field. Any other JSON value, or
// an object that still fails to decode, becomes an empty record so one bad
// element never discards the rest of a page.
func (r *RawCar) UnmarshalJSON(data []byte) error {
	type fields RawCar
	var decoded fields
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' || json.Unmarshal(trimmed, &decoded) != nil {
		*r = RawCar{}
		return nil
	}
	*r = RawCar(decoded)
	return nil
}

// ListResponse is the envelope of GET /cars.
type ListResponse struct {
	Success    bool             `json:"success"`
	Data       []RawCar         `json:"data"`
	Pagination *pagination.Page `json:"pagination,omitempty"`
	Error      string           `json:"error,omitempty"`
	Code       string           `json:"code,omitempty"`
}

// SingleResponse is the envelope of GET /cars/{slug}.
type SingleResponse struct {
	Success bool    `json:"success"`
	Data    *RawCar `json:"data"`
	Error   string  `json:"error,omitempty"`
	Code    string  `json:"code,omitempty"`
}

const maxExponent = 308

// jsonKind classifies a raw JSON value by its first significant byte.
func jsonKind(data []byte) Kind {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return KindAbsent
	}
	switch c := trimmed[0]; {
	case c == '"':
		return KindText
	case c == 't' || c == 'f':
		return KindBool
	case c == '[':
		return KindList
	case c == '-' || (c >= '0' && c <= '9'):
		return KindNumber
	default:
		return KindAbsent
	}
}

func decodeString(data []byte) (string, bool) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", false
	}
	return s, true
}

func decodeNumber(data []byte) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(string(data)))
	if err != nil {
		return decimal.Zero, false
	}
	// Outside float64 range the value cannot come from a real inventory.
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero, false
	}
	return d, true
}

func (t *Text) UnmarshalJSON(data []byte) error {
	*t = Text{}
	if jsonKind(data) != KindText {
		return nil
	}
	if s, ok := decodeString(data); ok {
		*t = TextOf(s)
	}
	return nil
}

func (t Text) MarshalJSON() ([]byte, error) {
	if t.Kind != KindText {
		return []byte("null"), nil
	}
	return json.Marshal(t.Value)
}

func (id *Identifier) UnmarshalJSON(data []byte) error {
	*id = Identifier{}
	switch jsonKind(data) {
	case KindText:
		if s, ok := decodeString(data); ok {
			*id = IdentifierText(s)
		}
	case KindNumber:
		if d, ok := decodeNumber(data); ok {
			*id = IdentifierNumber(d)
		}
	}
	return nil
}

func (id Identifier) MarshalJSON() ([]byte, error) {
	switch id.Kind {
	case KindText:
		return json.Marshal(id.Text)
	case KindNumber:
		return []byte(id.Number.String()), nil
	}
	return []byte("null"), nil
}

func (n *Numeric) UnmarshalJSON(data []byte) error {
	*n = Numeric{}
	switch jsonKind(data) {
	case KindText:
		if s, ok := decodeString(data); ok {
			*n = NumericText(s)
		}
	case KindNumber:
		if d, ok := decodeNumber(data); ok {
			*n = NumericNumber(d)
		}
	}
	return nil
}

func (n Numeric) MarshalJSON() ([]byte, error) {
	switch n.Kind {
	case KindText:
		return json.Marshal(n.Text)
	case KindNumber:
		return []byte(n.Number.String()), nil
	}
	return []byte("null"), nil
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	*f = Flag{}
	switch jsonKind(data) {
	case KindBool:
		var b bool
		if err := json.Unmarshal(data, &b); err == nil {
			*f = FlagBool(b)
		}
	case KindText:
		if s, ok := decodeString(data); ok {
			*f = FlagText(s)
		}
	case KindNumber:
		if d, ok := decodeNumber(data); ok {
			*f = FlagNumber(d)
		}
	}
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	switch f.Kind {
	case KindBool:
		return json.Marshal(f.Bool)
	case KindText:
		return json.Marshal(f.Text)
	case KindNumber:
		return []byte(f.Number.String()), nil
	}
	return []byte("null"), nil
}

func (l *TextList) UnmarshalJSON(data []byte) error {
	*l = TextList{}
	switch jsonKind(data) {
	case KindText:
		if s, ok := decodeString(data); ok {
			*l = TextListText(s)
		}
	case KindList:
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil
		}
		list := make([]string, 0, len(items))
		for _, item := range items {
			if jsonKind(item) != KindText {
				continue
			}
			if s, ok := decodeString(item); ok {
				list = append(list, s)
			}
		}
		*l = TextListOf(list...)
	}
	return nil
}

func (l TextList) MarshalJSON() ([]byte, error) {
	switch l.Kind {
	case KindText:
		return json.Marshal(l.Text)
	case KindList:
		if l.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(l.List)
	}
	return []byte("null"), nil
}
