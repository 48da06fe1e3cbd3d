package models

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json"
)

// Kind is the JSON token type a Value was decoded from
type Kind uint8

const (
	KindMissing Kind = iota // absent or null
	KindNumber
	KindString
	KindBool
	KindOther // array or object
)

// Value is a loosely typed measurement. The endpoint is not validated, so a
// field that is missing, null or not a number decodes into a Value that
// remembers what was sent instead of failing the whole dataset.
type Value struct {
	Float float64 // only meaningful when Valid
	Valid bool // a JSON number was decoded
	Set   bool // the field was present and not null
	Kind  Kind
	Raw   string // string contents, "true"/"false", or the raw array/object text
}

// Number returns a valid Value holding f
func Number(f float64) Value {
	return Value{Float: f, Valid: true, Set: true, Kind: KindNumber}
}

// Text returns a Value decoded from a JSON string
func Text(s string) Value {
	return Value{Set: true, Kind: KindString, Raw: s}
}

// Bool returns a Value decoded from a JSON boolean
func Bool(b bool) Value {
	return Value{Set: true, Kind: KindBool, Raw: strconv.FormatBool(b)}
}

// UnmarshalJSON accepts any JSON token
func (v *Value) UnmarshalJSON(b []byte) error {
	*v = Value{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			s = strings.Trim(string(b), `"`)
		}
		*v = Text(s)
	case 't', 'f':
		*v = Bool(b[0] == 't')
	case '[', '{':
		*v = Value{Set: true, Kind: KindOther, Raw: string(b)}
	default:
		f, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			*v = Value{Set: true, Kind: KindOther, Raw: string(b)}
			return nil
		}
		*v = Number(f)
	}
	return nil
}

// MarshalJSON writes the value back as the token it came from. Missing
// values and non-finite numbers are written as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Raw)
	case KindBool, KindOther:
		return []byte(v.Raw), nil
	}
	if !v.Valid || math.IsNaN(v.Float) || math.IsInf(v.Float, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v.Float, 'f', -1, 64), nil
}

// Truthy follows JavaScript truthiness: false for missing, null, zero, NaN,
// the empty string and false; true for everything else.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNumber:
		return v.Float != 0 && !math.IsNaN(v.Float)
	case KindString:
		return v.Raw != ""
	case KindBool:
		return v.Raw == "true"
	case KindOther:
		return true
	}
	return v.Valid && v.Float != 0 && !math.IsNaN(v.Float)
}

// String formats the value the way JavaScript string concatenation would
func (v Value) String() string {
	switch v.Kind {
	case KindString, KindBool:
		return v.Raw
	case KindOther:
		return jsString(v.Raw)
	}
	return v.NumberString()
}

// NumberString formats the value as a plotted number: "NaN" when something
// other than a number was sent and "undefined" when nothing was.
func (v Value) NumberString() string {
	switch {
	case v.Valid:
		return formatNumber(v.Float)
	case v.Set:
		return "NaN"
	default:
		return "undefined"
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// jsString renders raw array or object JSON like String() in JavaScript
func jsString(raw string) string {
	var x any
	if err := json.Unmarshal([]byte(raw), &x); err != nil {
		return raw
	}
	return jsAny(x, false)
}

func jsAny(x any, inArray bool) string {
	switch t := x.(type) {
	case nil:
		if inArray {
			return ""
		}
		return "null"
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return formatNumber(t)
	case string:
		return t
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = jsAny(e, true)
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}

// Label is the record's date as sent by the endpoint. Non-string JSON is
// kept as its raw text.
type Label string

// UnmarshalJSON accepts a string or any other token
func (l *Label) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*l = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*l = Label(s)
		return nil
	}
	*l = Label(b)
	return nil
}
