package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type valueKind uint8

const (
	kindUnset valueKind = iota
	kindNumeric
	kindMalformed
)

// Value is an optional user-entered decimal. It is Unset when the field was
// left empty, Numeric when it holds a finite number, and Malformed when it
// holds text that is not a number. Malformed values count as present but
// parse as 0.
type Value struct {
	raw  string
	num  float64
	kind valueKind
}

// Unset returns an empty value.
func Unset() Value {
	return Value{}
}

// Numeric returns a present value holding v.
func Numeric(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Value{raw: strconv.FormatFloat(v, 'f', -1, 64), kind: kindMalformed}
	}
	return Value{raw: strconv.FormatFloat(v, 'f', -1, 64), num: v, kind: kindNumeric}
}

// ParseValue converts raw user input into a Value.
func ParseValue(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Value{}
	}
	if strings.ContainsAny(trimmed, "xX_") {
		return Value{raw: trimmed, kind: kindMalformed}
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Value{raw: trimmed, kind: kindMalformed}
	}
	return Value{raw: trimmed, num: v, kind: kindNumeric}
}

// IsSet reports whether the field holds any input at all.
func (v Value) IsSet() bool {
	return v.kind != kindUnset
}

// Valid reports whether the field holds a usable number.
func (v Value) Valid() bool {
	return v.kind == kindNumeric
}

// Float returns the numeric value, or 0 for unset and malformed input.
func (v Value) Float() float64 {
	if v.kind != kindNumeric {
		return 0
	}
	return v.num
}

// Raw returns the text the value was parsed from.
func (v Value) Raw() string {
	return v.raw
}

func (v Value) String() string {
	return v.raw
}

// MarshalJSON encodes the value as its raw text, the shape the browser
// version of the tracker stores in local storage.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

// UnmarshalJSON accepts a string, a number or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Value{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode value: %w", err)
		}
		*v = ParseValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("failed to decode value %s: %w", data, err)
	}
	*v = ParseValue(n.String())
	return nil
}
