package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Unit tags the magnitude semantics of a parsed numeric value. Source sites
// publish "3.5%" and "218K" as strings; we parse the suffix exactly once and
// carry it alongside the magnitude from then on.
type Unit string

const (
	UnitNone     Unit = ""
	UnitPercent  Unit = "percent"
	UnitThousand Unit = "thousand"
)

// Value is a tagged numeric observation value.
type Value struct {
	Magnitude float64 `json:"magnitude"`
	Unit      Unit    `json:"unit,omitempty"`
}

// Num returns an untagged Value.
func Num(v float64) Value { return Value{Magnitude: v} }

// Pct returns a percent-tagged Value.
func Pct(v float64) Value { return Value{Magnitude: v, Unit: UnitPercent} }

// Thousands returns a K-tagged Value.
func Thousands(v float64) Value { return Value{Magnitude: v, Unit: UnitThousand} }

// Float64 returns the face value as published (218 for "218K", 3.5 for "3.5%").
func (v Value) Float64() float64 { return v.Magnitude }

// Scaled returns the magnitude-expanded value (218000 for "218K"). Percent
// and untagged values scale 1:1.
func (v Value) Scaled() float64 {
	if v.Unit == UnitThousand {
		return v.Magnitude * 1000
	}
	return v.Magnitude
}

// String renders the value the way the source published it.
func (v Value) String() string {
	s := strconv.FormatFloat(v.Magnitude, 'f', -1, 64)
	switch v.Unit {
	case UnitPercent:
		return s + "%"
	case UnitThousand:
		return s + "K"
	default:
		return s
	}
}

// MarshalJSON emits untagged values as JSON numbers and suffixed values as
// the original string form, matching the wire shape consumers already parse.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Unit == UnitNone {
		return json.Marshal(v.Magnitude)
	}
	return json.Marshal(v.String())
}

// UnmarshalJSON accepts either a JSON number or a suffixed string.
func (v *Value) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = Num(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("value must be number or string: %s", string(data))
	}
	parsed, err := ParseValue(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseValue parses a raw cell/string into a tagged Value. Trailing "%" and
// "K" suffixes become unit tags; all other non-numeric characters (thousands
// separators, currency marks, whitespace) are stripped before parsing.
func ParseValue(raw string) (Value, error) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" {
		return Value{}, fmt.Errorf("empty value")
	}

	unit := UnitNone
	switch {
	case strings.HasSuffix(s, "%"):
		unit = UnitPercent
		s = strings.TrimSuffix(s, "%")
	case strings.HasSuffix(s, "K"), strings.HasSuffix(s, "k"):
		unit = UnitThousand
		s = s[:len(s)-1]
	}

	cleaned := cleanNumeric(s)
	if cleaned == "" {
		return Value{}, fmt.Errorf("no numeric content in %q", raw)
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return Value{}, fmt.Errorf("parse %q: %w", raw, err)
	}
	return Value{Magnitude: f, Unit: unit}, nil
}

// MaybeValue parses a raw cell, returning nil for empty or unparseable text.
// Adapters use this for calendar cells where blank means "not yet released".
func MaybeValue(raw string) *Value {
	v, err := ParseValue(raw)
	if err != nil {
		return nil
	}
	return &v
}

func cleanNumeric(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
