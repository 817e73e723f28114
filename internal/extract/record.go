package extract

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Record is one normalized reading taken from a status table row.
type Record struct {
	// Name is the normalized metric name including the unit suffix.
	Name string
	// Unit is the canonical unit name, or the literal abbreviation when it is
	// not in the unit table. Empty when the row has no unit.
	Unit      string
	Value     Value
	Timestamp time.Time
}

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindText Kind = iota
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "text"
	}
}

// Value is the coerced cell content. Only the field selected by Kind is set.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Text  string
}

// IntValue, FloatValue and TextValue construct the three variants.
func IntValue(i int64) Value     { return Value{Kind: KindInt, Int: i} }
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func TextValue(s string) Value   { return Value{Kind: KindText, Text: s} }

// IsNumeric reports whether the value can be exposed as a sample.
func (v Value) IsNumeric() bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}

// faultCode matches status texts such as "Fault (3)".
var faultCode = regexp.MustCompile(`^.*\s\((\d+)\)$`)

// Coerce converts raw cell text into a Value. A '.' selects float parsing,
// otherwise integer parsing is tried; integers beyond int64 become floats.
// If that fails a trailing parenthesized code is extracted; anything else
// stays text.
func Coerce(raw string) Value {
	s := strings.TrimSpace(raw)

	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return FloatValue(f)
		}
	} else if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntValue(i)
	} else if errors.Is(err, strconv.ErrRange) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return FloatValue(f)
		}
	}

	if m := faultCode.FindStringSubmatch(s); m != nil {
		if i, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return IntValue(i)
		}
	}
	return TextValue(s)
}

// NormalizeName lowercases s and maps it onto [a-z0-9_]. Every '.' becomes
// '_'; a run of any other characters outside that set collapses into a
// single '_'. Already normalized names are returned unchanged.
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			if pending {
				b.WriteByte('_')
				pending = false
			}
			b.WriteRune(r)
		case r == '.':
			if pending {
				b.WriteByte('_')
				pending = false
			}
			b.WriteByte('_')
		default:
			pending = true
		}
	}
	if pending {
		b.WriteByte('_')
	}
	return b.String()
}

// metricName joins a normalized name with the unit suffix, if any.
func metricName(name, unit string) string {
	name = NormalizeName(name)
	if name == "" {
		return ""
	}
	if suffix := NormalizeName(unit); suffix != "" {
		return name + "_" + suffix
	}
	return name
}
