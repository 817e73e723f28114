package extract

import "strings"

type unitAlias struct {
	abbr      string
	canonical string
}

// units maps device abbreviations to canonical names. Longer abbreviations
// come first so suffix matching picks "kWh" before "Wh" before "W".
var units = []unitAlias{
	{"kWh", "kilowatt_hour"},
	{"Wh", "watt_hour"},
	{"Hz", "hertz"},
	{"°C", "celsius"},
	{"%", "percent"},
	{"V", "volt"},
	{"A", "ampere"},
	{"W", "watt"},
}

// LookupUnit maps an abbreviation to its canonical name. Unknown
// abbreviations are returned lowercased; blank input yields "".
func LookupUnit(abbr string) string {
	abbr = strings.TrimSpace(abbr)
	if abbr == "" {
		return ""
	}
	for _, u := range units {
		if strings.EqualFold(abbr, u.abbr) {
			return u.canonical
		}
	}
	return strings.ToLower(abbr)
}

// SplitUnit separates a combined "value unit" string. When text ends with a
// known abbreviation, matched case-sensitively, the trimmed prefix and the
// canonical unit name are returned; otherwise the trimmed text and an empty
// unit.
func SplitUnit(text string) (value, unit string) {
	text = strings.TrimSpace(text)
	for _, u := range units {
		if v, ok := strings.CutSuffix(text, u.abbr); ok {
			return strings.TrimSpace(v), u.canonical
		}
	}
	return text, ""
}
