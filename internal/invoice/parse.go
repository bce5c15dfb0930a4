package invoice

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var leadingNumber = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)`)

// ParseNumber reads a loosely formatted numeric field.
//
// Strings may carry currency symbols, unit suffixes and either separator
// convention. A comma is always the decimal separator: when one is present,
// dots are grouping and get dropped ("1.200,50" -> 1200.5), so "1,200" reads
// as 1.2. Without a comma the dot is the decimal separator. Anything that is
// not a digit or a dot is then discarded and the longest leading number is
// parsed. The sign is discarded with the rest of the symbols.
//
// ok is false when the input is absent or holds no digits.
func ParseNumber(raw any) (float64, bool) {
	var s string

	switch v := raw.(type) {
	case nil:
		return 0, false
	case bool:
		return 0, false
	case string:
		s = v
	case json.Number:
		s = string(v)
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return math.Abs(float64(v)), true
	case int64:
		return math.Abs(float64(v)), true
	case int32:
		return math.Abs(float64(v)), true
	default:
		s = fmt.Sprint(v)
	}

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	s = strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}

		return -1
	}, s)

	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(strings.TrimSuffix(m, "."), 64)
	if err != nil {
		return 0, false
	}

	return v, true
}

// ParseNumericValue is ParseNumber with absence collapsed to zero.
// Callers cannot tell "unparseable" from a genuine zero.
func ParseNumericValue(raw any) float64 {
	v, _ := ParseNumber(raw)
	return v
}

func finite(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	return math.Abs(v), true
}

// ParseInvoiceType maps a free-text label onto the known invoice types.
// Unknown labels are returned title-cased.
func ParseInvoiceType(raw string) Type {
	label := strings.TrimSpace(raw)
	lower := strings.ToLower(label)

	switch {
	case lower == "":
		return ""
	case containsAny(lower, "energ", "electric", "luz"):
		return TypeEnergy
	case containsAny(lower, "agua", "water", "acueducto"):
		return TypeWater
	case containsAny(lower, "acta", "minute"):
		return TypeMinutes
	}

	// Casers are stateful, so one per call.
	return Type(cases.Title(language.Spanish).String(label))
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}

	return false
}
