package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// numericPrefix matches the leading decimal literal of a string, so "42kg"
// reads as 42 and "1.5.3" as 1.5.
var numericPrefix = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// ParseNumeric is the single numeric coercion rule shared by classification,
// statistics, trend and anomaly detection.
func ParseNumeric(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(val)
	case float32:
		return finite(float64(val))
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		return parseNumericString(val.String())
	case string:
		return parseNumericString(val)
	case bool, time.Time:
		return 0, false
	default:
		return parseNumericString(fmt.Sprint(val))
	}
}

func parseNumericString(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	prefix := numericPrefix.FindString(s)
	if prefix == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// NumericValues coerces a value series, dropping non-numeric entries and
// keeping the relative order of the rest.
func NumericValues(values []interface{}) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := ParseNumeric(v); ok {
			out = append(out, f)
		}
	}
	return out
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04:05",
	"02-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC822,
}

// ParseDate reports whether v denotes a calendar date.
func ParseDate(v interface{}) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, !val.IsZero()
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// isValid reports whether a cell counts toward classification denominators.
func isValid(v interface{}) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok && s == "" {
		return false
	}
	return true
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
