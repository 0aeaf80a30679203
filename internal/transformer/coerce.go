package transformer

import (
	"math"
	"strconv"
	"strings"
)

// Canonical platform-support values written to the store.
const (
	FlagTrue  = "True"
	FlagFalse = "False"
)

// ParseCount parses a count-like field. Missing or unparseable input yields 0.
// Thousands separators ("1,234") and integral floats ("12.0") are accepted.
func ParseCount(s string) int64 {
	v, ok := toInt(s)
	if !ok {
		return 0
	}
	return v
}

// ParseNullableInt parses an optional integer; missing or unparseable input
// yields nil.
func ParseNullableInt(s string) *int64 {
	v, ok := toInt(s)
	if !ok {
		return nil
	}
	return &v
}

// ParseAchievements returns nil when s is missing or the literal "0",
// otherwise the parsed integer (nil when unparseable).
func ParseAchievements(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return nil
	}
	return ParseNullableInt(s)
}

// ParsePrice parses a price. Missing, unparseable or non-finite input yields 0.
// A leading "$" is tolerated.
func ParsePrice(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// NormalizePlatformFlag maps truthy/falsy spellings onto "True"/"False".
// Any other non-empty value passes through unchanged; empty yields nil.
func NormalizePlatformFlag(s string) *string {
	if s == "" {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "1", "yes", "y":
		v := FlagTrue
		return &v
	case "false", "f", "0", "no", "n":
		v := FlagFalse
		return &v
	}
	return &s
}

// NullableText returns nil for the empty string and &s otherwise.
func NullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// toInt parses integers quickly and only falls back to float parsing when
// the field contains a '.' (supporting inputs like "42.0").
func toInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}
	if strings.IndexByte(s, ',') >= 0 {
		s = strings.ReplaceAll(s, ",", "")
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
	}
	if strings.IndexByte(s, '.') >= 0 {
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) &&
			f >= math.MinInt64 && f < math.MaxInt64 {
			return int64(f), true
		}
	}
	return 0, false
}
