package legacyimport

import (
	"strconv"
	"strings"
)

// Store documents come back with JSON-shaped values: numbers as float64, and
// legacy ids occasionally persisted as strings by the prior system. The
// helpers below coerce both to one canonical form.

func fieldString(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func fieldInt64(fields map[string]any, key string) (int64, bool) {
	switch v := fields[key].(type) {
	case float64:
		asInt := int64(v)
		if float64(asInt) != v {
			return 0, false
		}
		return asInt, true
	case int64:
		return v, true
	case int:
		return int64(v), true
	case string:
		return ParseLegacyID(v)
	default:
		return 0, false
	}
}
