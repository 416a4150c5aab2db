package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// CoerceScalar converts a user-supplied value into the JSON type it reads as.
// "true"/"false" become bools, integer literals become int64, other numbers
// become float64 and everything else stays a string. forceString bypasses
// the guessing for values like "42" that really are text.
func CoerceScalar(raw string, forceString bool) any {
	if forceString {
		return raw
	}

	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	}

	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}

	return raw
}

// ToString converts various types to string.
func ToString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		// Trailing zeros read badly in field tables
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
