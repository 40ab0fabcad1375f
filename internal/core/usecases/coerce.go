// internal/core/usecases/coerce.go
package usecases

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// defaultCoerceDepth bounds the recursion of CoerceScalar. Stored rule values
// have been observed as JSON-in-JSON several levels deep.
const defaultCoerceDepth = 12

// coercePriorityKeys are probed in order when coercing an object to a scalar.
var coercePriorityKeys = []string{"value", "label", "text", "title", "name", "id", "key", "code"}

// CoerceScalar reduces a value of unknown shape to a scalar string.
//
// Strings are trimmed; strings that look like embedded JSON are parsed and
// recursed into. Arrays yield the first non-empty coerced element. Objects
// probe a fixed priority list of value-holding keys before falling back to
// their remaining fields in sorted order. Recursion is depth-bounded.
func CoerceScalar(v any) string {
	return coerceScalar(v, defaultCoerceDepth)
}

func coerceScalar(v any, depth int) string {
	if depth <= 0 {
		return ""
	}

	switch t := v.(type) {
	case nil:
		return ""

	case string:
		s := strings.TrimSpace(t)
		if looksLikeJSON(s) {
			var parsed any
			if err := json.Unmarshal([]byte(s), &parsed); err == nil {
				return coerceScalar(parsed, depth-1)
			}
		}
		return s

	case bool:
		if t {
			return "true"
		}
		return "false"

	case float64:
		return formatNumber(t)

	case int:
		return strconv.Itoa(t)

	case int64:
		return strconv.FormatInt(t, 10)

	case json.Number:
		return t.String()

	case []any:
		for _, item := range t {
			if out := coerceScalar(item, depth-1); out != "" {
				return out
			}
		}
		return ""

	case map[string]any:
		for _, key := range coercePriorityKeys {
			if inner, ok := t[key]; ok {
				if out := coerceScalar(inner, depth-1); out != "" {
					return out
				}
			}
		}
		// fall back to the remaining fields, sorted for determinism
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if out := coerceScalar(t[k], depth-1); out != "" {
				return out
			}
		}
		return ""

	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// looksLikeJSON reports whether a string appears to hold an embedded JSON
// object or array.
func looksLikeJSON(s string) bool {
	if len(s) < 2 {
		return false
	}
	return (s[0] == '{' && s[len(s)-1] == '}') || (s[0] == '[' && s[len(s)-1] == ']')
}

// formatNumber renders a number without a trailing ".0" for whole values.
func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
