package i18n

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Regex to find placeholders in the form {name}. The capture may contain a
// comma, which marks an ICU-style directive rather than a variable.
var placeholderRegex = regexp.MustCompile(`\{([^{}]+)\}`)

// Interpolate substitutes {var} placeholders in a catalog string.
// Brace groups containing a comma look like ICU pluralization directives
// ("{count, plural, ...}") and are left untouched. Unknown variables keep
// their original placeholder so missing data is visible instead of silent.
func Interpolate(s string, vars map[string]any) string {
	if len(vars) == 0 {
		return s
	}

	return placeholderRegex.ReplaceAllStringFunc(s, func(match string) string {
		name := match[1 : len(match)-1]
		if strings.Contains(name, ",") {
			return match
		}
		name = strings.TrimSpace(name)
		if val, ok := vars[name]; ok {
			return Stringify(val)
		}
		return match
	})
}

// Stringify converts a template variable to its string form. Plain-text
// rendering must never fail on unknown types: primitives are formatted,
// composites become JSON and anything unrepresentable degrades to a literal
// placeholder.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return "[unknown]"
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return fmt.Sprint(val)
	case error:
		return val.Error()
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return "[object]"
		}
		return string(encoded)
	}
}
