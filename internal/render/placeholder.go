// internal/render/placeholder.go
package render

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// unknownValue is substituted for any placeholder whose path cannot be
// resolved. Rendering is total; a template never fails to render.
const unknownValue = "未知"

var placeholderPattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// Render substitutes every {{dot.path}} placeholder in content with the
// value found at that path in the request tree.
func Render(content string, data map[string]interface{}) string {
	return placeholderPattern.ReplaceAllStringFunc(content, func(m string) string {
		path := strings.TrimSpace(m[2 : len(m)-2])
		value, ok := lookupPath(data, path)
		if !ok {
			return unknownValue
		}
		return stringify(value)
	})
}

// lookupPath walks the dot-separated path through nested JSON objects.
// Any non-object intermediate or absent key fails the lookup.
func lookupPath(data map[string]interface{}, path string) (interface{}, bool) {
	var current interface{} = data
	for _, segment := range strings.Split(path, ".") {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = obj[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return unknownValue
	case string:
		return v
	case float64:
		// encoding/json decodes every number as float64; keep integers
		// free of a trailing ".0".
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}
