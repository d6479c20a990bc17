// Package clinic holds the resource shapes exchanged with the clinic API.
package clinic

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Record is one JSON object returned by a resource endpoint. The server owns
// the schemas, so records are passed through as decoded.
type Record map[string]any

// ID returns the "id" field rendered as a string, or "" when absent.
func (r Record) ID() string {
	switch v := r["id"].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// String returns field key when it is a string.
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Bool returns field key when it is a boolean.
func (r Record) Bool(key string) (bool, bool) {
	b, ok := r[key].(bool)
	return b, ok
}
