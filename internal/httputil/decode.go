package httputil

import (
	"bytes"
	"encoding/json"
)

// LooseString reads a form value sent by a browser client. Strings are taken
// as is, numbers and booleans as their JSON text; null, objects and arrays
// read as "".
func LooseString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	switch v.(type) {
	case float64, bool:
		return string(bytes.TrimSpace(raw))
	}
	return ""
}

// Truthy reports whether raw holds a value other than a missing field, null,
// false, 0 or "".
func Truthy(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	}
	return true
}
