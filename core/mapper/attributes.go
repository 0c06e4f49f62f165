package mapper

import (
	"fmt"
	"strings"

	"multicloud-cost/core/types"
)

// Attributes is a native attribute map using Terraform attribute names
type Attributes map[string]any

// String returns the first non-empty string attribute among keys
func (a Attributes) String(keys ...string) string {
	for _, k := range keys {
		if s, ok := a[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// Float returns the first numeric attribute among keys.
// Strings holding numbers count; zero values are skipped like absent ones.
func (a Attributes) Float(keys ...string) (float64, bool) {
	for _, k := range keys {
		v, present := a[k]
		if !present || v == nil {
			continue
		}
		if f, ok := types.ToFloat(v); ok && f != 0 {
			return f, true
		}
	}
	return 0, false
}

// Bool reports whether any of keys holds a truthy value
func (a Attributes) Bool(keys ...string) bool {
	for _, k := range keys {
		if v, ok := a[k]; ok && types.ToBool(v) {
			return true
		}
	}
	return false
}

// Block returns a nested block. Terraform state encodes single nested blocks
// as one-element lists, SDK adapters usually as plain maps; both are accepted.
func (a Attributes) Block(key string) Attributes {
	switch v := a[key].(type) {
	case map[string]any:
		return v
	case Attributes:
		return v
	case []any:
		if len(v) > 0 {
			if m, ok := v[0].(map[string]any); ok {
				return m
			}
		}
	case []map[string]any:
		if len(v) > 0 {
			return v[0]
		}
	}
	return nil
}

// StringMap returns a map attribute with values rendered as strings
func (a Attributes) StringMap(key string) map[string]string {
	out := make(map[string]string)
	switch m := a[key].(type) {
	case map[string]any:
		for k, v := range m {
			if v == nil {
				continue
			}
			if s, ok := v.(string); ok {
				out[k] = s
			} else {
				out[k] = fmt.Sprint(v)
			}
		}
	case map[string]string:
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
