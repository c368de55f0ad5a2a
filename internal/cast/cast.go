// Package cast provides type conversion helpers for values produced by executed files.
package cast

import (
	"fmt"
	"reflect"
)

// ToStringMap converts v to map[string]any. nil yields an empty map.
// Accepts map[string]any, map[any]any and any other map kind whose keys format as strings.
// Returns false for non-map values.
func ToStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case nil:
		return map[string]any{}, true
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
	}
	return out, true
}
