package v1

import (
	"fmt"
	"reflect"
)

// Text returns the textual form of v that pattern keys are matched against.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	case error:
		return t.Error()
	default:
		return fmt.Sprint(v)
	}
}

// isBatch reports whether arg is a batch query. Every slice other than
// []byte is a batch.
func isBatch(arg any) bool {
	switch arg.(type) {
	case nil, string, []byte:
		return false
	case []any:
		return true
	}
	return reflect.TypeOf(arg).Kind() == reflect.Slice
}

// spread flattens v exactly one level: nil yields nothing, a slice (other
// than []byte) yields its elements, anything else yields itself.
func spread(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	case []byte, string:
		return []any{v}
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// isNil reports whether v is nil or a typed nil pointer, map, channel,
// function or interface. Nil slices are values and do not count.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// hashable reports whether v can be used as a Go map key without panicking.
// Interface values are checked by their dynamic content.
func hashable(v any) bool {
	switch v.(type) {
	case nil, string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr,
		float32, float64, complex64, complex128:
		return true
	}
	return hashableValue(reflect.ValueOf(v))
}

func hashableValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Invalid:
		return true
	case reflect.Slice, reflect.Map, reflect.Func:
		return false
	case reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return hashableValue(rv.Elem())
	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if !hashableValue(rv.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			if !hashableValue(rv.Field(i)) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// equal compares two items with Go == when both are hashable and with
// reflect.DeepEqual otherwise.
func equal(a, b any) bool {
	if hashable(a) && hashable(b) {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
