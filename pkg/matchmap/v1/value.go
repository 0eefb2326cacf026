package v1

import (
	"fmt"
	"reflect"
	"slices"
)

// ValueKind distinguishes the three kinds of stored value.
type ValueKind uint8

const (
	// ScalarValue contributes a single item.
	ScalarValue ValueKind = iota
	// ManyValue contributes each of its items.
	ManyValue
	// TransformValue contributes whatever its Transformer returns.
	TransformValue
)

func (k ValueKind) String() string {
	switch k {
	case ScalarValue:
		return "scalar"
	case ManyValue:
		return "many"
	case TransformValue:
		return "transform"
	default:
		return fmt.Sprintf("ValueKind(%d)", uint8(k))
	}
}

// Match describes why an entry matched. For literal keys only Arg is set.
// For pattern keys Groups holds the submatches (Groups[0] is the whole match)
// and Names the subexpression names of the pattern.
type Match struct {
	Arg    any
	Groups []string
	Names  []string
}

// Text returns the whole match for pattern keys and the textual form of the
// argument for literal keys.
func (m Match) Text() string {
	if len(m.Groups) > 0 {
		return m.Groups[0]
	}
	return Text(m.Arg)
}

// Group returns submatch i, or "" when it does not exist.
func (m Match) Group(i int) string {
	if i < 0 || i >= len(m.Groups) {
		return ""
	}
	return m.Groups[i]
}

// Named returns the submatch of the named group, or "" when there is none.
func (m Match) Named(name string) string {
	if name == "" {
		return ""
	}
	for i, n := range m.Names {
		if n == name {
			return m.Group(i)
		}
	}
	return ""
}

// IsPattern reports whether the match came from a pattern key.
func (m Match) IsPattern() bool { return m.Groups != nil }

// Transformer computes the contribution of an entry from its match. A nil or
// empty result contributes nothing and a slice result is flattened one level.
// A returned error aborts the lookup and is passed through unchanged.
type Transformer func(Match) (any, error)

// Value is the value descriptor stored under a Key.
// The zero Value is Scalar(nil), which contributes nothing.
type Value struct {
	kind ValueKind
	one  any
	many []any
	fn   Transformer
}

// Scalar returns a value contributing v as a single item, even if v is a slice.
func Scalar(v any) Value {
	return Value{kind: ScalarValue, one: v}
}

// Many returns a value contributing each of vs. Nested slices are kept as is.
func Many(vs ...any) Value {
	return Value{kind: ManyValue, many: slices.Clone(vs)}
}

// Transform returns a value computed by fn on every match.
func Transform(fn Transformer) Value {
	return Value{kind: TransformValue, fn: fn}
}

// ValueOf classifies a plain Go value: a Value is returned as is, functions
// of type Transformer (or func(Match) any) become Transform, slices other
// than []byte become Many, and anything else becomes Scalar.
func ValueOf(v any) Value {
	switch t := v.(type) {
	case Value:
		return t
	case Transformer:
		return Transform(t)
	case func(Match) (any, error):
		return Transform(t)
	case func(Match) any:
		return Transform(func(m Match) (any, error) { return t(m), nil })
	case []any:
		return Many(t...)
	case nil, []byte, string:
		return Scalar(v)
	}
	if reflect.TypeOf(v).Kind() == reflect.Slice {
		return Value{kind: ManyValue, many: spread(v)}
	}
	return Scalar(v)
}

// Kind returns the value kind.
func (v Value) Kind() ValueKind { return v.kind }

// Items returns the static items contributed by a scalar or many value, and
// nil for transformers.
func (v Value) Items() []any {
	switch v.kind {
	case ScalarValue:
		if v.one == nil {
			return nil
		}
		return []any{v.one}
	case ManyValue:
		return v.many
	default:
		return nil
	}
}

// Transformer returns the function of a transform value, or nil.
func (v Value) Transformer() Transformer { return v.fn }

// contribute appends the items v contributes for match m to out.
func (v Value) contribute(out []any, m Match) ([]any, error) {
	switch v.kind {
	case ScalarValue:
		return append(out, v.one), nil
	case ManyValue:
		return append(out, v.many...), nil
	case TransformValue:
		if v.fn == nil {
			return out, nil
		}
		res, err := v.fn(m)
		if err != nil {
			return out, err
		}
		return append(out, spread(res)...), nil
	default:
		return out, nil
	}
}

// String renders the value for debugging.
func (v Value) String() string {
	switch v.kind {
	case ManyValue:
		return fmt.Sprint(v.many)
	case TransformValue:
		return "<transform>"
	default:
		return fmt.Sprint(v.one)
	}
}
