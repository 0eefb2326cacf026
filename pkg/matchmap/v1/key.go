package v1

import (
	"fmt"
	"regexp"

	mmerrors "github.com/gxo-labs/matchmap/pkg/matchmap/v1/errors"
)

// KeyKind distinguishes literal keys from pattern keys.
type KeyKind uint8

const (
	// LiteralKey matches an argument equal to the stored value.
	LiteralKey KeyKind = iota
	// PatternKey matches an argument whose textual form matches a regexp.
	PatternKey
)

func (k KeyKind) String() string {
	switch k {
	case LiteralKey:
		return "literal"
	case PatternKey:
		return "pattern"
	default:
		return fmt.Sprintf("KeyKind(%d)", uint8(k))
	}
}

// Key is a Map key: either a literal value or a compiled pattern.
// The zero Key is the literal nil key.
type Key struct {
	kind KeyKind
	lit  any
	re   *regexp.Regexp
}

// Literal returns a key matching arguments equal to v. Hashable values compare
// with ==, other values (slices, maps) with reflect.DeepEqual.
func Literal(v any) Key {
	return Key{kind: LiteralKey, lit: v}
}

// Pattern compiles expr into a pattern key.
func Pattern(expr string) (Key, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Key{}, mmerrors.NewConfigError(fmt.Sprintf("invalid pattern %q", expr), err)
	}
	return Key{kind: PatternKey, re: re}, nil
}

// MustPattern is like Pattern but panics if expr does not compile.
func MustPattern(expr string) Key {
	k, err := Pattern(expr)
	if err != nil {
		panic(err)
	}
	return k
}

// PatternOf wraps an already compiled regexp. A nil regexp yields the
// literal nil key.
func PatternOf(re *regexp.Regexp) Key {
	if re == nil {
		return Key{}
	}
	return Key{kind: PatternKey, re: re}
}

// Kind reports whether k is a literal or a pattern key.
func (k Key) Kind() KeyKind { return k.kind }

// Literal returns the literal value, or nil for pattern keys.
func (k Key) Literal() any {
	if k.kind != LiteralKey {
		return nil
	}
	return k.lit
}

// Regexp returns the compiled pattern, or nil for literal keys.
func (k Key) Regexp() *regexp.Regexp { return k.re }

// Source returns the pattern source, or "" for literal keys.
func (k Key) Source() string {
	if k.re == nil {
		return ""
	}
	return k.re.String()
}

// String renders literal keys in Go syntax and pattern keys as /source/.
func (k Key) String() string {
	if k.kind == PatternKey {
		return "/" + k.Source() + "/"
	}
	return fmt.Sprintf("%#v", k.lit)
}

// Equal reports whether k and other identify the same entry.
func (k Key) Equal(other Key) bool {
	return k.id() == other.id()
}

// keyID is the identity of a key inside the store. Literal values that cannot
// be map keys are identified by their fingerprint text instead.
type keyID struct {
	kind KeyKind
	lit  any
	src  string
}

func (k Key) id() keyID {
	if k.kind == PatternKey {
		return keyID{kind: PatternKey, src: k.Source()}
	}
	return literalID(k.lit)
}

func literalID(v any) keyID {
	if hashable(v) {
		return keyID{kind: LiteralKey, lit: v}
	}
	return keyID{kind: LiteralKey, src: fingerprintText(v)}
}
