package v1

import (
	"fmt"
	"strings"

	mmerrors "github.com/gxo-labs/matchmap/pkg/matchmap/v1/errors"
)

// EchoMode controls whether the lookup argument is part of the result.
type EchoMode string

const (
	// EchoNone never echoes the argument.
	EchoNone EchoMode = "none"
	// EchoOnMiss returns the argument when nothing matched.
	EchoOnMiss EchoMode = "onmiss"
	// EchoAlways puts the argument in front of every result.
	EchoAlways EchoMode = "always"
)

// Valid reports whether e is one of the defined modes.
func (e EchoMode) Valid() bool {
	switch e {
	case EchoNone, EchoOnMiss, EchoAlways:
		return true
	}
	return false
}

// ParseEchoMode parses s case-insensitively. "on-miss" and "on_miss" are
// accepted as spellings of EchoOnMiss and the empty string means EchoNone.
func ParseEchoMode(s string) (EchoMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return EchoNone, nil
	case "onmiss", "on-miss", "on_miss":
		return EchoOnMiss, nil
	case "always":
		return EchoAlways, nil
	}
	return "", mmerrors.NewConfigError(fmt.Sprintf("invalid echo mode %q (want none, onmiss or always)", s), nil)
}
