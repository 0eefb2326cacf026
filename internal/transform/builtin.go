package transform

import (
	"strings"

	matchmap "github.com/gxo-labs/matchmap/pkg/matchmap/v1"
)

// Names of the built-in transformers.
const (
	Match  = "match"
	Groups = "groups"
	Upper  = "upper"
	Lower  = "lower"
	Trim   = "trim"
)

func init() {
	Register(Match, matchText)
	Register(Groups, matchGroups)
	Register(Upper, textFunc(strings.ToUpper))
	Register(Lower, textFunc(strings.ToLower))
	Register(Trim, textFunc(strings.TrimSpace))
}

// matchText contributes the whole match, or the argument for literal keys.
func matchText(m matchmap.Match) (any, error) {
	return m.Text(), nil
}

// matchGroups contributes every capture group. Literal keys and patterns
// without groups contribute the whole match.
func matchGroups(m matchmap.Match) (any, error) {
	if len(m.Groups) < 2 {
		return m.Text(), nil
	}
	return m.Groups[1:], nil
}

func textFunc(fn func(string) string) matchmap.Transformer {
	return func(m matchmap.Match) (any, error) {
		return fn(m.Text()), nil
	}
}
