package template

import (
	"strings"
	"text/template"

	matchmap "github.com/gxo-labs/matchmap/pkg/matchmap/v1"
)

// FuncMap returns the template functions bound to m.
func FuncMap(m matchmap.Match) template.FuncMap {
	return template.FuncMap{
		"group": m.Group,
		"named": m.Named,
		"groups": func() []string {
			if len(m.Groups) < 2 {
				return nil
			}
			return m.Groups[1:]
		},
		"arg":   func() any { return m.Arg },
		"text":  m.Text,
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"trim":  strings.TrimSpace,
		"join":  func(sep string, items []string) string { return strings.Join(items, sep) },
	}
}
