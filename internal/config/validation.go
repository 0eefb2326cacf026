package config

import (
	"fmt"
	"regexp"

	"github.com/gxo-labs/matchmap/internal/template"
	matchmap "github.com/gxo-labs/matchmap/pkg/matchmap/v1"
	mmerrors "github.com/gxo-labs/matchmap/pkg/matchmap/v1/errors"
)

// ValidateMapFile performs the logical checks the JSON schema cannot express.
// It returns every problem found, each as a *errors.ValidationError carrying
// the offending field path.
func ValidateMapFile(f *MapFile) []error {
	var errs []error

	if _, err := matchmap.ParseEchoMode(f.Echo); err != nil {
		errs = append(errs, mmerrors.NewFieldValidationError("echo", fmt.Sprintf("invalid echo mode '%s'", f.Echo), nil))
	}

	renderer := template.NewRenderer()
	seen := make(map[string]int)
	for i := range f.Entries {
		e := &f.Entries[i]
		field := func(name string) string { return fmt.Sprintf("entries[%d].%s", i, name) }

		switch e.keyKinds() {
		case 0:
			errs = append(errs, mmerrors.NewFieldValidationError(fmt.Sprintf("entries[%d]", i), "one of 'literal' or 'pattern' is required", nil))
		case 2:
			errs = append(errs, mmerrors.NewFieldValidationError(fmt.Sprintf("entries[%d]", i), "'literal' and 'pattern' are mutually exclusive", nil))
		}

		var id string
		if e.Pattern != "" {
			if _, err := regexp.Compile(e.Pattern); err != nil {
				errs = append(errs, mmerrors.NewFieldValidationError(field("pattern"), "pattern does not compile", err))
			}
			id = "pattern:" + e.Pattern
		} else if e.Literal != nil {
			switch e.Literal.(type) {
			case string, int, int64, uint64, float64, bool:
			default:
				errs = append(errs, mmerrors.NewFieldValidationError(field("literal"), fmt.Sprintf("literal must be a scalar, got %T", e.Literal), nil))
			}
			id = fmt.Sprintf("literal:%T:%v", e.Literal, e.Literal)
		}
		if id != "" {
			if prev, dup := seen[id]; dup {
				errs = append(errs, mmerrors.NewFieldValidationError(fmt.Sprintf("entries[%d]", i), fmt.Sprintf("duplicate key, already defined by entries[%d]", prev), nil))
			} else {
				seen[id] = i
			}
		}

		if n := e.valueKinds(); n > 1 {
			errs = append(errs, mmerrors.NewFieldValidationError(fmt.Sprintf("entries[%d]", i),
				fmt.Sprintf("at most one of 'value', 'values', 'template' or 'transform' may be set, found %d", n), nil))
		}
		if e.Template != "" {
			if err := renderer.Parse(e.Template); err != nil {
				errs = append(errs, mmerrors.NewFieldValidationError(field("template"), "template does not parse", err))
			}
		}
	}
	return errs
}
