package template

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"

	matchmap "github.com/gxo-labs/matchmap/pkg/matchmap/v1"
	mmerrors "github.com/gxo-labs/matchmap/pkg/matchmap/v1/errors"
)

// Renderer turns template sources into transformers. Parsed templates are
// cached by source so that map files repeating a template parse it once.
type Renderer struct {
	cache map[string]*template.Template
	mu    sync.Mutex
}

// NewRenderer creates a Renderer with an empty cache.
func NewRenderer() *Renderer {
	return &Renderer{cache: make(map[string]*template.Template)}
}

// Parse checks that src is a valid template.
func (r *Renderer) Parse(src string) error {
	_, err := r.getOrParse(src)
	return err
}

// Transformer returns a transformer rendering src against each match. The
// template sees the Match as dot and the match-bound functions of FuncMap.
// An empty rendering contributes nothing.
func (r *Renderer) Transformer(src string) (matchmap.Transformer, error) {
	base, err := r.getOrParse(src)
	if err != nil {
		return nil, err
	}
	return func(m matchmap.Match) (any, error) {
		out, err := render(base, m)
		if err != nil {
			return nil, err
		}
		if out == "" {
			return nil, nil
		}
		return out, nil
	}, nil
}

// Render executes src against m and returns the output.
func (r *Renderer) Render(src string, m matchmap.Match) (string, error) {
	base, err := r.getOrParse(src)
	if err != nil {
		return "", err
	}
	return render(base, m)
}

func (r *Renderer) getOrParse(src string) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.cache[src]; ok {
		return t, nil
	}
	t, err := template.New("value").Option("missingkey=error").Funcs(FuncMap(matchmap.Match{})).Parse(src)
	if err != nil {
		return nil, mmerrors.NewValidationError(fmt.Sprintf("template parse error: %s", err.Error()), err)
	}
	r.cache[src] = t
	return t, nil
}

// render binds the match functions on a clone of base, so concurrent
// lookups never share bindings.
func render(base *template.Template, m matchmap.Match) (string, error) {
	t, err := base.Clone()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Funcs(FuncMap(m)).Execute(&buf, m); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return buf.String(), nil
}
