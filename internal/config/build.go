package config

import (
	"context"
	"fmt"

	"github.com/gxo-labs/matchmap/internal/template"
	"github.com/gxo-labs/matchmap/internal/transform"
	matchmap "github.com/gxo-labs/matchmap/pkg/matchmap/v1"
	mmerrors "github.com/gxo-labs/matchmap/pkg/matchmap/v1/errors"
)

// Build turns a loaded map file into a Map. Named transformers are resolved
// through reg (the built-in registry when nil). opts are applied after the
// file's own settings, so callers can attach a logger, metrics or tracing.
// The map is optimized when the file says so.
func Build(ctx context.Context, f *MapFile, reg transform.Registry, opts ...matchmap.Option) (*matchmap.Map, error) {
	if f == nil {
		return nil, mmerrors.NewConfigError("map file cannot be nil", nil)
	}
	if reg == nil {
		reg = transform.Default()
	}
	echo, err := matchmap.ParseEchoMode(f.Echo)
	if err != nil {
		return nil, mmerrors.NewFieldValidationError("echo", "invalid echo mode", err)
	}

	renderer := template.NewRenderer()
	entries := make([]matchmap.Entry, 0, len(f.Entries))
	for i := range f.Entries {
		entry, err := buildEntry(&f.Entries[i], i, reg, renderer)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	base := []matchmap.Option{
		matchmap.WithEcho(echo),
		matchmap.WithDefault(f.Default),
		matchmap.WithEntries(entries...),
	}
	if f.Name != "" {
		base = append(base, matchmap.WithName(f.Name))
	}
	m, err := matchmap.New(append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	if f.Optimize {
		if err := m.OptimizeContext(ctx); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// LoadAndBuild loads the map file at path and builds it.
func LoadAndBuild(ctx context.Context, path string, reg transform.Registry, opts ...matchmap.Option) (*matchmap.Map, error) {
	f, err := LoadMapFileFromPath(ctx, path)
	if err != nil {
		return nil, err
	}
	return Build(ctx, f, reg, opts...)
}

func buildEntry(e *EntrySpec, idx int, reg transform.Registry, renderer *template.Renderer) (matchmap.Entry, error) {
	var key matchmap.Key
	if e.Pattern != "" {
		k, err := matchmap.Pattern(e.Pattern)
		if err != nil {
			return matchmap.Entry{}, mmerrors.NewFieldValidationError(fmt.Sprintf("entries[%d].pattern", idx), "pattern does not compile", err)
		}
		key = k
	} else {
		key = matchmap.Literal(e.Literal)
	}

	switch {
	case e.Transform != "":
		fn, err := reg.Get(e.Transform)
		if err != nil {
			return matchmap.Entry{}, mmerrors.NewFieldValidationError(fmt.Sprintf("entries[%d].transform", idx), "unknown transformer", err)
		}
		return matchmap.Entry{Key: key, Value: matchmap.Transform(fn)}, nil
	case e.Template != "":
		fn, err := renderer.Transformer(e.Template)
		if err != nil {
			return matchmap.Entry{}, mmerrors.NewFieldValidationError(fmt.Sprintf("entries[%d].template", idx), "template does not parse", err)
		}
		return matchmap.Entry{Key: key, Value: matchmap.Transform(fn)}, nil
	case e.Values != nil:
		return matchmap.Entry{Key: key, Value: matchmap.Many(e.Values...)}, nil
	default:
		return matchmap.Entry{Key: key, Value: matchmap.ValueOf(e.Value)}, nil
	}
}
