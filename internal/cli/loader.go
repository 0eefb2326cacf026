package cli

import (
	"context"

	"github.com/gxo-labs/matchmap/internal/config"
	"github.com/gxo-labs/matchmap/internal/transform"
	matchmap "github.com/gxo-labs/matchmap/pkg/matchmap/v1"
	"gopkg.in/yaml.v3"
)

// loadMap loads and builds the map file at path with the built-in
// transformers. forceOptimize optimizes even when the file does not ask for it.
func loadMap(ctx context.Context, opts *RootOptions, path string, forceOptimize bool, extra ...matchmap.Option) (*matchmap.Map, error) {
	mapOpts := append([]matchmap.Option{matchmap.WithLogger(opts.Log)}, extra...)
	m, err := config.LoadAndBuild(ctx, path, transform.Default(), mapOpts...)
	if err != nil {
		return nil, err
	}
	if forceOptimize {
		if err := m.OptimizeContext(ctx); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// parseArg turns a command line argument into a lookup argument. With typed
// set the argument is decoded as YAML, so "42" is an int and "[a, b]" a
// batch; anything that does not decode stays a string.
func parseArg(s string, typed bool) any {
	if !typed {
		return s
	}
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil || v == nil {
		return s
	}
	return v
}
