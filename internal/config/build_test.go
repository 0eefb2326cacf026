package config

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gxo-labs/matchmap/internal/transform"
	matchmap "github.com/gxo-labs/matchmap/pkg/matchmap/v1"
	mmerrors "github.com/gxo-labs/matchmap/pkg/matchmap/v1/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAndBuild_People(t *testing.T) {
	m, err := LoadAndBuild(context.Background(), filepath.Join("testdata", "people.yaml"), nil)
	require.NoError(t, err)

	assert.Equal(t, "people", m.Name())
	assert.Equal(t, matchmap.EchoOnMiss, m.Echo())
	assert.True(t, m.Optimized())

	tests := []struct {
		arg  any
		want []any
	}{
		{arg: "bob", want: []any{"builder"}},
		{arg: "alice", want: []any{"starts-with-a"}},
		{arg: "al@example", want: []any{"starts-with-a", "example"}},
		{arg: 42, want: []any{"answer"}},
		{arg: "shout:hi", want: []any{"SHOUT:HI"}},
		{arg: "nobody", want: []any{"nobody"}},
	}
	for _, tt := range tests {
		got, err := m.Get(tt.arg)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "Get(%v)", tt.arg)
	}
}

func TestLoadAndBuild_MergesEqualValues(t *testing.T) {
	m, err := LoadAndBuild(context.Background(), filepath.Join("testdata", "colors.yaml"), nil)
	require.NoError(t, err)

	assert.Equal(t, "palette", m.Name())
	stats := m.Stats()
	assert.Equal(t, 1, stats.MergedGroups)
	assert.Equal(t, 3, stats.MergedKeys)

	got, err := m.Get([]any{"red", "orange", "blue"})
	require.NoError(t, err)
	assert.Equal(t, []any{"warm", "cold"}, got)

	got, err = m.Get("green")
	require.NoError(t, err)
	assert.Equal(t, []any{"unknown"}, got)
}

func TestBuild_UnknownTransformer(t *testing.T) {
	f := &MapFile{
		SchemaVersion: "1.0.0",
		Entries:       []EntrySpec{{Pattern: "x", Transform: "reverse"}},
	}
	_, err := Build(context.Background(), f, transform.NewStaticRegistry())
	require.Error(t, err)

	var notFound *mmerrors.TransformerNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "reverse", notFound.Name)

	var valErr *mmerrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "entries[0].transform", valErr.Field)
}

func TestBuild_CustomRegistryAndOptions(t *testing.T) {
	reg := transform.NewStaticRegistry()
	require.NoError(t, reg.Register("len", func(m matchmap.Match) (any, error) {
		return len(m.Text()), nil
	}))
	f := &MapFile{
		SchemaVersion: "1.0.0",
		Name:          "lengths",
		Entries:       []EntrySpec{{Pattern: `^\w+$`, Transform: "len"}},
	}
	m, err := Build(context.Background(), f, reg, matchmap.WithName("override"))
	require.NoError(t, err)
	assert.Equal(t, "override", m.Name())
	assert.False(t, m.Optimized())

	got, err := m.Get("abcd")
	require.NoError(t, err)
	assert.Equal(t, []any{4}, got)
}

func TestBuild_NilFile(t *testing.T) {
	_, err := Build(context.Background(), nil, nil)
	assert.True(t, mmerrors.IsConfigError(err))
}

func TestBuild_ValuesListAndScalarList(t *testing.T) {
	src := strings.Join([]string{
		"schemaVersion: '1.0.0'",
		"entries:",
		"  - literal: a",
		"    value: [x, y]",
		"  - literal: b",
		"    values: [[x, y]]",
	}, "\n")
	f, err := LoadMapFile([]byte(src), "lists.yaml")
	require.NoError(t, err)
	m, err := Build(context.Background(), f, nil)
	require.NoError(t, err)

	got, err := m.Get("a")
	require.NoError(t, err)
	assert.Equal(t, []any{"x", "y"}, got)

	got, err = m.Get("b")
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{"x", "y"}}, got)
}
