package v1_test

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	matchmap "github.com/gxo-labs/matchmap/pkg/matchmap/v1"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var (
	patternPool = []string{`a`, `b`, `c`, `^a`, `b$`, `ab`, `.a`, `[ab]c`, `c+`, `^$`, `(?i)A`}
	literalPool = []any{"a", "b", "ab", "c", 1, 2}
	valuePool   = []any{1, 2, 3, "x", []int{1, 2}, []any{2, 3}, []any{[]int{4}}, nil}
)

func entryGen() *rapid.Generator[matchmap.Entry] {
	return rapid.Custom(func(t *rapid.T) matchmap.Entry {
		var k matchmap.Key
		if rapid.Bool().Draw(t, "pattern") {
			k = matchmap.MustPattern(rapid.SampledFrom(patternPool).Draw(t, "source"))
		} else {
			k = matchmap.Literal(rapid.SampledFrom(literalPool).Draw(t, "literal"))
		}
		return matchmap.E(k, rapid.SampledFrom(valuePool).Draw(t, "value"))
	})
}

func argGen() *rapid.Generator[any] {
	return rapid.OneOf(
		rapid.Map(rapid.StringOfN(rapid.RuneFrom([]rune("abcA")), 0, 4, -1), func(s string) any { return s }),
		rapid.Map(rapid.IntRange(0, 3), func(i int) any { return i }),
	)
}

func buildPair(t *rapid.T) (*matchmap.Map, *matchmap.Map) {
	entries := rapid.SliceOfN(entryGen(), 0, 12).Draw(t, "entries")
	echo := rapid.SampledFrom([]matchmap.EchoMode{matchmap.EchoNone, matchmap.EchoOnMiss, matchmap.EchoAlways}).Draw(t, "echo")
	straight, err := matchmap.New(matchmap.WithEntries(entries...), matchmap.WithEcho(echo))
	require.NoError(t, err)
	optimized, err := matchmap.New(matchmap.WithEntries(entries...), matchmap.WithEcho(echo))
	require.NoError(t, err)
	require.NoError(t, optimized.Optimize())
	return straight, optimized
}

func TestProperty_OptimizerTransparency(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		straight, optimized := buildPair(t)
		arg := argGen().Draw(t, "arg")

		want, err := straight.Get(arg)
		require.NoError(t, err)
		got, err := optimized.Get(arg)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("optimized lookup differs (-straight +optimized):\n%s", diff)
		}
	})
}

func TestProperty_BatchIsDedupedConcatenation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		straight, optimized := buildPair(t)
		require.NoError(t, straight.SetEcho(matchmap.EchoNone))
		require.NoError(t, optimized.SetEcho(matchmap.EchoNone))
		a := argGen().Draw(t, "a")
		b := argGen().Draw(t, "b")

		for _, m := range []*matchmap.Map{straight, optimized} {
			ra, err := m.Get(a)
			require.NoError(t, err)
			rb, err := m.Get(b)
			require.NoError(t, err)
			batch, err := m.Get([]any{a, b})
			require.NoError(t, err)

			want := dedup(append(append([]any{}, ra...), rb...))
			if diff := cmp.Diff(want, batch); diff != "" {
				t.Fatalf("batch lookup differs (-concatenated +batch):\n%s", diff)
			}
		}
	})
}

func TestProperty_NoDuplicatesNoNils(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		_, m := buildPair(t)
		require.NoError(t, m.SetEcho(matchmap.EchoAlways))
		res, err := m.Get(argGen().Draw(t, "arg"))
		require.NoError(t, err)
		for i := range res {
			require.NotNil(t, res[i])
			for j := i + 1; j < len(res); j++ {
				require.False(t, reflect.DeepEqual(res[i], res[j]), "duplicate %v at %d and %d", res[i], i, j)
			}
		}
	})
}

// dedup is an independent order-preserving dedup used as the test oracle.
func dedup(items []any) []any {
	var out []any
	for _, it := range items {
		if it == nil {
			continue
		}
		seen := false
		for _, o := range out {
			if reflect.DeepEqual(o, it) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, it)
		}
	}
	return out
}
