package v1_test

import (
	"errors"
	"regexp"
	"strconv"
	"testing"

	matchmap "github.com/gxo-labs/matchmap/pkg/matchmap/v1"
	mmerrors "github.com/gxo-labs/matchmap/pkg/matchmap/v1/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	lit = matchmap.Literal
	pat = matchmap.MustPattern
)

func newMap(t *testing.T, opts ...matchmap.Option) *matchmap.Map {
	t.Helper()
	m, err := matchmap.New(opts...)
	require.NoError(t, err)
	return m
}

func get(t *testing.T, m *matchmap.Map, arg any) []any {
	t.Helper()
	res, err := m.Get(arg)
	require.NoError(t, err)
	return res
}

func TestMap_Empty(t *testing.T) {
	m := newMap(t)
	assert.Empty(t, get(t, m, "a"))

	m.SetDefault("def")
	assert.Equal(t, []any{"def"}, get(t, m, "a"))
}

func TestMap_SingleLiteralKey(t *testing.T) {
	m := newMap(t)
	m.Set(lit("a"), 3)
	assert.Equal(t, []any{3}, get(t, m, "a"))
	assert.Empty(t, get(t, m, "c"))

	m.Set(lit("a"), 4)
	assert.Equal(t, []any{4}, get(t, m, "a"))
	assert.Equal(t, 1, m.Len())

	m.Set(lit("a"), []int{1, 2})
	assert.Equal(t, []any{1, 2}, get(t, m, "a"))
}

func TestMap_HasAndDelete(t *testing.T) {
	m := newMap(t)
	m.Set(lit("a"), "a")
	m.Set(lit("b"), "b")

	assert.True(t, m.Has(lit("a")))
	assert.False(t, m.Has(lit("c")))

	m.Delete(lit("a"))
	assert.False(t, m.Has(lit("a")))
	assert.Empty(t, get(t, m, "a"))

	m.Delete(lit("missing"))
	assert.Equal(t, 1, m.Len())
}

func TestMap_OverwriteKeepsPosition(t *testing.T) {
	m := newMap(t)
	m.Set(pat("a"), 1)
	m.Set(pat("b"), 2)
	m.Set(pat("a"), 3)

	assert.Equal(t, []any{3, 2}, get(t, m, "ab"))
	keys := m.Keys()
	require.Len(t, keys, 2)
	assert.Equal(t, "/a/", keys[0].String())
	assert.Equal(t, "/b/", keys[1].String())
}

func TestMap_PatternKeys(t *testing.T) {
	t.Run("always-match pattern", func(t *testing.T) {
		m := newMap(t)
		m.Set(pat(`.?`), 100)
		m.Set(lit("a"), 1)
		assert.Equal(t, []any{100}, get(t, m, 10))
		assert.Equal(t, []any{100, 1}, get(t, m, "a"))
	})

	t.Run("single pattern", func(t *testing.T) {
		m := newMap(t)
		m.Set(pat(`.+a`), 1)
		assert.Empty(t, get(t, m, "b"))
		assert.Empty(t, get(t, m, "a"))
		assert.Equal(t, []any{1}, get(t, m, "aa"))
		assert.Equal(t, []any{1}, get(t, m, "era"))
	})

	t.Run("disjoint patterns", func(t *testing.T) {
		m := newMap(t)
		m.Set(pat(`.+a`), 1)
		m.Set(pat(`b`), 2)
		assert.Equal(t, []any{1}, get(t, m, "aa"))
		assert.Equal(t, []any{2}, get(t, m, "ab"))
		assert.Equal(t, []any{1, 2}, get(t, m, "cab"))
	})
}

func TestMap_LiteralKeys(t *testing.T) {
	t.Run("strings next to patterns", func(t *testing.T) {
		m := newMap(t)
		m.Set(lit("a"), 1)
		m.Set(pat(`a`), 2)
		assert.Equal(t, []any{1, 2}, get(t, m, "a"))
		assert.Equal(t, []any{2}, get(t, m, "aa"))
	})

	t.Run("integers compare exactly", func(t *testing.T) {
		m := newMap(t)
		m.Set(lit(1), 1)
		m.Set(lit(2), 2)
		m.Set(lit(12), 3)
		assert.Equal(t, []any{1}, get(t, m, 1))
		assert.Equal(t, []any{2}, get(t, m, 2))
		assert.Equal(t, []any{3}, get(t, m, 12))
		assert.Empty(t, get(t, m, "1"), "literal keys are not stringified")
		assert.Empty(t, get(t, m, int64(1)), "literal keys compare with ==")
	})

	t.Run("non-hashable literal", func(t *testing.T) {
		m := newMap(t)
		m.Set(lit(map[string]int{"x": 1}), "found")
		assert.True(t, m.Has(lit(map[string]int{"x": 1})))
		assert.Equal(t, []any{"found"}, get(t, m, []any{map[string]int{"x": 1}}))
	})
}

func TestMap_Transformers(t *testing.T) {
	t.Run("echo the match", func(t *testing.T) {
		m := newMap(t)
		m.Set(pat(`ab+`), func(md matchmap.Match) any { return md.Group(0) })
		assert.Equal(t, []any{"ab"}, get(t, m, "ab"))
	})

	t.Run("match data", func(t *testing.T) {
		m := newMap(t)
		m.Set(pat(`a(b+)`), func(md matchmap.Match) any {
			return []string{md.Group(0), strconv.Itoa(len(md.Group(1)))}
		})
		assert.Equal(t, []any{"abb", "2"}, get(t, m, regexp.MustCompile(`abb`)))
	})

	t.Run("reorder captured groups", func(t *testing.T) {
		m := newMap(t)
		m.Set(pat(`^(.+),\s*(.+)$`), func(md matchmap.Match) any {
			return md.Group(2) + " " + md.Group(1)
		})
		assert.Equal(t, []any{"Bill Dueber"}, get(t, m, "Dueber, Bill"))
	})

	t.Run("literal key receives the argument", func(t *testing.T) {
		m := newMap(t)
		m.Set(lit("a"), func(md matchmap.Match) any {
			assert.False(t, md.IsPattern())
			return []string{md.Text() + "bbb"}
		})
		assert.Equal(t, []any{"abbb"}, get(t, m, "a"))

		m.Set(pat(`b(.*)`), func(md matchmap.Match) any { return []string{md.Group(1)} })
		assert.Equal(t, []any{"123"}, get(t, m, "b123"))
	})

	t.Run("named groups", func(t *testing.T) {
		m := newMap(t)
		m.Set(pat(`(?P<year>\d{4})-(?P<month>\d{2})`), func(md matchmap.Match) any {
			return md.Named("month") + "/" + md.Named("year")
		})
		assert.Equal(t, []any{"06/2024"}, get(t, m, "2024-06-01"))
	})

	t.Run("empty result contributes nothing", func(t *testing.T) {
		m := newMap(t, matchmap.WithDefault("none"))
		m.Set(pat(`x`), func(matchmap.Match) any { return nil })
		m.Set(pat(`y`), func(matchmap.Match) any { return []string{} })
		assert.Equal(t, []any{"none"}, get(t, m, "xy"))
	})

	t.Run("typed nil results contribute nothing", func(t *testing.T) {
		m := newMap(t, matchmap.WithDefault("none"))
		m.Set(pat(`p`), func(matchmap.Match) any { return (*int)(nil) })
		m.Set(pat(`m`), func(matchmap.Match) any { return map[string]int(nil) })
		m.Set(pat(`e`), func(matchmap.Match) any { return []error{nil, errors.New("kept")} })
		m.Set(lit("v"), []any{(*string)(nil), 1})
		assert.Equal(t, []any{"none"}, get(t, m, "pm"))
		assert.Equal(t, []any{errors.New("kept")}, get(t, m, "e"))
		assert.Equal(t, []any{1}, get(t, m, "v"))
	})

	t.Run("errors propagate unchanged", func(t *testing.T) {
		boom := errors.New("boom")
		calls := 0
		m := newMap(t)
		m.Set(pat(`a`), matchmap.Transform(func(matchmap.Match) (any, error) { return nil, boom }))
		m.Set(pat(`a|b`), matchmap.Transform(func(matchmap.Match) (any, error) {
			calls++
			return "never", nil
		}))

		res, err := m.Get("a")
		assert.Same(t, boom, err)
		assert.Nil(t, res)
		assert.Zero(t, calls, "lookup stops at the failing transformer")
	})
}

func TestMap_Echo(t *testing.T) {
	t.Run("when empty", func(t *testing.T) {
		m := newMap(t)
		assert.Empty(t, get(t, m, "miss"))

		require.NoError(t, m.SetEcho(matchmap.EchoAlways))
		assert.Equal(t, []any{"miss"}, get(t, m, "miss"))

		require.NoError(t, m.SetEcho(matchmap.EchoOnMiss))
		assert.Equal(t, []any{"miss"}, get(t, m, "miss"))
	})

	t.Run("when not empty", func(t *testing.T) {
		m := newMap(t)
		m.Set(pat(`a`), "hello")
		assert.Empty(t, get(t, m, "miss"))

		require.NoError(t, m.SetEcho(matchmap.EchoAlways))
		assert.Equal(t, []any{"miss"}, get(t, m, "miss"))
		assert.Equal(t, []any{"ab", "hello"}, get(t, m, "ab"))

		require.NoError(t, m.SetEcho(matchmap.EchoOnMiss))
		assert.Equal(t, []any{"miss"}, get(t, m, "miss"))
		assert.Equal(t, []any{"hello"}, get(t, m, "ab"))
	})

	t.Run("with a transformer", func(t *testing.T) {
		m := newMap(t, matchmap.WithEcho(matchmap.EchoAlways))
		m.Set(pat(`^(.+),\s*(.+)$`), func(md matchmap.Match) any {
			return md.Group(2) + " " + md.Group(1)
		})
		assert.Equal(t, []any{"Dueber, Bill", "Bill Dueber"}, get(t, m, "Dueber, Bill"))
	})

	t.Run("on-miss ignores the default", func(t *testing.T) {
		m := newMap(t, matchmap.WithEcho(matchmap.EchoOnMiss), matchmap.WithDefault("def"))
		assert.Equal(t, []any{"x"}, get(t, m, "x"))
	})

	t.Run("invalid mode leaves the mode unchanged", func(t *testing.T) {
		m := newMap(t, matchmap.WithEcho(matchmap.EchoOnMiss))
		err := m.SetEcho("sometimes")
		require.Error(t, err)
		assert.True(t, mmerrors.IsConfigError(err))
		assert.Equal(t, matchmap.EchoOnMiss, m.Echo())

		_, err = matchmap.New(matchmap.WithEcho("loud"))
		assert.True(t, mmerrors.IsConfigError(err))
	})
}

func TestParseEchoMode(t *testing.T) {
	tests := map[string]matchmap.EchoMode{
		"":        matchmap.EchoNone,
		"none":    matchmap.EchoNone,
		"onmiss":  matchmap.EchoOnMiss,
		"On-Miss": matchmap.EchoOnMiss,
		"on_miss": matchmap.EchoOnMiss,
		"ALWAYS":  matchmap.EchoAlways,
	}
	for in, want := range tests {
		got, err := matchmap.ParseEchoMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := matchmap.ParseEchoMode("never")
	assert.True(t, mmerrors.IsConfigError(err))
}

func TestMap_Batch(t *testing.T) {
	m := newMap(t, matchmap.WithEntries(
		matchmap.E(lit("a"), 1),
		matchmap.E(lit("b"), 2),
		matchmap.E(pat(`c`), 3),
	))

	assert.Equal(t, []any{1, 2}, get(t, m, []string{"a", "b"}))
	assert.Empty(t, get(t, m, []int{1, 2, 3}))

	require.NoError(t, m.SetEcho(matchmap.EchoAlways))
	assert.Equal(t, []any{"a", "ac", 1, 3}, get(t, m, []any{"a", "ac"}))
}

func TestMap_Default(t *testing.T) {
	t.Run("slice default is spread", func(t *testing.T) {
		m := newMap(t, matchmap.WithDefault([]string{"x", "y"}))
		assert.Equal(t, []any{"x", "y"}, get(t, m, "q"))
	})

	t.Run("result does not alias the default", func(t *testing.T) {
		def := []any{"x"}
		m := newMap(t, matchmap.WithDefault(def))
		res := get(t, m, "q")
		res[0] = "changed"
		assert.Equal(t, "x", def[0])
	})

	t.Run("nil argument", func(t *testing.T) {
		m := newMap(t, matchmap.WithDefault("d"))
		m.Set(lit(nil), "nil key")
		m.Set(pat(`^$`), "empty text")
		want := []any{"nil key", "empty text"}
		assert.Equal(t, want, get(t, m, nil))
		assert.Equal(t, want, get(t, m, []any{nil}))

		require.NoError(t, m.Optimize())
		assert.Equal(t, want, get(t, m, nil))
		assert.Equal(t, want, get(t, m, []any{nil}))
	})

	t.Run("nil argument misses", func(t *testing.T) {
		m := newMap(t, matchmap.WithDefault("d"))
		m.Set(pat(`x`), 1)
		assert.Equal(t, []any{"d"}, get(t, m, nil))

		require.NoError(t, m.SetEcho(matchmap.EchoOnMiss))
		assert.Empty(t, get(t, m, nil), "a nil element is not echoed")
		assert.Equal(t, []any{"q"}, get(t, m, []any{nil, "q"}))

		require.NoError(t, m.SetEcho(matchmap.EchoAlways))
		assert.Equal(t, []any{"q", "x", 1}, get(t, m, []any{nil, "q", "x"}))
	})
}

func TestMap_Flatten(t *testing.T) {
	m := newMap(t)
	m.Set(pat(`c`), 1)
	m.Set(pat(`cc`), []int{2, 3})
	m.Set(pat(`ccc`), []any{[]int{4, 5, 6}})
	m.Set(pat(`cccc`), []any{7, 8, []int{9, 10}})

	assert.Equal(t, []any{1, 2, 3}, get(t, m, "cc"))
	assert.Equal(t, []any{1, 2, 3, []int{4, 5, 6}}, get(t, m, "ccc"))
	assert.Equal(t, []any{1, 2, 3, []int{4, 5, 6}, 7, 8, []int{9, 10}}, get(t, m, "cccc"))
}

func TestMap_Dedup(t *testing.T) {
	m := newMap(t)
	m.Set(pat(`a`), []any{1, nil, 2})
	m.Set(pat(`b`), []any{2, 1, []int{3}})
	m.Set(pat(`c`), []any{[]int{3}, 4})

	assert.Equal(t, []any{1, 2, []int{3}, 4}, get(t, m, "abc"))
}

func TestMap_ScalarSlice(t *testing.T) {
	m := newMap(t)
	m.Set(lit("k"), matchmap.Scalar([]int{1, 2}))
	assert.Equal(t, []any{[]int{1, 2}}, get(t, m, "k"))
}

func TestMap_All(t *testing.T) {
	m := newMap(t, matchmap.WithEntries(
		matchmap.E(lit("a"), 1),
		matchmap.E(pat(`b`), []int{2, 3}),
	))
	var kinds []string
	for k, v := range m.All() {
		kinds = append(kinds, k.Kind().String()+":"+v.Kind().String())
	}
	assert.Equal(t, []string{"literal:scalar", "pattern:many"}, kinds)
}

func TestOptions_Validation(t *testing.T) {
	_, err := matchmap.New(matchmap.WithName(""))
	assert.True(t, mmerrors.IsConfigError(err))
	_, err = matchmap.New(matchmap.WithLogger(nil))
	assert.True(t, mmerrors.IsConfigError(err))
	_, err = matchmap.New(matchmap.WithMetricsRegistryProvider(nil))
	assert.True(t, mmerrors.IsConfigError(err))
	_, err = matchmap.New(matchmap.WithTracerProvider(nil))
	assert.True(t, mmerrors.IsConfigError(err))

	_, err = matchmap.Pattern(`(`)
	assert.True(t, mmerrors.IsConfigError(err))
	assert.Panics(t, func() { matchmap.MustPattern(`[`) })
}

func TestText(t *testing.T) {
	assert.Equal(t, "", matchmap.Text(nil))
	assert.Equal(t, "s", matchmap.Text("s"))
	assert.Equal(t, "b", matchmap.Text([]byte("b")))
	assert.Equal(t, "12", matchmap.Text(12))
	assert.Equal(t, "x+", matchmap.Text(regexp.MustCompile(`x+`)))
	assert.Equal(t, "oops", matchmap.Text(errors.New("oops")))
}
