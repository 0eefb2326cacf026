package v1_test

import (
	"fmt"
	"testing"

	matchmap "github.com/gxo-labs/matchmap/pkg/matchmap/v1"
)

// benchmarkResult keeps lookups from being optimized away.
var benchmarkResult []any

// benchMap builds n pattern keys cycling over two values, so the optimizer
// can merge them into two groups.
func benchMap(b *testing.B, n int, optimize bool) *matchmap.Map {
	b.Helper()
	m, err := matchmap.New()
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < n; i++ {
		m.Set(matchmap.MustPattern(fmt.Sprintf("k%02d", i)), i%2)
	}
	if optimize {
		if err := m.Optimize(); err != nil {
			b.Fatal(err)
		}
	}
	return m
}

func benchmarkGet(b *testing.B, n int, optimize bool, arg string) {
	m := benchMap(b, n, optimize)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, err := m.Get(arg)
		if err != nil {
			b.Fatal(err)
		}
		benchmarkResult = res
	}
}

func BenchmarkGet(b *testing.B) {
	for _, n := range []int{5, 20} {
		for _, tc := range []struct{ name, arg string }{
			{"miss", "zzz"},
			{"hit", "k03"},
		} {
			b.Run(fmt.Sprintf("straight/%d/%s", n, tc.name), func(b *testing.B) {
				benchmarkGet(b, n, false, tc.arg)
			})
			b.Run(fmt.Sprintf("optimized/%d/%s", n, tc.name), func(b *testing.B) {
				benchmarkGet(b, n, true, tc.arg)
			})
		}
	}
}
