// Package v1 implements matchmap, a multi-match associative container.
//
// A lookup against a Map may match several stored keys at once. Literal keys
// match by equality with the argument, pattern keys match when their regular
// expression matches the argument's textual form (see Text). The values of
// every matching entry are concatenated in insertion order, flattened one
// level, and deduplicated.
//
//	m, _ := matchmap.New(matchmap.WithEntries(
//		matchmap.E(matchmap.Literal("a"), 1),
//		matchmap.E(matchmap.MustPattern(`c`), 3),
//	))
//	vals, _ := m.Get([]string{"a", "ac"}) // [1 3]
//
// Optimize precomputes a combined fast-reject test and merges pattern keys
// that contribute identical values. It never changes what Get returns.
//
// A Map is not safe for concurrent mutation. Use SyncMap when readers and
// writers share an instance.
package v1
