package v1

import (
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// fingerprintText renders v with its dynamic type so that values of
// different types never share a fingerprint.
func fingerprintText(v any) string {
	return fmt.Sprintf("%T\x00%#v", v, v)
}

// fingerprint hashes fingerprintText(v).
func fingerprint(v any) uint64 {
	return xxhash.Sum64String(fingerprintText(v))
}

// fingerprintItems hashes an ordered item list.
func fingerprintItems(items []any) uint64 {
	d := xxhash.New()
	for _, it := range items {
		_, _ = fmt.Fprintf(d, "%T\x00%#v\x01", it, it)
	}
	return d.Sum64()
}

// dedupe tracks items already emitted by a lookup. Hashable items use a Go
// map; everything else is bucketed by fingerprint and confirmed with
// reflect.DeepEqual.
type dedupe struct {
	seen  map[any]struct{}
	other map[uint64][]any
}

// add reports whether v was not seen before and records it.
func (d *dedupe) add(v any) bool {
	if hashable(v) {
		if d.seen == nil {
			d.seen = make(map[any]struct{})
		}
		if _, ok := d.seen[v]; ok {
			return false
		}
		d.seen[v] = struct{}{}
		return true
	}
	if d.other == nil {
		d.other = make(map[uint64][]any)
	}
	h := fingerprint(v)
	for _, prev := range d.other[h] {
		if reflect.DeepEqual(prev, v) {
			return false
		}
	}
	d.other[h] = append(d.other[h], v)
	return true
}

// uniqCompact removes nil items (see isNil) and later duplicates, keeping the first
// occurrence. It reuses the backing array of items.
func uniqCompact(items []any) []any {
	if len(items) == 0 {
		return items
	}
	var d dedupe
	out := items[:0]
	for _, it := range items {
		if isNil(it) || !d.add(it) {
			continue
		}
		out = append(out, it)
	}
	return out
}
