package v1

import (
	"iter"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// entry is one stored (Key, Value) pair.
type entry struct {
	key   Key
	value Value
}

// store is the insertion-ordered entry container. The linked hash map gives
// ordered iteration for scans and constant-time identity lookup for literal
// keys.
type store struct {
	entries *linkedhashmap.Map
}

func newStore() *store {
	return &store{entries: linkedhashmap.New()}
}

// put inserts or overwrites. An existing key keeps its position.
func (s *store) put(k Key, v Value) {
	s.entries.Put(k.id(), &entry{key: k, value: v})
}

func (s *store) remove(k Key) bool {
	id := k.id()
	if _, ok := s.entries.Get(id); !ok {
		return false
	}
	s.entries.Remove(id)
	return true
}

func (s *store) get(id keyID) (*entry, bool) {
	v, ok := s.entries.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*entry), true
}

func (s *store) has(k Key) bool {
	_, ok := s.entries.Get(k.id())
	return ok
}

func (s *store) len() int { return s.entries.Size() }

// each yields entries in insertion order.
func (s *store) each() iter.Seq[*entry] {
	return func(yield func(*entry) bool) {
		it := s.entries.Iterator()
		for it.Next() {
			if !yield(it.Value().(*entry)) {
				return
			}
		}
	}
}

// lookupLiteral returns the literal entry equal to elem, if any.
func (s *store) lookupLiteral(elem any) (*entry, bool) {
	e, ok := s.get(literalID(elem))
	if !ok || e.key.kind != LiteralKey || !equal(e.key.lit, elem) {
		return nil, false
	}
	return e, true
}
