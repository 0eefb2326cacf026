package v1

import (
	"slices"

	"github.com/gxo-labs/matchmap/pkg/matchmap/v1/metrics"
)

// Get returns the values of every entry matching arg.
//
// A slice argument (other than []byte) is a batch: each element is matched
// on its own and the results are concatenated in element order. Anything else,
// nil included, is a single element. The combined result is deduplicated,
// keeping the first occurrence, and nil items are dropped. When nothing
// remains, EchoOnMiss returns the non-nil argument elements and any other mode
// returns the default spread one level (nil for a nil default).
//
// Transformer errors are returned as is and stop the lookup.
func (m *Map) Get(arg any) ([]any, error) {
	args := []any{arg}
	if isBatch(arg) {
		args = spread(arg)
	}

	l := lookup{m: m}
	if m.echo == EchoAlways {
		l.out = append(l.out, args...)
	}
	cl, _ := m.state.(*clean)
	for _, elem := range args {
		var err error
		if cl != nil {
			err = l.optimized(cl, elem)
		} else {
			err = l.scan(elem)
		}
		if err != nil {
			l.finish(metrics.OutcomeError)
			return nil, err
		}
	}

	res := uniqCompact(l.out)
	if len(res) > 0 {
		l.finish(metrics.OutcomeHit)
		return res, nil
	}
	if m.echo == EchoOnMiss {
		l.finish(metrics.OutcomeMiss)
		return slices.DeleteFunc(slices.Clone(args), isNil), nil
	}
	if m.def == nil {
		l.finish(metrics.OutcomeMiss)
		return nil, nil
	}
	l.finish(metrics.OutcomeDefault)
	return slices.Clone(spread(m.def)), nil
}

// lookup accumulates the result and the counters of one Get call.
type lookup struct {
	m       *Map
	out     []any
	checks  int
	rejects int
}

func (l *lookup) finish(outcome string) {
	if l.checks > 0 {
		l.m.patternChecks.Add(uint64(l.checks))
	}
	if l.rejects > 0 {
		l.m.fastRejects.Add(uint64(l.rejects))
	}
	c := l.m.collectors
	c.ObserveLookup(outcome)
	c.AddPatternChecks(l.checks)
	c.AddFastRejects(l.rejects)
}

// scan evaluates every entry in insertion order.
func (l *lookup) scan(elem any) error {
	var text string
	textReady := false
	for e := range l.m.store.each() {
		if e.key.kind == LiteralKey {
			if err := l.literal(e, elem); err != nil {
				return err
			}
			continue
		}
		if !textReady {
			text, textReady = Text(elem), true
		}
		if _, err := l.pattern(e, elem, text); err != nil {
			return err
		}
	}
	return nil
}

func (l *lookup) literal(e *entry, elem any) error {
	if !equal(e.key.lit, elem) {
		return nil
	}
	var err error
	l.out, err = e.value.contribute(l.out, Match{Arg: elem})
	return err
}

// pattern tests one pattern entry and reports whether it matched.
func (l *lookup) pattern(e *entry, elem any, text string) (bool, error) {
	l.checks++
	re := e.key.re
	if e.value.kind != TransformValue {
		if !re.MatchString(text) {
			return false, nil
		}
		l.out, _ = e.value.contribute(l.out, Match{})
		return true, nil
	}
	groups := re.FindStringSubmatch(text)
	if groups == nil {
		return false, nil
	}
	var err error
	l.out, err = e.value.contribute(l.out, Match{Arg: elem, Groups: groups, Names: re.SubexpNames()})
	return true, err
}
