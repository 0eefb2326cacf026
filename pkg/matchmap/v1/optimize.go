package v1

import (
	"context"
	"reflect"
	"regexp"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	mmerrors "github.com/gxo-labs/matchmap/pkg/matchmap/v1/errors"
	"github.com/gxo-labs/matchmap/pkg/matchmap/v1/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// optState is the optimizer state: dirty or *clean. It is sealed.
type optState interface {
	isOptState()
}

// dirty means the store changed since the last optimization.
type dirty struct{}

func (dirty) isOptState() {}

// clean holds structures derived from the store. It is immutable once built.
type clean struct {
	// fastReject is the union of every pattern key, nil without pattern keys.
	fastReject *regexp.Regexp
	plan       []step
	groups     []*group
	mergedKeys int
	planLen    int
}

func (*clean) isOptState() {}

type stepKind uint8

const (
	stepLiteral stepKind = iota
	stepPattern
	stepRun
)

// step is one position of the evaluation plan. Runs stand for contiguous
// members of a merged group; test is the union of the run's patterns.
type step struct {
	kind  stepKind
	entry *entry
	group int
	test  *regexp.Regexp
}

// group is a set of pattern keys contributing identical items. The items are
// added once, at the position of the first member that matches.
type group struct {
	union   *regexp.Regexp
	items   []any
	members int
	runs    int
}

// group evaluation states, per element.
const (
	groupUntested uint8 = iota
	groupLive
	groupFailed
	groupDone
)

// Optimize builds the fast-reject test and merges pattern keys sharing the
// same values. It is a no-op when the map has not changed since the last
// call and never changes what Get returns.
func (m *Map) Optimize() error {
	return m.OptimizeContext(context.Background())
}

// OptimizeContext is Optimize with cancellation and tracing.
func (m *Map) OptimizeContext(ctx context.Context) error {
	if m.Optimized() {
		return nil
	}
	ctx, span := m.tracerProvider.GetTracer(tracing.TracerName).Start(ctx, "matchmap.Optimize",
		trace.WithAttributes(
			attribute.String("matchmap.name", m.name),
			attribute.Int("matchmap.entries", m.store.len()),
		))
	defer span.End()

	cl, err := m.buildClean(ctx)
	if err != nil {
		tracing.RecordError(span, err)
		return err
	}
	span.SetAttributes(
		attribute.Int("matchmap.merged_groups", len(cl.groups)),
		attribute.Int("matchmap.plan_len", cl.planLen),
	)
	m.state = cl
	m.collectors.ObserveOptimize(len(cl.groups))
	m.log.Debugf("Optimized map: %d entries, %d merged groups covering %d keys, %d plan steps",
		m.store.len(), len(cl.groups), cl.mergedKeys, cl.planLen)
	return nil
}

// candidate is a bucket of pattern entries with equal items.
type candidate struct {
	items   []any
	members []int
}

func (m *Map) buildClean(ctx context.Context) (*clean, error) {
	var (
		entries      []*entry
		sources      []string
		transformers int
	)
	for e := range m.store.each() {
		entries = append(entries, e)
		if e.key.kind == PatternKey {
			sources = append(sources, e.key.Source())
		}
		if e.value.kind == TransformValue {
			transformers++
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cl := &clean{}
	if len(sources) > 0 {
		re, err := unionRegexp(sources)
		if err != nil {
			return nil, err
		}
		cl.fastReject = re
	}

	// Bucket pattern entries by contributed items, in first-appearance order.
	buckets := linkedhashmap.New()
	for i, e := range entries {
		if e.key.kind != PatternKey || e.value.kind == TransformValue {
			continue
		}
		items := e.value.Items()
		if len(items) == 0 {
			continue
		}
		fp := fingerprintItems(items)
		var list []*candidate
		if v, ok := buckets.Get(fp); ok {
			list = v.([]*candidate)
		}
		found := false
		for _, c := range list {
			if reflect.DeepEqual(c.items, items) {
				c.members = append(c.members, i)
				found = true
				break
			}
		}
		if !found {
			buckets.Put(fp, append(list, &candidate{items: items, members: []int{i}}))
		}
	}

	var merged []*candidate
	it := buckets.Iterator()
	for it.Next() {
		for _, c := range it.Value().([]*candidate) {
			if len(c.members) > 1 {
				merged = append(merged, c)
			}
		}
	}
	if transformers > 0 && len(merged) > 0 {
		m.log.Warnf("Value merge disabled: map holds %d transformer entries, %d pattern groups left unmerged",
			transformers, len(merged))
		merged = nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	groupOf := make(map[int]int)
	for g, c := range merged {
		union, err := unionRegexp(sourcesOf(entries, c.members))
		if err != nil {
			return nil, err
		}
		cl.groups = append(cl.groups, &group{union: union, items: c.items, members: len(c.members)})
		cl.mergedKeys += len(c.members)
		for _, idx := range c.members {
			groupOf[idx] = g
		}
	}

	for i := 0; i < len(entries); i++ {
		e := entries[i]
		g, inGroup := groupOf[i]
		switch {
		case inGroup:
			// Extend the run over contiguous members of the same group.
			j := i
			for j+1 < len(entries) {
				if ng, ok := groupOf[j+1]; !ok || ng != g {
					break
				}
				j++
			}
			members := make([]int, 0, j-i+1)
			for k := i; k <= j; k++ {
				members = append(members, k)
			}
			test := e.key.re
			if len(members) > 1 {
				var err error
				if test, err = unionRegexp(sourcesOf(entries, members)); err != nil {
					return nil, err
				}
			}
			cl.plan = append(cl.plan, step{kind: stepRun, group: g, test: test})
			cl.groups[g].runs++
			i = j
		case e.key.kind == PatternKey:
			cl.plan = append(cl.plan, step{kind: stepPattern, entry: e})
			cl.planLen++
		default:
			cl.plan = append(cl.plan, step{kind: stepLiteral, entry: e})
			cl.planLen++
		}
	}
	cl.planLen += len(cl.groups)
	return cl, nil
}

func sourcesOf(entries []*entry, idx []int) []string {
	out := make([]string, len(idx))
	for i, k := range idx {
		out[i] = entries[k].key.Source()
	}
	return out
}

// unionRegexp compiles the alternation of sources. Each source keeps its own
// flags and anchors inside a non-capturing group.
func unionRegexp(sources []string) (*regexp.Regexp, error) {
	expr := sources[0]
	if len(sources) > 1 {
		var b strings.Builder
		for i, src := range sources {
			if i > 0 {
				b.WriteByte('|')
			}
			b.WriteString("(?:")
			b.WriteString(src)
			b.WriteByte(')')
		}
		expr = b.String()
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, mmerrors.NewConfigError("failed to compile combined pattern", err)
	}
	return re, nil
}

// optimized evaluates elem against the clean plan.
func (l *lookup) optimized(cl *clean, elem any) error {
	if cl.fastReject == nil {
		return l.indexed(elem)
	}
	text := Text(elem)
	l.checks++
	if !cl.fastReject.MatchString(text) {
		l.rejects++
		return l.indexed(elem)
	}

	var states []uint8
	if len(cl.groups) > 0 {
		states = make([]uint8, len(cl.groups))
	}
	for i := range cl.plan {
		st := &cl.plan[i]
		switch st.kind {
		case stepLiteral:
			if err := l.literal(st.entry, elem); err != nil {
				return err
			}
		case stepPattern:
			if _, err := l.pattern(st.entry, elem, text); err != nil {
				return err
			}
		case stepRun:
			g := cl.groups[st.group]
			switch states[st.group] {
			case groupFailed, groupDone:
				continue
			case groupUntested:
				if g.runs > 1 {
					l.checks++
					if !g.union.MatchString(text) {
						states[st.group] = groupFailed
						continue
					}
					states[st.group] = groupLive
				}
			}
			l.checks++
			if st.test.MatchString(text) {
				l.out = append(l.out, g.items...)
				states[st.group] = groupDone
			} else if g.runs == 1 {
				states[st.group] = groupFailed
			}
		}
	}
	return nil
}

// indexed adds the contribution of the literal entry equal to elem, found
// through the store index.
func (l *lookup) indexed(elem any) error {
	e, ok := l.m.store.lookupLiteral(elem)
	if !ok {
		return nil
	}
	return l.literal(e, elem)
}

// Stats describes the map and its optimizer state.
type Stats struct {
	Name          string `json:"name"`
	Entries       int    `json:"entries"`
	Literals      int    `json:"literals"`
	Patterns      int    `json:"patterns"`
	Transformers  int    `json:"transformers"`
	Optimized     bool   `json:"optimized"`
	MergedGroups  int    `json:"merged_groups"`
	MergedKeys    int    `json:"merged_keys"`
	PlanLen       int    `json:"plan_len"`
	PatternChecks uint64 `json:"pattern_checks"`
	FastRejects   uint64 `json:"fast_rejects"`
}

// Stats returns a snapshot of the map's shape and lookup counters. PlanLen
// is the number of distinct tests per element, counting a merged group once.
func (m *Map) Stats() Stats {
	s := Stats{
		Name:          m.name,
		Entries:       m.store.len(),
		PatternChecks: m.patternChecks.Load(),
		FastRejects:   m.fastRejects.Load(),
	}
	for e := range m.store.each() {
		if e.key.kind == PatternKey {
			s.Patterns++
		} else {
			s.Literals++
		}
		if e.value.kind == TransformValue {
			s.Transformers++
		}
	}
	if cl, ok := m.state.(*clean); ok {
		s.Optimized = true
		s.MergedGroups = len(cl.groups)
		s.MergedKeys = cl.mergedKeys
		s.PlanLen = cl.planLen
	} else {
		s.PlanLen = s.Entries
	}
	return s
}

// ResetCounters zeroes PatternChecks and FastRejects.
func (m *Map) ResetCounters() {
	m.patternChecks.Store(0)
	m.fastRejects.Store(0)
}
