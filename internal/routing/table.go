// Package routing implements the hash-indexed (type, channel, id) -> rules
// dispatch table described in spec §3 and §4.C.
package routing

import (
	"github.com/zawwz/rmidimap/internal/mievent"
	"github.com/zawwz/rmidimap/internal/values"
)

// Rule is the routing table's view of one configured event rule: enough to
// filter by value and remap, plus an opaque handle the caller uses to look
// up its actions. Config owns the actual EventRule; routing only needs the
// fields it dispatches on.
type Rule struct {
	Type        mievent.Type
	Channels    *values.IntSet
	IDs         *values.IntSet
	ValueFilter *values.IntSet // nil means "match any value"
	Remap       *values.Remapper
	Float       bool
	Handle      any // opaque back-reference to the owning *config.EventRule
}

// MatchesValue reports whether raw satisfies this rule's optional value
// filter.
func (r *Rule) MatchesValue(raw uint16) bool {
	if r.ValueFilter == nil {
		return true
	}

	return r.ValueFilter.Contains(int(raw))
}

// Table is a read-only, built-once-per-device dispatch index: key ->
// ordered list of matching rules (§3 invariants I1, I2).
type Table struct {
	index map[uint32][]*Rule
}

// Build expands every rule's (channels x ids) cartesian product into the
// table, pre-sizing the underlying map with the sum of |channels|*|ids|
// across all rules (spec §4.C, §9 "Routing table size hint").
func Build(rules []*Rule) *Table {
	size := 0
	for _, r := range rules {
		size += r.Channels.Len() * r.IDs.Len()
	}

	t := &Table{index: make(map[uint32][]*Rule, size)}

	for _, r := range rules {
		for _, channel := range r.Channels.Values() {
			for _, id := range r.IDs.Values() {
				key := mievent.Key(r.Type, uint8(channel), uint8(id))
				t.index[key] = append(t.index[key], r)
			}
		}
	}

	return t
}

// Lookup returns the rules registered at an event's key, or nil if none
// match. The returned slice must not be mutated by the caller.
func (t *Table) Lookup(e mievent.Event) []*Rule {
	return t.index[e.Key()]
}

// Len reports how many distinct keys are populated; mostly useful for
// tests asserting the size-hint invariant.
func (t *Table) Len() int {
	return len(t.index)
}
