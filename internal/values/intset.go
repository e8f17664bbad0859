// Package values implements the compact numeric-set and range literals used
// throughout device and event configuration, and the linear remapper used to
// translate raw MIDI values into a rule's destination range.
package values

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// IntSet is an ordered set of integers, built from a comma-separated literal
// of single values and inclusive ranges (e.g. "0,2,5:7,9-11").
type IntSet struct {
	m map[int]struct{}
}

// NewIntSet returns an empty set.
func NewIntSet() *IntSet {
	return &IntSet{m: make(map[int]struct{})}
}

// NewIntSetFromValues builds a set directly from a native list of ints, as
// produced by a YAML sequence.
func NewIntSetFromValues(vs []int) *IntSet {
	s := NewIntSet()
	for _, v := range vs {
		s.Add(v)
	}

	return s
}

// NewIntRangeSet fills a set with every integer in [lo, hi], shared as a
// read-only default so callers don't rebuild the all-16-channels /
// all-128-ids constant per rule.
func NewIntRangeSet(lo, hi int) *IntSet {
	s := NewIntSet()
	for v := lo; v <= hi; v++ {
		s.Add(v)
	}

	return s
}

// Add inserts v into the set.
func (s *IntSet) Add(v int) {
	s.m[v] = struct{}{}
}

// Contains reports whether v is a member of the set.
func (s *IntSet) Contains(v int) bool {
	_, ok := s.m[v]

	return ok
}

// Len returns the number of distinct members.
func (s *IntSet) Len() int {
	return len(s.m)
}

// Values returns the set's members in ascending order.
func (s *IntSet) Values() []int {
	out := make([]int, 0, len(s.m))
	for v := range s.m {
		out = append(out, v)
	}

	sort.Ints(out)

	return out
}

// ParseIntSet parses a literal like "0,2,5:7,9-11" into an IntSet. A bare
// integer ("5") is accepted as a single-element set. Both ":" and "-" are
// accepted as inclusive-range separators.
func ParseIntSet(literal string) (*IntSet, error) {
	s := NewIntSet()

	for _, part := range strings.Split(literal, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		lo, hi, isRange, err := splitRange(part)
		if err != nil {
			return nil, fmt.Errorf("values: invalid integer-set item %q: %w", part, err)
		}

		if !isRange {
			s.Add(lo)

			continue
		}

		if lo > hi {
			lo, hi = hi, lo
		}

		for v := lo; v <= hi; v++ {
			s.Add(v)
		}
	}

	return s, nil
}

// splitRange parses a single integer-set item: either "N" or "LO:HI"/"LO-HI".
func splitRange(part string) (lo, hi int, isRange bool, err error) {
	sep := strings.IndexAny(part, ":-")
	if sep <= 0 {
		v, perr := strconv.Atoi(part)
		if perr != nil {
			return 0, 0, false, perr
		}

		return v, v, false, nil
	}

	lo, err = strconv.Atoi(part[:sep])
	if err != nil {
		return 0, 0, false, err
	}

	hi, err = strconv.Atoi(part[sep+1:])
	if err != nil {
		return 0, 0, false, err
	}

	return lo, hi, true, nil
}

// Format renders the set back into the canonical comma-separated literal,
// collapsing consecutive runs into ranges. parse(format(parse(x))) == parse(x).
func (s *IntSet) Format() string {
	values := s.Values()
	if len(values) == 0 {
		return ""
	}

	var parts []string

	runStart := values[0]
	prev := values[0]

	flush := func(end int) {
		if runStart == end {
			parts = append(parts, strconv.Itoa(runStart))
		} else {
			parts = append(parts, fmt.Sprintf("%d:%d", runStart, end))
		}
	}

	for _, v := range values[1:] {
		if v == prev+1 {
			prev = v

			continue
		}

		flush(prev)

		runStart = v
		prev = v
	}

	flush(prev)

	return strings.Join(parts, ",")
}

// UnmarshalYAML accepts a bare integer, a compact string literal, or a
// native YAML sequence of integers.
func (s *IntSet) UnmarshalYAML(unmarshal func(any) error) error {
	var asInt int
	if err := unmarshal(&asInt); err == nil {
		*s = *NewIntSetFromValues([]int{asInt})

		return nil
	}

	var asString string
	if err := unmarshal(&asString); err == nil {
		parsed, err := ParseIntSet(asString)
		if err != nil {
			return err
		}

		*s = *parsed

		return nil
	}

	var asList []int
	if err := unmarshal(&asList); err != nil {
		return fmt.Errorf("values: int set must be an integer, a literal string, or a list: %w", err)
	}

	*s = *NewIntSetFromValues(asList)

	return nil
}
