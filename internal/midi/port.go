// Package midi defines the driver-neutral facade described in spec §4.E:
// a uniform interface over whichever backend is selected at startup, plus
// the per-connection client and try-connect-with-filter helper the
// supervisor drives.
package midi

import (
	"fmt"
	"strings"
)

// Port is one enumerable endpoint on the driver: a human name and a
// backend-native address (spec §3, §4.D).
type Port struct {
	Name string
	Addr string
}

// String renders "<addr>\tName", the line format --list prints (spec §6).
func (p Port) String() string {
	return fmt.Sprintf("%s\t%s", p.Addr, p.Name)
}

// FilterKind discriminates the ways a Filter can select ports (spec §4.D).
type FilterKind int

const (
	FilterAll FilterKind = iota
	FilterName
	FilterRegex
	FilterAddr
)

// Filter narrows a port enumeration down to candidates for one device
// config; Matcher is only consulted for FilterRegex.
type Filter struct {
	Kind    FilterKind
	Name    string
	Matcher interface{ MatchString(string) bool }
	Addr    string
}

// Matches reports whether p satisfies the filter.
func (f Filter) Matches(p Port) bool {
	switch f.Kind {
	case FilterAll:
		return true
	case FilterName:
		return strings.Contains(p.Name, f.Name)
	case FilterRegex:
		return f.Matcher != nil && f.Matcher.MatchString(p.Name)
	case FilterAddr:
		return p.Addr == f.Addr
	default:
		return false
	}
}
