package config

import "github.com/zawwz/rmidimap/internal/values"

// Shared, read-only default sets so rules that omit "channel"/"id" don't
// each allocate their own copy of "all 16 channels" / "all 128 ids" (spec
// §9 "Global defaults for sets").
var (
	allChannels = values.NewIntRangeSet(0, 15)
	allIDs      = values.NewIntRangeSet(0, 127)
	zeroOnly    = values.NewIntRangeSet(0, 0)
)
