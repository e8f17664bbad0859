package config

import "errors"

// ErrConfig wraps every parse/validation failure so callers can match on
// the "this was a config problem" category from spec §7's error taxonomy.
var ErrConfig = errors.New("config")

// ErrRunMissingArgs is returned when an ActionSpec declares neither args nor
// cmd, carried over from the source's ConfigError::RunMissingArgs (see
// SPEC_FULL.md "Supplemented features").
var ErrRunMissingArgs = errors.New("config: run entry is missing \"args\" or \"cmd\"")

// ErrIdentifierConflict is returned when a DeviceConfig names more than one
// of name/regex/addr.
var ErrIdentifierConflict = errors.New("config: device identifier fields (name, regex, addr) are mutually exclusive")
