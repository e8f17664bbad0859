package config

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// IdentifierKind discriminates the mutually-exclusive device-selector forms
// from spec §3.
type IdentifierKind int

const (
	IdentifierAll IdentifierKind = iota
	IdentifierName
	IdentifierRegex
	IdentifierAddr
)

// Identifier selects which devices a DeviceConfig applies to.
type Identifier struct {
	Kind  IdentifierKind
	Name  string
	Regex *regexp.Regexp
	Addr  string
}

// DeviceConfig is one entry in the top-level "devices" list (spec §3, §6).
type DeviceConfig struct {
	Identifier     Identifier
	MaxConnections *uint32
	QueueLength    int
	Interval       Duration
	OnConnect      []ActionSpec
	OnDisconnect   []ActionSpec
	Events         []EventRule
}

type deviceConfigYAML struct {
	Name           *string      `yaml:"name"`
	Regex          *string      `yaml:"regex"`
	Addr           *string      `yaml:"addr"`
	MaxConnections *uint32      `yaml:"max_connections"`
	QueueLength    *int         `yaml:"queue_length"`
	Interval       *Duration    `yaml:"interval"`
	Connect        []ActionSpec `yaml:"connect"`
	Disconnect     []ActionSpec `yaml:"disconnect"`
	Events         []EventRule  `yaml:"events"`
}

// DefaultQueueLength is the bounded-queue capacity used when a device
// config omits "queue_length" (spec §3).
const DefaultQueueLength = 256

// UnmarshalYAML decodes one device entry, validating that at most one of
// name/regex/addr is set and applying the queue_length/interval defaults.
func (d *DeviceConfig) UnmarshalYAML(value *yaml.Node) error {
	if err := strictKeys(value,
		"name", "regex", "addr", "max_connections",
		"queue_length", "interval", "connect", "disconnect", "events"); err != nil {
		return err
	}

	var raw deviceConfigYAML
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	set := 0
	if raw.Name != nil {
		set++
	}

	if raw.Regex != nil {
		set++
	}

	if raw.Addr != nil {
		set++
	}

	if set > 1 {
		return ErrIdentifierConflict
	}

	switch {
	case raw.Name != nil:
		d.Identifier = Identifier{Kind: IdentifierName, Name: *raw.Name}
	case raw.Regex != nil:
		re, err := regexp.Compile(*raw.Regex)
		if err != nil {
			return fmt.Errorf("%w: invalid regex %q: %w", ErrConfig, *raw.Regex, err)
		}

		d.Identifier = Identifier{Kind: IdentifierRegex, Regex: re}
	case raw.Addr != nil:
		d.Identifier = Identifier{Kind: IdentifierAddr, Addr: *raw.Addr}
	default:
		d.Identifier = Identifier{Kind: IdentifierAll}
	}

	d.MaxConnections = raw.MaxConnections

	if raw.QueueLength != nil {
		d.QueueLength = *raw.QueueLength
	} else {
		d.QueueLength = DefaultQueueLength
	}

	if raw.Interval != nil {
		d.Interval = *raw.Interval
	}

	d.OnConnect = raw.Connect
	d.OnDisconnect = raw.Disconnect
	d.Events = raw.Events

	return nil
}
