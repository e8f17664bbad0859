package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/zawwz/rmidimap/internal/mievent"
	"github.com/zawwz/rmidimap/internal/values"
)

// EventRule is one configured (type, channels, ids, filters, actions) entry
// under a device's "events" list (spec §3).
type EventRule struct {
	Type        mievent.Type
	Channels    *values.IntSet
	IDs         *values.IntSet
	ValueFilter *values.IntSet
	Remap       *values.Remapper
	Float       bool
	Actions     []ActionSpec
}

type eventRuleYAML struct {
	Type    string          `yaml:"type"`
	Channel *values.IntSet  `yaml:"channel"`
	ID      *values.IntSet  `yaml:"id"`
	Value   *values.IntSet  `yaml:"value"`
	Remap   *values.Range   `yaml:"remap"`
	Float   *bool           `yaml:"float"`
	Run     []ActionSpec    `yaml:"run"`
}

// UnmarshalYAML decodes one event rule, applying the channel/id defaults
// from spec §3 ("defaults to all 16 when type.has_channel, else {0}") and
// validating the remap destination range at load time.
func (e *EventRule) UnmarshalYAML(value *yaml.Node) error {
	if err := strictKeys(value, "type", "channel", "id", "value", "remap", "float", "run"); err != nil {
		return err
	}

	var raw eventRuleYAML
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	typ, err := mievent.ParseType(raw.Type)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	e.Type = typ
	e.Actions = raw.Run

	if typ.HasChannel() {
		e.Channels = defaultedSet(raw.Channel, allChannels)
	} else {
		e.Channels = zeroOnly
	}

	if typ.HasID() {
		e.IDs = defaultedSet(raw.ID, allIDs)
	} else {
		e.IDs = zeroOnly
	}

	e.ValueFilter = raw.Value

	e.Float = raw.Float != nil && *raw.Float

	if raw.Remap != nil {
		src := values.NewRange(float64(typ.MinValue()), float64(typ.MaxValue()))

		remapper, err := values.NewRemapper(src, *raw.Remap)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrConfig, err)
		}

		e.Remap = &remapper
	}

	return nil
}

func defaultedSet(v *values.IntSet, def *values.IntSet) *values.IntSet {
	if v == nil {
		return def
	}

	return v
}
