package config

import (
	"fmt"
	"time"
)

// Duration wraps time.Duration so it can be decoded from the suffixed
// literal forms spec §6 requires ("500ms", "2s", "1m").
type Duration time.Duration

// UnmarshalYAML accepts any string time.ParseDuration understands.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return fmt.Errorf("%w: interval must be a duration string: %w", ErrConfig, err)
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("%w: invalid duration %q: %w", ErrConfig, s, err)
	}

	*d = Duration(parsed)

	return nil
}

// AsDuration returns the underlying time.Duration.
func (d Duration) AsDuration() time.Duration {
	return time.Duration(d)
}
