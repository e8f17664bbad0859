// Package action builds the child-process environment for a matched event
// and runs the configured actions, detached or inline (spec §4.H, §3
// "Env").
package action

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zawwz/rmidimap/internal/config"
	"github.com/zawwz/rmidimap/internal/mievent"
	"github.com/zawwz/rmidimap/internal/values"
)

// defaultKeys are the environment variable names used when a rule doesn't
// override them with envconf.
var defaultKeys = config.EnvKeyMap{
	Channel:   "channel",
	ID:        "id",
	RawValue:  "rawvalue",
	Value:     "value",
	Raw:       "raw",
	Timestamp: "timestamp",
}

// BuildEnv renders e into the os.Environ-style "KEY=VALUE" slice a child
// process receives, applying remap (when non-nil) to produce "value" and
// keeping "rawvalue" as the raw decoded value (spec §3 "Env" fields).
func BuildEnv(e mievent.Event, remap *values.Remapper, float bool, keys *config.EnvKeyMap) []string {
	k := defaultKeys
	if keys != nil {
		overrideKeys(&k, keys)
	}

	value := strconv.Itoa(int(e.Value))

	if remap != nil {
		if float {
			value = strconv.FormatFloat(remap.Remap(float64(e.Value)), 'f', -1, 64)
		} else {
			lo, hi := int64(remap.Dst.Start), int64(remap.Dst.End)
			value = strconv.FormatInt(remap.RemapToInt(float64(e.Value), lo, hi), 10)
		}
	}

	ts := time.Now()
	if e.Timestamp != nil {
		ts = *e.Timestamp
	}

	return []string{
		fmt.Sprintf("%s=%d", k.Channel, e.Channel),
		fmt.Sprintf("%s=%d", k.ID, e.ID),
		fmt.Sprintf("%s=%s", k.RawValue, strconv.Itoa(int(e.Value))),
		fmt.Sprintf("%s=%s", k.Value, value),
		fmt.Sprintf("%s=%s", k.Raw, hexBytes(e.Raw)),
		fmt.Sprintf("%s=%s", k.Timestamp, strconv.FormatFloat(float64(ts.UnixNano())/1e9, 'f', -1, 64)),
	}
}

func overrideKeys(dst *config.EnvKeyMap, src *config.EnvKeyMap) {
	if src.Channel != "" {
		dst.Channel = src.Channel
	}

	if src.ID != "" {
		dst.ID = src.ID
	}

	if src.RawValue != "" {
		dst.RawValue = src.RawValue
	}

	if src.Value != "" {
		dst.Value = src.Value
	}

	if src.Raw != "" {
		dst.Raw = src.Raw
	}

	if src.Timestamp != "" {
		dst.Timestamp = src.Timestamp
	}
}

// hexBytes renders raw as space-separated uppercase hex, matching the
// source's "raw" env field format.
func hexBytes(raw []byte) string {
	parts := make([]string, len(raw))
	for i, b := range raw {
		parts[i] = fmt.Sprintf("%02X", b)
	}

	return strings.Join(parts, " ")
}
