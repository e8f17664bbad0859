package config

import "github.com/zawwz/rmidimap/internal/routing"

// BuildRoutingTable builds the read-only dispatch table for one device's
// rule list (spec §3, §4.C). Each routing.Rule's Handle points back at the
// *EventRule that produced it, so the worker can reach its Actions.
func (d *DeviceConfig) BuildRoutingTable() *routing.Table {
	rules := make([]*routing.Rule, 0, len(d.Events))

	for i := range d.Events {
		rule := &d.Events[i]
		rules = append(rules, &routing.Rule{
			Type:        rule.Type,
			Channels:    rule.Channels,
			IDs:         rule.IDs,
			ValueFilter: rule.ValueFilter,
			Remap:       rule.Remap,
			Float:       rule.Float,
			Handle:      rule,
		})
	}

	return routing.Build(rules)
}
