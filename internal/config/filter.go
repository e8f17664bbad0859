package config

import "github.com/zawwz/rmidimap/internal/midi"

// PortFilter converts a device's identifier into the driver-neutral
// midi.Filter the supervisor tests candidate ports against (spec §4.D
// "device selectors").
func (d *DeviceConfig) PortFilter() midi.Filter {
	switch d.Identifier.Kind {
	case IdentifierName:
		return midi.Filter{Kind: midi.FilterName, Name: d.Identifier.Name}
	case IdentifierRegex:
		return midi.Filter{Kind: midi.FilterRegex, Matcher: d.Identifier.Regex}
	case IdentifierAddr:
		return midi.Filter{Kind: midi.FilterAddr, Addr: d.Identifier.Addr}
	default:
		return midi.Filter{Kind: midi.FilterAll}
	}
}
