// Package mievent implements the typed MIDI event model: the 7
// channel-voice message classes plus System and Unknown, the zero-copy byte
// decoder, and the routing key used by internal/routing.
package mievent

import "fmt"

// Type enumerates the MIDI message classes, each carrying the 4-bit status
// nibble that identifies it on the wire (1000...1111, Unknown=0000).
type Type uint8

const (
	Unknown                Type = 0b0000
	NoteOff                Type = 0b1000
	NoteOn                 Type = 0b1001
	PolyphonicKeyPressure  Type = 0b1010
	Controller             Type = 0b1011
	ProgramChange          Type = 0b1100
	ChannelPressure        Type = 0b1101
	PitchBend              Type = 0b1110
	System                 Type = 0b1111
)

// TypeFromNibble maps a status-byte upper nibble to a Type, returning
// Unknown for any value outside 0b1000..0b1111.
func TypeFromNibble(nibble byte) Type {
	if nibble < 0b1000 || nibble > 0b1111 {
		return Unknown
	}

	return Type(nibble)
}

// HasChannel reports whether this type carries a channel nibble. True for
// every type except Unknown and System.
func (t Type) HasChannel() bool {
	return t != Unknown && t != System
}

// HasID reports whether this type's second byte is a note/controller/
// program id rather than part of the value.
func (t Type) HasID() bool {
	switch t {
	case NoteOn, NoteOff, PolyphonicKeyPressure, Controller, ProgramChange:
		return true
	default:
		return false
	}
}

// MinValue returns the smallest legal raw value for this type.
//
// PolyphonicKeyPressure historically returned 127 in the source this was
// distilled from (see SPEC_FULL.md Open Question decisions); that is
// treated as a bug here and corrected to 0.
func (t Type) MinValue() int {
	return 0
}

// MaxValue returns the largest legal raw value for this type: 127 for most
// channel-voice messages, 32767 for PitchBend's two 7-bit halves combined.
func (t Type) MaxValue() int {
	switch t {
	case PitchBend:
		return 32767
	case NoteOff, NoteOn, PolyphonicKeyPressure, Controller, ChannelPressure:
		return 127
	default:
		return 0
	}
}

// String renders a Type for logging and the §4.H JSON-ish Event display.
func (t Type) String() string {
	switch t {
	case NoteOff:
		return "note_off"
	case NoteOn:
		return "note_on"
	case PolyphonicKeyPressure:
		return "polyphonic_key_pressure"
	case Controller:
		return "controller"
	case ProgramChange:
		return "program_change"
	case ChannelPressure:
		return "channel_pressure"
	case PitchBend:
		return "pitch_bend"
	case System:
		return "system"
	default:
		return "unknown"
	}
}

// ParseType accepts the YAML enum spelling from spec §6 ("note_off",
// "note_on", ...).
func ParseType(s string) (Type, error) {
	switch s {
	case "note_off":
		return NoteOff, nil
	case "note_on":
		return NoteOn, nil
	case "polyphonic_key_pressure":
		return PolyphonicKeyPressure, nil
	case "controller":
		return Controller, nil
	case "program_change":
		return ProgramChange, nil
	case "channel_pressure":
		return ChannelPressure, nil
	case "pitch_bend":
		return PitchBend, nil
	case "system":
		return System, nil
	default:
		return Unknown, fmt.Errorf("mievent: unknown event type %q", s)
	}
}

// Key packs (type, channel, id) into the 32-bit routing key from spec §3:
// (type<<16) | (channel<<8) | id.
func Key(t Type, channel, id uint8) uint32 {
	return uint32(t)<<16 | uint32(channel)<<8 | uint32(id)
}
