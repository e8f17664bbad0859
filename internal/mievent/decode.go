package mievent

import (
	"log/slog"
	"time"
)

// Event is a decoded MIDI message. Raw borrows the byte slice it was
// decoded from; Decode never copies unless the caller asks it to via
// Clone, matching the zero-copy decode described in spec §4.B and §9.
type Event struct {
	Type      Type
	Channel   uint8
	ID        uint8
	Value     uint16
	Raw       []byte
	Timestamp *time.Time
}

// Key returns this event's routing-table key.
func (e Event) Key() uint32 {
	return Key(e.Type, e.Channel, e.ID)
}

// Clone produces a value-owning copy of e, with Raw copied into a fresh
// slice. Required whenever an Event crosses a queue boundary into another
// goroutine (spec §9 "Event ownership").
func (e Event) Clone() Event {
	raw := make([]byte, len(e.Raw))
	copy(raw, e.Raw)

	e.Raw = raw

	return e
}

// Decode turns a raw MIDI status+data byte sequence into an Event, per the
// per-type layouts in spec §4.B. An empty slice logs a warning and returns
// a default Unknown event.
func Decode(logger *slog.Logger, raw []byte) Event {
	if len(raw) == 0 {
		if logger != nil {
			logger.Warn("decode: empty signal")
		}

		return Event{Type: Unknown}
	}

	b0 := raw[0]
	typ := TypeFromNibble(b0 >> 4)

	var channel uint8
	if typ.HasChannel() {
		channel = b0 & 0x0F
	}

	var id uint8

	var value uint16

	switch typ {
	case NoteOn, NoteOff, PolyphonicKeyPressure, Controller:
		id, value = byteAt(raw, 1), uint16(byteAt(raw, 2))
	case ProgramChange:
		id, value = byteAt(raw, 1), 0
	case PitchBend:
		id = 0
		value = uint16(byteAt(raw, 2))<<8 | uint16(byteAt(raw, 1))
	case ChannelPressure:
		id, value = 0, uint16(byteAt(raw, 1))
	case System:
		id, value = 0, 0
	case Unknown:
		if logger != nil {
			logger.Warn("decode: unknown signal type", "status", b0)
		}

		id, value = 0, 0
	}

	return Event{
		Type:    typ,
		Channel: channel,
		ID:      id,
		Value:   value,
		Raw:     raw,
	}
}

// byteAt returns raw[i] or 0 if the slice is short; real sequencer frames
// are always long enough for their declared type, but a corrupt or
// truncated frame should decode to zeroes rather than panic.
func byteAt(raw []byte, i int) byte {
	if i >= len(raw) {
		return 0
	}

	return raw[i]
}
