package mievent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/zawwz/rmidimap/internal/mievent"
)

func TestDecode_NoteOn(t *testing.T) {
	e := mievent.Decode(nil, []byte{0x90, 0x40, 0x7F})

	assert.Equal(t, mievent.NoteOn, e.Type)
	assert.Equal(t, uint8(0), e.Channel)
	assert.Equal(t, uint8(64), e.ID)
	assert.Equal(t, uint16(127), e.Value)
	assert.Equal(t, uint32(0x090040), e.Key())
}

func TestDecode_PitchBend(t *testing.T) {
	e := mievent.Decode(nil, []byte{0xE2, 0x00, 0x40})

	assert.Equal(t, mievent.PitchBend, e.Type)
	assert.Equal(t, uint8(2), e.Channel)
	assert.Equal(t, uint8(0), e.ID)
	assert.Equal(t, uint16(16384), e.Value)
}

func TestDecode_Empty(t *testing.T) {
	e := mievent.Decode(nil, nil)
	assert.Equal(t, mievent.Unknown, e.Type)
}

func TestDecode_Controller(t *testing.T) {
	e := mievent.Decode(nil, []byte{0xB0, 0x07, 0x64})
	assert.Equal(t, mievent.Controller, e.Type)
	assert.Equal(t, uint8(7), e.ID)
	assert.Equal(t, uint16(100), e.Value)
}

// Round-trip encoding property from spec §8: re-encoding a decoded event
// (type != Unknown/System) via the canonical layout yields the input bytes.
func TestDecode_RoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		typ := rapid.SampledFrom([]mievent.Type{
			mievent.NoteOn, mievent.NoteOff, mievent.PolyphonicKeyPressure,
			mievent.Controller, mievent.ProgramChange, mievent.ChannelPressure,
			mievent.PitchBend,
		}).Draw(rt, "type")

		channel := uint8(rapid.IntRange(0, 15).Draw(rt, "channel"))
		status := byte(typ)<<4 | channel

		var raw []byte

		switch typ {
		case mievent.NoteOn, mievent.NoteOff, mievent.PolyphonicKeyPressure, mievent.Controller:
			raw = []byte{status, byte(rapid.IntRange(0, 127).Draw(rt, "id")), byte(rapid.IntRange(0, 127).Draw(rt, "value"))}
		case mievent.ProgramChange:
			raw = []byte{status, byte(rapid.IntRange(0, 127).Draw(rt, "id")), 0}
		case mievent.ChannelPressure:
			raw = []byte{status, byte(rapid.IntRange(0, 127).Draw(rt, "value")), 0}
		case mievent.PitchBend:
			lo := byte(rapid.IntRange(0, 127).Draw(rt, "lo"))
			hi := byte(rapid.IntRange(0, 127).Draw(rt, "hi"))
			raw = []byte{status, lo, hi}
		}

		e := mievent.Decode(nil, raw)

		var reencoded []byte

		switch e.Type {
		case mievent.PitchBend:
			reencoded = []byte{status, byte(e.Value & 0x7F), byte(e.Value >> 8)}
		case mievent.ProgramChange:
			reencoded = []byte{status, e.ID, 0}
		case mievent.ChannelPressure:
			reencoded = []byte{status, byte(e.Value), 0}
		default:
			reencoded = []byte{status, e.ID, byte(e.Value)}
		}

		assert.Equal(rt, raw, reencoded)
	})
}
