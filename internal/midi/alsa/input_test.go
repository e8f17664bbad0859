package alsa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeChannelFrame_NoteOn(t *testing.T) {
	ev := &event{Type: evNoteon, Data: [12]byte{3, 60, 100}}

	frame := decodeChannelFrame(ev)

	assert.Equal(t, []byte{0x93, 60, 100}, frame)
}

func TestDecodeChannelFrame_ProgramChange(t *testing.T) {
	ev := &event{Type: evPgmchange, Data: [12]byte{0, 12}}

	frame := decodeChannelFrame(ev)

	assert.Equal(t, []byte{0xC0, 12}, frame)
}

func TestDecodeChannelFrame_PitchBend_Centered(t *testing.T) {
	ev := &event{Type: evPitchbend, Data: [12]byte{0, 0, 0, 0, 0}}

	frame := decodeChannelFrame(ev)

	assert.Equal(t, byte(0x40), frame[2]) // 8192 >> 7 == 64 == 0x40
	assert.Equal(t, byte(0x00), frame[1])
}

func TestDecodeChannelFrame_Unknown(t *testing.T) {
	ev := &event{Type: 0xFE}

	assert.Nil(t, decodeChannelFrame(ev))
}

func TestLastF7(t *testing.T) {
	assert.Equal(t, 2, lastF7([]byte{0xF0, 0x01, 0xF7}))
	assert.Equal(t, -1, lastF7([]byte{0xF0, 0x01}))
}

func TestCstr(t *testing.T) {
	assert.Equal(t, "abc", cstr([]byte{'a', 'b', 'c', 0, 0, 0}))
	assert.Equal(t, "abc", cstr([]byte{'a', 'b', 'c'}))
}

func TestParseAddr(t *testing.T) {
	addr, err := parseAddr("20:0")
	assert.NoError(t, err)
	assert.Equal(t, addrT{Client: 20, Port: 0}, addr)

	_, err = parseAddr("nope")
	assert.Error(t, err)
}
