package alsa

import (
	"context"
	"time"

	"golang.org/x/sys/unix"

	"github.com/zawwz/rmidimap/internal/midi"
)

// RunInput pumps decoded frames from the subscribed source until ctx is
// cancelled or the kernel reports the subscription ended (PORT_UNSUBSCRIBED
// for this client's port), matching spec §4.D steps 1-8:
//  1. poll() over [seq fd, stop fd] with no timeout (block until either is
//     readable);
//  2. on stop fd readable (written by Close, or when ctx is done), return
//     ctx's error, nil if ctx is still live;
//  3. on seq fd readable, read and decode snd_seq_event_t records one at a
//     time;
//  4. accumulate SYSEX fragments across frames until a terminating 0xF7;
//  5. timestamp every frame as start_time + the event's relative queue
//     time, when the event carries one.
func (c *Client) RunInput(ctx context.Context, cb midi.FrameCallback) error {
	pollFds := []unix.PollFd{
		{Fd: int32(c.fd), Events: unix.POLLIN},
		{Fd: int32(c.stopR), Events: unix.POLLIN},
	}

	// Wake the blocking poll below through the self-pipe once ctx is done.
	stopWake := context.AfterFunc(ctx, func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if !c.closed {
			_, _ = unix.Write(c.stopW, []byte{0})
		}
	})
	defer stopWake()

	var sysex []byte

	buf := make([]byte, sizeofEvent)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		n, err := unix.Poll(pollFds, -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}

			return err
		}

		if n == 0 {
			continue
		}

		if pollFds[1].Revents&unix.POLLIN != 0 {
			return ctx.Err()
		}

		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		nread, err := unix.Read(c.fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}

			return err
		}

		if nread < sizeofEvent {
			continue
		}

		ev := decodeEvent(buf)

		switch ev.Type {
		case evPortUnsubscribed:
			cd := ev.connect()
			if cd.Dest == c.port {
				return nil
			}
		case evSysex:
			sysex = append(sysex, ev.Data[:]...)

			if i := lastF7(sysex); i >= 0 {
				frame := append([]byte(nil), sysex[:i+1]...)
				sysex = nil
				cb(frame, c.frameTimestamp(ev))
			}
		default:
			if frame := decodeChannelFrame(ev); frame != nil {
				cb(frame, c.frameTimestamp(ev))
			}
		}
	}
}

// frameTimestamp derives the frame's wall-clock time as start_time plus the
// event's relative tick time, or nil if the event carries no queue time
// (spec §4.D step 8, §3 "Timestamp").
func (c *Client) frameTimestamp(ev *event) *time.Time {
	if ev.Queue == 0xFF {
		return nil
	}

	ts := c.startTime.Add(time.Duration(ev.TimeTick) * time.Millisecond)

	return &ts
}

func lastF7(b []byte) int {
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] == 0xF7 {
			return i
		}
	}

	return -1
}

// decodeChannelFrame converts one decoded channel-voice event back into the
// raw MIDI status+data bytes mievent.Decode expects, the sequencer's
// structured form being the mirror image of spec §4.B's byte layout.
func decodeChannelFrame(ev *event) []byte {
	channel := ev.channel() & 0x0F

	switch ev.Type {
	case evNoteoff:
		return []byte{0x80 | channel, ev.param1(), ev.param2()}
	case evNoteon:
		return []byte{0x90 | channel, ev.param1(), ev.param2()}
	case evKeypress:
		return []byte{0xA0 | channel, ev.param1(), ev.param2()}
	case evController:
		return []byte{0xB0 | channel, ev.param1(), ev.param2()}
	case evPgmchange:
		return []byte{0xC0 | channel, ev.param1()}
	case evChanpress:
		return []byte{0xD0 | channel, ev.param1()}
	case evPitchbend:
		// event.Data carries a signed 32-bit bend value centered on 0; spec
		// §4.B wants the raw 14-bit little-endian pair centered on 8192.
		value := int32(ev.Data[0]) | int32(ev.Data[1])<<8 | int32(ev.Data[2])<<16 | int32(ev.Data[3])<<24
		value += 8192

		return []byte{0xE0 | channel, byte(value & 0x7F), byte((value >> 7) & 0x7F)}
	default:
		return nil
	}
}

func decodeEvent(buf []byte) *event {
	ev := &event{
		Type:     buf[0],
		Flags:    buf[1],
		Tag:      buf[2],
		Queue:    buf[3],
		TimeTick: uint32(buf[4]) | uint32(buf[5])<<8 | uint32(buf[6])<<16 | uint32(buf[7])<<24,
	}

	copy(ev.TimeReal[:], buf[8:16])
	ev.Source = addrT{Client: buf[16], Port: buf[17]}
	ev.Dest = addrT{Client: buf[18], Port: buf[19]}
	copy(ev.Data[:], buf[20:32])

	return ev
}
