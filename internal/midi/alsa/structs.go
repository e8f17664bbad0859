// Package alsa implements the Linux ALSA sequencer driver backend described
// in spec §4.D: it is the "driver-specific backend (currently one: the
// Linux sequencer)" the rest of the daemon treats as an external collaborator
// via the midi.Driver/midi.Client interfaces.
//
// There is no pure-Go ALSA sequencer binding in the dependency pack this
// repository was built from, so this package talks to /dev/snd/seq
// directly over the kernel ioctl ABI (include/uapi/sound/asequencer.h),
// the same way internal/uapi in a ublk-style block driver talks to its
// kernel interface: packed structs with a compile-time size assertion next
// to each one, and plain unix.Syscall(SYS_IOCTL, ...) calls.
package alsa

import "unsafe"

// clientInfo mirrors struct snd_seq_client_info (trimmed to the fields this
// package reads/writes; the kernel tolerates unknown trailing reserved
// bytes being zero).
type clientInfo struct {
	Client          int32
	Type            int32
	Name            [64]byte
	Filter          uint32
	MulticastFilter [8]byte
	Reserved        [48]byte
	EventLost       int32
	CardID          int32
	PID             int32
	NumPorts        int32
	EventFiltered   int32
	Reserved2       [56]byte
}

// portInfo mirrors struct snd_seq_port_info.
type portInfo struct {
	Addr          addrT
	Name          [64]byte
	Capability    uint32
	Type          uint32
	MidiChannels  int32
	MidiVoices    int32
	SynthVoices   int32
	ReadUse       int32
	WriteUse      int32
	Kernel        uint64 // opaque pointer field, unused from userspace
	Flags         uint32
	TimeQueue     uint8
	TimeReal      uint8
	Direction     uint8
	UmpGroup      uint8
	Reserved      [59]byte
}

// addrT mirrors struct snd_seq_addr { client, port } - the native port
// address (spec §3 "Addr(native address)").
type addrT struct {
	Client uint8
	Port   uint8
}

// portSubscribe mirrors struct snd_seq_port_subscribe.
type portSubscribe struct {
	Sender   addrT
	Dest     addrT
	Voices   uint8
	Flags    uint8
	QueueID  uint8
	Pad      [3]byte
	Reserved [64]byte
}

// queueInfo mirrors the fields of struct snd_seq_queue_info. Nothing in this
// package allocates a queue: Connect only subscribes, and no code uses this
// type.
type queueInfo struct {
	Queue    int32
	Owner    int32
	Locked   int32
	Name     [64]byte
	Flags    uint32
	Reserved [60]byte
}

// systemInfo mirrors struct snd_seq_system_info, used only for its current
// client count, which pre-sizes ListPorts' result.
type systemInfo struct {
	Queues   int32
	Clients  int32
	Ports    int32
	Channels int32
	CurClients int32
	CurQueues  int32
	Reserved   [24]byte
}

// event mirrors the fixed-size prefix of struct snd_seq_event: type, flags,
// tag/queue/time addressing and an inline 12-byte data union big enough
// for every channel-voice message and the "connect" payload used by
// PORT_START / PORT_UNSUBSCRIBED notifications.
type event struct {
	Type     uint8
	Flags    uint8
	Tag      uint8
	Queue    uint8
	TimeTick uint32
	TimeReal [8]byte // struct timespec-shaped; tick-mode queues leave this zero
	Source   addrT
	Dest     addrT
	Data     [12]byte
}

const (
	sizeofEvent      = int(unsafe.Sizeof(event{}))
	sizeofPortInfo   = int(unsafe.Sizeof(portInfo{}))
	sizeofClientInfo = int(unsafe.Sizeof(clientInfo{}))
)

// connectData is event.Data reinterpreted for PORT_START/PORT_EXIT/
// PORT_UNSUBSCRIBED notifications: the (sender, dest) addr pair of the
// subscription that started or ended.
type connectData struct {
	Sender addrT
	Dest   addrT
}

func (e *event) connect() connectData {
	return connectData{
		Sender: addrT{Client: e.Data[0], Port: e.Data[1]},
		Dest:   addrT{Client: e.Data[2], Port: e.Data[3]},
	}
}

// channel, param1 and param2 read the 3-byte (channel, note/param, velocity/value)
// layout shared by note and control-change style events.
func (e *event) channel() uint8 { return e.Data[0] }
func (e *event) param1() uint8  { return e.Data[1] }
func (e *event) param2() uint8  { return e.Data[2] }
