package alsa

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/zawwz/rmidimap/internal/midi"
)

const (
	seqDevice = "/dev/snd/seq"

	// Port capability/type bits this package actually sets (subset of
	// SNDRV_SEQ_PORT_CAP_* / SNDRV_SEQ_PORT_TYPE_*).
	capWrite        = 1 << 1
	capSubsWrite    = 1 << 5
	typeMidiGeneric = 1 << 1
	typeApplication = 1 << 20

	// System client/port addresses (SNDRV_SEQ_CLIENT_SYSTEM,
	// SNDRV_SEQ_PORT_SYSTEM_ANNOUNCE).
	systemClient          = 0
	systemAnnouncePort    = 1

	// Event types this package decodes (snd_seq_event_type).
	evNoteon         = 6
	evNoteoff        = 7
	evKeypress       = 8
	evController     = 10
	evPgmchange      = 11
	evChanpress      = 12
	evPitchbend      = 13
	evSysex          = 130
	evPortStart      = 63
	evPortExit       = 64
	evPortSubscribed = 65
	evPortUnsubscribed = 66
)

// driver is the midi.Driver implementation for the Linux sequencer.
type driver struct{}

// NewDriver returns the ALSA sequencer midi.Driver.
func NewDriver() midi.Driver { return driver{} }

func (driver) Kind() midi.Kind { return midi.KindALSA }

func (driver) Open(clientName string) (midi.Client, error) {
	return open(clientName)
}

// Client is the ALSA sequencer midi.Client: one open handle on /dev/snd/seq,
// an optional created application port, and at most one active
// subscription. stopR/stopW form the self-pipe used to wake RunInput's
// poll() from Close without racing the sequencer fd (spec §4.D step 2).
type Client struct {
	mu sync.Mutex

	fd       int
	clientID int32
	port     addrT

	stopR, stopW int
	closed       bool

	subscribed   bool
	subSender    addrT
	startTime    time.Time
}

func open(clientName string) (*Client, error) {
	fd, err := unix.Open(seqDevice, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("alsa: open %s: %w", seqDevice, err)
	}

	id, err := ioctlClientID(fd)
	if err != nil {
		_ = unix.Close(fd)

		return nil, fmt.Errorf("alsa: query client id: %w", err)
	}

	info, err := ioctlGetClientInfo(fd, id)
	if err != nil {
		_ = unix.Close(fd)

		return nil, fmt.Errorf("alsa: get client info: %w", err)
	}

	copy(info.Name[:], clientName)

	if err := ioctlSetClientInfo(fd, info); err != nil {
		_ = unix.Close(fd)

		return nil, fmt.Errorf("alsa: set client name: %w", err)
	}

	port := portInfo{
		Capability: capWrite | capSubsWrite,
		Type:       typeMidiGeneric | typeApplication,
	}
	copy(port.Name[:], clientName+" port")

	if err := ioctlCreatePort(fd, &port); err != nil {
		_ = unix.Close(fd)

		return nil, fmt.Errorf("alsa: create port: %w", err)
	}

	stopR, stopW, err := selfPipe()
	if err != nil {
		_ = unix.Close(fd)

		return nil, fmt.Errorf("alsa: create stop pipe: %w", err)
	}

	return &Client{
		fd:       fd,
		clientID: id,
		port:     port.Addr,
		stopR:    stopR,
		stopW:    stopW,
	}, nil
}

func selfPipe() (r, w int, err error) {
	fds, err := unix.Pipe2(nil, unix.O_NONBLOCK|unix.O_CLOEXEC)
	if err != nil {
		return 0, 0, err
	}

	return fds[0], fds[1], nil
}

// ListPorts enumerates every client/port pair the sequencer currently
// exposes, walking clients and ports with QUERY_NEXT_CLIENT/
// QUERY_NEXT_PORT the way `aconnect -l`/`arecordmidi -l` do.
func (c *Client) ListPorts() ([]midi.Port, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ports := make([]midi.Port, 0, portsCapHint(c.fd))

	client := clientInfo{Client: -1}

	for {
		if err := ioctlQueryNextClient(c.fd, &client); err != nil {
			break
		}

		port := portInfo{Addr: addrT{Client: uint8(client.Client), Port: 255}}

		for {
			if err := ioctlQueryNextPort(c.fd, &port); err != nil {
				break
			}

			if port.Capability&capSubsWrite == 0 {
				continue
			}

			ports = append(ports, midi.Port{
				Name: fmt.Sprintf("%s %s", cstr(client.Name[:]), cstr(port.Name[:])),
				Addr: fmt.Sprintf("%d:%d", port.Addr.Client, port.Addr.Port),
			})
		}
	}

	return ports, nil
}

// portsCapHint queries the sequencer's current client count to
// pre-size ListPorts' result slice, avoiding repeated reallocation during
// the QUERY_NEXT_CLIENT/QUERY_NEXT_PORT walk on a system with many clients.
// Falls back to a small default if the query fails.
func portsCapHint(fd int) int {
	info, err := ioctlSystemInfo(fd)
	if err != nil {
		return 8
	}

	return int(info.CurClients)
}

// FilterPorts applies filter to ports; it carries no sequencer state so it
// is equally usable on a probe client's enumeration result.
func (c *Client) FilterPorts(ports []midi.Port, filter midi.Filter) []midi.Port {
	out := ports[:0:0]

	for _, p := range ports {
		if filter.Matches(p) {
			out = append(out, p)
		}
	}

	return out
}

// Connect subscribes this client's application port to addr's output.
func (c *Client) Connect(addr, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.subscribed {
		return midi.ErrAlreadyConnected
	}

	src, err := parseAddr(addr)
	if err != nil {
		return err
	}

	sub := portSubscribe{Sender: src, Dest: c.port}

	if err := ioctlSubscribePort(c.fd, &sub); err != nil {
		return fmt.Errorf("alsa: subscribe %s: %w", addr, err)
	}

	c.subscribed = true
	c.subSender = src
	c.startTime = time.Now()

	return nil
}

func parseAddr(addr string) (addrT, error) {
	var client, port uint8

	n, err := fmt.Sscanf(strings.TrimSpace(addr), "%d:%d", &client, &port)
	if err != nil || n != 2 {
		return addrT{}, fmt.Errorf("alsa: invalid port address %q", addr)
	}

	return addrT{Client: client, Port: port}, nil
}

func cstr(b []byte) string {
	if i := indexZero(b); i >= 0 {
		b = b[:i]
	}

	return string(b)
}

func indexZero(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}

	return -1
}

// Close unsubscribes (if connected), deletes the application port and
// closes the sequencer handle and self-pipe. Safe to call more than once
// and safe to call concurrently with a blocked RunInput, which it wakes via
// the self-pipe write end.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true

	if c.subscribed {
		sub := portSubscribe{Sender: c.subSender, Dest: c.port}
		_ = ioctlUnsubscribePort(c.fd, &sub)
	}

	_, _ = unix.Write(c.stopW, []byte{0})
	_ = unix.Close(c.stopW)
	_ = unix.Close(c.stopR)

	port := portInfo{Addr: c.port}
	_ = ioctlDeletePort(c.fd, &port)

	return unix.Close(c.fd)
}
