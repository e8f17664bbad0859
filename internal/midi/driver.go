package midi

import (
	"context"
	"errors"
	"time"
)

// ErrAlreadyConnected is returned by Client.Connect when called a second
// time on an already-connected client (spec §4.D).
var ErrAlreadyConnected = errors.New("midi: client is already connected")

// Kind enumerates the driver backends a Driver constant can select (spec
// §9 "Polymorphism over driver backends"). Only ALSA exists today; the
// supervisor is parameterized on the chosen Driver once at startup, so
// adding a second backend never touches supervisor code.
type Kind int

const (
	KindALSA Kind = iota
)

// FrameCallback receives one decoded byte-frame from the driver, with a
// timestamp when the backend's queue supplies a relative time (spec §4.D
// step 8).
type FrameCallback func(frame []byte, ts *time.Time)

// Client is a single driver-backend connection: opened with a client name,
// optionally subscribed to one source port, and closed exactly once.
type Client interface {
	// ListPorts enumerates all currently visible ports.
	ListPorts() ([]Port, error)

	// FilterPorts narrows ports down to those matching filter.
	FilterPorts(ports []Port, filter Filter) []Port

	// Connect subscribes this client's virtual destination port to addr.
	// Returns ErrAlreadyConnected if already connected.
	Connect(addr, clientName string) error

	// WatchDeviceEvents subscribes to the system-announce port and sends
	// every newly started port on tx until ctx is cancelled.
	WatchDeviceEvents(ctx context.Context, tx chan<- Port) error

	// RunInput pumps decoded frames to cb until ctx is cancelled or the
	// connected source disappears (PortUnsubscribed).
	RunInput(ctx context.Context, cb FrameCallback) error

	// Close releases the client's sequencer handle, subscription and
	// self-pipe. Idempotent.
	Close() error
}

// Driver constructs Clients for one backend.
type Driver interface {
	Open(clientName string) (Client, error)
	Kind() Kind
}
