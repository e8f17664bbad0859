package supervisor_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zawwz/rmidimap/internal/config"
	"github.com/zawwz/rmidimap/internal/midi"
	"github.com/zawwz/rmidimap/internal/supervisor"
)

type fakeClient struct {
	ports []midi.Port
}

func (f *fakeClient) ListPorts() ([]midi.Port, error)                  { return f.ports, nil }
func (f *fakeClient) FilterPorts(p []midi.Port, flt midi.Filter) []midi.Port {
	var out []midi.Port

	for _, port := range p {
		if flt.Matches(port) {
			out = append(out, port)
		}
	}

	return out
}
func (f *fakeClient) Connect(string, string) error { return nil }
func (f *fakeClient) WatchDeviceEvents(ctx context.Context, tx chan<- midi.Port) error {
	<-ctx.Done()

	return ctx.Err()
}
func (f *fakeClient) RunInput(ctx context.Context, _ midi.FrameCallback) error {
	<-ctx.Done()

	return ctx.Err()
}
func (f *fakeClient) Close() error { return nil }

type fakeDriver struct {
	ports []midi.Port
}

func (d *fakeDriver) Kind() midi.Kind { return midi.KindALSA }
func (d *fakeDriver) Open(string) (midi.Client, error) {
	return &fakeClient{ports: d.ports}, nil
}

func TestSupervisor_CleanShutdownOnCancel(t *testing.T) {
	cfg := &config.Config{
		Devices: []config.DeviceConfig{
			{QueueLength: 8},
		},
	}

	driver := &fakeDriver{ports: []midi.Port{{Name: "Keystation", Addr: "20:0"}}}

	s := supervisor.New(slog.Default(), driver, cfg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := s.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
