package worker_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zawwz/rmidimap/internal/config"
	"github.com/zawwz/rmidimap/internal/midi"
	"github.com/zawwz/rmidimap/internal/routing"
	"github.com/zawwz/rmidimap/internal/values"
	"github.com/zawwz/rmidimap/internal/worker"
)

// fakeClient implements midi.Client by replaying a fixed list of frames
// once RunInput is called, then blocking on ctx.
type fakeClient struct {
	frames [][]byte
}

func (f *fakeClient) ListPorts() ([]midi.Port, error)                  { return nil, nil }
func (f *fakeClient) FilterPorts([]midi.Port, midi.Filter) []midi.Port { return nil }
func (f *fakeClient) Connect(string, string) error                    { return nil }
func (f *fakeClient) WatchDeviceEvents(context.Context, chan<- midi.Port) error {
	return nil
}
func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) RunInput(ctx context.Context, cb midi.FrameCallback) error {
	for _, frame := range f.frames {
		cb(frame, nil)
	}

	<-ctx.Done()

	return ctx.Err()
}

func TestRun_RoutesDecodedFrameToAction(t *testing.T) {
	out := filepath.Join(t.TempDir(), "value")

	rule := &config.EventRule{
		Channels: values.NewIntRangeSet(0, 15),
		IDs:      values.NewIntRangeSet(0, 127),
		Actions:  []config.ActionSpec{{Args: []string{"sh", "-c", `printf %s "$value" > "$1"`, "sh", out}}},
	}
	rule.Type = 0 // dispatch reads only the handle's actions; the routing.Rule below carries the key's type

	table := routing.Build([]*routing.Rule{
		{
			Type:     9, // NoteOn nibble value, matches mievent.NoteOn
			Channels: values.NewIntRangeSet(0, 15),
			IDs:      values.NewIntRangeSet(0, 127),
			Handle:   rule,
		},
	})

	client := &fakeClient{frames: [][]byte{{0x90, 60, 100}}}

	dev := &config.DeviceConfig{QueueLength: 8}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := worker.Run(ctx, slog.Default(), client, dev, table)
	require.Error(t, err) // ctx deadline, not a real failure
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	got, readErr := os.ReadFile(out)
	require.NoError(t, readErr)
	assert.Equal(t, "100", string(got))
}
