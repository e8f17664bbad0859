// Package indicator drives the optional "device active" GPIO status line
// described in SPEC_FULL.md's domain stack (config key "status_gpio"):
// a single output line held high for as long as at least one device is
// connected.
package indicator

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"

	"github.com/zawwz/rmidimap/internal/config"
)

// Line drives one GPIO output line as a refcounted "any device connected"
// indicator: the line goes high on the first Connected call and low again
// once every matching Disconnected call has come back in.
type Line struct {
	mu    sync.Mutex
	line  *gpiocdev.Line
	count int
}

// Open requests cfg's line as an output, initially low.
func Open(cfg config.StatusGPIO) (*Line, error) {
	chip, err := gpiocdev.RequestLine(cfg.Chip, cfg.Line, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("indicator: request %s:%d: %w", cfg.Chip, cfg.Line, err)
	}

	return &Line{line: chip}, nil
}

// Connected increments the active-device count, driving the line high on
// the 0->1 transition.
func (l *Line) Connected() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.count++

	if l.count == 1 {
		_ = l.line.SetValue(1)
	}
}

// Disconnected decrements the active-device count, driving the line low on
// the 1->0 transition. Ignored if already at zero.
func (l *Line) Disconnected() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.count == 0 {
		return
	}

	l.count--

	if l.count == 0 {
		_ = l.line.SetValue(0)
	}
}

// Close releases the underlying GPIO line handle.
func (l *Line) Close() error {
	return l.line.Close()
}
