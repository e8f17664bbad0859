package alsa

import (
	"context"
	"strings"

	"github.com/jochenvg/go-udev"

	"github.com/zawwz/rmidimap/internal/midi"
)

// EnrichNames replaces each port's Name with the owning sound card's udev
// ID_VENDOR/ID_MODEL strings when udev knows about it, falling back to the
// sequencer-reported name otherwise. Sequencer port names are often terse
// ("Midi Through Port-0"); udev's USB descriptors are usually the name a
// user actually recognizes (SPEC_FULL.md domain stack: go-udev).
func EnrichNames(ports []midi.Port) []midi.Port {
	u := udev.Udev{}

	enum := u.NewEnumerate()
	if err := enum.AddMatchSubsystem("sound"); err != nil {
		return ports
	}

	devices, err := enum.Devices()
	if err != nil {
		return ports
	}

	byCard := make(map[string]string, len(devices))

	for _, d := range devices {
		card := d.PropertyValue("SOUND_INITIALIZED")
		if card == "" {
			continue
		}

		vendor := d.PropertyValue("ID_VENDOR")
		model := d.PropertyValue("ID_MODEL")

		if vendor == "" && model == "" {
			continue
		}

		byCard[card] = strings.TrimSpace(strings.ReplaceAll(vendor+" "+model, "_", " "))
	}

	if len(byCard) == 0 {
		return ports
	}

	out := make([]midi.Port, len(ports))

	for i, p := range ports {
		out[i] = p

		if name, ok := byCard[p.Addr]; ok {
			out[i].Name = name
		}
	}

	return out
}

// WatchSecondary forwards "add" udev events on the sound subsystem as a
// wake-up signal (other actions are ignored), independent from the sequencer's own
// PORT_START/PORT_EXIT announce stream. ALSA raw-MIDI USB adapters
// sometimes appear on udev slightly before the sequencer client is fully
// registered; the supervisor treats this as an extra nudge to re-scan
// rather than a source of port identities.
func WatchSecondary(ctx context.Context, wake chan<- struct{}) error {
	u := udev.Udev{}

	mon := u.NewMonitorFromNetlink("udev")
	if err := mon.FilterAddMatchSubsystem("sound"); err != nil {
		return err
	}

	deviceCh, errCh, err := mon.DeviceChan(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return err
		case d, ok := <-deviceCh:
			if !ok {
				return nil
			}

			if d.Action() != "add" {
				continue
			}

			select {
			case wake <- struct{}{}:
			default:
			}
		}
	}
}
