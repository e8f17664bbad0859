// Command midimapd watches a MIDI device for matching events and runs the
// configured child process actions (spec §1, §6).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/zawwz/rmidimap/internal/config"
	"github.com/zawwz/rmidimap/internal/discovery"
	"github.com/zawwz/rmidimap/internal/indicator"
	"github.com/zawwz/rmidimap/internal/logging"
	"github.com/zawwz/rmidimap/internal/midi"
	"github.com/zawwz/rmidimap/internal/midi/alsa"
	"github.com/zawwz/rmidimap/internal/supervisor"
)

func main() {
	listPorts := pflag.BoolP("list", "l", false, "List available MIDI ports and exit.")
	verbose := pflag.BoolP("verbose", "v", false, "Enable debug logging.")
	pflag.Parse()

	if err := run(*listPorts, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run(listOnly, verbose bool) error {
	driver := alsa.NewDriver()

	if listOnly {
		return listDevicePorts(driver)
	}

	args := pflag.Args()
	if len(args) == 0 {
		return errors.New("no map file was provided")
	}

	logger := logging.New(verbose)

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	for {
		cfg, err := config.Parse(data)
		if err != nil {
			return fmt.Errorf("parse config: %w", err)
		}

		if err := runOnce(ctx, logger, driver, cfg, args[0]); err != nil {
			if errors.Is(err, supervisor.ErrReload) {
				data, err = os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("reload config: %w", err)
				}

				continue
			}

			// SIGINT/SIGTERM: Run returns ctx's error after a clean shutdown.
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				return nil
			}

			return err
		}

		return nil
	}
}

func runOnce(ctx context.Context, logger *slog.Logger, driver midi.Driver, cfg *config.Config, _ string) error {
	var ind *indicator.Line

	if cfg.StatusGPIO != nil {
		var err error

		ind, err = indicator.Open(*cfg.StatusGPIO)
		if err != nil {
			logger.Warn("status_gpio unavailable", "error", err)
		} else {
			defer ind.Close()
		}
	}

	if cfg.Advertise {
		advertiseCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		go func() {
			if err := discovery.Advertise(advertiseCtx, "rmidimap", 0); err != nil && advertiseCtx.Err() == nil {
				logger.Warn("mDNS advertise failed", "error", err)
			}
		}()
	}

	sup := supervisor.New(logger, driver, cfg, ind)

	if driver.Kind() == midi.KindALSA {
		sup.WithNameEnricher(alsa.EnrichNames).WithSecondaryWatch(alsa.WatchSecondary)
	}

	return sup.Run(ctx)
}

func listDevicePorts(driver midi.Driver) error {
	client, err := driver.Open(midi.ClientNameHandler)
	if err != nil {
		return fmt.Errorf("open client: %w", err)
	}
	defer client.Close()

	ports, err := client.ListPorts()
	if err != nil {
		return fmt.Errorf("list ports: %w", err)
	}

	fmt.Println(" Addr\tName")

	for _, p := range ports {
		fmt.Println(p.String())
	}

	return nil
}
