// Package supervisor implements the top-level orchestration loop described
// in spec §4.G: it owns the initial port scan, the hot-plug watch, and the
// per-rule connection-cap bookkeeping, and hands each successful connection
// off to internal/worker. It is the Go mirror of the source's
// run::run_config plus its try_connect_process helper.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/zawwz/rmidimap/internal/config"
	"github.com/zawwz/rmidimap/internal/indicator"
	"github.com/zawwz/rmidimap/internal/logging"
	"github.com/zawwz/rmidimap/internal/midi"
	"github.com/zawwz/rmidimap/internal/routing"
	"github.com/zawwz/rmidimap/internal/worker"
)

// ErrReload is returned by Run when SIGUSR1 was received: the caller is
// expected to re-read its config file and call Run again (spec §4.G
// "SIGUSR1 triggers a graceful reload").
var ErrReload = errors.New("supervisor: reload requested")

// ReloadBanner is printed verbatim on SIGUSR1, preserving the source's
// message (including its misspelling) per SPEC_FULL.md's decision to keep
// it byte-for-byte.
const ReloadBanner = "Recieved SIGUSR1, reloading config file"

// rule bundles one device's static config with its pre-built routing table
// and, when max_connections is set, the shared counter enforcing it.
type rule struct {
	dev     *config.DeviceConfig
	table   *routing.Table
	counter *connCounter
}

type connCounter struct {
	mu  sync.Mutex
	cur uint32
	max uint32
}

func (c *connCounter) tryAcquire() bool {
	if c == nil {
		return true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cur >= c.max {
		return false
	}

	c.cur++

	return true
}

func (c *connCounter) release() {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.cur--
	c.mu.Unlock()
}

// Supervisor runs every configured device against one driver backend.
type Supervisor struct {
	logger     *slog.Logger
	driver     midi.Driver
	rules      []*rule
	indicator  *indicator.Line
	logDevices bool

	enrichNames    func([]midi.Port) []midi.Port
	secondaryWatch func(context.Context, chan<- struct{}) error

	mu        sync.Mutex
	connected map[string]bool
}

// New builds a Supervisor from cfg, pre-building each device's routing
// table (spec §4.C) and connection-cap counter up front. ind may be nil
// when the config carries no status_gpio entry.
func New(logger *slog.Logger, driver midi.Driver, cfg *config.Config, ind *indicator.Line) *Supervisor {
	s := &Supervisor{
		logger:     logger,
		driver:     driver,
		indicator:  ind,
		logDevices: cfg.LogDevices,
		connected:  make(map[string]bool),
	}

	for i := range cfg.Devices {
		dev := &cfg.Devices[i]

		r := &rule{dev: dev, table: dev.BuildRoutingTable()}
		if dev.MaxConnections != nil {
			r.counter = &connCounter{max: *dev.MaxConnections}
		}

		s.rules = append(s.rules, r)
	}

	return s
}

// WithNameEnricher installs a post-processing step applied to every port
// enumeration before it is matched against rules, e.g. replacing terse
// sequencer names with udev vendor/model strings (SPEC_FULL.md domain
// stack: go-udev). Returns s for chaining in the caller's setup.
func (s *Supervisor) WithNameEnricher(fn func([]midi.Port) []midi.Port) *Supervisor {
	s.enrichNames = fn

	return s
}

// WithSecondaryWatch installs an additional hot-plug signal source,
// independent of the driver's own device-event stream: whenever fn sends on
// its wake channel, Run re-enumerates ports and attempts to connect any not
// already claimed (SPEC_FULL.md domain stack: udev add events can precede
// the sequencer registering its client). Returns s for chaining.
func (s *Supervisor) WithSecondaryWatch(fn func(context.Context, chan<- struct{}) error) *Supervisor {
	s.secondaryWatch = fn

	return s
}

func (s *Supervisor) enrich(ports []midi.Port) []midi.Port {
	if s.enrichNames == nil {
		return ports
	}

	return s.enrichNames(ports)
}

// Run performs the initial port scan, spawns the hot-plug watcher and
// blocks until ctx is cancelled (clean shutdown: every worker is joined and
// ctx.Err() is returned) or SIGUSR1 arrives (ErrReload).
func (s *Supervisor) Run(ctx context.Context) error {
	probe, err := s.driver.Open(midi.ClientNameHandler)
	if err != nil {
		return fmt.Errorf("supervisor: open probe client: %w", err)
	}
	defer probe.Close()

	ports, err := probe.ListPorts()
	if err != nil {
		return fmt.Errorf("supervisor: list ports: %w", err)
	}

	ports = s.enrich(ports)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup

	for _, p := range ports {
		s.tryConnectAndSpawn(runCtx, &wg, probe, p)
	}

	var secondaryWakeCh chan struct{}

	if s.secondaryWatch != nil {
		secondaryWakeCh = make(chan struct{}, 1)

		go func() {
			if err := s.secondaryWatch(runCtx, secondaryWakeCh); err != nil && runCtx.Err() == nil {
				s.logger.Warn("secondary watch exited", "error", err)
			}
		}()
	}

	devCh := make(chan midi.Port)

	eventClient, err := s.driver.Open(midi.ClientNameEvent)
	if err != nil {
		return fmt.Errorf("supervisor: open event client: %w", err)
	}
	defer eventClient.Close()

	watchErrCh := make(chan error, 1)

	go func() {
		watchErrCh <- eventClient.WatchDeviceEvents(runCtx, devCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGUSR1)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			cancel()
			wg.Wait()

			return ctx.Err()

		case <-sigCh:
			s.logger.Info(logging.Banner(ReloadBanner))
			cancel()
			wg.Wait()

			return ErrReload

		case err := <-watchErrCh:
			if err != nil && ctx.Err() == nil {
				s.logger.Warn("device watcher exited", "error", err)
			}

		case p, ok := <-devCh:
			if !ok {
				continue
			}

			if s.logDevices {
				s.logger.Info(logging.Banner(fmt.Sprintf("%s: device connect: %s", midi.ClientNameHandler, p.Addr)))
			}

			s.tryConnectAndSpawn(runCtx, &wg, probe, p)

		case _, ok := <-secondaryWakeCh:
			if !ok {
				secondaryWakeCh = nil

				continue
			}

			s.rescan(runCtx, &wg, probe)
		}
	}
}

// rescan re-enumerates ports and attempts to connect any not already
// claimed by a running worker, the response to a secondary hot-plug nudge
// that carries no port identity of its own (spec §9's driver-neutral
// watch stream stays the source of truth; this only prompts a re-check).
func (s *Supervisor) rescan(ctx context.Context, wg *sync.WaitGroup, probe midi.Client) {
	ports, err := probe.ListPorts()
	if err != nil {
		s.logger.Warn("rescan: list ports failed", "error", err)

		return
	}

	for _, p := range s.enrich(ports) {
		s.tryConnectAndSpawn(ctx, wg, probe, p)
	}
}

// tryConnectAndSpawn walks s.rules in order, connecting to the first rule
// whose filter accepts p and whose connection counter has room, then spawns
// a worker goroutine for it. At most one rule claims any given port, the
// same "break on first match" behavior as try_connect_process.
func (s *Supervisor) tryConnectAndSpawn(ctx context.Context, wg *sync.WaitGroup, probe midi.Client, p midi.Port) {
	if !s.claim(p.Addr) {
		return
	}

	claimed := false

	for _, r := range s.rules {
		if !r.counter.tryAcquire() {
			continue
		}

		client, err := midi.TryConnect(probe, s.driver, p, r.dev.PortFilter())
		if err != nil {
			s.logger.Warn("connect failed", "port", p.Addr, "error", err)
			r.counter.release()

			break
		}

		if client == nil {
			r.counter.release()

			continue
		}

		claimed = true

		wg.Add(1)

		if s.indicator != nil {
			s.indicator.Connected()
		}

		go func(r *rule, client midi.Client) {
			defer wg.Done()
			defer r.counter.release()
			defer client.Close()
			defer s.release(p.Addr)

			if s.indicator != nil {
				defer s.indicator.Disconnected()
			}

			if err := worker.Run(ctx, s.logger, client, r.dev, r.table); err != nil && ctx.Err() == nil {
				s.logger.Warn("device run loop exited", "error", err)
			}
		}(r, client)

		break
	}

	if !claimed {
		s.release(p.Addr)
	}
}

// claim records p as owned so a later rescan (from a secondary hot-plug
// nudge that re-enumerates every port, not just new ones) doesn't spawn a
// second worker against an already-connected address. Returns false if
// already claimed.
func (s *Supervisor) claim(addr string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected[addr] {
		return false
	}

	s.connected[addr] = true

	return true
}

func (s *Supervisor) release(addr string) {
	s.mu.Lock()
	delete(s.connected, addr)
	s.mu.Unlock()
}
