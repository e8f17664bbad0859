// Package worker implements the per-device run loop described in spec §4.F:
// an ingest side that decodes and routes frames into a bounded queue, and
// an executor side that drains the queue and runs actions at the device's
// configured rate, the same two-goroutine split as the source's
// thread::scope(ingest, exec_thread) in midi/input.rs.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/zawwz/rmidimap/internal/action"
	"github.com/zawwz/rmidimap/internal/config"
	"github.com/zawwz/rmidimap/internal/mievent"
	"github.com/zawwz/rmidimap/internal/midi"
	"github.com/zawwz/rmidimap/internal/routing"
)

type ruleHandle = *config.EventRule

// Run connects the device's frame source to its routing table and blocks
// until ctx is cancelled or client.RunInput returns (source disconnected or
// unsubscribed). It always runs dev's OnConnect actions before starting the
// pump and OnDisconnect actions after it stops, matching
// dev.run_connect()/dev.run_disconnect() bracketing the source's c.run call.
func Run(ctx context.Context, logger *slog.Logger, client midi.Client, dev *config.DeviceConfig, table *routing.Table) error {
	if err := action.Run(dev.OnConnect, mievent.Event{}, nil, false); err != nil {
		logger.Warn("connect action failed", "error", err)
	}

	defer func() {
		if err := action.Run(dev.OnDisconnect, mievent.Event{}, nil, false); err != nil {
			logger.Warn("disconnect action failed", "error", err)
		}
	}()

	queue := newCircularQueue(dev.QueueLength)

	var mu sync.Mutex

	wake := make(chan struct{}, 1)

	execCtx, cancelExec := context.WithCancel(ctx)
	defer cancelExec()

	var execWG sync.WaitGroup

	execWG.Add(1)

	go func() {
		defer execWG.Done()
		execute(execCtx, logger, &mu, queue, wake, table, dev.Interval.AsDuration())
	}()

	err := client.RunInput(ctx, func(frame []byte, ts *time.Time) {
		ev := mievent.Decode(logger, frame)
		ev.Timestamp = ts

		mu.Lock()
		dropped := queue.push(ev.Clone())
		mu.Unlock()

		if dropped {
			logger.Warn("queue full, dropping oldest event")
		}

		select {
		case wake <- struct{}{}:
		default:
		}
	})

	cancelExec()
	execWG.Wait()

	return err
}

// execute drains queue at dev.Interval pacing: one event per iteration,
// dispatched through table to every matching rule (spec §4.C
// "dispatch(event) -> ()"), then one t0/elapsed/sleep cycle for the whole
// event — exactly as the source's exec_thread pops one EventBuf, calls
// eventmap.run_event(&ev) once, and sleeps out the remainder of the
// interval.
func execute(ctx context.Context, logger *slog.Logger, mu *sync.Mutex, queue *circularQueue, wake <-chan struct{}, table *routing.Table, interval time.Duration) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-wake:
		}

		for {
			mu.Lock()
			ev, ok := queue.pop()
			mu.Unlock()

			if !ok {
				break
			}

			start := time.Now()

			dispatch(logger, table, ev)

			if elapsed := time.Since(start); interval > elapsed {
				time.Sleep(interval - elapsed)
			}
		}
	}
}

// dispatch runs every rule matching ev's routing key whose value filter
// (if any) accepts ev.Value, in the table's insertion order (spec §4.C).
// Per-rule action errors are logged and do not stop the remaining rules.
func dispatch(logger *slog.Logger, table *routing.Table, ev mievent.Event) {
	for _, r := range table.Lookup(ev) {
		if !r.MatchesValue(ev.Value) {
			continue
		}

		handle, _ := r.Handle.(ruleHandle)
		if handle == nil {
			continue
		}

		if err := action.Run(handle.Actions, ev, handle.Remap, handle.Float); err != nil {
			logger.Error("run failed", "error", err)
		}
	}
}
