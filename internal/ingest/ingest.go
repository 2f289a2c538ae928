// Package ingest drives the device-to-roster pipeline: it owns the
// transport connection lifecycle and applies each classified event to
// the roster store. Exactly one goroutine runs the loop; the roster
// has a single sequential writer.
package ingest

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/sensorlog/presenced/internal/config"
	"github.com/sensorlog/presenced/internal/metrics"
	"github.com/sensorlog/presenced/internal/roster"
	"github.com/sensorlog/presenced/internal/transport"
	"github.com/sensorlog/presenced/internal/wire"
)

// State is the ingest loop's connection state, exposed for readiness
// reporting.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateListening
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateListening:
		return "listening"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Config holds the Ingestor's collaborators and timing. Backoff and
// Settle are injectable so tests run with zero-duration waits.
type Config struct {
	Transport transport.Transport
	Store     roster.Store
	Loader    *config.Loader
	Logger    *slog.Logger

	// Backoff is the fixed wait between reconnection attempts. There
	// is no exponential growth and no attempt limit; the device may
	// stay unplugged for hours.
	Backoff time.Duration

	// Settle is the wait after a successful open before reading, to
	// let the device's boot sequence finish.
	Settle time.Duration

	// Now stamps arrivals. Defaults to time.Now.
	Now func() time.Time
}

// Ingestor runs the Disconnected → Connecting → Listening loop until
// its context is cancelled.
type Ingestor struct {
	transport transport.Transport
	store     roster.Store
	loader    *config.Loader
	logger    *slog.Logger
	backoff   time.Duration
	settle    time.Duration
	now       func() time.Time

	decoder *wire.LineDecoder
	state   atomic.Int32
}

// New creates an Ingestor. The loop does not start until Run is called.
func New(cfg Config) *Ingestor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	in := &Ingestor{
		transport: cfg.Transport,
		store:     cfg.Store,
		loader:    cfg.Loader,
		logger:    logger,
		backoff:   cfg.Backoff,
		settle:    cfg.Settle,
		now:       now,
		decoder:   wire.NewLineDecoder(),
	}
	in.state.Store(int32(StateDisconnected))
	return in
}

// State returns the loop's current connection state.
func (in *Ingestor) State() State {
	return State(in.state.Load())
}

func (in *Ingestor) setState(s State) {
	in.state.Store(int32(s))
}

// Run drives the loop until ctx is cancelled. Transport failures are
// never fatal: open failures and read errors both lead back to a
// reconnection attempt after the fixed backoff. Only cancellation
// terminates the loop.
func (in *Ingestor) Run(ctx context.Context) {
	defer in.setState(StateStopped)

	for {
		in.setState(StateConnecting)

		// Re-read the device config on every attempt so an edited
		// endpoint takes effect at the next reconnect.
		dev := in.loader.Config().Device
		conn, err := in.transport.Open(transport.Config{
			Path:        dev.Path,
			BaudRate:    dev.Baud,
			ReadTimeout: dev.ReadTimeout(),
		})
		if err != nil {
			metrics.TransportErrors.Inc()
			in.logger.Error("device open failed", "path", dev.Path, "err", err, "retry_in", in.backoff)
			if !in.wait(ctx) {
				return
			}
			continue
		}

		metrics.Reconnects.Inc()
		in.logger.Info("device connected", "path", dev.Path, "baud", dev.Baud)

		if !in.settleWait(ctx) {
			conn.Close()
			return
		}

		in.setState(StateListening)
		err = in.listen(ctx, conn)
		conn.Close()
		// A torn partial line from the dead connection must not be
		// glued to the first line after reconnecting.
		in.decoder.Reset()

		if ctx.Err() != nil {
			return
		}

		metrics.TransportErrors.Inc()
		in.setState(StateConnecting)
		in.logger.Error("device read failed, reconnecting", "err", err, "retry_in", in.backoff)
		if !in.wait(ctx) {
			return
		}
	}
}

// listen reads until a transport error or cancellation. A read that
// returns no bytes and no error is a quiet timeout tick and the loop
// continues immediately.
func (in *Ingestor) listen(ctx context.Context, conn transport.Conn) error {
	buf := make([]byte, 256)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := conn.Read(buf)
		if n > 0 {
			for _, line := range in.decoder.Feed(buf[:n]) {
				metrics.LinesRead.Inc()
				in.apply(ctx, wire.Classify(line))
			}
		}
		if err != nil {
			return err
		}
	}
}

// apply mutates the roster for one event. Store failures are logged
// and the event's effect is treated as not applied; one failed write
// must not stop ingestion of subsequent events.
func (in *Ingestor) apply(ctx context.Context, ev wire.Event) {
	switch ev.Kind {
	case wire.KindSessionReset:
		if err := in.store.Clear(ctx); err != nil {
			metrics.StoreErrors.Inc()
			in.logger.Error("session reset failed", "err", err)
			return
		}
		metrics.EventOutcomes.WithLabelValues(metrics.OutcomeReset).Inc()
		metrics.RosterSize.Set(0)
		in.logger.Info("session reset, roster cleared")

	case wire.KindArrive:
		present, err := in.store.Exists(ctx, ev.Identity)
		if err != nil {
			metrics.StoreErrors.Inc()
			in.logger.Error("presence lookup failed", "name", ev.Identity, "err", err)
			return
		}
		if present {
			metrics.EventOutcomes.WithLabelValues(metrics.OutcomeDuplicate).Inc()
			in.logger.Info("duplicate check-in ignored", "name", ev.Identity)
			return
		}
		rec := roster.Record{
			ID:          uuid.New().String(),
			SecondaryID: ev.SecondaryID,
			Name:        ev.Identity,
			ArrivedAt:   in.now(),
		}
		if err := in.store.Insert(ctx, rec); err != nil {
			metrics.StoreErrors.Inc()
			in.logger.Error("check-in failed", "name", ev.Identity, "err", err)
			return
		}
		metrics.EventOutcomes.WithLabelValues(metrics.OutcomeLogin).Inc()
		in.updateSizeGauge(ctx)
		in.logger.Info("checked in", "name", ev.Identity, "secondary_id", ev.SecondaryID)

	case wire.KindDepart:
		removed, err := in.store.Remove(ctx, ev.Identity)
		if err != nil {
			metrics.StoreErrors.Inc()
			in.logger.Error("check-out failed", "name", ev.Identity, "err", err)
			return
		}
		if !removed {
			metrics.EventOutcomes.WithLabelValues(metrics.OutcomeNotFound).Inc()
			in.logger.Warn("check-out for absent name", "name", ev.Identity)
			return
		}
		metrics.EventOutcomes.WithLabelValues(metrics.OutcomeLogout).Inc()
		in.updateSizeGauge(ctx)
		in.logger.Info("checked out", "name", ev.Identity, "secondary_id", ev.SecondaryID)

	default:
		metrics.EventOutcomes.WithLabelValues(metrics.OutcomeUnrecognized).Inc()
		in.logger.Warn("unrecognized line", "line", ev.Raw)
	}
}

func (in *Ingestor) updateSizeGauge(ctx context.Context) {
	if n, err := in.store.Size(ctx); err == nil {
		metrics.RosterSize.Set(float64(n))
	}
}

func (in *Ingestor) wait(ctx context.Context) bool {
	return sleep(ctx, in.backoff)
}

func (in *Ingestor) settleWait(ctx context.Context) bool {
	return sleep(ctx, in.settle)
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
