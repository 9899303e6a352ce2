package app

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/bft-labs/nethex/internal/domain"
	"github.com/bft-labs/nethex/internal/filter"
	"github.com/bft-labs/nethex/internal/ports"
)

// SessionConfig contains the tunables of one transmit/receive run.
type SessionConfig struct {
	// ID names the session in logs. A random UUID is used when empty.
	ID            string
	Repeat        uint64
	Rate          domain.Rate
	Bound         domain.Bound
	QueueCapacity int
	ShutdownGrace time.Duration
}

// Summary reports the per-worker counters of a finished session.
type Summary struct {
	ID       string
	Produced int
	Sent     int
	Matched  int
	Duration time.Duration

	// StopReason is set when the session ended early without failing,
	// e.g. "receive timeout" or "interrupted".
	StopReason string
}

// Session wires the producer, sender and receiver together and owns the
// single authoritative shutdown.
type Session struct {
	id        string
	config    SessionConfig
	source    ports.FrameSource
	tx        ports.LinkWriter
	rx        ports.LinkReader
	filter    *filter.Filter
	sink      ports.FrameSink
	clock     clock.Clock
	logger    ports.Logger
	lifecycle *Lifecycle
}

// NewSession creates a session. source and tx may be nil for a
// receive-only run.
func NewSession(
	config SessionConfig,
	source ports.FrameSource,
	tx ports.LinkWriter,
	rx ports.LinkReader,
	flt *filter.Filter,
	sink ports.FrameSink,
	clk clock.Clock,
	logger ports.Logger,
) *Session {
	if config.ShutdownGrace <= 0 {
		config.ShutdownGrace = DefaultShutdownGrace
	}
	if clk == nil {
		clk = clock.New()
	}
	if config.ID == "" {
		config.ID = uuid.NewString()
	}
	return &Session{
		id:        config.ID,
		config:    config,
		source:    source,
		tx:        tx,
		rx:        rx,
		filter:    flt,
		sink:      sink,
		clock:     clk,
		logger:    logger,
		lifecycle: NewLifecycle(logger),
	}
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string {
	return s.id
}

// State returns the session lifecycle state.
func (s *Session) State() State {
	return s.lifecycle.State()
}

// Run starts all workers and blocks until they finish. It returns the first
// fatal worker error, if any. A receive timeout or cancellation of ctx stops
// the remaining workers; those still running after the shutdown grace period
// are abandoned.
func (s *Session) Run(ctx context.Context) (Summary, error) {
	summary := Summary{ID: s.id}
	if err := s.lifecycle.TransitionTo(StateStarting, "run"); err != nil {
		return summary, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.lifecycle.SetCancel(cancel)

	start := s.clock.Now()
	produced := make(chan int, 1)
	sent := make(chan int, 1)
	matched := make(chan int, 1)

	if s.source != nil && s.tx != nil {
		queue := NewFrameQueue(s.config.QueueCapacity)
		sender := NewSender(s.tx, NewPacer(s.clock, s.config.Rate.Period()), s.config.Repeat, s.logger)

		s.lifecycle.Go("producer", func() error {
			n, err := Pump(runCtx, s.source, queue)
			produced <- n
			return err
		})
		s.lifecycle.Go("sender", func() error {
			n, err := sender.Run(runCtx, queue.Frames())
			sent <- n
			return err
		})
	}

	receiver := NewReceiver(s.rx, s.filter, s.sink, s.config.Bound, s.clock, s.logger)
	s.lifecycle.Go("receiver", func() error {
		n, err := receiver.Run(runCtx)
		matched <- n
		return err
	})

	_ = s.lifecycle.TransitionTo(StateRunning, "workers started")
	s.logger.Info("session started",
		ports.String("session", s.id),
		ports.Int64("count", int64(s.config.Bound.Count)),
		ports.Duration("timeout", s.config.Bound.Timeout),
		ports.Duration("period", s.config.Rate.Period()),
		ports.Uint64("repeat", s.config.Repeat),
	)

	select {
	case <-s.lifecycle.Done():
	case <-runCtx.Done():
		// Workers still blocked after the grace period are abandoned.
		_ = s.lifecycle.WaitWithTimeout(s.config.ShutdownGrace)
	}
	if ctx.Err() != nil {
		s.lifecycle.Stop("interrupted")
	}
	_ = s.lifecycle.TransitionTo(StateStopping, "workers finished")

	summary.Produced = take(produced)
	summary.Sent = take(sent)
	summary.Matched = take(matched)
	summary.Duration = s.clock.Since(start)
	summary.StopReason = s.lifecycle.StopReason()

	if err := s.lifecycle.Err(); err != nil {
		_ = s.lifecycle.TransitionTo(StateCrashed, err.Error())
		return summary, err
	}
	_ = s.lifecycle.TransitionTo(StateStopped, "done")
	return summary, nil
}

// take reads a worker's counter if the worker has reported it.
func take(ch <-chan int) int {
	select {
	case n := <-ch:
		return n
	default:
		return 0
	}
}
