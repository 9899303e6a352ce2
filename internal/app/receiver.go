package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/benbjohnson/clock"

	"github.com/bft-labs/nethex/internal/domain"
	"github.com/bft-labs/nethex/internal/filter"
	"github.com/bft-labs/nethex/internal/ports"
)

// Receiver polls the link, filters frames and emits accepted ones until its
// bound is reached. It exclusively owns the link's receive side.
type Receiver struct {
	link   ports.LinkReader
	filter *filter.Filter
	sink   ports.FrameSink
	bound  domain.Bound
	clock  clock.Clock
	logger ports.Logger
}

// NewReceiver creates a receiver. A nil filter accepts every frame.
func NewReceiver(
	link ports.LinkReader,
	flt *filter.Filter,
	sink ports.FrameSink,
	bound domain.Bound,
	clk clock.Clock,
	logger ports.Logger,
) *Receiver {
	return &Receiver{
		link:   link,
		filter: flt,
		sink:   sink,
		bound:  bound,
		clock:  clk,
		logger: logger,
	}
}

// Run returns the number of accepted frames. It returns nil once the count
// is reached, domain.ErrReceiveTimeout once the timeout elapses, and any
// link or sink error as fatal.
func (r *Receiver) Run(ctx context.Context) (int, error) {
	start := r.clock.Now()
	remaining := r.bound.Count
	matched := 0

	for !remaining.Done() {
		if err := ctx.Err(); err != nil {
			return matched, err
		}
		if r.bound.Expired(r.clock.Since(start)) {
			return matched, domain.ErrReceiveTimeout
		}

		frame, err := r.link.ReadFrame()
		if errors.Is(err, domain.ErrReadTimeout) {
			continue
		}
		if err != nil {
			return matched, fmt.Errorf("read frame: %w", err)
		}

		if v := r.filter.Evaluate(frame.Data); v != filter.Accept {
			r.logger.Debug("frame filtered",
				ports.String("verdict", v.String()),
				ports.Int("len", frame.Len()),
			)
			continue
		}

		if err := r.sink.Emit(frame); err != nil {
			return matched, fmt.Errorf("emit frame: %w", err)
		}
		matched++
		remaining = remaining.Decrement()
	}
	return matched, nil
}
