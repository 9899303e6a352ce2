package app

import (
	"context"
	"fmt"

	"github.com/bft-labs/nethex/internal/domain"
	"github.com/bft-labs/nethex/internal/ports"
)

// Sender drains the frame queue onto the link, writing each frame Repeat
// times before moving on. It exclusively owns the link's transmit side.
type Sender struct {
	link   ports.LinkWriter
	pacer  *Pacer
	repeat uint64
	logger ports.Logger
}

// NewSender creates a sender. A zero repeat is treated as one.
func NewSender(link ports.LinkWriter, pacer *Pacer, repeat uint64, logger ports.Logger) *Sender {
	if repeat == 0 {
		repeat = 1
	}
	return &Sender{link: link, pacer: pacer, repeat: repeat, logger: logger}
}

// Run transmits frames until the channel is closed and drained.
// It returns the number of writes performed. A write error is returned
// immediately and never retried.
func (s *Sender) Run(ctx context.Context, frames <-chan domain.Frame) (int, error) {
	sent := 0
	for {
		var frame domain.Frame
		var ok bool
		select {
		case <-ctx.Done():
			return sent, ctx.Err()
		case frame, ok = <-frames:
		}
		if !ok {
			return sent, nil
		}

		for i := uint64(0); i < s.repeat; i++ {
			if err := s.pacer.Wait(ctx); err != nil {
				return sent, err
			}
			s.logger.Debug("sending frame",
				ports.Hex("bytes", frame.Data),
				ports.Uint64("repeat", i+1),
			)
			if err := s.link.WriteFrame(frame); err != nil {
				return sent, fmt.Errorf("write frame: %w", err)
			}
			sent++
		}
	}
}
