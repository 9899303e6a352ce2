package app

import (
	"context"
	"errors"
	"io"

	"github.com/hashicorp/go-multierror"

	"github.com/bft-labs/nethex/internal/domain"
	"github.com/bft-labs/nethex/internal/ports"
)

// DefaultQueueCapacity is the number of frames buffered between the
// source and the sender.
const DefaultQueueCapacity = 256

// FrameQueue is a bounded FIFO between one producer and one consumer.
// Push blocks while the queue is full; frames are never dropped.
type FrameQueue struct {
	ch chan domain.Frame
}

// NewFrameQueue creates a queue. A non-positive capacity uses the default.
func NewFrameQueue(capacity int) *FrameQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &FrameQueue{ch: make(chan domain.Frame, capacity)}
}

// Push enqueues a frame, blocking until there is room or ctx is done.
func (q *FrameQueue) Push(ctx context.Context, frame domain.Frame) error {
	select {
	case q.ch <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close marks end-of-stream. Only the producer calls it, exactly once.
func (q *FrameQueue) Close() {
	close(q.ch)
}

// Frames is the consumer side. It is closed after the last frame.
func (q *FrameQueue) Frames() <-chan domain.Frame {
	return q.ch
}

// Cap returns the queue capacity.
func (q *FrameQueue) Cap() int {
	return cap(q.ch)
}

// Pump moves every frame from src into q in order and closes q when src is
// exhausted. On error q is left open: the session is being torn down and the
// sender must not mistake a partial stream for a complete one.
func Pump(ctx context.Context, src ports.FrameSource, q *FrameQueue) (n int, re error) {
	defer func() {
		if err := src.Close(); err != nil {
			re = multierror.Append(re, err)
		}
	}()

	for {
		frame, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			q.Close()
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if err := q.Push(ctx, frame); err != nil {
			return n, err
		}
		n++
	}
}
