package ports

import (
	"context"

	"github.com/bft-labs/nethex/internal/domain"
)

// FrameSource lazily produces a finite, ordered sequence of frames.
type FrameSource interface {
	// Next returns the next frame.
	// Returns io.EOF when the source is exhausted.
	// A decode error is fatal: the caller must not skip it and continue.
	Next(ctx context.Context) (domain.Frame, error)

	// Close releases the underlying input, if any.
	Close() error
}
