package ports

import "github.com/bft-labs/nethex/internal/domain"

// LinkWriter transmits raw frames on a datalink channel.
// A LinkWriter is used by a single goroutine.
type LinkWriter interface {
	// WriteFrame sends one frame as-is. Any error is fatal to the session.
	WriteFrame(frame domain.Frame) error
}

// LinkReader polls raw frames from a datalink channel.
// A LinkReader is used by a single goroutine.
type LinkReader interface {
	// ReadFrame waits up to the link's read timeout for the next frame.
	// Returns domain.ErrReadTimeout when no frame arrived in time.
	// Any other error is fatal to the session.
	ReadFrame() (domain.Frame, error)
}
