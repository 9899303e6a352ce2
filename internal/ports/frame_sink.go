package ports

import "github.com/bft-labs/nethex/internal/domain"

// FrameSink consumes frames accepted by the receive filter.
type FrameSink interface {
	Emit(frame domain.Frame) error
}
