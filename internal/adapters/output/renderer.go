// Package output renders accepted frames for the operator.
package output

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"

	"github.com/bft-labs/nethex/internal/domain"
	"github.com/bft-labs/nethex/internal/ports"
)

// Mode selects how frames are printed.
type Mode int

const (
	// ModeDump prints a header line followed by a 16-bytes-per-row hex dump.
	ModeDump Mode = iota
	// ModeRaw prints the bare lowercase hex string, one frame per line.
	ModeRaw
)

// Renderer writes frames to w. It implements ports.FrameSink.
type Renderer struct {
	w    io.Writer
	mode Mode
}

// NewRenderer creates a renderer.
func NewRenderer(w io.Writer, mode Mode) *Renderer {
	return &Renderer{w: w, mode: mode}
}

func (r *Renderer) Emit(frame domain.Frame) error {
	var err error
	switch r.mode {
	case ModeRaw:
		_, err = fmt.Fprintln(r.w, frame.Hex())
	default:
		_, err = fmt.Fprintf(r.w, "Recv Packet (%d bytes)\n%s\n", frame.Len(), hex.Dump(frame.Data))
	}
	return err
}

// tee fans one frame out to several sinks.
type tee []ports.FrameSink

// Tee returns a sink that emits every frame to each of sinks in order.
// All sinks are attempted; their errors are combined.
func Tee(sinks ...ports.FrameSink) ports.FrameSink {
	if len(sinks) == 1 {
		return sinks[0]
	}
	return tee(sinks)
}

func (t tee) Emit(frame domain.Frame) error {
	var result *multierror.Error
	for _, s := range t {
		if err := s.Emit(frame); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
