package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/bft-labs/nethex/internal/domain"
	"github.com/bft-labs/nethex/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

// fakeWriter records written frames in memory.
type fakeWriter struct {
	mu     sync.Mutex
	frames []string
	delay  time.Duration
	failAt int // 1-based write that fails; 0 never fails
}

var errLinkDown = errors.New("link down")

func (w *fakeWriter) WriteFrame(f domain.Frame) error {
	if w.delay > 0 {
		time.Sleep(w.delay)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failAt > 0 && len(w.frames)+1 == w.failAt {
		return errLinkDown
	}
	w.frames = append(w.frames, f.Hex())
	return nil
}

func (w *fakeWriter) Written() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.frames...)
}

// readStep is one scripted ReadFrame result. A nil data with nil err is a
// poll timeout.
type readStep struct {
	data []byte
	err  error
}

// scriptedReader replays steps, advancing a mock clock by tick per read.
// Once the script is exhausted every read is a poll timeout.
type scriptedReader struct {
	mu    sync.Mutex
	steps []readStep
	clock *clock.Mock
	tick  time.Duration
	reads int
}

func (r *scriptedReader) ReadFrame() (domain.Frame, error) {
	r.mu.Lock()
	r.reads++
	var step readStep
	exhausted := len(r.steps) == 0
	if !exhausted {
		step = r.steps[0]
		r.steps = r.steps[1:]
	}
	r.mu.Unlock()

	if r.clock != nil && r.tick > 0 {
		r.clock.Add(r.tick)
	} else if exhausted {
		time.Sleep(time.Millisecond)
	}

	switch {
	case step.err != nil:
		return domain.Frame{}, step.err
	case exhausted || step.data == nil:
		return domain.Frame{}, domain.ErrReadTimeout
	default:
		return domain.NewFrame(step.data), nil
	}
}

func (r *scriptedReader) Reads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads
}

// idleReader always times out after a short real sleep.
type idleReader struct{}

func (idleReader) ReadFrame() (domain.Frame, error) {
	time.Sleep(time.Millisecond)
	return domain.Frame{}, domain.ErrReadTimeout
}

// recordingSink records emitted frames.
type recordingSink struct {
	mu     sync.Mutex
	frames []string
	err    error
}

func (s *recordingSink) Emit(f domain.Frame) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, f.Hex())
	return nil
}

func (s *recordingSink) Frames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.frames...)
}

// sliceSource yields pre-decoded frames, then io.EOF or a trailing error.
type sliceSource struct {
	frames []string
	err    error
	pos    int
	closed bool
}

func (s *sliceSource) Next(ctx context.Context) (domain.Frame, error) {
	if err := ctx.Err(); err != nil {
		return domain.Frame{}, err
	}
	if s.pos >= len(s.frames) {
		if s.err != nil {
			return domain.Frame{}, s.err
		}
		return domain.Frame{}, io.EOF
	}
	f, err := domain.DecodeHex(s.frames[s.pos])
	if err != nil {
		return domain.Frame{}, err
	}
	s.pos++
	return f, nil
}

func (s *sliceSource) Close() error {
	s.closed = true
	return nil
}

func hexFrames(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%04x", i)
	}
	return out
}
