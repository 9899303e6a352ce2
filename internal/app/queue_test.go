package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/nethex/internal/domain"
)

func TestNewFrameQueue_DefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultQueueCapacity, NewFrameQueue(0).Cap())
	assert.Equal(t, 4, NewFrameQueue(4).Cap())
}

func TestFrameQueue_PushBlocksWhenFull(t *testing.T) {
	q := NewFrameQueue(1)
	require.NoError(t, q.Push(context.Background(), domain.NewFrame([]byte{1})))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := q.Push(ctx, domain.NewFrame([]byte{2}))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPump_ClosesQueueAtEOF(t *testing.T) {
	src := &sliceSource{frames: []string{"01", "02", "03"}}
	q := NewFrameQueue(8)

	n, err := Pump(context.Background(), src, q)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.True(t, src.closed)

	var got []string
	for f := range q.Frames() {
		got = append(got, f.Hex())
	}
	assert.Equal(t, []string{"01", "02", "03"}, got)
}

func TestPump_ErrorLeavesQueueOpen(t *testing.T) {
	bad := errors.New("bad line")
	src := &sliceSource{frames: []string{"01"}, err: bad}
	q := NewFrameQueue(8)

	n, err := Pump(context.Background(), src, q)
	assert.ErrorIs(t, err, bad)
	assert.Equal(t, 1, n)
	assert.True(t, src.closed)

	<-q.Frames()
	select {
	case _, ok := <-q.Frames():
		t.Fatalf("queue delivered after error (ok=%v)", ok)
	default:
	}
}

func TestPump_BackpressureDropsNothing(t *testing.T) {
	for _, tc := range []struct {
		name          string
		capacity      int
		consumerDelay time.Duration
	}{
		{"slow consumer", 2, time.Millisecond},
		{"fast consumer", 2, 0},
		{"large queue", 256, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			want := hexFrames(50)
			src := &sliceSource{frames: want}
			q := NewFrameQueue(tc.capacity)

			errCh := make(chan error, 1)
			go func() {
				_, err := Pump(context.Background(), src, q)
				errCh <- err
			}()

			var got []string
			for f := range q.Frames() {
				if tc.consumerDelay > 0 {
					time.Sleep(tc.consumerDelay)
				}
				got = append(got, f.Hex())
			}
			require.NoError(t, <-errCh)
			assert.Equal(t, want, got)
		})
	}
}
