package domain

import "time"

// Unbounded is the RxCount sentinel for "receive forever".
const Unbounded RxCount = -1

// RxCount is the number of accepted frames still to receive.
// Unbounded (-1) never reaches zero through Decrement.
type RxCount int64

// Done reports whether no more frames should be received.
func (c RxCount) Done() bool {
	return c == 0
}

// Decrement returns the count after one accepted frame.
// Zero and negative counts are returned unchanged.
func (c RxCount) Decrement() RxCount {
	if c <= 0 {
		return c
	}
	return c - 1
}

// Bound is the receiver's termination policy.
type Bound struct {
	// Count of accepted frames before stopping; Unbounded for no limit.
	Count RxCount

	// Timeout measured from receiver start; zero disables it.
	Timeout time.Duration
}

// Expired reports whether elapsed exceeds the configured timeout.
func (b Bound) Expired(elapsed time.Duration) bool {
	return b.Timeout > 0 && elapsed > b.Timeout
}
