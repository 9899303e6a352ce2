package app

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
)

// Pacer spaces sends at a fixed period against an absolute deadline, so a
// slow send does not push every later send back. Lateness of up to one
// period is absorbed by sending immediately; anything later re-anchors the
// schedule at the current time rather than bursting missed ticks.
type Pacer struct {
	clock  clock.Clock
	period time.Duration
	next   time.Time
}

// NewPacer returns a pacer for the given period. A zero period never waits.
func NewPacer(clk clock.Clock, period time.Duration) *Pacer {
	return &Pacer{clock: clk, period: period}
}

// Period returns the inter-send period.
func (p *Pacer) Period() time.Duration {
	return p.period
}

// Reserve claims the next send slot and returns how long to wait for it.
// The first slot is immediate.
func (p *Pacer) Reserve() time.Duration {
	if p.period <= 0 {
		return 0
	}
	now := p.clock.Now()
	if p.next.IsZero() {
		p.next = now
	}

	wait := p.next.Sub(now)
	switch {
	case wait < -p.period:
		p.next = now
		wait = 0
	case wait < 0:
		wait = 0
	}
	p.next = p.next.Add(p.period)
	return wait
}

// Wait blocks until the next send slot or until ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	wait := p.Reserve()
	if wait <= 0 {
		return ctx.Err()
	}

	t := p.clock.Timer(wait)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
