package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bft-labs/nethex/internal/domain"
	"github.com/bft-labs/nethex/internal/ports"
)

// DefaultShutdownGrace bounds how long the coordinator waits for peers
// after a receive timeout, an interrupt, or a fatal worker error.
const DefaultShutdownGrace = 500 * time.Millisecond

// State represents the lifecycle state of a session.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
	StateCrashed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateStarting:
		return "Starting"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateCrashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// Lifecycle is the session state machine and the completion barrier that
// every worker registers with. The first fatal worker error is recorded and
// cancels the remaining workers.
type Lifecycle struct {
	mu         sync.RWMutex
	state      State
	cancel     context.CancelFunc
	err        error
	stopReason string
	wg         sync.WaitGroup
	logger     ports.Logger
}

// NewLifecycle creates a new lifecycle manager.
func NewLifecycle(logger ports.Logger) *Lifecycle {
	return &Lifecycle{
		state:  StateStopped,
		logger: logger,
	}
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// TransitionTo attempts to transition to a new state.
// Returns an error if the transition is not valid.
func (l *Lifecycle) TransitionTo(newState State, reason string) error {
	l.mu.Lock()
	oldState := l.state

	switch oldState {
	case StateStopped:
		if newState != StateStarting {
			l.mu.Unlock()
			return domain.ErrNotRunning
		}
	case StateStarting:
		if newState != StateRunning && newState != StateStopping && newState != StateCrashed {
			l.mu.Unlock()
			return domain.ErrAlreadyRunning
		}
	case StateRunning:
		if newState != StateStopping && newState != StateCrashed {
			l.mu.Unlock()
			return domain.ErrAlreadyRunning
		}
	case StateStopping:
		if newState != StateStopped && newState != StateCrashed {
			l.mu.Unlock()
			return domain.ErrAlreadyRunning
		}
	case StateCrashed:
		if newState != StateStarting {
			l.mu.Unlock()
			return domain.ErrNotRunning
		}
	}

	l.state = newState
	l.mu.Unlock()

	l.logger.Debug("state transition",
		ports.String("from", oldState.String()),
		ports.String("to", newState.String()),
		ports.String("reason", reason),
	)

	return nil
}

// SetCancel stores the cancel function shared by all workers.
func (l *Lifecycle) SetCancel(cancel context.CancelFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cancel = cancel
}

// Cancel signals every worker to stop.
func (l *Lifecycle) Cancel() {
	l.mu.Lock()
	cancel := l.cancel
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Go runs fn as a named worker registered with the barrier.
// A nil or context.Canceled result is a clean exit. domain.ErrReceiveTimeout
// stops the session without failing it. Anything else fails the session.
func (l *Lifecycle) Go(name string, fn func() error) {
	l.AddWorker()
	go func() {
		defer l.WorkerDone()
		l.finish(name, fn())
	}()
}

func (l *Lifecycle) finish(name string, err error) {
	switch {
	case err == nil:
		l.logger.Debug("worker finished", ports.String("worker", name))
	case errors.Is(err, context.Canceled):
		l.logger.Debug("worker canceled", ports.String("worker", name))
	case errors.Is(err, domain.ErrReceiveTimeout):
		l.Stop("receive timeout")
	default:
		l.Fail(name, err)
	}
}

// Stop cancels all workers without recording an error.
func (l *Lifecycle) Stop(reason string) {
	l.mu.Lock()
	if l.stopReason == "" && l.err == nil {
		l.stopReason = reason
	}
	l.mu.Unlock()
	l.Cancel()
}

// Fail records err as the session error unless one is already set,
// then cancels all workers.
func (l *Lifecycle) Fail(worker string, err error) {
	l.mu.Lock()
	first := l.err == nil
	if first {
		l.err = err
	}
	l.mu.Unlock()

	if first {
		l.logger.Error("worker failed", ports.String("worker", worker), ports.Err(err))
	}
	l.Cancel()
}

// Err returns the first fatal worker error.
func (l *Lifecycle) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

// StopReason returns why the session was stopped early, if it was.
func (l *Lifecycle) StopReason() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stopReason
}

// AddWorker increments the worker count.
func (l *Lifecycle) AddWorker() {
	l.wg.Add(1)
}

// WorkerDone decrements the worker count.
func (l *Lifecycle) WorkerDone() {
	l.wg.Done()
}

// Done returns a channel closed once every registered worker has finished.
func (l *Lifecycle) Done() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()
	return done
}

// WaitWithTimeout waits for all workers to finish with a timeout.
// Returns ErrShutdownTimeout if the timeout expires.
func (l *Lifecycle) WaitWithTimeout(timeout time.Duration) error {
	select {
	case <-l.Done():
		return nil
	case <-time.After(timeout):
		l.logger.Warn("shutdown timeout, abandoning workers",
			ports.Duration("timeout", timeout),
		)
		return domain.ErrShutdownTimeout
	}
}
