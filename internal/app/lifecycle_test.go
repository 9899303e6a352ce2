package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bft-labs/nethex/internal/domain"
)

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateStopped, "Stopped"},
		{StateStarting, "Starting"},
		{StateRunning, "Running"},
		{StateStopping, "Stopping"},
		{StateCrashed, "Crashed"},
		{State(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}

func TestLifecycle_SessionPaths(t *testing.T) {
	tests := []struct {
		name  string
		steps []State
	}{
		{"clean run", []State{StateStarting, StateRunning, StateStopping, StateStopped}},
		{"worker failure", []State{StateStarting, StateRunning, StateStopping, StateCrashed}},
		{"stopped before running", []State{StateStarting, StateStopping, StateStopped}},
		{"restart after crash", []State{StateStarting, StateCrashed, StateStarting}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLifecycle(mockLogger{})
			if l.State() != StateStopped {
				t.Fatalf("initial state = %v, want Stopped", l.State())
			}
			for _, next := range tt.steps {
				if err := l.TransitionTo(next, tt.name); err != nil {
					t.Fatalf("TransitionTo(%v) from %v: %v", next, l.State(), err)
				}
			}
			if got, want := l.State(), tt.steps[len(tt.steps)-1]; got != want {
				t.Errorf("final state = %v, want %v", got, want)
			}
		})
	}
}

func TestLifecycle_TransitionTo_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		to      State
		wantErr error
	}{
		{"run without starting", StateStopped, StateRunning, domain.ErrNotRunning},
		{"stop a stopped session", StateStopped, StateStopping, domain.ErrNotRunning},
		{"start twice", StateRunning, StateStarting, domain.ErrAlreadyRunning},
		{"skip stopping", StateRunning, StateStopped, domain.ErrAlreadyRunning},
		{"resume while stopping", StateStopping, StateRunning, domain.ErrAlreadyRunning},
		{"resume after crash", StateCrashed, StateRunning, domain.ErrNotRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLifecycle(mockLogger{})
			l.state = tt.from

			err := l.TransitionTo(tt.to, "test")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("TransitionTo() error = %v, want %v", err, tt.wantErr)
			}
			if l.State() != tt.from {
				t.Errorf("state changed to %v on rejected transition, want %v", l.State(), tt.from)
			}
		})
	}
}

func TestLifecycle_Cancel_NilSafe(t *testing.T) {
	l := NewLifecycle(mockLogger{})
	l.Cancel()
	l.Stop("nothing to cancel")

	if l.StopReason() != "nothing to cancel" {
		t.Errorf("StopReason() = %q", l.StopReason())
	}
}

func TestLifecycle_WaitWithTimeout_AbandonsStuckWorker(t *testing.T) {
	l := NewLifecycle(mockLogger{})
	release := make(chan struct{})
	l.Go("stuck", func() error {
		<-release
		return nil
	})

	start := time.Now()
	err := l.WaitWithTimeout(20 * time.Millisecond)
	if !errors.Is(err, domain.ErrShutdownTimeout) {
		t.Errorf("WaitWithTimeout() = %v, want ErrShutdownTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("WaitWithTimeout took %v", elapsed)
	}

	close(release)
	if err := l.WaitWithTimeout(time.Second); err != nil {
		t.Errorf("WaitWithTimeout() after release = %v, want nil", err)
	}
}

func TestLifecycle_Go_CleanExit(t *testing.T) {
	l := NewLifecycle(mockLogger{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l.SetCancel(cancel)

	l.Go("ok", func() error { return nil })
	l.Go("canceled", func() error { return context.Canceled })

	if err := l.WaitWithTimeout(time.Second); err != nil {
		t.Fatalf("WaitWithTimeout() = %v", err)
	}
	if l.Err() != nil {
		t.Errorf("Err() = %v, want nil", l.Err())
	}
	if ctx.Err() != nil {
		t.Error("clean exits must not cancel peers")
	}
}

func TestLifecycle_Go_FailureCancelsPeers(t *testing.T) {
	l := NewLifecycle(mockLogger{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l.SetCancel(cancel)

	boom := errors.New("boom")
	l.Go("peer", func() error {
		<-ctx.Done()
		return ctx.Err()
	})
	l.Go("failing", func() error { return boom })

	if err := l.WaitWithTimeout(time.Second); err != nil {
		t.Fatalf("WaitWithTimeout() = %v", err)
	}
	if !errors.Is(l.Err(), boom) {
		t.Errorf("Err() = %v, want boom", l.Err())
	}
	if l.StopReason() != "" {
		t.Errorf("StopReason() = %q, want empty after a failure", l.StopReason())
	}
}

func TestLifecycle_Fail_KeepsFirstError(t *testing.T) {
	l := NewLifecycle(mockLogger{})
	first := errors.New("first")

	l.Fail("a", first)
	l.Fail("b", errors.New("second"))

	if !errors.Is(l.Err(), first) {
		t.Errorf("Err() = %v, want first", l.Err())
	}
}

func TestLifecycle_Go_ReceiveTimeoutStopsWithoutError(t *testing.T) {
	l := NewLifecycle(mockLogger{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l.SetCancel(cancel)

	l.Go("receiver", func() error { return domain.ErrReceiveTimeout })

	if err := l.WaitWithTimeout(time.Second); err != nil {
		t.Fatalf("WaitWithTimeout() = %v", err)
	}
	if l.Err() != nil {
		t.Errorf("Err() = %v, want nil", l.Err())
	}
	if l.StopReason() != "receive timeout" {
		t.Errorf("StopReason() = %q, want receive timeout", l.StopReason())
	}
	if ctx.Err() == nil {
		t.Error("receive timeout must cancel peers")
	}
}
