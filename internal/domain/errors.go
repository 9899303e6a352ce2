package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent error conditions in the nethex domain.
// They are wrapped with context by callers and checked with errors.Is.
var (
	// ErrAlreadyRunning is returned when a session is started twice.
	ErrAlreadyRunning = errors.New("nethex: already running")

	// ErrNotRunning is returned for a transition that requires a running session.
	ErrNotRunning = errors.New("nethex: not running")

	// ErrShutdownTimeout is returned when workers outlive the shutdown grace period.
	ErrShutdownTimeout = errors.New("nethex: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("nethex: invalid configuration")

	// ErrInvalidHex is returned when a frame token is not valid hexadecimal.
	ErrInvalidHex = errors.New("nethex: invalid hex input")

	// ErrInvalidFilter is returned when a whitelist or blacklist pattern does not compile.
	ErrInvalidFilter = errors.New("nethex: invalid filter pattern")

	// ErrInterfaceNotFound is returned when the named device does not exist.
	ErrInterfaceNotFound = errors.New("nethex: interface not found")

	// ErrReadTimeout is returned by a link poll that saw no frame in time.
	// It is transient: the receiver loops on it.
	ErrReadTimeout = errors.New("nethex: link read timeout")

	// ErrReceiveTimeout signals that the receive bound's wall-clock timeout elapsed.
	// It stops the session without failing it.
	ErrReceiveTimeout = errors.New("nethex: receive timeout reached")
)

// HexError describes a token that failed to decode.
type HexError struct {
	// Line is the 1-based input line, or 0 for a command-line literal.
	Line  int
	Token string
	Err   error
}

func (e *HexError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: decode %q: %v", e.Line, e.Token, e.Err)
	}
	return fmt.Sprintf("decode %q: %v", e.Token, e.Err)
}

func (e *HexError) Unwrap() error {
	return e.Err
}

// Is reports ErrInvalidHex so callers need not know the concrete type.
func (e *HexError) Is(target error) bool {
	return target == ErrInvalidHex
}
