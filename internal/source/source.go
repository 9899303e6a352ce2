// Package source produces the frames to transmit from a command-line
// literal, a file, or standard input, one hex-encoded frame per unit.
package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bft-labs/nethex/internal/domain"
	"github.com/bft-labs/nethex/internal/ports"
)

// MaxLineBytes bounds a single input line. A jumbo frame is well below it.
const MaxLineBytes = 1 << 20

// Kind identifies which input a Spec selects.
type Kind int

const (
	KindNone Kind = iota
	KindLiteral
	KindFile
	KindStdin
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindLiteral:
		return "literal"
	case KindFile:
		return "file"
	case KindStdin:
		return "stdin"
	default:
		return "unknown"
	}
}

// Spec names the configured inputs. Several may be set; Kind picks one.
type Spec struct {
	Literal string
	File    string
	Stdin   bool
}

// Kind returns the selected input by precedence: literal, file, stdin.
func (s Spec) Kind() Kind {
	switch {
	case s.Literal != "":
		return KindLiteral
	case s.File != "":
		return KindFile
	case s.Stdin:
		return KindStdin
	default:
		return KindNone
	}
}

// Ignored lists configured inputs that lose to the selected one.
func (s Spec) Ignored() []Kind {
	var out []Kind
	k := s.Kind()
	if s.File != "" && k != KindFile {
		out = append(out, KindFile)
	}
	if s.Stdin && k != KindStdin {
		out = append(out, KindStdin)
	}
	return out
}

// Open returns the FrameSource selected by spec. The literal is decoded
// immediately so a malformed argument fails before any link is opened.
// Lines from a file or stdin are decoded lazily as Next is called.
func Open(spec Spec, stdin io.Reader) (ports.FrameSource, error) {
	switch spec.Kind() {
	case KindLiteral:
		f, err := domain.DecodeHex(strings.TrimSpace(spec.Literal))
		if err != nil {
			return nil, err
		}
		return &literalSource{frame: f}, nil
	case KindFile:
		fh, err := os.Open(spec.File)
		if err != nil {
			return nil, fmt.Errorf("open frame file: %w", err)
		}
		return NewLineSource(fh, fh), nil
	case KindStdin:
		return NewLineSource(stdin, nil), nil
	default:
		return Empty(), nil
	}
}

// literalSource yields a single frame.
type literalSource struct {
	frame domain.Frame
	done  bool
}

func (s *literalSource) Next(ctx context.Context) (domain.Frame, error) {
	if s.done {
		return domain.Frame{}, io.EOF
	}
	s.done = true
	return s.frame, nil
}

func (s *literalSource) Close() error { return nil }

// LineSource decodes one frame per line of r.
type LineSource struct {
	scanner *bufio.Scanner
	closer  io.Closer
	line    int
}

// NewLineSource reads frames from r. closer, if non-nil, is closed by Close.
func NewLineSource(r io.Reader, closer io.Closer) *LineSource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)
	return &LineSource{scanner: sc, closer: closer}
}

// Next returns the frame on the next non-blank line.
// Surrounding whitespace, including a trailing '\r', is trimmed.
func (s *LineSource) Next(ctx context.Context) (domain.Frame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.Frame{}, err
		}
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return domain.Frame{}, fmt.Errorf("read line %d: %w", s.line+1, err)
			}
			return domain.Frame{}, io.EOF
		}
		s.line++

		token := strings.TrimSpace(s.scanner.Text())
		if token == "" {
			continue
		}
		f, err := domain.DecodeHex(token)
		if err != nil {
			if he, ok := err.(*domain.HexError); ok {
				he.Line = s.line
			}
			return domain.Frame{}, err
		}
		return f, nil
	}
}

// Line returns the number of lines consumed so far.
func (s *LineSource) Line() int {
	return s.line
}

// Close closes the underlying reader once; later calls return nil.
func (s *LineSource) Close() error {
	if s.closer == nil {
		return nil
	}
	c := s.closer
	s.closer = nil
	return c.Close()
}

type emptySource struct{}

// Empty returns a source with no frames, used for receive-only runs.
func Empty() ports.FrameSource {
	return emptySource{}
}

func (emptySource) Next(ctx context.Context) (domain.Frame, error) {
	return domain.Frame{}, io.EOF
}

func (emptySource) Close() error { return nil }
