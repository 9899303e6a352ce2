package domain

import (
	"encoding/hex"
	"time"
)

// Frame is a single link-layer payload, the unit of send and receive.
// Frames are opaque: nethex never decodes headers.
type Frame struct {
	// Data holds the raw frame bytes.
	Data []byte

	// CapturedAt is the capture timestamp for received frames.
	// Zero for frames produced by a source.
	CapturedAt time.Time

	// WireLength is the original on-wire length for received frames,
	// which can exceed len(Data) when the capture was truncated by snaplen.
	WireLength int
}

// NewFrame wraps data in a Frame without copying.
func NewFrame(data []byte) Frame {
	return Frame{Data: data, WireLength: len(data)}
}

// Len returns the number of captured bytes.
func (f Frame) Len() int {
	return len(f.Data)
}

// Hex returns the lowercase hexadecimal rendering of the frame,
// two characters per byte with no separators.
func (f Frame) Hex() string {
	return hex.EncodeToString(f.Data)
}

// DecodeHex parses one hex token into a Frame.
// Odd length or a non-hex digit yields an error wrapping ErrInvalidHex.
func DecodeHex(token string) (Frame, error) {
	b, err := hex.DecodeString(token)
	if err != nil {
		return Frame{}, &HexError{Token: token, Err: err}
	}
	return NewFrame(b), nil
}
