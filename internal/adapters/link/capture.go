package link

import (
	"fmt"
	"io"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/bft-labs/nethex/internal/domain"
)

// CaptureWriter records accepted frames to a pcap file. It implements
// ports.FrameSink.
type CaptureWriter struct {
	w     *pcapgo.Writer
	clock clock.Clock
}

// NewCaptureWriter writes the pcap file header for linkType and returns a
// sink appending one record per frame. Frames without a capture timestamp
// are stamped with the clock.
func NewCaptureWriter(w io.Writer, snapLen uint32, linkType layers.LinkType, clk clock.Clock) (*CaptureWriter, error) {
	if clk == nil {
		clk = clock.New()
	}
	pw := pcapgo.NewWriter(w)
	if err := pw.WriteFileHeader(snapLen, linkType); err != nil {
		return nil, fmt.Errorf("write pcap header: %w", err)
	}
	return &CaptureWriter{w: pw, clock: clk}, nil
}

func (c *CaptureWriter) Emit(frame domain.Frame) error {
	ts := frame.CapturedAt
	if ts.IsZero() {
		ts = c.clock.Now()
	}
	length := frame.WireLength
	if length < frame.Len() {
		length = frame.Len()
	}
	ci := gopacket.CaptureInfo{
		Timestamp:     ts.In(time.UTC),
		CaptureLength: frame.Len(),
		Length:        length,
	}
	if err := c.w.WritePacket(ci, frame.Data); err != nil {
		return fmt.Errorf("write pcap record: %w", err)
	}
	return nil
}
