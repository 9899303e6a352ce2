package link

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/bft-labs/nethex/internal/domain"
)

// Default handle settings.
const (
	DefaultSnapLen     = 65535
	DefaultReadTimeout = 10 * time.Millisecond
)

// Config controls how a handle is opened.
type Config struct {
	SnapLen     int32
	Promiscuous bool
	ReadTimeout time.Duration
}

// DefaultConfig returns the settings used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		SnapLen:     DefaultSnapLen,
		Promiscuous: true,
		ReadTimeout: DefaultReadTimeout,
	}
}

// pcapHandle is the subset of *pcap.Handle the adapter uses.
type pcapHandle interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
	WritePacketData(data []byte) error
	LinkType() layers.LinkType
	Close()
}

// Handle is one raw datalink channel. It satisfies both ports.LinkWriter
// and ports.LinkReader, but a session opens one handle per direction so
// each worker owns its own.
type Handle struct {
	device string
	h      pcapHandle
}

// Open opens a live handle on device.
func Open(device string, cfg Config) (*Handle, error) {
	if cfg.SnapLen <= 0 {
		cfg.SnapLen = DefaultSnapLen
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	h, err := pcap.OpenLive(device, cfg.SnapLen, cfg.Promiscuous, cfg.ReadTimeout)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	return &Handle{device: device, h: h}, nil
}

// Device returns the interface name the handle is bound to.
func (h *Handle) Device() string {
	return h.device
}

// LinkType returns the datalink type reported by libpcap.
func (h *Handle) LinkType() layers.LinkType {
	return h.h.LinkType()
}

// WriteFrame injects the frame bytes unchanged.
func (h *Handle) WriteFrame(frame domain.Frame) error {
	if err := h.h.WritePacketData(frame.Data); err != nil {
		return fmt.Errorf("%s: %w", h.device, err)
	}
	return nil
}

// ReadFrame polls for the next frame, mapping libpcap's read timeout to
// domain.ErrReadTimeout.
func (h *Handle) ReadFrame() (domain.Frame, error) {
	data, ci, err := h.h.ReadPacketData()
	if err != nil {
		if errors.Is(err, pcap.NextErrorTimeoutExpired) {
			return domain.Frame{}, domain.ErrReadTimeout
		}
		return domain.Frame{}, fmt.Errorf("%s: %w", h.device, err)
	}
	return domain.Frame{
		Data:       data,
		CapturedAt: ci.Timestamp,
		WireLength: ci.Length,
	}, nil
}

// Close releases the handle.
func (h *Handle) Close() {
	h.h.Close()
}
