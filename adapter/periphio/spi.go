package periphio

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/mklimuk/registers"
	regsspi "github.com/mklimuk/registers/spi"
)

var _ regsspi.Device = (*Device)(nil)

// Device wraps a connected periph.io SPI device. Ops translate one to one
// into spi.Packet frames, so the whole transaction stays within a single
// chip-select window.
type Device struct {
	conn spi.Conn
	port spi.PortCloser
}

type DeviceOption func(*deviceConfig)

type deviceConfig struct {
	freq physic.Frequency
	mode spi.Mode
}

// WithFrequency overrides the default 1MHz clock.
func WithFrequency(f physic.Frequency) DeviceOption {
	return func(c *deviceConfig) { c.freq = f }
}

// WithMode overrides the default mode 0 (CPOL=0, CPHA=0).
func WithMode(m spi.Mode) DeviceOption {
	return func(c *deviceConfig) { c.mode = m }
}

// OpenDevice initializes the periph host, opens the registered port dev and
// connects to it at 8 bits per word. An empty dev selects the first
// available port.
func OpenDevice(dev string, opts ...DeviceOption) (*Device, error) {
	cfg := deviceConfig{freq: physic.MegaHertz, mode: spi.Mode0}
	for _, opt := range opts {
		opt(&cfg)
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	port, err := spireg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("could not open spi port: %w", err)
	}
	conn, err := port.Connect(cfg.freq, cfg.mode, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("could not connect to spi device: %w", err)
	}
	return &Device{conn: conn, port: port}, nil
}

// NewDevice wraps an already-connected conn. Close is a no-op on the
// returned Device; the caller keeps ownership of conn.
func NewDevice(conn spi.Conn) *Device {
	return &Device{conn: conn}
}

// Transact issues ops as a packet sequence with chip-select held asserted
// between packets, releasing it only after the last one.
func (d *Device) Transact(ops ...registers.Op) error {
	packets := make([]spi.Packet, len(ops))
	for i, op := range ops {
		p := spi.Packet{KeepCS: i < len(ops)-1}
		if op.IsRead() {
			p.R = op.R
		} else {
			p.W = op.W
		}
		packets[i] = p
	}
	if err := d.conn.TxPackets(packets); err != nil {
		return fmt.Errorf("spi transaction failed: %w", err)
	}
	return nil
}

func (d *Device) Close() error {
	if d.port == nil {
		return nil
	}
	return d.port.Close()
}
