// Package sc18im drives the NXP SC18IM704 UART-to-I2C bridge and exposes it
// as an i2c.Bus. The bridge speaks an ASCII-framed protocol over the serial
// line: an 'S' byte starts an I2C frame, 'P' terminates the transfer, and a
// second 'S' inside a frame becomes a repeated start on the bus. The UART
// has no inline status channel, so after every transfer the adapter polls
// the bridge's I2C status register and maps its code to an error.
package sc18im

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"

	"github.com/mklimuk/registers"
	regsi2c "github.com/mklimuk/registers/i2c"
)

// Protocol framing bytes, per the SC18IM704 datasheet.
const (
	frameStart    = 'S'
	frameStop     = 'P'
	frameRegRead  = 'R'
	frameRegWrite = 'W'
)

// Bridge-internal registers.
const regI2CStat = 0x0A

// I2C status register codes.
const (
	statusOK       = 0xF0
	statusNackAddr = 0xF1
	statusNackData = 0xF2
	statusTimeout  = 0xF8
)

var (
	ErrNackAddr = errors.New("device address not acknowledged")
	ErrNackData = errors.New("data byte not acknowledged")
	ErrTimeout  = errors.New("bus transfer timed out")
)

// A frame carries at most 255 data bytes; the length field is one byte.
const maxTransfer = 255

var _ regsi2c.Bus = (*Bridge)(nil)

// Bridge is a single SC18IM704 on a serial line. Not safe for concurrent
// use; the caller holds the bridge for the duration of one transaction.
type Bridge struct {
	port io.ReadWriter
}

type Option func(*config)

type config struct {
	baud        int
	readTimeout time.Duration
}

// WithBaud overrides the bridge's default 9600 baud.
func WithBaud(baud int) Option {
	return func(c *config) { c.baud = baud }
}

// WithReadTimeout bounds a single serial read. The default 500ms covers a
// full 255-byte frame at the slowest supported baud rate.
func WithReadTimeout(d time.Duration) Option {
	return func(c *config) { c.readTimeout = d }
}

// Open opens the serial device and wraps it in a Bridge.
func Open(device string, opts ...Option) (*Bridge, error) {
	cfg := config{baud: 9600, readTimeout: 500 * time.Millisecond}
	for _, opt := range opts {
		opt(&cfg)
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        device,
		Baud:        cfg.baud,
		ReadTimeout: cfg.readTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("could not open serial port %s: %w", device, err)
	}
	return New(port), nil
}

// New wraps an already-open serial line. The caller keeps ownership of port.
func New(port io.ReadWriter) *Bridge {
	return &Bridge{port: port}
}

// WriteRead writes w to the device at addr and reads len(r) bytes back with
// a repeated start between the two phases.
func (b *Bridge) WriteRead(addr uint16, w, r []byte) error {
	if err := checkTransfer(addr, len(w), len(r)); err != nil {
		return err
	}
	frame := make([]byte, 0, len(w)+8)
	if len(w) > 0 {
		frame = append(frame, frameStart, byte(addr)<<1, byte(len(w)))
		frame = append(frame, w...)
	}
	if len(r) > 0 {
		frame = append(frame, frameStart, byte(addr)<<1|1, byte(len(r)))
	}
	frame = append(frame, frameStop)
	if err := b.exchange(addr, frame, r); err != nil {
		return err
	}
	return b.checkStatus(addr)
}

// Transact coalesces ops into one write phase followed by at most one read.
// A sequence with a read before the final step fails with
// registers.ErrUnsupportedSequence.
func (b *Bridge) Transact(addr uint16, ops ...registers.Op) error {
	w, r, err := registers.Coalesce(ops)
	if err != nil {
		return err
	}
	return b.WriteRead(addr, w, r)
}

// ReadInternal reads one of the bridge's own configuration registers, not a
// device on the bus.
func (b *Bridge) ReadInternal(reg byte) (byte, error) {
	if _, err := b.port.Write([]byte{frameRegRead, reg, frameStop}); err != nil {
		return 0, fmt.Errorf("internal register read request failed: %w", err)
	}
	var value [1]byte
	if err := b.readFull(value[:]); err != nil {
		return 0, fmt.Errorf("internal register %#x read failed: %w", reg, err)
	}
	return value[0], nil
}

// WriteInternal writes one of the bridge's own configuration registers.
func (b *Bridge) WriteInternal(reg, value byte) error {
	if _, err := b.port.Write([]byte{frameRegWrite, reg, value, frameStop}); err != nil {
		return fmt.Errorf("internal register %#x write failed: %w", reg, err)
	}
	return nil
}

func (b *Bridge) exchange(addr uint16, frame, r []byte) error {
	if _, err := b.port.Write(frame); err != nil {
		return fmt.Errorf("serial write for %#x failed: %w", addr, err)
	}
	if len(r) == 0 {
		return nil
	}
	if err := b.readFull(r); err != nil {
		return fmt.Errorf("serial read for %#x failed: %w", addr, err)
	}
	return nil
}

func (b *Bridge) checkStatus(addr uint16) error {
	status, err := b.ReadInternal(regI2CStat)
	if err != nil {
		return err
	}
	switch status {
	case statusOK:
		return nil
	case statusNackAddr:
		return fmt.Errorf("transfer with %#x failed: %w", addr, ErrNackAddr)
	case statusNackData:
		return fmt.Errorf("transfer with %#x failed: %w", addr, ErrNackData)
	case statusTimeout:
		return fmt.Errorf("transfer with %#x failed: %w", addr, ErrTimeout)
	}
	return fmt.Errorf("transfer with %#x failed: unknown status %#x", addr, status)
}

// readFull fills buf from the serial line. The port's Read may return short
// counts; a zero-byte read means the timeout expired with the frame still
// incomplete.
func (b *Bridge) readFull(buf []byte) error {
	filled := 0
	for filled < len(buf) {
		n, err := b.port.Read(buf[filled:])
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("short read: got %d of %d bytes", filled, len(buf))
		}
		filled += n
	}
	return nil
}

func checkTransfer(addr uint16, writeLen, readLen int) error {
	if addr > 0x7F {
		return fmt.Errorf("address %#x exceeds the bridge's 7-bit range", addr)
	}
	if writeLen > maxTransfer || readLen > maxTransfer {
		return fmt.Errorf("transfer exceeds the %d byte frame limit", maxTransfer)
	}
	return nil
}
