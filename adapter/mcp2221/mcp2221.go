// Package mcp2221 drives the Microchip MCP2221A USB-to-I2C bridge over USB
// HID and exposes it as an i2c.ContextBus. The bridge speaks 64-byte HID
// reports; each bus operation is one or two report exchanges with the I2C
// engine on the chip.
package mcp2221

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/karalabe/hid"

	"github.com/mklimuk/registers"
	"github.com/mklimuk/registers/i2c"
)

// USB identification of the MCP2221/MCP2221A.
const VendorID = 0x04D8
const ProductID = 0x00DD

// HID command codes, per the MCP2221A datasheet.
const (
	cmdStatusSetParams    = 0x10
	cmdGetI2CData         = 0x40
	cmdI2CWrite           = 0x90
	cmdI2CRead            = 0x91
	cmdI2CReadRepeatStart = 0x93
	cmdI2CWriteNoStop     = 0x94
)

// A report carries at most 60 payload bytes after the 4-byte command header.
const maxTransfer = 60

var ErrBusBusy = errors.New("I2C engine is busy (command not completed)")

var _ i2c.ContextBus = (*Bridge)(nil)

// Bridge is a single MCP2221A adapter. The HID device is enumerated and
// opened per exchange; the mutex serializes exchanges so the two report
// buffers can be reused across calls.
type Bridge struct {
	mx           sync.Mutex
	request      []byte
	response     []byte
	responseWait time.Duration
	deviceIndex  int
}

type Option func(*Bridge)

// WithResponseWait overrides the pause between writing a report and reading
// the engine's answer. The default 50ms is conservative for 100kHz buses.
func WithResponseWait(d time.Duration) Option {
	return func(b *Bridge) { b.responseWait = d }
}

// WithDeviceIndex selects among multiple connected bridges. Without it a
// single connected device is required.
func WithDeviceIndex(i int) Option {
	return func(b *Bridge) { b.deviceIndex = i }
}

func New(opts ...Option) *Bridge {
	b := &Bridge{
		request:      make([]byte, 64),
		response:     make([]byte, 64),
		responseWait: 50 * time.Millisecond,
		deviceIndex:  -1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WriteRead writes w to the device at addr and reads len(r) bytes back using
// a repeated start, all within one I2C transaction on the wire.
func (d *Bridge) WriteRead(ctx context.Context, addr uint16, w, r []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.writeRead(ctx, addr, w, r)
}

// Transact executes ops as one transaction. The engine supports sequences of
// writes optionally followed by a single read; consecutive writes are merged
// into one write phase. A zero-length trailing read degenerates to a plain
// write with stop.
func (d *Bridge) Transact(ctx context.Context, addr uint16, ops ...registers.Op) error {
	w, r, err := registers.Coalesce(ops)
	if err != nil {
		return err
	}
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.writeRead(ctx, addr, w, r)
}

func (d *Bridge) writeRead(ctx context.Context, addr uint16, w, r []byte) error {
	if len(r) == 0 {
		return d.write(ctx, cmdI2CWrite, addr, w)
	}
	if len(w) == 0 {
		return d.read(ctx, cmdI2CRead, addr, r)
	}
	if err := d.write(ctx, cmdI2CWriteNoStop, addr, w); err != nil {
		return err
	}
	return d.read(ctx, cmdI2CReadRepeatStart, addr, r)
}

func (d *Bridge) write(ctx context.Context, cmd byte, addr uint16, payload []byte) error {
	if err := checkTransfer(addr, len(payload)); err != nil {
		return err
	}
	d.resetBuffers()
	fillWriteReport(d.request, cmd, addr, payload)
	if err := d.send(ctx, true); err != nil {
		return fmt.Errorf("write to %#x failed: %w", addr, err)
	}
	if d.response[1] == 0x01 {
		return ErrBusBusy
	}
	return nil
}

func (d *Bridge) read(ctx context.Context, cmd byte, addr uint16, buffer []byte) error {
	if err := checkTransfer(addr, len(buffer)); err != nil {
		return err
	}
	d.resetBuffers()
	fillReadReport(d.request, cmd, addr, len(buffer))
	if err := d.send(ctx, true); err != nil {
		return fmt.Errorf("bus read from %#x failed: %w", addr, err)
	}
	if d.response[1] == 0x01 {
		return ErrBusBusy
	}
	d.request[0] = cmdGetI2CData
	resetBuffer(d.response)
	if err := d.send(ctx, true); err != nil {
		return fmt.Errorf("error getting read data from bridge: %w", err)
	}
	if d.response[1] == 0x41 {
		return errors.New("error reading the I2C slave data from the I2C engine")
	}
	if d.response[3] == 127 || int(d.response[3]) != len(buffer) {
		return fmt.Errorf("invalid data size byte; expected %d, got %d", len(buffer), d.response[3])
	}
	copy(buffer, d.response[4:])
	return nil
}

func fillWriteReport(req []byte, cmd byte, addr uint16, payload []byte) {
	req[0] = cmd
	binary.LittleEndian.PutUint16(req[1:3], uint16(len(payload)))
	req[3] = byte(addr) << 1
	copy(req[4:], payload)
}

func fillReadReport(req []byte, cmd byte, addr uint16, size int) {
	req[0] = cmd
	binary.LittleEndian.PutUint16(req[1:3], uint16(size))
	req[3] = byte(addr)<<1 | 1
}

func checkTransfer(addr uint16, size int) error {
	if addr > 0x7F {
		return fmt.Errorf("address %#x exceeds the bridge's 7-bit range", addr)
	}
	if size > maxTransfer {
		return fmt.Errorf("transfer of %d bytes exceeds the %d byte report limit", size, maxTransfer)
	}
	return nil
}

// Status describes the state of the bridge's I2C engine.
type Status struct {
	I2CDataBufferCounter   int    `yaml:"i2c_data_buffer_counter"`
	I2CSpeedDivider        int    `yaml:"i2c_speed_divider"`
	I2CTimeout             int    `yaml:"i2c_timeout"`
	CurrentAddress         string `yaml:"current_address"`
	LastWriteRequestedSize uint16 `yaml:"last_write_requested_size"`
	LastWriteSentSize      uint16 `yaml:"last_write_sent_size"`
	ReadPending            int    `yaml:"read_pending"`
}

// GetStatus queries the I2C engine without touching the bus.
func (d *Bridge) GetStatus(ctx context.Context) (*Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdStatusSetParams
	if err := d.send(ctx, true); err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	return bufferToStatus(d.response), nil
}

// ReleaseBus cancels the current transfer and frees the engine, returning
// the post-cancel status. Use it when a failed exchange leaves the engine
// reporting busy.
func (d *Bridge) ReleaseBus(ctx context.Context) (*Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdStatusSetParams
	d.request[2] = 0x10
	if err := d.send(ctx, true); err != nil {
		return nil, fmt.Errorf("cancel request failed: %w", err)
	}
	return bufferToStatus(d.response), nil
}

func bufferToStatus(buffer []byte) *Status {
	/*
		9:  Lower byte (16-bit value) of the requested I2C transfer length
		10: Higher byte (16-bit value) of the requested I2C transfer length
		11: Lower byte (16-bit value) of the already transferred (through I2C) number of bytes
		12: Higher byte (16-bit value) of the already transferred (through I2C) number of bytes
		13: Internal I2C data buffer counter
		14: Current I2C communication speed divider value
		15: Current I2C timeout value
		16: Lower byte (16-bit value) of the I2C address being used
		17: Higher byte (16-bit value) of the I2C address being used
	*/
	status := &Status{
		I2CDataBufferCounter: int(buffer[13]),
		I2CSpeedDivider:      int(buffer[14]),
		I2CTimeout:           int(buffer[15]),
		ReadPending:          int(buffer[25]),
		CurrentAddress:       hex.EncodeToString(buffer[16:18]),
	}
	status.LastWriteRequestedSize = binary.LittleEndian.Uint16(buffer[9:11])
	status.LastWriteSentSize = binary.LittleEndian.Uint16(buffer[11:13])
	return status
}

func (d *Bridge) send(ctx context.Context, response bool) error {
	devs := hid.Enumerate(VendorID, ProductID)
	if len(devs) == 0 {
		return errors.New("MCP2221 device not found")
	}
	idx := d.deviceIndex
	if idx < 0 {
		if len(devs) > 1 {
			return errors.New("ambiguous device identification")
		}
		idx = 0
	}
	if idx >= len(devs) {
		return fmt.Errorf("no device with index %d", idx)
	}
	dev, err := devs[idx].Open()
	if err != nil {
		return fmt.Errorf("error opening device: %w", err)
	}
	defer func() { _ = dev.Close() }()

	debug := slog.Default().Enabled(ctx, slog.LevelDebug)
	if debug {
		slog.DebugContext(ctx, "bridge request", "frame", hex.EncodeToString(d.request))
	}
	n, err := dev.Write(d.request)
	if err != nil {
		return fmt.Errorf("could not write request: %w", err)
	}
	if n != 64 {
		return fmt.Errorf("short write: %d", n)
	}
	if !response {
		return nil
	}
	time.Sleep(d.responseWait)
	n, err = dev.Read(d.response)
	if err != nil {
		return fmt.Errorf("could not read response: %w", err)
	}
	if n != 64 {
		return fmt.Errorf("short read: %d", n)
	}
	if debug {
		slog.DebugContext(ctx, "bridge response", "frame", hex.EncodeToString(d.response))
	}
	return nil
}

func (d *Bridge) resetBuffers() {
	resetBuffer(d.request)
	resetBuffer(d.response)
}

func resetBuffer(buf []byte) {
	for i := range buf {
		buf[i] = 0x00
	}
}
