package spi_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/registers"
	"github.com/mklimuk/registers/spi"
	"github.com/mklimuk/registers/spi/spitest"
)

// wiper is a 2-byte register at id 0x2A. Reads use the id with bit 7 set,
// the read/write convention of many SPI peripherals.
type wiper struct{ registers.U16 }

func (wiper) RegisterID() registers.ID     { return registers.ID8(0x2A) }
func (wiper) ReadRegisterID() registers.ID { return registers.ID8(0x2A | 0x80) }

// enable is a 1-byte register at id 0x06.
type enable struct{ registers.U8 }

func (enable) RegisterID() registers.ID { return registers.ID8(0x06) }

var errBadValue = errors.New("value exceeds wiper range")

type badEncode struct{}

func (badEncode) RegisterID() registers.ID { return registers.ID8(0x2A) }
func (badEncode) Size() int                { return 2 }
func (badEncode) Encode([]byte) error      { return errBadValue }

// reset is a command with no parameters and no response.
type reset struct{}

func (reset) CommandID() registers.ID   { return registers.ID8(0xFF) }
func (reset) Params() registers.Encoder { return registers.NoParams{} }

func TestReadRegister(t *testing.T) {
	dev := &spitest.Device{Responses: [][]byte{{0x01, 0x02}}}

	var reg wiper
	require.NoError(t, spi.ReadRegister(dev.Blocking(), &reg))

	assert.Equal(t, registers.U16(0x0102), reg.U16)
	require.Equal(t, 1, dev.Calls())
	assert.Equal(t, []registers.Op{
		registers.WriteOp([]byte{0xAA}),
		registers.ReadOp([]byte{0x01, 0x02}),
	}, dev.Transactions[0])
}

func TestWriteRegister(t *testing.T) {
	dev := &spitest.Device{}

	require.NoError(t, spi.WriteRegister(dev.Blocking(), wiper{registers.U16(0x0203)}))

	require.Equal(t, 1, dev.Calls())
	assert.Equal(t, []registers.Op{
		registers.WriteOp([]byte{0x2A}),
		registers.WriteOp([]byte{0x02, 0x03}),
	}, dev.Transactions[0])
}

func TestWriteRegister_EncodeFailsBeforeDevice(t *testing.T) {
	dev := &spitest.Device{}

	err := spi.WriteRegister(dev.Blocking(), badEncode{})

	require.Error(t, err)
	assert.ErrorIs(t, err, registers.ErrEncode)
	assert.ErrorIs(t, err, errBadValue)
	assert.Zero(t, dev.Calls())
}

func TestReadRegister_DeviceError(t *testing.T) {
	devErr := errors.New("chip select stuck")
	dev := &spitest.Device{Err: devErr}

	var reg enable
	err := spi.ReadRegister(dev.Blocking(), &reg)

	require.Error(t, err)
	assert.ErrorIs(t, err, registers.ErrBus)
	assert.ErrorIs(t, err, devErr)
	assert.Equal(t, registers.U8(0), reg.U8)
}

func TestInvokeCommand(t *testing.T) {
	dev := &spitest.Device{Responses: [][]byte{{0x55}}}

	var resp registers.U8
	require.NoError(t, spi.InvokeCommand(dev.Blocking(), reset{}, &resp))

	assert.Equal(t, registers.U8(0x55), resp)
	require.Equal(t, 1, dev.Calls())
	assert.Equal(t, []registers.Op{
		registers.WriteOp([]byte{0xFF}),
		registers.WriteOp([]byte{}),
		registers.ReadOp([]byte{0x55}),
	}, dev.Transactions[0])
}

func TestContextVariantsMatchBlocking(t *testing.T) {
	blocking := &spitest.Device{Responses: [][]byte{{0xBE, 0xEF}}}
	withCtx := &spitest.Device{Responses: [][]byte{{0xBE, 0xEF}}}

	var a, b wiper
	require.NoError(t, spi.ReadRegister(blocking.Blocking(), &a))
	require.NoError(t, spi.ReadRegisterContext(context.Background(), withCtx, &b))

	assert.Equal(t, a, b)
	assert.Equal(t, blocking.Transactions, withCtx.Transactions)
}
