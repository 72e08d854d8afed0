package mcp2221

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/registers"
)

func TestFillWriteReport(t *testing.T) {
	req := make([]byte, 64)
	fillWriteReport(req, cmdI2CWrite, 0x48, []byte{0x2A, 0x07})

	assert.Equal(t, byte(0x90), req[0])
	// length is little-endian
	assert.Equal(t, byte(0x02), req[1])
	assert.Equal(t, byte(0x00), req[2])
	// write direction: address shifted, R/W bit clear
	assert.Equal(t, byte(0x48<<1), req[3])
	assert.Equal(t, []byte{0x2A, 0x07}, req[4:6])
}

func TestFillReadReport(t *testing.T) {
	req := make([]byte, 64)
	fillReadReport(req, cmdI2CReadRepeatStart, 0x48, 6)

	assert.Equal(t, byte(0x93), req[0])
	assert.Equal(t, byte(0x06), req[1])
	assert.Equal(t, byte(0x00), req[2])
	// read direction: R/W bit set
	assert.Equal(t, byte(0x48<<1|1), req[3])
}

func TestCheckTransfer(t *testing.T) {
	assert.NoError(t, checkTransfer(0x48, 16))
	assert.Error(t, checkTransfer(0x90, 1), "10-bit addresses exceed the bridge range")
	assert.Error(t, checkTransfer(0x48, maxTransfer+1))
}

func TestBufferToStatus(t *testing.T) {
	buf := make([]byte, 64)
	buf[9], buf[10] = 0x06, 0x00  // requested 6
	buf[11], buf[12] = 0x04, 0x00 // sent 4
	buf[13] = 3
	buf[14] = 120
	buf[15] = 32
	buf[16], buf[17] = 0x90, 0x00
	buf[25] = 1

	status := bufferToStatus(buf)

	require.NotNil(t, status)
	assert.Equal(t, uint16(6), status.LastWriteRequestedSize)
	assert.Equal(t, uint16(4), status.LastWriteSentSize)
	assert.Equal(t, 3, status.I2CDataBufferCounter)
	assert.Equal(t, 120, status.I2CSpeedDivider)
	assert.Equal(t, 32, status.I2CTimeout)
	assert.Equal(t, "9000", status.CurrentAddress)
	assert.Equal(t, 1, status.ReadPending)
}

func TestTransact_RejectsReadBeforeWrite(t *testing.T) {
	b := New()
	err := b.Transact(context.Background(), 0x48,
		registers.ReadOp(make([]byte, 2)),
		registers.WriteOp([]byte{0x01}),
	)
	assert.ErrorIs(t, err, registers.ErrUnsupportedSequence)
}
