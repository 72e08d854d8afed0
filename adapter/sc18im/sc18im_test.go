package sc18im

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/registers"
)

// fakePort scripts the serial line: it records every write and serves one
// canned slice per read call.
type fakePort struct {
	written   [][]byte
	responses [][]byte
}

func (p *fakePort) Write(b []byte) (int, error) {
	buf := make([]byte, len(b))
	copy(buf, b)
	p.written = append(p.written, buf)
	return len(b), nil
}

func (p *fakePort) Read(b []byte) (int, error) {
	if len(p.responses) == 0 {
		return 0, nil
	}
	n := copy(b, p.responses[0])
	if n == len(p.responses[0]) {
		p.responses = p.responses[1:]
	} else {
		p.responses[0] = p.responses[0][n:]
	}
	return n, nil
}

func TestWriteRead_FramesRepeatedStart(t *testing.T) {
	port := &fakePort{responses: [][]byte{{0x01, 0x02}, {statusOK}}}
	bridge := New(port)

	buf := make([]byte, 2)
	err := bridge.WriteRead(0x48, []byte{0x2A}, buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, buf)

	require.Len(t, port.written, 2)
	// write phase, repeated start, read phase, stop
	assert.Equal(t, []byte{'S', 0x48 << 1, 1, 0x2A, 'S', 0x48<<1 | 1, 2, 'P'}, port.written[0])
	// status poll after the transfer
	assert.Equal(t, []byte{'R', regI2CStat, 'P'}, port.written[1])
}

func TestWriteRead_WriteOnlyFrame(t *testing.T) {
	port := &fakePort{responses: [][]byte{{statusOK}}}
	bridge := New(port)

	err := bridge.Transact(0x48, registers.WriteOp([]byte{0x2A}), registers.WriteOp([]byte{0x07}))
	require.NoError(t, err)

	require.Len(t, port.written, 2)
	assert.Equal(t, []byte{'S', 0x48 << 1, 2, 0x2A, 0x07, 'P'}, port.written[0])
}

func TestWriteRead_NackMapsToError(t *testing.T) {
	port := &fakePort{responses: [][]byte{{statusNackAddr}}}
	bridge := New(port)

	err := bridge.WriteRead(0x48, []byte{0x00}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNackAddr)
}

func TestWriteRead_ShortResponse(t *testing.T) {
	// one byte arrives, then the line goes quiet
	port := &fakePort{responses: [][]byte{{0x01}}}
	bridge := New(port)

	buf := make([]byte, 2)
	err := bridge.WriteRead(0x48, []byte{0x2A}, buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "short read")
}

func TestTransact_RejectsReadBeforeWrite(t *testing.T) {
	bridge := New(&fakePort{})
	err := bridge.Transact(0x48,
		registers.ReadOp(make([]byte, 1)),
		registers.WriteOp([]byte{0x01}),
	)
	assert.ErrorIs(t, err, registers.ErrUnsupportedSequence)
}

func TestCheckTransfer(t *testing.T) {
	assert.NoError(t, checkTransfer(0x48, 2, 2))
	assert.Error(t, checkTransfer(0x90, 1, 0), "10-bit addresses exceed the bridge range")
	assert.Error(t, checkTransfer(0x48, maxTransfer+1, 0))
}

func TestInternalRegisters(t *testing.T) {
	port := &fakePort{responses: [][]byte{{0x5A}}}
	bridge := New(port)

	val, err := bridge.ReadInternal(0x02)
	require.NoError(t, err)
	assert.Equal(t, byte(0x5A), val)
	assert.Equal(t, []byte{'R', 0x02, 'P'}, port.written[0])

	require.NoError(t, bridge.WriteInternal(0x02, 0x13))
	assert.Equal(t, []byte{'W', 0x02, 0x13, 'P'}, port.written[1])
}
