package gobotio_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/mklimuk/registers"
	"github.com/mklimuk/registers/adapter/gobotio"
	regsi2c "github.com/mklimuk/registers/i2c"
)

// measurement is a 2-byte big-endian register at id 0x2A.
type measurement struct{ registers.U16 }

func (measurement) RegisterID() registers.ID { return registers.ID8(0x2A) }

type fakeConnector struct {
	conn    *fakeConnection
	lastBus int
	addrs   []int
	err     error
}

func (c *fakeConnector) GetI2cConnection(address int, busNr int) (i2c.Connection, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.addrs = append(c.addrs, address)
	c.lastBus = busNr
	return c.conn, nil
}

func (c *fakeConnector) DefaultI2cBus() int { return 0 }

// fakeConnection records writes and serves a canned read. Only the plain
// stream calls are exercised by the adapter; the SMBus helpers stay unused.
type fakeConnection struct {
	written  [][]byte
	response []byte
	writeErr error
}

func (c *fakeConnection) Write(p []byte) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	buf := make([]byte, len(p))
	copy(buf, p)
	c.written = append(c.written, buf)
	return len(p), nil
}

func (c *fakeConnection) Read(p []byte) (int, error) {
	n := copy(p, c.response)
	c.response = c.response[n:]
	return n, nil
}

func (c *fakeConnection) Close() error { return nil }

func (c *fakeConnection) ReadByte() (byte, error)            { panic("not used") }
func (c *fakeConnection) ReadByteData(uint8) (uint8, error)  { panic("not used") }
func (c *fakeConnection) ReadWordData(uint8) (uint16, error) { panic("not used") }
func (c *fakeConnection) ReadBlockData(uint8, []byte) error  { panic("not used") }
func (c *fakeConnection) WriteByte(byte) error               { panic("not used") }
func (c *fakeConnection) WriteByteData(uint8, uint8) error   { panic("not used") }
func (c *fakeConnection) WriteWordData(uint8, uint16) error  { panic("not used") }
func (c *fakeConnection) WriteBlockData(uint8, []byte) error { panic("not used") }
func (c *fakeConnection) WriteBytes([]byte) error            { panic("not used") }

func TestBus_ReadRegister(t *testing.T) {
	connector := &fakeConnector{conn: &fakeConnection{response: []byte{0x01, 0x02}}}
	bus := gobotio.NewBus(connector, 2)

	var reg measurement
	err := regsi2c.ReadRegister(bus, 0x48, &reg)
	require.NoError(t, err)
	assert.Equal(t, registers.U16(0x0102), reg.U16)
	assert.Equal(t, []int{0x48}, connector.addrs)
	assert.Equal(t, 2, connector.lastBus)
	require.Len(t, connector.conn.written, 1)
	assert.Equal(t, []byte{0x2A}, connector.conn.written[0])
}

func TestBus_TransactCoalescesWrites(t *testing.T) {
	connector := &fakeConnector{conn: &fakeConnection{}}
	bus := gobotio.NewBus(connector, 0)

	err := bus.Transact(0x48, registers.WriteOp([]byte{0x2A}), registers.WriteOp([]byte{0x07}))
	require.NoError(t, err)
	require.Len(t, connector.conn.written, 1)
	assert.Equal(t, []byte{0x2A, 0x07}, connector.conn.written[0], "both writes form one bus write")
}

func TestBus_TransactRejectsReadBeforeWrite(t *testing.T) {
	bus := gobotio.NewBus(&fakeConnector{conn: &fakeConnection{}}, 0)
	err := bus.Transact(0x48,
		registers.ReadOp(make([]byte, 1)),
		registers.WriteOp([]byte{0x01}),
	)
	assert.ErrorIs(t, err, registers.ErrUnsupportedSequence)
}

func TestBus_ConnectionErrors(t *testing.T) {
	connErr := errors.New("bus not exported")
	bus := gobotio.NewBus(&fakeConnector{err: connErr}, 0)

	var reg measurement
	err := regsi2c.ReadRegister(bus, 0x48, &reg)
	require.Error(t, err)
	assert.ErrorIs(t, err, connErr)
	assert.ErrorIs(t, err, registers.ErrBus)
}
