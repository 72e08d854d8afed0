package periphio_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/mklimuk/registers"
	"github.com/mklimuk/registers/adapter/periphio"
	"github.com/mklimuk/registers/i2c"
)

// measurement is a 2-byte big-endian register at id 0x2A.
type measurement struct{ registers.U16 }

func (measurement) RegisterID() registers.ID { return registers.ID8(0x2A) }

func TestBus_WriteRead(t *testing.T) {
	playback := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x48, W: []byte{0x2A}, R: []byte{0x01, 0x02}},
		},
		DontPanic: true,
	}
	bus := periphio.NewBus(playback)

	var reg measurement
	err := i2c.ReadRegister(bus, 0x48, &reg)
	require.NoError(t, err)
	assert.Equal(t, registers.U16(0x0102), reg.U16)
	assert.NoError(t, playback.Close(), "all scripted ops must be consumed")
}

func TestBus_TransactCoalescesWrites(t *testing.T) {
	playback := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x48, W: []byte{0x2A, 0x07}, R: nil},
		},
		DontPanic: true,
	}
	bus := periphio.NewBus(playback)

	err := bus.Transact(0x48, registers.WriteOp([]byte{0x2A}), registers.WriteOp([]byte{0x07}))
	require.NoError(t, err)
	assert.NoError(t, playback.Close())
}

func TestBus_TransactRejectsReadBeforeWrite(t *testing.T) {
	bus := periphio.NewBus(&i2ctest.Playback{DontPanic: true})
	err := bus.Transact(0x48,
		registers.ReadOp(make([]byte, 2)),
		registers.WriteOp([]byte{0x01}),
	)
	assert.ErrorIs(t, err, registers.ErrUnsupportedSequence)
}

func TestBus_TxErrorIsWrapped(t *testing.T) {
	// an empty script makes any op unexpected
	playback := &i2ctest.Playback{DontPanic: true}
	bus := periphio.NewBus(playback)

	var reg measurement
	err := i2c.ReadRegister(bus, 0x48, &reg)
	require.Error(t, err)
	assert.ErrorIs(t, err, registers.ErrBus)
}
