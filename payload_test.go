package registers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Encoder = U8(0)
	_ Decoder = (*U8)(nil)
	_ Encoder = NoParams{}
	_ Decoder = NoParams{}
	_ Encoder = Zeros(0)
	_ Decoder = Zeros(0)
)

func TestUint_RoundTrip(t *testing.T) {
	t.Run("u8", func(t *testing.T) {
		in := U8(0xA5)
		buf := make([]byte, in.Size())
		require.NoError(t, in.Encode(buf))
		assert.Equal(t, []byte{0xA5}, buf)
		var out U8
		require.NoError(t, out.Decode(buf))
		assert.Equal(t, in, out)
	})
	t.Run("u16", func(t *testing.T) {
		in := U16(0x1234)
		buf := make([]byte, in.Size())
		require.NoError(t, in.Encode(buf))
		assert.Equal(t, []byte{0x12, 0x34}, buf)
		var out U16
		require.NoError(t, out.Decode(buf))
		assert.Equal(t, in, out)
	})
	t.Run("u32", func(t *testing.T) {
		in := U32(0xCAFEBABE)
		buf := make([]byte, in.Size())
		require.NoError(t, in.Encode(buf))
		assert.Equal(t, []byte{0xCA, 0xFE, 0xBA, 0xBE}, buf)
		var out U32
		require.NoError(t, out.Decode(buf))
		assert.Equal(t, in, out)
	})
	t.Run("u64", func(t *testing.T) {
		in := U64(0x0102030405060708)
		buf := make([]byte, in.Size())
		require.NoError(t, in.Encode(buf))
		assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}, buf)
		var out U64
		require.NoError(t, out.Decode(buf))
		assert.Equal(t, in, out)
	})
	t.Run("u128", func(t *testing.T) {
		in := U128{Hi: 0x0102030405060708, Lo: 0x090A0B0C0D0E0F10}
		buf := make([]byte, in.Size())
		require.NoError(t, in.Encode(buf))
		assert.Equal(t, []byte{
			0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
			0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10,
		}, buf)
		var out U128
		require.NoError(t, out.Decode(buf))
		assert.Equal(t, in, out)
	})
}

func TestNoParams(t *testing.T) {
	var p NoParams
	assert.Equal(t, 0, p.Size())
	assert.NoError(t, p.Encode(nil))
	assert.NoError(t, p.Decode(nil))
}

func TestZeros(t *testing.T) {
	z := Zeros(4)
	assert.Equal(t, 4, z.Size())

	buf := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	require.NoError(t, z.Encode(buf))
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00}, buf)

	assert.NoError(t, z.Decode([]byte{0xDE, 0xAD, 0xBE, 0xEF}))
}
