package registers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoalesce(t *testing.T) {
	buf := make([]byte, 2)
	w, r, err := Coalesce([]Op{
		WriteOp([]byte{0x2A}),
		WriteOp([]byte{0x01, 0x02}),
		ReadOp(buf),
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x2A, 0x01, 0x02}, w)
	assert.Same(t, &buf[0], &r[0], "the read buffer must be aliased, not copied")
}

func TestCoalesce_WritesOnly(t *testing.T) {
	w, r, err := Coalesce([]Op{WriteOp([]byte{0x2A}), WriteOp([]byte{0x07})})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x2A, 0x07}, w)
	assert.Nil(t, r)
}

func TestCoalesce_ReadMustBeLast(t *testing.T) {
	_, _, err := Coalesce([]Op{
		ReadOp(make([]byte, 1)),
		WriteOp([]byte{0x01}),
	})
	assert.ErrorIs(t, err, ErrUnsupportedSequence)
}
