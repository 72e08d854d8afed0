package registers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors_KindReduction(t *testing.T) {
	cause := fmt.Errorf("nak on address phase")
	tests := []struct {
		name     string
		given    error
		expected error
	}{
		{"read/bus", &ReadError{ID: ID8(0x2A), Kind: KindBus, Err: cause}, ErrBus},
		{"read/decode", &ReadError{ID: ID8(0x2A), Kind: KindDecode, Err: cause}, ErrDecode},
		{"write/bus", &WriteError{ID: ID8(0x2A), Kind: KindBus, Err: cause}, ErrBus},
		{"write/encode", &WriteError{ID: ID8(0x2A), Kind: KindEncode, Err: cause}, ErrEncode},
		{"command/bus", &CommandError{ID: ID16(0xF0F0), Kind: KindBus, Err: cause}, ErrBus},
		{"command/encode", &CommandError{ID: ID16(0xF0F0), Kind: KindEncode, Err: cause}, ErrEncode},
		{"command/decode", &CommandError{ID: ID16(0xF0F0), Kind: KindDecode, Err: cause}, ErrDecode},
	}
	sentinels := []error{ErrBus, ErrEncode, ErrDecode}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			for _, s := range sentinels {
				assert.Equal(t, s == test.expected, errors.Is(test.given, s), "sentinel %v", s)
			}
			assert.ErrorIs(t, test.given, cause)
		})
	}
}

func TestErrors_UnwrapAndAs(t *testing.T) {
	cause := errors.New("device did not ack")
	err := error(&ReadError{ID: ID8(0x05), Kind: KindBus, Err: cause})

	var rerr *ReadError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, ID8(0x05), rerr.ID)
	assert.Equal(t, KindBus, rerr.Kind)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestErrors_Format(t *testing.T) {
	err := &CommandError{ID: ID8(0xF0), Kind: KindDecode, Err: errors.New("short response")}
	assert.Contains(t, err.Error(), "0xf0")
	assert.Contains(t, err.Error(), "decode")
	assert.Contains(t, err.Error(), "short response")

	assert.Equal(t, "bus", KindBus.String())
	assert.Equal(t, "encode", KindEncode.String())
	assert.Equal(t, "decode", KindDecode.String())
}
