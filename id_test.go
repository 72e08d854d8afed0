package registers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestID_Put(t *testing.T) {
	tests := []struct {
		given    ID
		expected []byte
	}{
		{ID8(0x2A), []byte{0x2A}},
		{ID16(0x1234), []byte{0x12, 0x34}},
		{ID32(0xDEADBEEF), []byte{0xDE, 0xAD, 0xBE, 0xEF}},
		{ID64(0x0102030405060708), []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}},
		{ID128{Hi: 0x0102030405060708, Lo: 0x090A0B0C0D0E0F10}, []byte{
			0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
			0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10,
		}},
	}
	for _, test := range tests {
		t.Run(test.given.String(), func(t *testing.T) {
			buf := make([]byte, test.given.Size())
			test.given.Put(buf)
			assert.Equal(t, test.expected, buf)
			assert.Len(t, buf, test.given.Size())
		})
	}
}

func TestID_String(t *testing.T) {
	tests := []struct {
		given    ID
		expected string
	}{
		{ID8(0x2A), "0x2a"},
		{ID8(0x05), "0x05"},
		{ID16(0x3517), "0x3517"},
		{ID32(0xBEEF), "0x0000beef"},
		{ID64(0x01), "0x0000000000000001"},
		{ID128{Lo: 0xFF}, "0x000000000000000000000000000000ff"},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, test.given.String())
	}
}
