package registers

import (
	"encoding/binary"
	"fmt"
)

// ID is the on-wire identifier of a register or command. The width set is
// closed: only the fixed-width types in this package (ID8 through ID128)
// implement it. Byte conversion is big-endian and cannot fail.
type ID interface {
	fmt.Stringer
	// Size returns the identifier's width on the wire, in bytes.
	Size() int
	// Put writes the identifier into the first Size bytes of dst. It panics
	// when dst is too short; that is a caller bug, not an I/O condition.
	Put(dst []byte)

	sealedID()
}

// ID8 is a single-byte identifier, the common case for I2C peripherals.
type ID8 uint8

func (id ID8) Size() int      { return 1 }
func (id ID8) Put(dst []byte) { dst[0] = byte(id) }
func (id ID8) String() string { return fmt.Sprintf("%#04x", uint8(id)) }
func (ID8) sealedID()         {}

// ID16 is a two-byte identifier, used by peripherals with 16-bit command
// sets such as Sensirion sensors.
type ID16 uint16

func (id ID16) Size() int      { return 2 }
func (id ID16) Put(dst []byte) { binary.BigEndian.PutUint16(dst, uint16(id)) }
func (id ID16) String() string { return fmt.Sprintf("%#06x", uint16(id)) }
func (ID16) sealedID()         {}

// ID32 is a four-byte identifier.
type ID32 uint32

func (id ID32) Size() int      { return 4 }
func (id ID32) Put(dst []byte) { binary.BigEndian.PutUint32(dst, uint32(id)) }
func (id ID32) String() string { return fmt.Sprintf("%#010x", uint32(id)) }
func (ID32) sealedID()         {}

// ID64 is an eight-byte identifier.
type ID64 uint64

func (id ID64) Size() int      { return 8 }
func (id ID64) Put(dst []byte) { binary.BigEndian.PutUint64(dst, uint64(id)) }
func (id ID64) String() string { return fmt.Sprintf("%#018x", uint64(id)) }
func (ID64) sealedID()         {}

// ID128 is a sixteen-byte identifier split into two words, Hi first on the
// wire.
type ID128 struct {
	Hi uint64
	Lo uint64
}

func (id ID128) Size() int { return 16 }

func (id ID128) Put(dst []byte) {
	binary.BigEndian.PutUint64(dst[0:8], id.Hi)
	binary.BigEndian.PutUint64(dst[8:16], id.Lo)
}

func (id ID128) String() string { return fmt.Sprintf("0x%016x%016x", id.Hi, id.Lo) }
func (ID128) sealedID()         {}
