package registers

import "encoding/binary"

// Payload reports the exact number of bytes a register or command payload
// occupies on the wire. Transaction helpers allocate read buffers of exactly
// this size, zero-filled, and hand encoders a buffer of exactly this size.
type Payload interface {
	Size() int
}

// Encoder serializes a payload value into its wire form. Encode receives a
// buffer holding exactly Size bytes and must fill all of them.
type Encoder interface {
	Payload
	Encode(buf []byte) error
}

// Decoder fills a payload value from its wire form. Decode receives a buffer
// holding exactly Size bytes. It is typically implemented on a pointer
// receiver so the transaction helpers can decode in place.
type Decoder interface {
	Payload
	Decode(buf []byte) error
}

// U8 is an unsigned 8-bit payload.
type U8 uint8

func (U8) Size() int                  { return 1 }
func (v U8) Encode(buf []byte) error  { buf[0] = byte(v); return nil }
func (v *U8) Decode(buf []byte) error { *v = U8(buf[0]); return nil }

// U16 is an unsigned big-endian 16-bit payload.
type U16 uint16

func (U16) Size() int { return 2 }

func (v U16) Encode(buf []byte) error {
	binary.BigEndian.PutUint16(buf, uint16(v))
	return nil
}

func (v *U16) Decode(buf []byte) error {
	*v = U16(binary.BigEndian.Uint16(buf))
	return nil
}

// U32 is an unsigned big-endian 32-bit payload.
type U32 uint32

func (U32) Size() int { return 4 }

func (v U32) Encode(buf []byte) error {
	binary.BigEndian.PutUint32(buf, uint32(v))
	return nil
}

func (v *U32) Decode(buf []byte) error {
	*v = U32(binary.BigEndian.Uint32(buf))
	return nil
}

// U64 is an unsigned big-endian 64-bit payload.
type U64 uint64

func (U64) Size() int { return 8 }

func (v U64) Encode(buf []byte) error {
	binary.BigEndian.PutUint64(buf, uint64(v))
	return nil
}

func (v *U64) Decode(buf []byte) error {
	*v = U64(binary.BigEndian.Uint64(buf))
	return nil
}

// U128 is an unsigned big-endian 128-bit payload, Hi word first on the wire.
type U128 struct {
	Hi uint64
	Lo uint64
}

func (U128) Size() int { return 16 }

func (v U128) Encode(buf []byte) error {
	binary.BigEndian.PutUint64(buf[0:8], v.Hi)
	binary.BigEndian.PutUint64(buf[8:16], v.Lo)
	return nil
}

func (v *U128) Decode(buf []byte) error {
	v.Hi = binary.BigEndian.Uint64(buf[0:8])
	v.Lo = binary.BigEndian.Uint64(buf[8:16])
	return nil
}

// NoParams is the empty payload. Commands that take no parameters return it
// from Params, and commands without a response decode into it.
type NoParams struct{}

func (NoParams) Size() int           { return 0 }
func (NoParams) Encode([]byte) error { return nil }
func (NoParams) Decode([]byte) error { return nil }

// Zeros is a run of zero bytes. Peripherals that expect dummy or padding
// frames around a command can use it on either side of a transaction.
type Zeros int

func (z Zeros) Size() int { return int(z) }

func (z Zeros) Encode(buf []byte) error {
	for i := range buf {
		buf[i] = 0
	}
	return nil
}

// Decode discards the received bytes.
func (Zeros) Decode([]byte) error { return nil }
