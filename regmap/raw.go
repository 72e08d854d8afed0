package regmap

import (
	"fmt"

	"github.com/mklimuk/registers"
)

var (
	_ registers.Readable        = (*Raw)(nil)
	_ registers.Writable        = (*Raw)(nil)
	_ registers.ReadIdentifier  = (*Raw)(nil)
	_ registers.WriteIdentifier = (*Raw)(nil)
)

// Raw is a register whose payload is an uninterpreted byte string of fixed
// size. It backs map-driven tooling that moves register contents without
// knowing their meaning; typed peripheral drivers implement the contracts on
// their own types instead.
type Raw struct {
	id      registers.ID
	readID  registers.ID
	writeID registers.ID
	size    int

	// Data holds the payload: the bytes to write before a write transaction,
	// the bytes received after a read.
	Data []byte
}

type RawOption func(*Raw)

// WithReadID overrides the identifier used on the wire for reads.
func WithReadID(id registers.ID) RawOption {
	return func(r *Raw) { r.readID = id }
}

// WithWriteID overrides the identifier used on the wire for writes.
func WithWriteID(id registers.ID) RawOption {
	return func(r *Raw) { r.writeID = id }
}

// NewRaw returns a raw register with the given canonical id and payload
// size. Both direction ids default to the canonical one.
func NewRaw(id registers.ID, size int, opts ...RawOption) *Raw {
	r := &Raw{id: id, readID: id, writeID: id, size: size}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Raw) RegisterID() registers.ID      { return r.id }
func (r *Raw) ReadRegisterID() registers.ID  { return r.readID }
func (r *Raw) WriteRegisterID() registers.ID { return r.writeID }
func (r *Raw) Size() int                     { return r.size }

func (r *Raw) Encode(buf []byte) error {
	if len(r.Data) != r.size {
		return fmt.Errorf("payload is %d bytes, register takes %d", len(r.Data), r.size)
	}
	copy(buf, r.Data)
	return nil
}

func (r *Raw) Decode(buf []byte) error {
	r.Data = make([]byte, len(buf))
	copy(r.Data, buf)
	return nil
}
