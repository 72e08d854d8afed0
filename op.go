package registers

import "errors"

// Op is a single step of an atomic bus transaction: a write of W or a read
// into R. Transact implementations execute the steps in order without
// releasing the bus in between; consecutive writes form one uninterrupted
// write phase, and a read following writes starts with a repeated start on
// I2C or stays within the same chip-select window on SPI.
type Op struct {
	// W holds the bytes to write. nil for read steps.
	W []byte
	// R receives the bytes read. nil for write steps.
	R []byte
}

// WriteOp returns an Op writing p to the device.
func WriteOp(p []byte) Op { return Op{W: p} }

// ReadOp returns an Op reading len(p) bytes from the device into p.
func ReadOp(p []byte) Op { return Op{R: p} }

// IsRead reports whether the op is a read step.
func (o Op) IsRead() bool { return o.R != nil }

// ErrUnsupportedSequence is returned by transports that cannot execute a
// given op sequence as one atomic transaction.
var ErrUnsupportedSequence = errors.New("transaction shape not supported by the transport")

// Coalesce flattens ops into a single write buffer plus at most one trailing
// read, the shape accepted by the combined write-read primitive most
// transports offer. It fails with ErrUnsupportedSequence when a read is
// followed by further steps.
func Coalesce(ops []Op) (w, r []byte, err error) {
	for i, op := range ops {
		if op.IsRead() {
			if i != len(ops)-1 {
				return nil, nil, ErrUnsupportedSequence
			}
			r = op.R
			continue
		}
		w = append(w, op.W...)
	}
	return w, r, nil
}
