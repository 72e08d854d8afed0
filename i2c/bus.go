// Package i2c drives register transactions over an I2C bus. The transaction
// functions accept any transport implementing Bus or ContextBus; adapters
// for periph.io hosts, gobot adaptors, the MCP2221A HID bridge, the
// SC18IM704 UART bridge and TinyGo driver buses live under adapter/.
package i2c

import (
	"context"

	"github.com/mklimuk/registers"
)

// Bus is the blocking transport the transaction functions drive. addr is the
// right-aligned 7- or 10-bit device address; implementations shift in the
// R/W bit themselves.
type Bus interface {
	// WriteRead writes w to the device and reads len(r) bytes back within a
	// single bus transaction (write, repeated start, read).
	WriteRead(addr uint16, w, r []byte) error
	// Transact executes ops in order as one atomic transaction. See
	// registers.Op for the phase merging rules.
	Transact(addr uint16, ops ...registers.Op) error
}

// ContextBus is the context-aware transport. Cancellation is honored at
// whatever points the underlying driver supports; the transaction functions
// add no suspension points of their own.
type ContextBus interface {
	WriteRead(ctx context.Context, addr uint16, w, r []byte) error
	Transact(ctx context.Context, addr uint16, ops ...registers.Op) error
}

// blockingBus adapts a Bus so the blocking entry points run the context core
// verbatim, keeping ordering and error semantics identical between the two
// APIs.
type blockingBus struct{ b Bus }

func (a blockingBus) WriteRead(_ context.Context, addr uint16, w, r []byte) error {
	return a.b.WriteRead(addr, w, r)
}

func (a blockingBus) Transact(_ context.Context, addr uint16, ops ...registers.Op) error {
	return a.b.Transact(addr, ops...)
}
