// Package spi drives register transactions over an SPI device. Device
// addressing is implicit in chip-select wiring, so unlike the i2c package
// there is no address parameter; a transport represents one selected device.
package spi

import (
	"context"

	"github.com/mklimuk/registers"
)

// Device is the blocking transport the transaction functions drive. Transact
// executes ops in order within one chip-select window; see registers.Op for
// the phase merging rules.
type Device interface {
	Transact(ops ...registers.Op) error
}

// ContextDevice is the context-aware transport. Cancellation is honored at
// whatever points the underlying driver supports.
type ContextDevice interface {
	Transact(ctx context.Context, ops ...registers.Op) error
}

// blockingDevice adapts a Device so the blocking entry points run the
// context core verbatim.
type blockingDevice struct{ d Device }

func (a blockingDevice) Transact(_ context.Context, ops ...registers.Op) error {
	return a.d.Transact(ops...)
}
