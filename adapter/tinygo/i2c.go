// Package tinygo adapts the bus interfaces of tinygo.org/x/drivers to the
// transaction interfaces, so register and command types work unchanged
// against TinyGo machine buses.
package tinygo

import (
	"fmt"

	"tinygo.org/x/drivers"

	"github.com/mklimuk/registers"
	regsi2c "github.com/mklimuk/registers/i2c"
)

var _ regsi2c.Bus = (*Bus)(nil)

// Bus wraps a TinyGo I2C bus. The machine implementation's Tx is the
// combined write-then-read primitive, so WriteRead maps onto it directly and
// Transact coalesces op sequences onto it.
type Bus struct {
	bus drivers.I2C
}

// NewBus wraps an open TinyGo bus, typically machine.I2C0 after Configure.
func NewBus(bus drivers.I2C) *Bus {
	return &Bus{bus: bus}
}

func (b *Bus) WriteRead(addr uint16, w, r []byte) error {
	if err := b.bus.Tx(addr, w, r); err != nil {
		return fmt.Errorf("i2c tx with %#x failed: %w", addr, err)
	}
	return nil
}

// Transact coalesces ops onto Tx. A sequence with a read before the final
// step fails with registers.ErrUnsupportedSequence.
func (b *Bus) Transact(addr uint16, ops ...registers.Op) error {
	w, r, err := registers.Coalesce(ops)
	if err != nil {
		return err
	}
	return b.WriteRead(addr, w, r)
}
