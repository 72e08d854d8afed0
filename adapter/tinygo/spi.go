package tinygo

import (
	"fmt"

	"tinygo.org/x/drivers"

	"github.com/mklimuk/registers"
	regsspi "github.com/mklimuk/registers/spi"
)

// ChipSelect asserts (true) or releases (false) the device's chip-select
// line, typically by driving a machine.Pin low and high.
type ChipSelect func(assert bool)

var _ regsspi.Device = (*Device)(nil)

// Device drives one chip-select on a TinyGo SPI bus. TinyGo buses leave
// chip-select to the caller, so the Device holds cs asserted for the whole
// op sequence; that is what makes the transaction atomic on the wire.
type Device struct {
	bus drivers.SPI
	cs  ChipSelect
}

// NewDevice wraps an open TinyGo bus, typically machine.SPI0 after
// Configure. cs may be nil when the chip-select line is wired permanently
// active.
func NewDevice(bus drivers.SPI, cs ChipSelect) *Device {
	return &Device{bus: bus, cs: cs}
}

func (d *Device) Transact(ops ...registers.Op) error {
	if d.cs != nil {
		d.cs(true)
		defer d.cs(false)
	}
	for _, op := range ops {
		var err error
		if op.IsRead() {
			err = d.bus.Tx(nil, op.R)
		} else {
			err = d.bus.Tx(op.W, nil)
		}
		if err != nil {
			return fmt.Errorf("spi tx failed: %w", err)
		}
	}
	return nil
}
