// Package periphio adapts periph.io hosts to the transaction interfaces: an
// I2C bus from the i2creg registry and an SPI device from spireg.
package periphio

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/mklimuk/registers"
	regsi2c "github.com/mklimuk/registers/i2c"
)

var _ regsi2c.Bus = (*Bus)(nil)

// Bus wraps a periph.io I2C bus. The controller's combined write-read
// primitive maps directly onto WriteRead; Transact coalesces op sequences
// onto the same primitive.
type Bus struct {
	bus    i2c.Bus
	closer io.Closer
}

// OpenBus initializes the periph host and opens the registered bus dev. An
// empty dev selects the first available bus.
func OpenBus(dev string) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	bus, err := i2creg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c bus: %w", err)
	}
	return &Bus{bus: bus, closer: bus}, nil
}

// NewBus wraps an already-open periph.io bus. Close is a no-op on the
// returned Bus; the caller keeps ownership of bus.
func NewBus(bus i2c.Bus) *Bus {
	return &Bus{bus: bus}
}

func (b *Bus) WriteRead(addr uint16, w, r []byte) error {
	if err := b.bus.Tx(addr, w, r); err != nil {
		return fmt.Errorf("i2c tx with %#x failed: %w", addr, err)
	}
	return nil
}

// Transact coalesces ops onto the controller's combined write-read
// primitive. A sequence with a read before the final step cannot be issued
// atomically here and fails with registers.ErrUnsupportedSequence.
func (b *Bus) Transact(addr uint16, ops ...registers.Op) error {
	w, r, err := registers.Coalesce(ops)
	if err != nil {
		return err
	}
	return b.WriteRead(addr, w, r)
}

func (b *Bus) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}
