// Package gobotio adapts gobot platform adaptors to the transaction
// interfaces. Gobot connections expose plain write and read calls without a
// combined write-read primitive, so a transaction with a read phase is
// issued as two back-to-back bus calls: a stop and start separate the
// phases instead of a repeated start. On a single-controller bus the byte
// sequence on the wire is otherwise identical.
package gobotio

import (
	"fmt"
	"io"

	"gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/mklimuk/registers"
	regsi2c "github.com/mklimuk/registers/i2c"
)

var _ regsi2c.Bus = (*Bus)(nil)

// Bus drives the I2C bus busNr of a gobot platform adaptor. Connections are
// requested from the adaptor per call; gobot caches them per address
// internally.
type Bus struct {
	connector i2c.Connector
	busNr     int
}

// NewBus returns a bus over connector. Pass connector.DefaultI2cBus() as
// busNr unless the board wires peripherals to another bus.
func NewBus(connector i2c.Connector, busNr int) *Bus {
	return &Bus{connector: connector, busNr: busNr}
}

func (b *Bus) WriteRead(addr uint16, w, r []byte) error {
	conn, err := b.connector.GetI2cConnection(int(addr), b.busNr)
	if err != nil {
		return fmt.Errorf("could not get connection to %#x: %w", addr, err)
	}
	if len(w) > 0 {
		if _, err := conn.Write(w); err != nil {
			return fmt.Errorf("write to %#x failed: %w", addr, err)
		}
	}
	if len(r) > 0 {
		if _, err := io.ReadFull(conn, r); err != nil {
			return fmt.Errorf("read from %#x failed: %w", addr, err)
		}
	}
	return nil
}

// Transact coalesces ops into one write followed by at most one read. A
// sequence with a read before the final step fails with
// registers.ErrUnsupportedSequence.
func (b *Bus) Transact(addr uint16, ops ...registers.Op) error {
	w, r, err := registers.Coalesce(ops)
	if err != nil {
		return err
	}
	return b.WriteRead(addr, w, r)
}
