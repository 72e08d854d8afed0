package gobotio

import (
	"fmt"

	"gobot.io/x/gobot/v2/drivers/spi"

	"github.com/mklimuk/registers"
	regsspi "github.com/mklimuk/registers/spi"
)

// Connection is the subset of gobot's spi.Connection the Device drives;
// every gobot SPI connection provides both calls.
type Connection interface {
	ReadCommandData(command []byte, data []byte) error
	WriteBytes(data []byte) error
}

var _ regsspi.Device = (*Device)(nil)

// Device drives a single chip-select on a gobot SPI connection. Transactions
// with a trailing read map onto ReadCommandData, which keeps the command and
// the read within one chip-select window; write-only transactions map onto
// WriteBytes.
type Device struct {
	conn Connection
}

// NewDevice wraps an open gobot SPI connection.
func NewDevice(conn Connection) *Device {
	return &Device{conn: conn}
}

// OpenDevice requests a connection for bus busNum, chip-select chipNum from
// a gobot platform adaptor, using the adaptor's default mode, word size and
// clock speed.
func OpenDevice(connector spi.Connector, busNum, chipNum int) (*Device, error) {
	conn, err := connector.GetSpiConnection(busNum, chipNum,
		connector.SpiDefaultMode(), connector.SpiDefaultBitCount(), connector.SpiDefaultMaxSpeed())
	if err != nil {
		return nil, fmt.Errorf("could not get spi connection %d.%d: %w", busNum, chipNum, err)
	}
	return &Device{conn: conn}, nil
}

func (d *Device) Transact(ops ...registers.Op) error {
	w, r, err := registers.Coalesce(ops)
	if err != nil {
		return err
	}
	if len(r) > 0 {
		if err := d.conn.ReadCommandData(w, r); err != nil {
			return fmt.Errorf("spi read failed: %w", err)
		}
		return nil
	}
	if err := d.conn.WriteBytes(w); err != nil {
		return fmt.Errorf("spi write failed: %w", err)
	}
	return nil
}
