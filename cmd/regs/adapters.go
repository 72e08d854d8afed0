package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"

	"github.com/mklimuk/registers"
	"github.com/mklimuk/registers/adapter/gobotio"
	"github.com/mklimuk/registers/adapter/mcp2221"
	"github.com/mklimuk/registers/adapter/periphio"
	"github.com/mklimuk/registers/adapter/sc18im"
	"github.com/mklimuk/registers/i2c"
)

var adapterFlag = &cli.StringFlag{
	Name:    "adapter",
	Aliases: []string{"a"},
	Value:   "mcp2221",
	Usage:   "bus adapter: mcp2221, periph, gobot or sc18im",
}

var busFlag = &cli.StringFlag{
	Name:    "bus",
	Aliases: []string{"b"},
	Usage:   "bus to open: periph bus name, gobot bus number or serial device",
}

var baudFlag = &cli.IntFlag{
	Name:  "baud",
	Value: 9600,
	Usage: "serial speed for the sc18im adapter",
}

var busFlags = []cli.Flag{adapterFlag, busFlag, baudFlag}

// openBus builds the selected adapter behind the blocking bus interface.
// The returned closer releases whatever the adapter holds; it is safe to
// call on every path.
func openBus(c *cli.Context) (i2c.Bus, func(), error) {
	noop := func() {}
	switch c.String("adapter") {
	case "mcp2221":
		return blockingBridge{bridge: mcp2221.New()}, noop, nil
	case "periph":
		bus, err := periphio.OpenBus(c.String("bus"))
		if err != nil {
			return nil, noop, err
		}
		return bus, func() { _ = bus.Close() }, nil
	case "gobot":
		npi := nanopi.NewNeoAdaptor()
		if err := npi.I2cBusAdaptor.Connect(); err != nil {
			return nil, noop, fmt.Errorf("adaptor connect error: %w", err)
		}
		busNr := npi.DefaultI2cBus()
		if c.String("bus") != "" {
			nr, err := strconv.Atoi(c.String("bus"))
			if err != nil {
				return nil, noop, fmt.Errorf("gobot bus must be a number: %w", err)
			}
			busNr = nr
		}
		return gobotio.NewBus(npi, busNr), func() { _ = npi.I2cBusAdaptor.Finalize() }, nil
	case "sc18im":
		if c.String("bus") == "" {
			return nil, noop, fmt.Errorf("the sc18im adapter needs --bus with a serial device")
		}
		bridge, err := sc18im.Open(c.String("bus"), sc18im.WithBaud(c.Int("baud")))
		if err != nil {
			return nil, noop, err
		}
		return bridge, noop, nil
	}
	return nil, noop, fmt.Errorf("unknown adapter %q", c.String("adapter"))
}

// blockingBridge runs the MCP2221's context bus under the blocking
// interface the CLI works with.
type blockingBridge struct {
	bridge *mcp2221.Bridge
}

func (b blockingBridge) WriteRead(addr uint16, w, r []byte) error {
	return b.bridge.WriteRead(context.Background(), addr, w, r)
}

func (b blockingBridge) Transact(addr uint16, ops ...registers.Op) error {
	return b.bridge.Transact(context.Background(), addr, ops...)
}
