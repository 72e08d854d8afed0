package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/registers"
	"github.com/mklimuk/registers/cmd/regs/console"
	"github.com/mklimuk/registers/i2c"
)

// 7-bit address range outside the reserved blocks.
const scanFirst, scanLast = 0x08, 0x77

var scanCmd = cli.Command{
	Name:  "scan",
	Usage: "probe the bus for responding devices",
	Flags: busFlags,
	Action: func(c *cli.Context) error {
		bus, closeBus, err := openBus(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer closeBus()
		found := scanBus(bus)
		if len(found) == 0 {
			console.PInfof(console.PictoStop, "no devices found")
			return nil
		}
		for _, addr := range found {
			console.PInfof(console.PictoPin, "device at %s", console.White(addr))
		}
		return nil
	},
}

// scanBus probes each address with a 1-byte read; devices that acknowledge
// their address answer, everything else errors out and is skipped.
func scanBus(bus i2c.Bus) []string {
	var found []string
	probe := make([]byte, 1)
	for addr := uint16(scanFirst); addr <= scanLast; addr++ {
		if err := bus.Transact(addr, registers.ReadOp(probe)); err != nil {
			continue
		}
		found = append(found, fmt.Sprintf("%#04x", addr))
	}
	return found
}
