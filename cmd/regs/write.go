package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/registers/cmd/regs/console"
	"github.com/mklimuk/registers/i2c"
	"github.com/mklimuk/registers/regmap"
)

var yesFlag = &cli.BoolFlag{
	Name:    "yes",
	Aliases: []string{"y"},
	Usage:   "write without asking for confirmation",
}

var writeCmd = cli.Command{
	Name:      "write",
	Usage:     "write a register",
	ArgsUsage: "<addr> <id> <payload-hex> | --map <file> <name> <payload-hex>",
	Flags:     append(busFlags, mapFlag, widthFlag, yesFlag),
	Action: func(c *cli.Context) error {
		reg, addr, err := writeTarget(c)
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		if !c.Bool("yes") {
			question := fmt.Sprintf("write %s to %s at %#x?",
				console.White("0x"+hex.EncodeToString(reg.Data)), console.White(reg.RegisterID()), addr)
			answer, err := console.YesOrNo(question)
			if err != nil {
				return console.Exit(1, "%s", console.Red(err))
			}
			if answer != console.Yes {
				console.PInfof(console.PictoStop, "aborted")
				return nil
			}
		}
		bus, closeBus, err := openBus(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer closeBus()
		if err := i2c.WriteRegister(bus, addr, reg); err != nil {
			return console.Exit(1, "write error: %s", console.Red(err))
		}
		console.Infof("wrote %d bytes to %s", len(reg.Data), console.White(reg.RegisterID()))
		return nil
	},
}

func writeTarget(c *cli.Context) (*regmap.Raw, uint16, error) {
	if path := c.String("map"); path != "" {
		if c.NArg() < 2 {
			return nil, 0, fmt.Errorf("usage: write --map <file> <name> <payload-hex>")
		}
		entry, addr, err := mapEntry(path, c.Args().Get(0))
		if err != nil {
			return nil, 0, err
		}
		reg, err := entry.Writable()
		if err != nil {
			return nil, 0, err
		}
		if reg.Data, err = parsePayload(c.Args().Get(1)); err != nil {
			return nil, 0, err
		}
		return reg, addr, nil
	}
	if c.NArg() < 3 {
		return nil, 0, fmt.Errorf("usage: write <addr> <id> <payload-hex>")
	}
	addr, err := parseAddr(c.Args().Get(0))
	if err != nil {
		return nil, 0, err
	}
	id, err := regmap.ParseID(c.Args().Get(1), c.Int("width"))
	if err != nil {
		return nil, 0, err
	}
	payload, err := parsePayload(c.Args().Get(2))
	if err != nil {
		return nil, 0, err
	}
	reg := regmap.NewRaw(id, len(payload))
	reg.Data = payload
	return reg, addr, nil
}

func parsePayload(s string) ([]byte, error) {
	payload, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid payload %q: %w", s, err)
	}
	return payload, nil
}
