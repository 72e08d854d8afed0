package main

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/registers/cmd/regs/console"
	"github.com/mklimuk/registers/i2c"
	"github.com/mklimuk/registers/regmap"
)

var mapFlag = &cli.StringFlag{
	Name:    "map",
	Aliases: []string{"m"},
	Usage:   "YAML register map file; registers are addressed by name",
}

var widthFlag = &cli.IntFlag{
	Name:    "width",
	Aliases: []string{"w"},
	Value:   8,
	Usage:   "identifier width in bits (8, 16, 32, 64 or 128)",
}

var readCmd = cli.Command{
	Name:      "read",
	Usage:     "read a register",
	ArgsUsage: "<addr> <id> <size> | --map <file> <name>",
	Flags:     append(busFlags, mapFlag, widthFlag),
	Action: func(c *cli.Context) error {
		reg, addr, err := readTarget(c)
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		bus, closeBus, err := openBus(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer closeBus()
		if err := i2c.ReadRegister(bus, addr, reg); err != nil {
			return console.Exit(1, "read error: %s", console.Red(err))
		}
		printPayload(reg.Data)
		return nil
	},
}

func readTarget(c *cli.Context) (*regmap.Raw, uint16, error) {
	if path := c.String("map"); path != "" {
		if c.NArg() < 1 {
			return nil, 0, fmt.Errorf("usage: read --map <file> <name>")
		}
		entry, addr, err := mapEntry(path, c.Args().Get(0))
		if err != nil {
			return nil, 0, err
		}
		reg, err := entry.Readable()
		return reg, addr, err
	}
	if c.NArg() < 3 {
		return nil, 0, fmt.Errorf("usage: read <addr> <id> <size>")
	}
	addr, err := parseAddr(c.Args().Get(0))
	if err != nil {
		return nil, 0, err
	}
	id, err := regmap.ParseID(c.Args().Get(1), c.Int("width"))
	if err != nil {
		return nil, 0, err
	}
	size, err := strconv.Atoi(c.Args().Get(2))
	if err != nil || size < 0 {
		return nil, 0, fmt.Errorf("invalid payload size %q", c.Args().Get(2))
	}
	return regmap.NewRaw(id, size), addr, nil
}

func mapEntry(path, name string) (*regmap.Entry, uint16, error) {
	dev, err := regmap.LoadFile(path)
	if err != nil {
		return nil, 0, err
	}
	entry, ok := dev.Lookup(name)
	if !ok {
		return nil, 0, fmt.Errorf("register %q not found in map %q", name, dev.Name)
	}
	return entry, dev.Address, nil
}

func parseAddr(s string) (uint16, error) {
	addr, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid device address %q", s)
	}
	return uint16(addr), nil
}

func printPayload(data []byte) {
	if len(data) == 0 {
		console.Print(console.White("(empty)"))
		return
	}
	console.Printf("%s", console.White("0x"+hex.EncodeToString(data)))
	if len(data) <= 8 {
		var v uint64
		for _, b := range data {
			v = v<<8 | uint64(b)
		}
		console.Printf(" (%s)", console.White(v))
	}
	console.Print("")
}
