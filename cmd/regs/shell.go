package main

import (
	"encoding/hex"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/registers"
	"github.com/mklimuk/registers/cmd/regs/console"
	"github.com/mklimuk/registers/i2c"
	"github.com/mklimuk/registers/regmap"
)

var shellCmd = cli.Command{
	Name:  "shell",
	Usage: "interactive register access session",
	Flags: busFlags,
	Action: func(c *cli.Context) error {
		bus, closeBus, err := openBus(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer closeBus()

		rl, err := readline.New(console.Bold("regs> "))
		if err != nil {
			return console.Exit(1, "could not start shell: %s", console.Red(err))
		}
		defer func() { _ = rl.Close() }()

		console.PInfof(console.PictoChip, "connected via %s; type %s for commands", console.White(c.String("adapter")), console.White("help"))
		for {
			line, err := rl.Readline()
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return console.Exit(1, "%s", console.Red(err))
			}
			if done := shellEval(bus, strings.Fields(line)); done {
				return nil
			}
		}
	},
}

// shellEval runs one shell line and reports whether the session should end.
func shellEval(bus i2c.Bus, fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "exit", "quit":
		return true
	case "help":
		shellHelp()
	case "scan":
		found := scanBus(bus)
		if len(found) == 0 {
			console.PInfof(console.PictoStop, "no devices found")
			break
		}
		for _, addr := range found {
			console.PInfof(console.PictoPin, "device at %s", console.White(addr))
		}
	case "read":
		shellRead(bus, fields[1:])
	case "write":
		shellWrite(bus, fields[1:])
	default:
		console.Errorf("unknown command %q, try %s", fields[0], console.White("help"))
	}
	return false
}

func shellHelp() {
	console.Print("  read <addr> <id> <size> [width]   read a register")
	console.Print("  write <addr> <id> <payload-hex> [width]   write a register")
	console.Print("  scan                              probe the bus")
	console.Print("  exit                              leave the shell")
}

func shellRead(bus i2c.Bus, args []string) {
	if len(args) < 3 {
		console.Errorf("usage: read <addr> <id> <size> [width]")
		return
	}
	addr, id, err := shellTarget(args[0], args[1], args[3:])
	if err != nil {
		console.Errorf("%s", err)
		return
	}
	size, err := strconv.Atoi(args[2])
	if err != nil || size < 0 {
		console.Errorf("invalid payload size %q", args[2])
		return
	}
	reg := regmap.NewRaw(id, size)
	if err := i2c.ReadRegister(bus, addr, reg); err != nil {
		console.Errorf("%s", err)
		return
	}
	printPayload(reg.Data)
}

func shellWrite(bus i2c.Bus, args []string) {
	if len(args) < 3 {
		console.Errorf("usage: write <addr> <id> <payload-hex> [width]")
		return
	}
	addr, id, err := shellTarget(args[0], args[1], args[3:])
	if err != nil {
		console.Errorf("%s", err)
		return
	}
	payload, err := parsePayload(args[2])
	if err != nil {
		console.Errorf("%s", err)
		return
	}
	reg := regmap.NewRaw(id, len(payload))
	reg.Data = payload
	if err := i2c.WriteRegister(bus, addr, reg); err != nil {
		console.Errorf("%s", err)
		return
	}
	console.Infof("wrote %s to %s", console.White("0x"+hex.EncodeToString(payload)), console.White(id))
}

func shellTarget(addrArg, idArg string, rest []string) (uint16, registers.ID, error) {
	addr, err := parseAddr(addrArg)
	if err != nil {
		return 0, nil, err
	}
	width := 8
	if len(rest) > 0 {
		if width, err = strconv.Atoi(rest[0]); err != nil {
			return 0, nil, err
		}
	}
	id, err := regmap.ParseID(idArg, width)
	if err != nil {
		return 0, nil, err
	}
	return addr, id, nil
}
