package main

import (
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/registers"
	"github.com/mklimuk/registers/cmd/regs/console"
	"github.com/mklimuk/registers/i2c"
	"github.com/mklimuk/registers/regmap"
)

var invokeCmd = cli.Command{
	Name:      "invoke",
	Usage:     "invoke a command and read its response",
	ArgsUsage: "<addr> <id>",
	Flags: append(busFlags, widthFlag,
		&cli.StringFlag{
			Name:    "params",
			Aliases: []string{"p"},
			Usage:   "parameter payload as hex, empty for none",
		},
		&cli.IntFlag{
			Name:    "respond",
			Aliases: []string{"r"},
			Usage:   "response size in bytes, 0 for none",
		},
	),
	Action: func(c *cli.Context) error {
		if c.NArg() < 2 {
			return console.Exit(1, "usage: invoke <addr> <id>")
		}
		addr, err := parseAddr(c.Args().Get(0))
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		id, err := regmap.ParseID(c.Args().Get(1), c.Int("width"))
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		var params []byte
		if c.String("params") != "" {
			if params, err = parsePayload(c.String("params")); err != nil {
				return console.Exit(1, "%s", console.Red(err))
			}
		}
		bus, closeBus, err := openBus(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer closeBus()

		resp := &rawResponse{size: c.Int("respond")}
		cmd := rawCommand{id: id, params: params}
		if err := i2c.InvokeCommand(bus, addr, cmd, resp); err != nil {
			return console.Exit(1, "invoke error: %s", console.Red(err))
		}
		printPayload(resp.data)
		return nil
	},
}

// rawCommand invokes an arbitrary id with an uninterpreted parameter
// payload.
type rawCommand struct {
	id     registers.ID
	params []byte
}

func (c rawCommand) CommandID() registers.ID   { return c.id }
func (c rawCommand) Params() registers.Encoder { return rawPayload(c.params) }

type rawPayload []byte

func (p rawPayload) Size() int { return len(p) }

func (p rawPayload) Encode(buf []byte) error {
	copy(buf, p)
	return nil
}

// rawResponse captures a response of a fixed size without interpreting it.
type rawResponse struct {
	size int
	data []byte
}

func (r *rawResponse) Size() int { return r.size }

func (r *rawResponse) Decode(buf []byte) error {
	r.data = append([]byte(nil), buf...)
	return nil
}
