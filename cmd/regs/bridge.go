package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/registers/adapter/mcp2221"
	"github.com/mklimuk/registers/cmd/regs/console"
)

var bridgeCmd = cli.Command{
	Name:  "bridge",
	Usage: "MCP2221 bridge diagnostics",
	Subcommands: cli.Commands{
		&bridgeStatusCmd,
		&bridgeReleaseCmd,
	},
}

var bridgeStatusCmd = cli.Command{
	Name:  "status",
	Usage: "query the I2C engine state",
	Action: func(c *cli.Context) error {
		bridge := mcp2221.New()
		status, err := bridge.GetStatus(context.Background())
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		enc := yaml.NewEncoder(os.Stdout)
		if err := enc.Encode(status); err != nil {
			return console.Exit(1, "encoding error: %s", console.Red(err))
		}
		return nil
	},
}

var bridgeReleaseCmd = cli.Command{
	Name:  "release",
	Usage: "cancel a stuck transfer and free the engine",
	Action: func(c *cli.Context) error {
		bridge := mcp2221.New()
		status, err := bridge.ReleaseBus(context.Background())
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		enc := yaml.NewEncoder(os.Stdout)
		if err := enc.Encode(status); err != nil {
			return console.Exit(1, "encoding error: %s", console.Red(err))
		}
		return nil
	},
}
