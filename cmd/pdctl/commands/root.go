package commands

import (
	"promptdeck/version"

	"github.com/urfave/cli/v3"
)

// NewApp creates the root CLI application
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "pdctl",
		Usage:   "Promptdeck CLI - manage prompt tasks, versions and endpoints",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "server",
				Usage: "Promptdeck server URL",
			},
		},
		Commands: []*cli.Command{
			TaskCommand(),
			RunCommand(),
			HistoryCommand(),
			EndpointCommand(),
			RenderCommand(),
		},
	}
}
