package commands

import (
	"context"
	"fmt"

	"promptdeck/cmd/pdctl/client"

	"github.com/urfave/cli/v3"
)

// EndpointCommand returns the endpoint command with subcommands
func EndpointCommand() *cli.Command {
	return &cli.Command{
		Name:  "endpoint",
		Usage: "Manage completion endpoints",
		Commands: []*cli.Command{
			addEndpointCommand(),
			listEndpointCommand(),
			useEndpointCommand(),
			activeEndpointCommand(),
		},
	}
}

func addEndpointCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Register a completion endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Usage:    "Endpoint name",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "url",
				Usage:    "Base URL of the completion API",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "key",
				Usage: "API key",
			},
			&cli.StringFlag{
				Name:     "model",
				Usage:    "Model identifier",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "active",
				Usage: "Make this endpoint the active one",
			},
		},
		Action: addEndpointAction,
	}
}

func addEndpointAction(ctx context.Context, c *cli.Command) error {
	httpClient, err := newClient(c)
	if err != nil {
		return err
	}

	added, err := httpClient.AddEndpoint(&client.AddEndpointRequest{
		Name:    c.String("name"),
		BaseURL: c.String("url"),
		APIKey:  c.String("key"),
		Model:   c.String("model"),
		Active:  c.Bool("active"),
	})
	if err != nil {
		return fmt.Errorf("failed to add endpoint: %w", err)
	}

	return printJSON(added)
}

func listEndpointCommand() *cli.Command {
	return &cli.Command{
		Name:   "list",
		Usage:  "List configured endpoints",
		Action: listEndpointAction,
	}
}

func listEndpointAction(ctx context.Context, c *cli.Command) error {
	httpClient, err := newClient(c)
	if err != nil {
		return err
	}

	endpoints, err := httpClient.ListEndpoints()
	if err != nil {
		return fmt.Errorf("failed to list endpoints: %w", err)
	}

	return printJSON(endpoints)
}

func useEndpointCommand() *cli.Command {
	return &cli.Command{
		Name:      "use",
		Usage:     "Make the named endpoint the active one",
		ArgsUsage: "<name>",
		Action:    useEndpointAction,
	}
}

func useEndpointAction(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("endpoint name is required")
	}

	httpClient, err := newClient(c)
	if err != nil {
		return err
	}

	activated, err := httpClient.ActivateEndpoint(c.Args().Get(0))
	if err != nil {
		return fmt.Errorf("failed to activate endpoint: %w", err)
	}

	return printJSON(activated)
}

func activeEndpointCommand() *cli.Command {
	return &cli.Command{
		Name:   "active",
		Usage:  "Show the active endpoint",
		Action: activeEndpointAction,
	}
}

func activeEndpointAction(ctx context.Context, c *cli.Command) error {
	httpClient, err := newClient(c)
	if err != nil {
		return err
	}

	active, err := httpClient.ActiveEndpoint()
	if err != nil {
		return fmt.Errorf("failed to get active endpoint: %w", err)
	}

	return printJSON(active)
}
