package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

// RunCommand executes one version of a task against the active endpoint
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Execute a prompt version against the active endpoint",
		ArgsUsage: "<task-id> <version-id>",
		Action:    runAction,
	}
}

func runAction(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("task ID and version ID are required")
	}

	httpClient, err := newClient(c)
	if err != nil {
		return err
	}

	result, err := httpClient.Execute(c.Args().Get(0), c.Args().Get(1))
	if err != nil {
		return fmt.Errorf("failed to execute: %w", err)
	}

	return printJSON(result)
}

// HistoryCommand lists past executions of a version
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "Show past executions of a version, newest first",
		ArgsUsage: "<task-id> <version-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print raw JSON instead of a table",
			},
		},
		Action: historyAction,
	}
}

func historyAction(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("task ID and version ID are required")
	}

	httpClient, err := newClient(c)
	if err != nil {
		return err
	}

	entries, err := httpClient.History(c.Args().Get(0), c.Args().Get(1))
	if err != nil {
		return fmt.Errorf("failed to fetch history: %w", err)
	}

	if c.Bool("json") {
		return printJSON(entries)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Result", "Executed", "Model", "Preview"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.ResultID, e.ExecutedAt.Format("2006-01-02 15:04:05"), e.Model, e.Preview})
	}
	t.Render()
	return nil
}

// RenderCommand substitutes variables into a template without touching a task
func RenderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Render a template with variables",
		ArgsUsage: "<template>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "var",
				Usage: "Variable (repeatable, format: name=value)",
			},
		},
		Action: renderAction,
	}
}

func renderAction(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("template is required")
	}

	variables, err := parseVariableFlags(c.StringSlice("var"))
	if err != nil {
		return err
	}

	httpClient, err := newClient(c)
	if err != nil {
		return err
	}

	rendered, err := httpClient.Render(c.Args().Get(0), variables)
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}

	return printJSON(rendered)
}

func parseVariableFlags(raw []string) (map[string]string, error) {
	variables := make(map[string]string, len(raw))
	for _, pair := range raw {
		name, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("invalid variable %q, expected name=value", pair)
		}
		variables[name] = value
	}
	return variables, nil
}
