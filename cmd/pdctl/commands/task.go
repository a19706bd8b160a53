package commands

import (
	"context"
	"fmt"

	"promptdeck/cmd/pdctl/client"
	"promptdeck/cmd/pdctl/config"
	"promptdeck/cmd/pdctl/output"

	"github.com/urfave/cli/v3"
)

// TaskCommand returns the task command with subcommands
func TaskCommand() *cli.Command {
	return &cli.Command{
		Name:  "task",
		Usage: "Manage prompt tasks",
		Commands: []*cli.Command{
			createTaskCommand(),
			listTaskCommand(),
			getTaskCommand(),
			renameTaskCommand(),
			deleteTaskCommand(),
			createVersionCommand(),
			setVariableCommand(),
			saveTaskCommand(),
		},
	}
}

// newClient builds the API client for the resolved server URL
func newClient(c *cli.Command) (*client.HTTPClient, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	serverURL := cfg.GetServerURL()
	if c.IsSet("server") {
		serverURL = c.String("server")
	}

	return client.NewHTTPClient(serverURL), nil
}

// printJSON writes any API response as a single JSON line
func printJSON(data any) error {
	formatter := output.NewJSONFormatter()
	jsonOutput, err := formatter.Format(data)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	fmt.Println(jsonOutput)
	return nil
}

func createTaskCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a new prompt task",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Usage:    "Task name",
				Required: true,
			},
		},
		Action: createTaskAction,
	}
}

func createTaskAction(ctx context.Context, c *cli.Command) error {
	httpClient, err := newClient(c)
	if err != nil {
		return err
	}

	created, err := httpClient.CreateTask(&client.CreateTaskRequest{Name: c.String("name")})
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return printJSON(created)
}

func listTaskCommand() *cli.Command {
	return &cli.Command{
		Name:   "list",
		Usage:  "List tasks",
		Action: listTaskAction,
	}
}

func listTaskAction(ctx context.Context, c *cli.Command) error {
	httpClient, err := newClient(c)
	if err != nil {
		return err
	}

	tasks, err := httpClient.ListTasks()
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	return printJSON(tasks)
}

func getTaskCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Get task details",
		ArgsUsage: "<task-id>",
		Action:    getTaskAction,
	}
}

func getTaskAction(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("task ID is required")
	}

	httpClient, err := newClient(c)
	if err != nil {
		return err
	}

	found, err := httpClient.GetTask(c.Args().Get(0))
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}

	return printJSON(found)
}

func renameTaskCommand() *cli.Command {
	return &cli.Command{
		Name:      "rename",
		Usage:     "Rename a task",
		ArgsUsage: "<task-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Usage:    "New task name",
				Required: true,
			},
		},
		Action: renameTaskAction,
	}
}

func renameTaskAction(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("task ID is required")
	}

	httpClient, err := newClient(c)
	if err != nil {
		return err
	}

	renamed, err := httpClient.RenameTask(c.Args().Get(0), c.String("name"))
	if err != nil {
		return fmt.Errorf("failed to rename task: %w", err)
	}

	return printJSON(renamed)
}

func deleteTaskCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a task",
		ArgsUsage: "<task-id>",
		Action:    deleteTaskAction,
	}
}

func deleteTaskAction(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("task ID is required")
	}

	httpClient, err := newClient(c)
	if err != nil {
		return err
	}

	if err := httpClient.DeleteTask(c.Args().Get(0)); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	fmt.Println("deleted")
	return nil
}

func createVersionCommand() *cli.Command {
	return &cli.Command{
		Name:      "version",
		Usage:     "Add the next version to a task",
		ArgsUsage: "<task-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "description",
				Usage: "What this version changes",
			},
		},
		Action: createVersionAction,
	}
}

func createVersionAction(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("task ID is required")
	}

	httpClient, err := newClient(c)
	if err != nil {
		return err
	}

	created, err := httpClient.CreateVersion(c.Args().Get(0), c.String("description"))
	if err != nil {
		return fmt.Errorf("failed to create version: %w", err)
	}

	return printJSON(created)
}

func setVariableCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Set a task variable",
		ArgsUsage: "<task-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Usage:    "Variable name",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "value",
				Usage: "Variable value",
			},
		},
		Action: setVariableAction,
	}
}

func setVariableAction(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("task ID is required")
	}

	httpClient, err := newClient(c)
	if err != nil {
		return err
	}

	if err := httpClient.SetVariable(c.Args().Get(0), c.String("name"), c.String("value")); err != nil {
		return fmt.Errorf("failed to set variable: %w", err)
	}

	fmt.Println("ok")
	return nil
}

func saveTaskCommand() *cli.Command {
	return &cli.Command{
		Name:      "save",
		Usage:     "Flush pending edits to disk",
		ArgsUsage: "<task-id>",
		Action:    saveTaskAction,
	}
}

func saveTaskAction(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("task ID is required")
	}

	httpClient, err := newClient(c)
	if err != nil {
		return err
	}

	if err := httpClient.Save(c.Args().Get(0)); err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}

	fmt.Println("saved")
	return nil
}
