package main

import (
	"context"
	"os"

	"promptdeck/cmd/pdctl/commands"
)

func main() {
	app := commands.NewApp()
	if err := app.Run(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}
