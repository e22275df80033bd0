package main

import (
	"os"

	"github.com/hbjs97/pyact/internal/cli"
)

func main() {
	app := cli.NewApp()
	cmd := app.NewRootCmd()
	err := cmd.Execute()
	if app.Logger != nil {
		_ = app.Logger.Sync()
	}
	if err != nil {
		os.Exit(int(cli.MapExitCode(err)))
	}
}
