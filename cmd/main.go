package main

import (
	"context"
	"os"

	"github.com/desertthunder/scoop/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "scoop",
		Usage:    "Order ice cream from the terminal",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Before:   runner.Configure,
		Action:   runner.TUI,
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
