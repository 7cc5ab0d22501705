// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.StringFlag{
			Name:  "rest-url",
			Usage: "Base URL of the ice cream server (overrides server.rest_url)",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
}

func tokenFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "token",
		Aliases:  []string{"t"},
		Usage:    "Session token returned by login",
		Sources:  cli.EnvVars("SCOOP_TOKEN"),
		Required: true,
	}
}

// tuiCommand launches the interactive interface
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"ui"},
		Usage:   "Launch the interactive terminal UI",
		Action:  r.TUI,
	}
}

// watchCommand prints session events as they arrive
func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Print session events from the server's event stream",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "once",
				Usage: "Exit after the first event",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output one JSON object per event",
			},
		},
		Action: r.Watch,
	}
}

// loginCommand exchanges credentials for a token
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and print the session token",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "username",
				Aliases:  []string{"u"},
				Usage:    "Account username",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "password",
				Aliases:  []string{"p"},
				Usage:    "Account password",
				Sources:  cli.EnvVars("SCOOP_PASSWORD"),
				Required: true,
			},
		},
		Action: r.Login,
	}
}

// logoutCommand ends a session
func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "End the session for a token",
		Flags:  []cli.Flag{tokenFlag()},
		Action: r.Logout,
	}
}

// flavorsCommand prints the current order
func flavorsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "flavors",
		Usage: "Print the flavor counts for a session",
		Flags: []cli.Flag{
			tokenFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, csv, md",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:  "username",
				Usage: "Name shown in the output heading",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Flavors,
	}
}

// serveCommand runs the local server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run a local ice cream server for demos",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address",
				Value: "127.0.0.1:8080",
			},
			&cli.DurationFlag{
				Name:  "session-ttl",
				Usage: "Idle time before a session times out",
				Value: 15 * time.Minute,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Requests per second across all clients (0 disables limiting)",
				Value: 50,
			},
			&cli.IntFlag{
				Name:  "burst",
				Usage: "Requests allowed at once above --rate",
				Value: 20,
			},
		},
		Action: r.Serve,
	}
}

// configCommand manages the configuration file
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration file operations",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write the example configuration to --config",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.ConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Print the effective configuration",
				Action: r.ConfigShow,
			},
		},
	}
}
