package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/desertthunder/scoop/internal/server"
	"github.com/desertthunder/scoop/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the local ice cream server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Options{
		SessionTTL: cmd.Duration("session-ttl"),
		RateLimit:  cmd.Float("rate"),
		Burst:      cmd.Int("burst"),
		Logger:     shared.WithLogger(r.logger, "component", "server"),
	})

	r.logger.Info("starting local server", "addr", cmd.String("addr"), "session_ttl", cmd.Duration("session-ttl"))
	return srv.Run(ctx, cmd.String("addr"))
}
