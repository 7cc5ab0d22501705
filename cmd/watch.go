package main

import (
	"context"
	"errors"

	"github.com/desertthunder/scoop/internal/session"
	"github.com/desertthunder/scoop/internal/shared"
	"github.com/urfave/cli/v3"
)

// Watch prints each session event until the stream ends or the command is interrupted.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan session.Event)
	errc := make(chan error, 1)
	go func() { errc <- r.listener().Listen(ctx, events) }()

	r.logger.Info("watching session events", "url", r.config.RestURL()+r.config.Session.EventsPath)

	for {
		select {
		case ev := <-events:
			if err := r.printEvent(ev, cmd.Bool("json")); err != nil {
				return err
			}
			if cmd.Bool("once") {
				return nil
			}
		case err := <-errc:
			if err == nil || errors.Is(err, shared.ErrStreamClosed) {
				return nil
			}
			return err
		}
	}
}

func (r *Runner) printEvent(ev session.Event, asJSON bool) error {
	if asJSON {
		return r.writeJSON(ev, false)
	}
	if ev.ID != "" {
		return r.writePlain("%s [%s] %s\n", ev.Name, ev.ID, ev.Data)
	}
	return r.writePlain("%s %s\n", ev.Name, ev.Data)
}
