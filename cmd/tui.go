package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/scoop/internal/session"
	"github.com/desertthunder/scoop/internal/shared"
	"github.com/desertthunder/scoop/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI and the session event listener behind it.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan session.Event, 8)
	go r.listen(ctx, events)

	model := ui.NewModel(ctx, r.service(), events, shared.WithLogger(r.logger, "component", "ui"))
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// listen feeds session events into out until ctx ends, then closes out.
func (r *Runner) listen(ctx context.Context, out chan<- session.Event) {
	defer close(out)

	if err := r.listener().Listen(ctx, out); err != nil && !errors.Is(err, context.Canceled) {
		r.logger.Error("session listener stopped", "error", err)
	}
}

func (r *Runner) listener() *session.Listener {
	return session.NewListener(session.Options{
		URL:               r.config.RestURL() + r.config.Session.EventsPath,
		Client:            r.httpClient,
		Logger:            shared.WithLogger(r.logger, "component", "session"),
		Reconnect:         r.config.Session.Reconnect,
		ReconnectInterval: r.config.Session.ReconnectInterval.Duration,
	})
}
