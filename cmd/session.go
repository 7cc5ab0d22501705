package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/scoop/internal/formatter"
	"github.com/desertthunder/scoop/internal/models"
	"github.com/urfave/cli/v3"
)

// Login exchanges --username and --password for a token and prints it.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	token, err := r.service().Login(ctx, cmd.String("username"), cmd.String("password"))
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	r.logger.Info("logged in", "username", cmd.String("username"))
	return r.writePlain("%s\n", token)
}

// Logout ends the session for --token.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.service().Logout(ctx, cmd.String("token")); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	return r.writePlain("Logged out\n")
}

// Flavors prints the flavor counts for --token in the chosen format.
func (r *Runner) Flavors(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	flavors, err := r.service().Flavors(ctx, cmd.String("token"))
	if err != nil {
		return fmt.Errorf("failed to fetch flavors: %w", err)
	}

	order := models.NewOrder(cmd.String("username"), flavors)
	r.logger.Debug("fetched flavors", "count", len(order.Items), "scoops", order.Total())

	if cmd.Bool("json") {
		return r.writeJSON(order, true)
	}
	return formatter.Write(r.output, order, format)
}
