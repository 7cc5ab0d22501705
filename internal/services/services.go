// package services defines interface Service for talking to the ice-cream REST API
package services

import (
	"context"
)

// Service defines the REST operations the client performs against the ice-cream server.
type Service interface {
	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, username, password string) (string, error)

	// Logout ends the session identified by token.
	// Any completed response counts as success; only transport failures are returned.
	Logout(ctx context.Context, token string) error

	// Flavors returns the flavor -> quantity map for the session.
	Flavors(ctx context.Context, token string) (map[string]int, error)

	// SetFlavor records count for flavor, creating the flavor if needed.
	SetFlavor(ctx context.Context, token, flavor string, count int) error

	// DeleteFlavor removes flavor.
	DeleteFlavor(ctx context.Context, token, flavor string) error

	// BaseURL returns the REST base URL without a trailing slash.
	BaseURL() string
}

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// FlavorCount is the body of a flavor update.
type FlavorCount struct {
	Count int `json:"count"`
}
