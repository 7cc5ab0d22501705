// Package models defines data transfer objects shared by the CLI and formatter.
//
//   - [Order] : a user's flavor quantities, in display order
//   - [OrderItem] : one flavor line of an order
//
// Orders are built from the server's flavor -> count map with [NewOrder]; the TUI works on that map directly through
// the state package and never needs these types.
package models
