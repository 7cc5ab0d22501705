// Package ui implements the scoop terminal interface using bubbletea's Elm architecture.
//
// The root [Model] owns the single [state.State] and renders one of two views by route:
//  1. login view : username/password inputs that exchange credentials for a token
//  2. main view : the flavor list with per-flavor quantities, edited through the REST API
//
// Any other route renders an "Unknown route" notice. Above the body sits a header whose logout control is visible
// only when authenticated; below it an error banner shows [state.State.Error] when non-empty.
//
// Child views never change state themselves. They receive read-only props ([LoginProps], [MainProps]) and return
// commands whose messages carry [state.Action] values; the root applies them with [state.Reduce]. Network calls run
// inside commands and report back the same way.
//
// Session timeouts arrive from a [session.Listener] through a channel. Each one raises a blocking alert (only
// enter/esc or ctrl+c get through until it is dismissed) and issues exactly one logout.
package ui
