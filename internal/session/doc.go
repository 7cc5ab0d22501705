// Package session listens for server-pushed session events over Server-Sent Events.
//
// A [Listener] holds one streaming GET open against the server's events endpoint and forwards every event whose
// name is [SessionTimeout] to a channel. Nothing is sent upstream after the request itself.
//
// Frame parsing, Last-Event-ID resumption, and reconnect spacing come from github.com/tmaxmax/go-sse. Attempts are
// spaced by ReconnectInterval until the server sends a "retry:" field, which replaces it. When reconnecting is
// disabled the first connection's outcome ends [Listener.Listen].
package session
