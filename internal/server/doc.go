// Package server implements a local ice cream server for demos and end-to-end tests.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns, so a request with the wrong method gets a 405.
//
// # Endpoints
//
//	POST   /login              JSON {"username","password"} -> token in the body
//	POST   /logout             Authorization: <token>
//	GET    /ice-cream          flavor -> count JSON object
//	PUT    /ice-cream/{flavor} JSON {"count": n}
//	DELETE /ice-cream/{flavor}
//	GET    /events             text/event-stream
//
// # Sessions
//
// [Store] keeps sessions in memory. Every authenticated request extends the session by the configured TTL.
// [Server.Run] sweeps expired sessions and publishes one "session-timeout" event per expiry through the [Broker],
// which fans it out to every connected event stream.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
