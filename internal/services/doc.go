// Package services defines the [Service] interface for the ice-cream REST API and implements it with [APIService].
//
// # Endpoints
//
//	POST   /login              JSON {username, password}; response body is the token
//	POST   /logout             Authorization: <token>
//	GET    /ice-cream          JSON object of flavor -> count
//	PUT    /ice-cream/{flavor} JSON {count}
//	DELETE /ice-cream/{flavor}
//
// The token is sent verbatim in the Authorization header (no scheme prefix). Every request carries an X-Request-ID.
//
// # Error Handling
//
// Services use sentinel errors from the shared package:
//   - [shared.ErrAuthFailed] : login rejected
//   - [shared.ErrNotAuthenticated] : 401 on an authenticated endpoint
//   - [shared.ErrFlavorNotFound] : 404 on a flavor endpoint
//   - [shared.ErrAPIRequest] : transport failure or unexpected status
//
// Logout is the exception: it ignores the response entirely and returns the bare transport cause, which is what the
// UI shows in its error banner.
package services
