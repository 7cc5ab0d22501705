// Package state holds the single application [State] for the scoop client and the pure [Reduce] function that advances it.
//
// The root UI model owns exactly one State value. Child views never touch it directly: they emit [Action] values
// (wrapped in messages) and the root applies them with Reduce, which returns a new State and leaves its input untouched.
//
// Actions:
//   - [SetCredentials] : record the username/password being submitted
//   - [LoggedIn] : store the bearer token and move to [RouteMain]
//   - [LoggedOut] : reset credentials and token and return to [RouteLogin]
//   - [Failed] : surface an error in the banner without touching anything else
//   - [DismissError] : clear the banner
//   - [Navigate] : switch routes
//   - [SelectFlavor], [FlavorsLoaded], [FlavorCountSet], [FlavorRemoved] : flavor map bookkeeping for the main view
package state
