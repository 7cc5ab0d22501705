package state

import (
	"fmt"
	"maps"
	"slices"
)

// Route selects which top-level view the root renders.
type Route int

const (
	RouteLogin Route = iota
	RouteMain
)

func (r Route) String() string {
	switch r {
	case RouteLogin:
		return "login"
	case RouteMain:
		return "main"
	default:
		return fmt.Sprintf("route(%d)", int(r))
	}
}

// Known reports whether r names one of the rendered views.
func (r Route) Known() bool {
	return r == RouteLogin || r == RouteMain
}

// State is the application state. Treat it as a value: use [Reduce] to derive the next one.
type State struct {
	Authenticated bool
	Error         string
	Flavor        string
	IceCreamMap   map[string]int
	Password      string
	RestURL       string
	Route         Route
	Token         string
	Username      string
}

// New returns the initial state for a session against restURL.
func New(restURL string) State {
	return State{
		IceCreamMap: map[string]int{},
		RestURL:     restURL,
		Route:       RouteLogin,
	}
}

// Flavors returns the flavor names in IceCreamMap, sorted.
func (s State) Flavors() []string {
	return FlavorNames(s.IceCreamMap)
}

// FlavorNames returns the keys of m, sorted.
func FlavorNames(m map[string]int) []string {
	return slices.Sorted(maps.Keys(m))
}

// Count returns the quantity recorded for flavor.
func (s State) Count(flavor string) int {
	return s.IceCreamMap[flavor]
}

// HasError reports whether the error banner should render.
func (s State) HasError() bool {
	return s.Error != ""
}
