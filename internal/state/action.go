package state

import (
	"maps"
)

// Action is a request to change [State]. Only [Reduce] interprets it.
type Action interface {
	apply(State) State
}

type (
	// SetCredentials records what the user typed on the login view.
	SetCredentials struct {
		Username string
		Password string
	}

	// LoggedIn follows a successful login.
	LoggedIn struct {
		Token string
	}

	// LoggedOut follows a completed logout request.
	LoggedOut struct{}

	// Failed surfaces Err in the error banner.
	Failed struct {
		Err error
	}

	// DismissError clears the error banner.
	DismissError struct{}

	// Navigate switches to Route.
	Navigate struct {
		Route Route
	}

	// SelectFlavor marks Flavor as the current selection.
	SelectFlavor struct {
		Flavor string
	}

	// FlavorsLoaded replaces the flavor map with a server snapshot.
	FlavorsLoaded struct {
		Flavors map[string]int
	}

	// FlavorCountSet records a new quantity for Flavor, adding it if absent.
	FlavorCountSet struct {
		Flavor string
		Count  int
	}

	// FlavorRemoved drops Flavor from the map.
	FlavorRemoved struct {
		Flavor string
	}
)

var (
	_ Action = SetCredentials{}
	_ Action = LoggedIn{}
	_ Action = LoggedOut{}
	_ Action = Failed{}
	_ Action = DismissError{}
	_ Action = Navigate{}
	_ Action = SelectFlavor{}
	_ Action = FlavorsLoaded{}
	_ Action = FlavorCountSet{}
	_ Action = FlavorRemoved{}
)

// Reduce returns the state that results from applying a to s. A nil action returns s unchanged.
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.apply(s)
}

func (a SetCredentials) apply(s State) State {
	s.Username = a.Username
	s.Password = a.Password
	return s
}

func (a LoggedIn) apply(s State) State {
	s.Authenticated = true
	s.Token = a.Token
	s.Route = RouteMain
	s.Error = ""
	return s
}

// The token is cleared with the rest of the credentials so that an unauthenticated state never carries one.
func (LoggedOut) apply(s State) State {
	s.Authenticated = false
	s.Route = RouteLogin
	s.Password = ""
	s.Username = ""
	s.Token = ""
	return s
}

func (a Failed) apply(s State) State {
	if a.Err == nil {
		return s
	}
	s.Error = FormatError(a.Err)
	return s
}

func (DismissError) apply(s State) State {
	s.Error = ""
	return s
}

func (a Navigate) apply(s State) State {
	s.Route = a.Route
	return s
}

func (a SelectFlavor) apply(s State) State {
	s.Flavor = a.Flavor
	return s
}

func (a FlavorsLoaded) apply(s State) State {
	s.IceCreamMap = maps.Clone(a.Flavors)
	if s.IceCreamMap == nil {
		s.IceCreamMap = map[string]int{}
	}
	if _, ok := s.IceCreamMap[s.Flavor]; !ok {
		s.Flavor = ""
	}
	return s
}

func (a FlavorCountSet) apply(s State) State {
	next := cloneMap(s.IceCreamMap)
	next[a.Flavor] = a.Count
	s.IceCreamMap = next
	s.Flavor = a.Flavor
	return s
}

func (a FlavorRemoved) apply(s State) State {
	next := cloneMap(s.IceCreamMap)
	delete(next, a.Flavor)
	s.IceCreamMap = next
	if s.Flavor == a.Flavor {
		s.Flavor = ""
	}
	return s
}

// FormatError renders err the way the error banner shows it.
func FormatError(err error) string {
	return "Error: " + err.Error()
}

func cloneMap(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return maps.Clone(m)
}
