package server

import (
	"maps"
	"sync"
	"time"

	"github.com/desertthunder/scoop/internal/shared"
)

// defaultFlavors seeds every new session.
var defaultFlavors = map[string]int{"chocolate": 0, "strawberry": 0, "vanilla": 0}

type account struct {
	username string
	flavors  map[string]int
	expires  time.Time
}

// Store holds sessions in memory. The zero value is not usable; call [NewStore].
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*account
}

// NewStore creates a [Store] whose sessions expire after ttl without activity.
func NewStore(ttl time.Duration) *Store {
	return &Store{ttl: ttl, now: time.Now, sessions: map[string]*account{}}
}

// Login accepts any non-empty username and password and returns a new token.
func (s *Store) Login(username, password string) (string, error) {
	if username == "" || password == "" {
		return "", shared.ErrMissingCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	token := shared.GenerateID()
	s.sessions[token] = &account{
		username: username,
		flavors:  maps.Clone(defaultFlavors),
		expires:  s.now().Add(s.ttl),
	}
	return token, nil
}

// Logout removes the session for token and reports whether one existed.
func (s *Store) Logout(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[token]
	delete(s.sessions, token)
	return ok
}

// touch returns the live session for token and extends it. Callers hold s.mu.
func (s *Store) touch(token string) (*account, error) {
	sess, ok := s.sessions[token]
	if !ok {
		return nil, shared.ErrNotAuthenticated
	}
	if !s.now().Before(sess.expires) {
		return nil, shared.ErrSessionExpired
	}
	sess.expires = s.now().Add(s.ttl)
	return sess, nil
}

// Flavors returns a copy of the session's flavor counts.
func (s *Store) Flavors(token string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(token)
	if err != nil {
		return nil, err
	}
	return maps.Clone(sess.flavors), nil
}

// SetFlavor sets count for flavor, adding the flavor if needed.
func (s *Store) SetFlavor(token, flavor string, count int) error {
	if flavor == "" || count < 0 {
		return shared.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(token)
	if err != nil {
		return err
	}
	sess.flavors[flavor] = count
	return nil
}

// DeleteFlavor removes flavor from the session.
func (s *Store) DeleteFlavor(token, flavor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(token)
	if err != nil {
		return err
	}
	if _, ok := sess.flavors[flavor]; !ok {
		return shared.ErrFlavorNotFound
	}
	delete(sess.flavors, flavor)
	return nil
}

// Expire drops every session past its deadline and returns their usernames.
func (s *Store) Expire() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var expired []string
	for token, sess := range s.sessions {
		if !now.Before(sess.expires) {
			expired = append(expired, sess.username)
			delete(s.sessions, token)
		}
	}
	return expired
}

// Len returns the number of stored sessions, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
