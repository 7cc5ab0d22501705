// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
)

// MockService is a test double for [services.Service].
//
// Each operation returns the matching field. Calls are counted so tests can assert how many requests a view issued.
type MockService struct {
	mu sync.Mutex

	URL        string
	Token      string
	LoginErr   error
	LogoutErr  error
	FlavorMap  map[string]int
	FlavorsErr error
	SetErr     error
	DeleteErr  error
	calls      map[string]int
	lastToken  string
	lastFlavor string
	lastCount  int
}

func (m *MockService) record(op, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[op]++
	m.lastToken = token
}

func (m *MockService) Login(ctx context.Context, username, password string) (string, error) {
	m.record("login", "")
	if m.LoginErr != nil {
		return "", m.LoginErr
	}
	return m.Token, nil
}

func (m *MockService) Logout(ctx context.Context, token string) error {
	m.record("logout", token)
	return m.LogoutErr
}

func (m *MockService) Flavors(ctx context.Context, token string) (map[string]int, error) {
	m.record("flavors", token)
	if m.FlavorsErr != nil {
		return nil, m.FlavorsErr
	}
	out := make(map[string]int, len(m.FlavorMap))
	for k, v := range m.FlavorMap {
		out[k] = v
	}
	return out, nil
}

func (m *MockService) SetFlavor(ctx context.Context, token, flavor string, count int) error {
	m.record("set", token)
	m.mu.Lock()
	m.lastFlavor, m.lastCount = flavor, count
	m.mu.Unlock()
	return m.SetErr
}

func (m *MockService) DeleteFlavor(ctx context.Context, token, flavor string) error {
	m.record("delete", token)
	m.mu.Lock()
	m.lastFlavor = flavor
	m.mu.Unlock()
	return m.DeleteErr
}

func (m *MockService) BaseURL() string {
	if m.URL == "" {
		return "https://localhost"
	}
	return m.URL
}

// Calls returns how many times op ("login", "logout", "flavors", "set", "delete") was invoked.
func (m *MockService) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// LastToken returns the token passed to the most recent call.
func (m *MockService) LastToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastToken
}

// LastFlavor returns the flavor and count passed to the most recent flavor mutation.
func (m *MockService) LastFlavor() (string, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastFlavor, m.lastCount
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
