package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/scoop/internal/shared"
	tu "github.com/desertthunder/scoop/internal/testing"
)

func TestAPIService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			srv := NewAPIService("http://example.com/", customClient, nil)

			if srv.baseURL != "http://example.com" {
				t.Errorf("expected baseURL 'http://example.com', got %s", srv.baseURL)
			}
			if srv.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
			if srv.logger == nil {
				t.Error("expected a default logger")
			}
		})

		t.Run("With Empty BaseURL", func(t *testing.T) {
			srv := NewAPIService("", nil, nil)

			if srv.BaseURL() != "https://localhost" {
				t.Errorf("expected default baseURL 'https://localhost', got %s", srv.BaseURL())
			}
		})

		t.Run("With Nil Client", func(t *testing.T) {
			srv := NewAPIService("http://example.com", nil, nil)

			if srv.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})
	})

	t.Run("Do", func(t *testing.T) {
		t.Run("Sends Request ID and Token", func(t *testing.T) {
			var gotID, gotAuth string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotID = r.Header.Get("X-Request-ID")
				gotAuth = r.Header.Get("Authorization")
				w.WriteHeader(http.StatusNoContent)
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil, nil)
			resp, err := srv.Do(context.Background(), http.MethodGet, "/anything", "tok", nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if gotID == "" || gotID != resp.RequestID {
				t.Errorf("expected request id %q to reach the server, got %q", resp.RequestID, gotID)
			}
			if gotAuth != "tok" {
				t.Errorf("expected raw token in Authorization, got %q", gotAuth)
			}
		})

		t.Run("Failed Request Creation", func(t *testing.T) {
			srv := NewAPIService("http://example.com", nil, nil)
			_, err := srv.Do(context.Background(), http.MethodGet, "/test\x00invalid", "", nil)

			if err == nil {
				t.Fatal("expected error for invalid URL")
			}
			if !strings.Contains(err.Error(), "failed to create request") {
				t.Errorf("expected 'failed to create request' error, got %v", err)
			}
		})

		t.Run("Failed Response Body Read", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       &tu.FCloser{},
					Header:     http.Header{},
				}, nil),
			}

			srv := NewAPIService("http://example.com", client, nil)
			_, err := srv.Do(context.Background(), http.MethodGet, "/test", "", nil)

			if err == nil {
				t.Fatal("expected error for failed body read")
			}
			if !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected 'failed to read response' error, got %v", err)
			}
		})

		t.Run("Transport Error Is Unwrapped", func(t *testing.T) {
			cause := errors.New("connection failed")
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, cause)}

			srv := NewAPIService("http://example.com", client, nil)
			_, err := srv.Do(context.Background(), http.MethodGet, "/test", "", nil)

			if !errors.Is(err, cause) {
				t.Fatalf("expected the transport cause, got %v", err)
			}
			if err.Error() != "connection failed" {
				t.Errorf("expected bare cause text, got %q", err.Error())
			}
		})
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("Successful Login Returns Token", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/login" {
					t.Errorf("expected POST /login, got %s %s", r.Method, r.URL.Path)
				}
				if r.Header.Get("Content-Type") != "application/json" {
					t.Errorf("expected JSON content type, got %s", r.Header.Get("Content-Type"))
				}

				var creds Credentials
				if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
					t.Errorf("failed to decode credentials: %v", err)
				}
				if creds.Username != "mark" || creds.Password != "secret" {
					t.Errorf("unexpected credentials %+v", creds)
				}

				w.Write([]byte("tok-123\n"))
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil, nil)
			token, err := srv.Login(context.Background(), "mark", "secret")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if token != "tok-123" {
				t.Errorf("expected trimmed token 'tok-123', got %q", token)
			}
		})

		t.Run("Missing Credentials", func(t *testing.T) {
			srv := NewAPIService("http://example.com", nil, nil)
			_, err := srv.Login(context.Background(), "", "secret")

			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Rejected Login", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "invalid username or password", http.StatusUnauthorized)
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil, nil)
			_, err := srv.Login(context.Background(), "mark", "wrong")

			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Fatalf("expected ErrAuthFailed, got %v", err)
			}
			if !strings.Contains(err.Error(), "invalid username or password") {
				t.Errorf("expected server message in error, got %v", err)
			}
		})

		t.Run("Empty Token", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil, nil)
			if _, err := srv.Login(context.Background(), "mark", "secret"); !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})

		t.Run("Transport Failure", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("network down"))}
			srv := NewAPIService("http://example.com", client, nil)

			_, err := srv.Login(context.Background(), "mark", "secret")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})
	})

	t.Run("Logout", func(t *testing.T) {
		t.Run("Posts With Authorization Header", func(t *testing.T) {
			calls := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				if r.Method != http.MethodPost || r.URL.Path != "/logout" {
					t.Errorf("expected POST /logout, got %s %s", r.Method, r.URL.Path)
				}
				if r.Header.Get("Authorization") != "tok-123" {
					t.Errorf("expected Authorization 'tok-123', got %q", r.Header.Get("Authorization"))
				}
				body, _ := io.ReadAll(r.Body)
				if len(body) != 0 {
					t.Errorf("expected empty body, got %q", string(body))
				}
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil, nil)
			if err := srv.Logout(context.Background(), "tok-123"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if calls != 1 {
				t.Errorf("expected exactly one request, got %d", calls)
			}
		})

		t.Run("Status Is Ignored", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil, nil)
			if err := srv.Logout(context.Background(), "tok"); err != nil {
				t.Errorf("expected any completed response to count as success, got %v", err)
			}
		})

		t.Run("Sends Empty Token", func(t *testing.T) {
			present := false
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				values, ok := r.Header["Authorization"]
				present = ok && len(values) == 1 && values[0] == ""
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil, nil)
			if err := srv.Logout(context.Background(), ""); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !present {
				t.Error("expected an empty Authorization header")
			}
		})

		t.Run("Unreadable Body Still Succeeds", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       &tu.FCloser{},
					Header:     http.Header{},
				}, nil),
			}

			srv := NewAPIService("http://example.com", client, nil)
			if err := srv.Logout(context.Background(), "tok"); err != nil {
				t.Errorf("expected success once headers arrive, got %v", err)
			}
		})

		t.Run("Network Failure", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("network down"))}
			srv := NewAPIService("http://example.com", client, nil)

			err := srv.Logout(context.Background(), "tok")
			if err == nil || err.Error() != "network down" {
				t.Errorf("expected bare 'network down', got %v", err)
			}
		})

		t.Run("With Canceled Context", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			defer server.Close()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			srv := NewAPIService(server.URL, nil, nil)
			if err := srv.Logout(ctx, "tok"); !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		})
	})

	t.Run("Flavors", func(t *testing.T) {
		t.Run("Decodes Map", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != "/ice-cream" {
					t.Errorf("expected GET /ice-cream, got %s %s", r.Method, r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]int{"vanilla": 2, "mint chip": 1})
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil, nil)
			flavors, err := srv.Flavors(context.Background(), "tok")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if flavors["vanilla"] != 2 || flavors["mint chip"] != 1 {
				t.Errorf("unexpected flavors %v", flavors)
			}
		})

		t.Run("Unauthorized", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil, nil)
			if _, err := srv.Flavors(context.Background(), "stale"); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})

		t.Run("Malformed Body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil, nil)
			if _, err := srv.Flavors(context.Background(), "tok"); !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})
	})

	t.Run("SetFlavor", func(t *testing.T) {
		t.Run("Puts Escaped Path", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPut {
					t.Errorf("expected PUT, got %s", r.Method)
				}
				if r.URL.EscapedPath() != "/ice-cream/rocky%20road" {
					t.Errorf("expected escaped flavor path, got %s", r.URL.EscapedPath())
				}

				var body FlavorCount
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Errorf("failed to decode body: %v", err)
				}
				if body.Count != 4 {
					t.Errorf("expected count 4, got %d", body.Count)
				}
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil, nil)
			if err := srv.SetFlavor(context.Background(), "tok", "rocky road", 4); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Rejects Invalid Input", func(t *testing.T) {
			srv := NewAPIService("http://example.com", nil, nil)

			if err := srv.SetFlavor(context.Background(), "tok", "", 1); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput for empty flavor, got %v", err)
			}
			if err := srv.SetFlavor(context.Background(), "tok", "vanilla", -1); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput for negative count, got %v", err)
			}
		})

		t.Run("Server Error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "out of cones", http.StatusInternalServerError)
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil, nil)
			err := srv.SetFlavor(context.Background(), "tok", "vanilla", 1)
			if !errors.Is(err, shared.ErrAPIRequest) || !strings.Contains(err.Error(), "out of cones") {
				t.Errorf("expected ErrAPIRequest with body, got %v", err)
			}
		})
	})

	t.Run("DeleteFlavor", func(t *testing.T) {
		t.Run("Deletes", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodDelete || r.URL.Path != "/ice-cream/vanilla" {
					t.Errorf("expected DELETE /ice-cream/vanilla, got %s %s", r.Method, r.URL.Path)
				}
				w.WriteHeader(http.StatusNoContent)
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil, nil)
			if err := srv.DeleteFlavor(context.Background(), "tok", "vanilla"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Not Found", func(t *testing.T) {
			server := httptest.NewServer(http.NotFoundHandler())
			defer server.Close()

			srv := NewAPIService(server.URL, nil, nil)
			if err := srv.DeleteFlavor(context.Background(), "tok", "vanilla"); !errors.Is(err, shared.ErrFlavorNotFound) {
				t.Errorf("expected ErrFlavorNotFound, got %v", err)
			}
		})
	})
}
