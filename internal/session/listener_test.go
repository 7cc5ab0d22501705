package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/scoop/internal/shared"
)

func writeFrame(w http.ResponseWriter, frame string) {
	fmt.Fprint(w, frame)
	w.(http.Flusher).Flush()
}

func startStream(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.(http.Flusher).Flush()
}

func listen(ctx context.Context, l *Listener, out chan Event) <-chan error {
	done := make(chan error, 1)
	go func() { done <- l.Listen(ctx, out) }()
	return done
}

func receive(t *testing.T, out <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-out:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestListener(t *testing.T) {
	t.Run("NewListener Defaults", func(t *testing.T) {
		l := NewListener(Options{URL: "http://example.com/events"})

		if l.client.HTTPClient != http.DefaultClient {
			t.Error("expected http.DefaultClient")
		}
		if l.logger == nil {
			t.Error("expected a default logger")
		}
		if len(l.events) != 1 || l.events[0] != SessionTimeout {
			t.Errorf("expected default event filter, got %v", l.events)
		}
		if l.reconnect {
			t.Error("expected reconnect to be opt-in")
		}
	})

	t.Run("Forwards Only Session Timeouts", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startStream(w)
			writeFrame(w, "event: ping\ndata: 1\n\n")
			writeFrame(w, ": keepalive\n\n")
			writeFrame(w, "event: session-timeout\ndata: {}\n\n")
			<-r.Context().Done()
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		out := make(chan Event, 4)
		done := listen(ctx, NewListener(Options{URL: server.URL}), out)

		ev := receive(t, out)
		if ev.Name != SessionTimeout {
			t.Errorf("expected %s, got %s", SessionTimeout, ev.Name)
		}

		cancel()
		if err := <-done; err != nil {
			t.Errorf("expected nil after cancel, got %v", err)
		}
		if len(out) != 0 {
			t.Errorf("expected no other events, got %d", len(out))
		}
	})

	t.Run("Closed Stream Without Reconnect", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startStream(w)
			writeFrame(w, "event: session-timeout\ndata: bye\n\n")
		}))
		defer server.Close()

		out := make(chan Event, 4)
		err := NewListener(Options{URL: server.URL}).Listen(context.Background(), out)

		if !errors.Is(err, shared.ErrStreamClosed) {
			t.Errorf("expected ErrStreamClosed, got %v", err)
		}
		if len(out) != 1 {
			t.Errorf("expected the one event before close, got %d", len(out))
		}
	})

	t.Run("Refused Stream Without Reconnect", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusForbidden)
		}))
		defer server.Close()

		err := NewListener(Options{URL: server.URL}).Listen(context.Background(), make(chan Event))
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("Reconnects With Last Event ID", func(t *testing.T) {
		var connections atomic.Int32
		var resumedFrom atomic.Value
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := connections.Add(1)
			startStream(w)
			if n == 1 {
				writeFrame(w, "id: 7\nevent: ping\ndata: 1\n\n")
				return
			}
			resumedFrom.Store(r.Header.Get("Last-Event-ID"))
			writeFrame(w, "event: session-timeout\ndata: bye\n\n")
			<-r.Context().Done()
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		out := make(chan Event, 4)
		done := listen(ctx, NewListener(Options{
			URL:               server.URL,
			Reconnect:         true,
			ReconnectInterval: 10 * time.Millisecond,
		}), out)

		if ev := receive(t, out); ev.Name != SessionTimeout {
			t.Errorf("expected %s, got %s", SessionTimeout, ev.Name)
		}

		cancel()
		if err := <-done; err != nil {
			t.Errorf("expected nil after cancel, got %v", err)
		}
		if connections.Load() < 2 {
			t.Errorf("expected a reconnect, got %d connections", connections.Load())
		}
		if got, _ := resumedFrom.Load().(string); got != "7" {
			t.Errorf("expected Last-Event-ID 7, got %q", got)
		}
	})

	t.Run("Frame Encodings", func(t *testing.T) {
		tt := []struct {
			name  string
			frame string
		}{
			{name: "byte order mark", frame: "\uFEFFevent: session-timeout\ndata: x\n\n"},
			{name: "bare carriage returns", frame: "event: session-timeout\rdata: x\r\r"},
			{name: "crlf", frame: "event: session-timeout\r\ndata: x\r\n\r\n"},
			{name: "multi-line data", frame: "event: session-timeout\ndata: x\ndata: y\n\n"},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					startStream(w)
					writeFrame(w, tc.frame)
					<-r.Context().Done()
				}))
				defer server.Close()

				ctx, cancel := context.WithCancel(context.Background())
				defer cancel()
				out := make(chan Event, 1)
				listen(ctx, NewListener(Options{URL: server.URL}), out)

				ev := receive(t, out)
				if ev.Name != SessionTimeout {
					t.Errorf("expected %s, got %q", SessionTimeout, ev.Name)
				}
				if !strings.HasPrefix(ev.Data, "x") {
					t.Errorf("unexpected data %q", ev.Data)
				}
			})
		}
	})

	t.Run("Canceled Before Connect", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		l := NewListener(Options{URL: "http://127.0.0.1:0/events", Reconnect: true})
		if err := l.Listen(ctx, make(chan Event)); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})
}
