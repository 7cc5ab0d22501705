package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scoop/internal/shared"
	sse "github.com/tmaxmax/go-sse"
)

// SessionTimeout is the event name the server sends when it expires a session.
const SessionTimeout = "session-timeout"

const defaultReconnectInterval = 5 * time.Second

// Event is one dispatched event-stream frame.
type Event struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"event"`
	Data string `json:"data"`
}

// Options configures a [Listener].
type Options struct {
	URL               string        // Full URL of the event stream
	Client            *http.Client  // Defaults to [http.DefaultClient]; must not set a Timeout
	Logger            *log.Logger   // Defaults to a discarding logger
	Reconnect         bool          // Reopen the stream after it drops
	ReconnectInterval time.Duration // Base spacing between connection attempts
	Events            []string      // Event names to forward; defaults to [SessionTimeout]
}

// Listener forwards session events from one server-sent event stream.
type Listener struct {
	url       string
	client    *sse.Client
	logger    *log.Logger
	reconnect bool
	interval  time.Duration
	events    []string
}

// NewListener creates a [Listener] from opts, filling defaults.
func NewListener(opts Options) *Listener {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	if opts.ReconnectInterval <= 0 {
		opts.ReconnectInterval = defaultReconnectInterval
	}
	if len(opts.Events) == 0 {
		opts.Events = []string{SessionTimeout}
	}

	backoff := sse.Backoff{InitialInterval: opts.ReconnectInterval, Multiplier: 1}
	if !opts.Reconnect {
		backoff.MaxRetries = -1
	}

	return &Listener{
		url:       opts.URL,
		client:    &sse.Client{HTTPClient: opts.Client, Backoff: backoff},
		logger:    opts.Logger,
		reconnect: opts.Reconnect,
		interval:  opts.ReconnectInterval,
		events:    opts.Events,
	}
}

// Listen connects and sends matching events to out until ctx is canceled.
//
// It returns nil on cancellation. With reconnecting disabled it returns after the first connection:
// [shared.ErrServiceUnavailable] when the stream could not be opened, [shared.ErrStreamClosed] when it ended.
// With reconnecting enabled a connection that exhausts its retries is started over.
func (l *Listener) Listen(ctx context.Context, out chan<- Event) error {
	for {
		err := l.connect(ctx, out)
		if ctx.Err() != nil {
			return nil
		}
		if !l.reconnect {
			return err
		}

		l.logger.Warn("session stream gave up, starting over", "url", l.url, "error", err)
		select {
		case <-time.After(l.interval):
		case <-ctx.Done():
			return nil
		}
	}
}

func (l *Listener) connect(ctx context.Context, out chan<- Event) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	var connections atomic.Int32
	client := *l.client
	client.ResponseValidator = func(resp *http.Response) error {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
			l.logger.Warn("unexpected content type on session stream", "content_type", ct)
		}
		if connections.Add(1) > 1 {
			l.logger.Info("session stream reconnected", "url", l.url)
		} else {
			l.logger.Info("session stream connected", "url", l.url)
		}
		return nil
	}

	conn := client.NewConnection(req)
	conn.SubscribeToAll(func(e sse.Event) { l.forward(ctx, out, e) })

	err = conn.Connect()
	switch {
	case ctx.Err() != nil:
		return nil
	case errors.Is(err, shared.ErrServiceUnavailable):
		return err
	case connections.Load() == 0:
		if err == nil {
			return shared.ErrServiceUnavailable
		}
		return fmt.Errorf("%w: %w", shared.ErrServiceUnavailable, err)
	case err == nil:
		return shared.ErrStreamClosed
	default:
		return fmt.Errorf("%w: %w", shared.ErrStreamClosed, err)
	}
}

func (l *Listener) forward(ctx context.Context, out chan<- Event, e sse.Event) {
	name := e.Type
	if name == "" {
		name = "message"
	}

	if !slices.Contains(l.events, name) {
		l.logger.Debug("ignoring session event", "event", name)
		return
	}

	l.logger.Info("session event received", "event", name)
	select {
	case out <- Event{ID: e.LastEventID, Name: name, Data: e.Data}:
	case <-ctx.Done():
	}
}
