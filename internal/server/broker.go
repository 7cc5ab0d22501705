package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// SessionTimeout is the event name published when a session expires.
const SessionTimeout = "session-timeout"

type frame struct {
	id   int
	name string
	data string
}

// Broker fans published events out to every connected event stream.
//
// Streams are not tied to a session: every subscriber receives every event, so one user's session-timeout reaches
// all connected clients. The expired username is carried in the event data. Slow subscribers drop events rather
// than block publishers.
type Broker struct {
	mu     sync.Mutex
	subs   map[chan frame]struct{}
	nextID int
	closed bool
}

// NewBroker creates an empty [Broker].
func NewBroker() *Broker {
	return &Broker{subs: map[chan frame]struct{}{}}
}

func (b *Broker) subscribe() (chan frame, func()) {
	ch := make(chan frame, 16)

	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs[ch] = struct{}{}
	}
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
	}
}

// Publish sends an event to all current subscribers.
func (b *Broker) Publish(name, data string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	f := frame{id: b.nextID, name: name, data: data}
	for ch := range b.subs {
		select {
		case ch <- f:
		default:
		}
	}
}

// Subscribers returns the number of connected streams.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close ends every stream. Later subscribers are closed immediately.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}

// ServeHTTP streams events as text/event-stream until the client leaves or the broker closes.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	events, cancel := b.subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case f, ok := <-events:
			if !ok {
				return
			}
			writeFrame(w, f)
			flusher.Flush()
		}
	}
}

func writeFrame(w http.ResponseWriter, f frame) {
	var sb strings.Builder
	sb.WriteString("id: " + strconv.Itoa(f.id) + "\n")
	sb.WriteString("event: " + f.name + "\n")
	for _, line := range strings.Split(f.data, "\n") {
		sb.WriteString("data: " + line + "\n")
	}
	sb.WriteString("\n")
	fmt.Fprint(w, sb.String())
}
