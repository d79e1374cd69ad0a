// Package sse implements the change-notification broker: mutations on the
// data layer are fanned out to Server-Sent Events clients so observers (UI,
// sync scheduler) can react.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
)

// Change is the payload broadcast after a mutation. Full is false for
// metadata-only changes that need not repaint observers.
type Change struct {
	Resource string `json:"resource"`
	Full     bool   `json:"full"`
}

// Broker manages SSE client connections and broadcasts resource changes.
// It implements the provider's Notifier contract: Notify is fire-and-forget
// and Register records resources that live result sets are watching.
//
// Concurrency model: a single internal event loop (goroutine) owns mutable
// state (clients + watched resources). Public methods communicate with this
// loop through channels, so no mutexes are required.
type Broker struct {
	subscribeCh   chan chan []byte
	unsubscribeCh chan chan []byte
	notifyCh      chan Change
	registerCh    chan string
	countReqCh    chan chan int
	watchedReqCh  chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a broker and starts its event loop.
func NewBroker() *Broker {
	b := &Broker{
		subscribeCh:   make(chan chan []byte),
		unsubscribeCh: make(chan chan []byte),
		notifyCh:      make(chan Change, 256),
		registerCh:    make(chan string, 256),
		countReqCh:    make(chan chan int),
		watchedReqCh:  make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})
	watched := make(map[string]struct{})

	broadcast := func(c Change) {
		payload, err := json.Marshal(c)
		if err != nil {
			return
		}
		raw := []byte(fmt.Sprintf("event: change\ndata: %s\n\n", payload))

		for ch := range clients {
			select {
			case ch <- raw:
			default:
				// Client buffer full; skip to avoid blocking the loop.
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range clients {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			clients[ch] = struct{}{}

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case c := <-b.notifyCh:
			broadcast(c)

		case res := <-b.registerCh:
			watched[res] = struct{}{}

		case resp := <-b.countReqCh:
			resp <- len(clients)

		case resp := <-b.watchedReqCh:
			resp <- len(watched)
		}
	}
}

// Close gracefully stops the loop and closes all client channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Notify broadcasts a resource change to all connected clients. It never
// blocks and never waits for acknowledgement.
func (b *Broker) Notify(resource string, fullRefresh bool) {
	if b.closed.Load() {
		return
	}
	select {
	case b.notifyCh <- Change{Resource: resource, Full: fullRefresh}:
	case <-b.stopped:
	}
}

// Register records that a live result set is watching resource.
func (b *Broker) Register(resource string) {
	if b.closed.Load() {
		return
	}
	select {
	case b.registerCh <- resource:
	case <-b.stopped:
	}
}

// Subscribe adds a new client and returns its channel.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}

	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	return b.ask(b.countReqCh)
}

// WatchedCount returns the number of distinct registered resources.
func (b *Broker) WatchedCount() int {
	return b.ask(b.watchedReqCh)
}

func (b *Broker) ask(req chan chan int) int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case req <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// ServeHTTP is the SSE endpoint handler (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
