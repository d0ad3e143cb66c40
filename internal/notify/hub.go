package notify

import (
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Event tells a connected client that its record list changed and it
// should re-read from the store. The event itself carries no record data.
type Event struct {
	Kind string    `json:"kind"`
	At   time.Time `json:"at"`
}

const kindChanged = "receits_changed"

type subscriber struct {
	ownerID string
	events  chan Event
}

// Hub fans change notifications out to websocket subscribers, keyed by
// owner. Broadcast is best-effort and never blocks a store mutation: a
// subscriber that cannot keep up simply misses intermediate events.
type Hub struct {
	mu       sync.Mutex
	logger   *log.Logger
	upgrader websocket.Upgrader
	subs     map[*subscriber]bool
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		logger: logger.With("component", "notify"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  512,
			WriteBufferSize: 512,
		},
		subs: map[*subscriber]bool{},
	}
}

// Broadcast notifies every subscriber of the given owner.
func (h *Hub) Broadcast(ownerID string) {
	ev := Event{Kind: kindChanged, At: time.Now().UTC()}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		if sub.ownerID != ownerID {
			continue
		}
		select {
		case sub.events <- ev:
		default:
			// Subscriber is behind; the next event supersedes this one anyway.
		}
	}
}

// Serve upgrades the request and streams change events until the client
// disconnects.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, ownerID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	sub := &subscriber{ownerID: ownerID, events: make(chan Event, 1)}
	h.mu.Lock()
	h.subs[sub] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.subs, sub)
		h.mu.Unlock()
		conn.Close()
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev := <-sub.events:
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
