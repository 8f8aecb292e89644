package chatws

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/Bipinmahat1/NepaliLove/internal/metrics"
	"github.com/Bipinmahat1/NepaliLove/internal/services"
)

var ErrHubClosed = errors.New("realtime hub is not running")

const relayEvent = "relay"

// Hub keeps the open connections of each user and delivers frames only to the
// users they are addressed to. All registry mutations happen on the Run
// goroutine.
type Hub struct {
	clients     map[string]map[*Client]struct{}
	register    chan *Client
	unregister  chan *Client
	deliveries  chan delivery
	done        chan struct{}
	ctx         context.Context
	cancel      context.CancelFunc
	connections atomic.Int64
	log         zerolog.Logger
}

type delivery struct {
	event   string
	payload []byte
	userIDs []string
	// target, when set, restricts the delivery to one connection.
	target *Client
}

func NewHub(log zerolog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliveries: make(chan delivery, 256),
		done:       make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
		log:        log.With().Str("component", "realtime").Logger(),
	}
}

// Run serves the registry until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	defer h.cancel()

	for {
		select {
		case <-ctx.Done():
			for userID, set := range h.clients {
				for client := range set {
					close(client.send)
				}
				delete(h.clients, userID)
			}
			h.setConnections(0)
			return
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
			h.setConnections(h.connections.Load() + 1)
		case client := <-h.unregister:
			h.remove(client)
		case d := <-h.deliveries:
			h.deliver(d)
		}
	}
}

// Context is cancelled once Run returns. Work started on behalf of a
// connection should use it so it stops with the hub.
func (h *Hub) Context() context.Context {
	return h.ctx
}

func (h *Hub) Register(client *Client) error {
	select {
	case h.register <- client:
		return nil
	case <-h.done:
		return ErrHubClosed
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish implements services.Publisher.
func (h *Hub) Publish(event services.Event, userIDs ...string) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return h.enqueue(delivery{event: event.Type, payload: payload, userIDs: userIDs})
}

// Relay forwards a raw client frame, unmodified, to the given users.
func (h *Hub) Relay(payload []byte, userIDs ...string) error {
	return h.enqueue(delivery{event: relayEvent, payload: payload, userIDs: userIDs})
}

// ConnectionCount is the number of registered connections across all users.
func (h *Hub) ConnectionCount() int {
	return int(h.connections.Load())
}

func (h *Hub) enqueue(d delivery) error {
	if len(d.userIDs) == 0 && d.target == nil {
		return nil
	}
	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}
	select {
	case h.deliveries <- d:
		return nil
	case <-h.done:
		return ErrHubClosed
	}
}

func (h *Hub) deliver(d delivery) {
	if d.target != nil {
		if _, ok := h.clients[d.target.userID][d.target]; ok {
			h.push(d.target, d.payload)
		}
		return
	}

	delivered := 0
	seen := make(map[string]struct{}, len(d.userIDs))

	for _, userID := range d.userIDs {
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}

		for client := range h.clients[userID] {
			if h.push(client, d.payload) {
				delivered++
			}
		}
	}

	metrics.RecordDelivery(d.event, delivered)
}

// push never blocks the hub. A client whose queue is full is disconnected.
func (h *Hub) push(client *Client, payload []byte) bool {
	select {
	case client.send <- payload:
		return true
	default:
		h.log.Warn().Str("user_id", client.userID).Msg("dropping slow realtime client")
		metrics.RecordDroppedClient()
		h.remove(client)
		return false
	}
}

func (h *Hub) remove(client *Client) {
	set, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, exists := set[client]; exists {
		delete(set, client)
		close(client.send)
		h.setConnections(h.connections.Load() - 1)
	}
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
}

func (h *Hub) setConnections(n int64) {
	h.connections.Store(n)
	metrics.SetRealtimeConnections(int(n))
}
