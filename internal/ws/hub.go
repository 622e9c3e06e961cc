// Package ws fans notifications out to a user's open websocket
// connections. Delivery is best-effort; the durable record lives in the
// notification store.
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/creatorhub/engage/internal/model"
)

// envelope is the wire frame sent to clients.
type envelope struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

type outbound struct {
	userID  string
	payload []byte
}

// Hub tracks live connections per user and routes pushes to them. One
// user may hold several connections (multiple tabs); each receives
// every push for that user.
type Hub struct {
	connections map[string]map[*Client]bool
	mu          sync.RWMutex

	register   chan *Client
	unregister chan *Client
	send       chan outbound

	ctx    context.Context
	cancel context.CancelFunc
	logger zerolog.Logger
}

// NewHub creates a hub. Call Run in a goroutine, then Stop on shutdown.
func NewHub(logger zerolog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		connections: make(map[string]map[*Client]bool),
		register:    make(chan *Client, 64),
		unregister:  make(chan *Client, 64),
		send:        make(chan outbound, 512),
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger.With().Str("component", "ws").Logger(),
	}
}

// Run is the hub's event loop. Returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			h.closeAll()
			return
		case c := <-h.register:
			h.add(c)
		case c := <-h.unregister:
			h.remove(c)
		case msg := <-h.send:
			h.deliver(msg)
		}
	}
}

// Stop shuts the hub down and closes every connection.
func (h *Hub) Stop() { h.cancel() }

// Push implements notify.Pusher. A user with no open connections is not
// an error; the frame is simply dropped.
func (h *Hub) Push(userID string, n *model.Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		h.logger.Error().Err(err).Str("userID", userID).Msg("marshal notification")
		return
	}
	payload, err := json.Marshal(envelope{
		Type:      "notification",
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("marshal envelope")
		return
	}
	select {
	case h.send <- outbound{userID: userID, payload: payload}:
	case <-h.ctx.Done():
	default:
		h.logger.Warn().Str("userID", userID).Msg("hub send queue full, push dropped")
	}
}

// ConnectionCount returns the number of open connections for a user.
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[userID])
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.connections[c.userID] == nil {
		h.connections[c.userID] = make(map[*Client]bool)
	}
	h.connections[c.userID][c] = true
	h.logger.Info().
		Str("userID", c.userID).
		Str("connID", c.id).
		Int("userConnections", len(h.connections[c.userID])).
		Msg("client registered")
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.connections[c.userID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.out)
	if len(clients) == 0 {
		delete(h.connections, c.userID)
	}
	h.logger.Info().
		Str("userID", c.userID).
		Str("connID", c.id).
		Msg("client unregistered")
}

func (h *Hub) deliver(msg outbound) {
	h.mu.RLock()
	clients := h.connections[msg.userID]
	h.mu.RUnlock()

	for c := range clients {
		select {
		case c.out <- msg.payload:
		default:
			// Backed-up client; drop the connection rather than block
			// every other delivery behind it. The unregister send must
			// not outlive the hub: once Run has returned nothing drains
			// the channel, so bail out on ctx instead of parking.
			h.logger.Warn().Str("userID", c.userID).Str("connID", c.id).Msg("closing slow client")
			go func(c *Client) {
				defer func() { _ = c.conn.Close() }()
				select {
				case h.unregister <- c:
				case <-h.ctx.Done():
				}
			}(c)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, clients := range h.connections {
		for c := range clients {
			close(c.out)
			_ = c.conn.Close()
		}
		delete(h.connections, userID)
	}
	h.logger.Info().Msg("hub stopped")
}
