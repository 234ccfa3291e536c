// Package realtime pushes store snapshots to browsers over websockets so the
// site and the admin panel re-render whenever the content changes.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"
)

const writeTimeout = 5 * time.Second

// Message is the frame sent to clients.
type Message struct {
	Type    string          `json:"type"`
	Version uint64          `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// Hub fans the latest published payload out to every connected client.
// Publishes are coalesced: a slow client only ever sees the newest version.
type Hub struct {
	logger zerolog.Logger

	clients   map[*client]struct{}
	clientsMu sync.RWMutex

	latest   []byte
	version  uint64
	latestMu sync.Mutex
	wake     chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
	sent uint64
}

// NewHub creates a hub. Run must be called for publishes to reach clients.
func NewHub(name string, logger zerolog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		logger:  logger.With().Str("component", "realtime").Str("hub", name).Logger(),
		clients: make(map[*client]struct{}),
		wake:    make(chan struct{}, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Publish records v as the newest payload. It never blocks, so it is safe to
// call from a store listener. Payloads older than the current one are ignored.
func (h *Hub) Publish(version uint64, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error().Err(err).Uint64("version", version).Msg("failed to marshal payload")
		return
	}
	frame, err := json.Marshal(Message{Type: "snapshot", Version: version, Data: data})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to marshal frame")
		return
	}

	h.latestMu.Lock()
	if version <= h.version && h.latest != nil {
		h.latestMu.Unlock()
		return
	}
	h.latest, h.version = frame, version
	h.latestMu.Unlock()

	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// Run broadcasts published payloads until ctx is cancelled, then closes every
// client connection.
func (h *Hub) Run(ctx context.Context) error {
	defer h.closeAll()
	defer h.cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-h.ctx.Done():
			return nil
		case <-h.wake:
			version, frame := h.current()
			for _, c := range h.snapshotClients() {
				h.send(c, version, frame)
			}
		}
	}
}

// ServeHTTP upgrades the request and keeps the connection registered until the
// client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// The server's read/write timeouts would otherwise cut long-lived sockets.
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{conn: conn}
	h.clientsMu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.clientsMu.Unlock()

	h.logger.Debug().Int("clients", count).Msg("client connected")

	if version, frame := h.current(); frame != nil {
		h.send(c, version, frame)
	}

	defer h.removeClient(c)
	for {
		// Clients never send anything meaningful; reading detects disconnects.
		if _, _, err := conn.Read(h.ctx); err != nil {
			return
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) current() (uint64, []byte) {
	h.latestMu.Lock()
	defer h.latestMu.Unlock()
	return h.version, h.latest
}

func (h *Hub) snapshotClients() []*client {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	return clients
}

// send writes frame unless the client already has that version or a newer one.
func (h *Hub) send(c *client, version uint64, frame []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sent != 0 && version <= c.sent {
		return
	}

	ctx, cancel := context.WithTimeout(h.ctx, writeTimeout)
	err := c.conn.Write(ctx, websocket.MessageText, frame)
	cancel()
	if err != nil {
		h.logger.Debug().Err(err).Msg("failed to send to client")
		go h.removeClient(c)
		return
	}
	c.sent = version
}

func (h *Hub) removeClient(c *client) {
	h.clientsMu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.clientsMu.Unlock()
		return
	}
	delete(h.clients, c)
	count := len(h.clients)
	h.clientsMu.Unlock()

	_ = c.conn.Close(websocket.StatusNormalClosure, "")
	h.logger.Debug().Int("clients", count).Msg("client disconnected")
}

func (h *Hub) closeAll() {
	h.clientsMu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.clientsMu.Unlock()

	for c := range clients {
		_ = c.conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}
