package notify

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/riskibarqy/rift-rewind/internal/domain/run"
	"github.com/riskibarqy/rift-rewind/internal/metrics"
	"github.com/riskibarqy/rift-rewind/internal/platform/id"
	"github.com/riskibarqy/rift-rewind/internal/platform/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 64

	// StateConnected is the first frame a new observer receives.
	StateConnected = "CONNECTED"
)

var (
	ErrConnectionGone = errors.New("observer connection gone")
	ErrSlowConsumer   = errors.New("observer send buffer full")
)

type HubConfig struct {
	// AllowedOrigins lists accepted Origin headers; "*" accepts any.
	AllowedOrigins   []string
	HandshakeTimeout time.Duration
	Logger           *logging.Logger
}

// Hub keeps open observer connections keyed by connection id.
type Hub struct {
	mu       sync.RWMutex
	conns    map[string]*connection
	ids      id.Generator
	upgrader websocket.Upgrader
	logger   *logging.Logger
}

type connectedFrame struct {
	State        string `json:"state"`
	ConnectionID string `json:"connectionId"`
}

func NewHub(cfg HubConfig) *Hub {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}

	h := &Hub{
		conns:  make(map[string]*connection),
		ids:    id.NewPrefixedGenerator("conn_"),
		logger: logger.Named("notify"),
	}
	origins := append([]string(nil), cfg.AllowedOrigins...)
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: cfg.HandshakeTimeout,
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(origins, r.Header.Get("Origin"))
		},
	}
	return h
}

func originAllowed(allowed []string, origin string) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return true
	}
	return slices.Contains(allowed, strings.TrimSpace(origin))
}

// ServeHTTP upgrades the request and blocks until the connection closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	connID, err := h.ids.NewID()
	if err != nil {
		h.logger.ErrorContext(r.Context(), "generate connection id failed", "error", err)
		_ = ws.Close()
		return
	}

	c := newConnection(connID, ws, h.logger)
	h.register(c)
	defer h.unregister(c)

	hello, err := sonic.Marshal(connectedFrame{State: StateConnected, ConnectionID: connID})
	if err == nil {
		c.enqueue(hello)
	}

	go c.writePump()
	c.readPump()
}

// Send implements usecase.Notifier. The frame is queued; delivery is not
// confirmed.
func (h *Hub) Send(_ context.Context, connectionID string, event run.Event) error {
	h.mu.RLock()
	c, ok := h.conns[connectionID]
	h.mu.RUnlock()
	if !ok {
		return ErrConnectionGone
	}

	frame, err := sonic.Marshal(event)
	if err != nil {
		return err
	}
	if !c.enqueue(frame) {
		return ErrSlowConsumer
	}
	return nil
}

// Connections returns the open connection ids in lexical order.
func (h *Hub) Connections() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]string, 0, len(h.conns))
	for connID := range h.conns {
		out = append(out, connID)
	}
	slices.Sort(out)
	return out
}

// Close drops every connection.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := h.conns
	h.conns = make(map[string]*connection)
	h.mu.Unlock()

	for _, c := range conns {
		c.close()
		metrics.ObserverConnections.Dec()
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	h.conns[c.id] = c
	h.mu.Unlock()
	metrics.ObserverConnections.Inc()
	h.logger.Debug("observer connected", "connection_id", c.id)
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	current, ok := h.conns[c.id]
	if ok && current == c {
		delete(h.conns, c.id)
	}
	h.mu.Unlock()

	c.close()
	if ok && current == c {
		metrics.ObserverConnections.Dec()
		h.logger.Debug("observer disconnected", "connection_id", c.id)
	}
}
