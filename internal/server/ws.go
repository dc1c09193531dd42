package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bobmcallan/pricebars/internal/app"
	"github.com/bobmcallan/pricebars/internal/canvas"
	"github.com/bobmcallan/pricebars/internal/chartview"
	"github.com/bobmcallan/pricebars/internal/common"
	"github.com/bobmcallan/pricebars/internal/metrics"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
	wsReadLimit  = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// pointerMessage is one client-to-server frame on /ws/pointer.
type pointerMessage struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	Commands bool    `json:"commands,omitempty"`
}

// pointerReply is a server-to-client frame. Type is "pointer" for the
// answer to a pointer move and "dataset" after the dataset was reloaded.
type pointerReply struct {
	Type string `json:"type"`
	app.PointerState
	Count    int              `json:"count,omitempty"`
	Commands []canvas.Command `json:"commands,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// PointerHub tracks pointer WebSocket clients. Every client owns its own
// chart session; the hub resets them all when the dataset changes.
type PointerHub struct {
	clients    map[*pointerClient]bool
	register   chan *pointerClient
	unregister chan *pointerClient
	done       chan struct{}
	mu         sync.RWMutex
	logger     *common.Logger
	metrics    *metrics.Metrics
}

type pointerClient struct {
	hub     *PointerHub
	conn    *websocket.Conn
	session *app.Session
	send    chan []byte
	closed  chan struct{}
	once    sync.Once
}

// NewPointerHub creates a hub. Run must be started before clients connect.
func NewPointerHub(logger *common.Logger, m *metrics.Metrics) *PointerHub {
	return &PointerHub{
		clients:    make(map[*pointerClient]bool),
		register:   make(chan *pointerClient),
		unregister: make(chan *pointerClient),
		done:       make(chan struct{}),
		logger:     logger,
		metrics:    m,
	}
}

// Run is the hub's event loop. Should be called as a goroutine.
func (h *PointerHub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			h.metrics.WSConnections.Sub(float64(len(h.clients)))
			for c := range h.clients {
				c.close()
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			n := len(h.clients)
			h.mu.Unlock()
			h.metrics.WSConnections.Inc()
			h.logger.Debug().Int("clients", n).Msg("Pointer client connected")

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				h.metrics.WSConnections.Dec()
			}
			n := len(h.clients)
			h.mu.Unlock()
			c.close()
			h.logger.Debug().Int("clients", n).Msg("Pointer client disconnected")
		}
	}
}

// Stop signals the hub's event loop to exit and disconnects all clients.
func (h *PointerHub) Stop() {
	select {
	case <-h.done:
		// Already stopped
	default:
		close(h.done)
	}
}

// ClientCount returns the number of connected clients.
func (h *PointerHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// DatasetChanged rebuilds every client's session over series and tells the
// clients. Clients that cannot keep up are dropped.
func (h *PointerHub) DatasetChanged(series chartview.Series) {
	h.mu.RLock()
	clients := make([]*pointerClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.session.Reset(series); err != nil {
			h.logger.Warn().Err(err).Msg("Pointer session reset failed")
		}
		data, err := json.Marshal(pointerReply{Type: "dataset", PointerState: c.session.State(), Count: len(series)})
		if err != nil {
			continue
		}
		select {
		case c.send <- data:
		case <-c.closed:
		default:
			h.logger.Warn().Msg("Pointer client too slow, disconnecting")
			c.close()
		}
	}
}

// ServeWS upgrades an HTTP connection and starts the client's pumps.
func (h *PointerHub) ServeWS(w http.ResponseWriter, r *http.Request, session *app.Session) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("WebSocket upgrade failed")
		return
	}

	c := &pointerClient{
		hub:     h,
		conn:    conn,
		session: session,
		send:    make(chan []byte, 64),
		closed:  make(chan struct{}),
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

func (c *pointerClient) close() {
	c.once.Do(func() { close(c.closed) })
}

// readPump answers each pointer move with the resulting hover state.
func (c *pointerClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(wsReadLimit)
	c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		var msg pointerMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug().Err(err).Msg("Pointer connection closed")
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(wsPongWait))

		data, err := json.Marshal(c.handle(msg))
		if err != nil {
			return
		}
		select {
		case c.send <- data:
		case <-c.closed:
			return
		}
	}
}

func (c *pointerClient) handle(msg pointerMessage) pointerReply {
	reply := pointerReply{Type: "pointer"}
	state, err := c.session.PointerMove(msg.X, msg.Y, chartview.Size{Width: msg.Width, Height: msg.Height})
	if err != nil {
		reply.Error = err.Error()
		reply.PointerState = c.session.State()
		return reply
	}
	reply.PointerState = state
	if msg.Commands {
		reply.Commands = app.SessionCommands(c.session)
	}
	return reply
}

// writePump owns all writes to the connection.
func (c *pointerClient) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.closed:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// handlePointerWS handles GET /ws/pointer.
func (s *Server) handlePointerWS(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r, s.app.NewSession("ws"))
}
