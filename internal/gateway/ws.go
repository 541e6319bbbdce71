package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"truco-lite/bridge"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	maxFrame   = 65536
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Connection is one WebSocket client watching a match. A connection opened
// with ?player= receives that player's private view and may only send that
// player's commands; otherwise it spectates.
type Connection struct {
	conn   *websocket.Conn
	send   chan []byte
	server *Server
	match  *match
	player string
}

type clientFrame struct {
	Player  string `json:"player,omitempty"`
	Command string `json:"command"`
}

type serverFrame struct {
	Type  string      `json:"type"`
	Match *matchView  `json:"match,omitempty"`
	View  *playerView `json:"view,omitempty"`
	Error string      `json:"error,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	m := s.lookup(chi.URLParam(r, "id"))
	if m == nil {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}
	player := r.URL.Query().Get("player")
	if player != "" {
		m.mu.Lock()
		_, err := m.viewFor(player)
		m.mu.Unlock()
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("upgrade failed")
		return
	}
	c := &Connection{
		conn:   conn,
		send:   make(chan []byte, 64),
		server: s,
		match:  m,
		player: player,
	}

	m.mu.Lock()
	m.subscribers[c] = struct{}{}
	c.enqueue(c.stateFrame())
	count := len(m.subscribers)
	m.mu.Unlock()
	s.logger.Info().Str("match", m.id).Str("player", player).Int("subscribers", count).Msg("client connected")

	go c.writePump()
	go c.readPump()
}

// stateFrame must be called with the match lock held.
func (c *Connection) stateFrame() serverFrame {
	if c.player == "" {
		view := c.match.view()
		return serverFrame{Type: "state", Match: &view}
	}
	view, err := c.match.viewFor(c.player)
	if err != nil {
		return serverFrame{Type: "error", Error: err.Error()}
	}
	return serverFrame{Type: "state", View: &view}
}

func (c *Connection) enqueue(frame serverFrame) {
	data, err := json.Marshal(frame)
	if err != nil {
		c.server.logger.Error().Err(err).Msg("marshal frame failed")
		return
	}
	select {
	case c.send <- data:
	default:
		// slow client, drop
	}
}

// broadcastLocked pushes the current state to every subscriber.
func (m *match) broadcastLocked() {
	for c := range m.subscribers {
		c.enqueue(c.stateFrame())
	}
}

func (c *Connection) readPump() {
	defer c.close()

	c.conn.SetReadLimit(maxFrame)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.server.logger.Warn().Err(err).Str("match", c.match.id).Msg("read failed")
			}
			return
		}
		c.handleMessage(message)
	}
}

func (c *Connection) handleMessage(data []byte) {
	var frame clientFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		c.sendError("invalid message format")
		return
	}
	player := frame.Player
	if c.player != "" {
		if player != "" && bridge.CanonicalName(player) != bridge.CanonicalName(c.player) {
			c.sendError("connection is bound to " + c.player)
			return
		}
		player = c.player
	}
	if _, err := c.server.submit(context.Background(), c.match, commandRequest{Player: player, Command: frame.Command}); err != nil {
		c.sendError(err.Error())
	}
}

func (c *Connection) sendError(msg string) {
	c.match.mu.Lock()
	defer c.match.mu.Unlock()
	if _, ok := c.match.subscribers[c]; ok {
		c.enqueue(serverFrame{Type: "error", Error: msg})
	}
}

func (c *Connection) close() {
	c.match.mu.Lock()
	if _, ok := c.match.subscribers[c]; ok {
		delete(c.match.subscribers, c)
		close(c.send)
	}
	count := len(c.match.subscribers)
	c.match.mu.Unlock()
	_ = c.conn.Close()
	c.server.logger.Info().Str("match", c.match.id).Int("subscribers", count).Msg("client disconnected")
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
