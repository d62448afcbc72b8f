package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/amterp/kanpad/internal/model"
)

// Message types pushed to clients.
const (
	MessageConnected = "connected"
	MessageBoard     = "board"
	MessageTheme     = "theme"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local tool, any origin
	},
}

// WebSocketHub manages WebSocket connections and pushes board and theme
// snapshots to every client.
type WebSocketHub struct {
	mu      sync.RWMutex
	clients map[*WebSocketClient]bool
	logger  *log.Logger
	initial func() []WebSocketMessage
}

// WebSocketClient represents a connected WebSocket client.
type WebSocketClient struct {
	hub  *WebSocketHub
	conn *websocket.Conn
	send chan []byte
}

// WebSocketMessage is the JSON message sent to clients.
type WebSocketMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ThemeData is the payload of a theme message.
type ThemeData struct {
	Dark bool `json:"dark"`
}

// NewWebSocketHub creates a hub. initial, when set, supplies the messages a
// client receives right after connecting.
func NewWebSocketHub(logger *log.Logger, initial func() []WebSocketMessage) *WebSocketHub {
	return &WebSocketHub{
		clients: make(map[*WebSocketClient]bool),
		logger:  logger,
		initial: initial,
	}
}

// BroadcastBoard pushes a board snapshot to all clients.
func (h *WebSocketHub) BroadcastBoard(board model.Board) {
	h.publish(WebSocketMessage{Type: MessageBoard, Data: board})
}

// BroadcastTheme pushes the dark mode preference to all clients.
func (h *WebSocketHub) BroadcastTheme(dark bool) {
	h.publish(WebSocketMessage{Type: MessageTheme, Data: ThemeData{Dark: dark}})
}

func (h *WebSocketHub) publish(msg WebSocketMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal websocket message", "type", msg.Type, "err", err)
		return
	}
	h.broadcast(data)
}

// broadcast sends a message to all connected clients.
func (h *WebSocketHub) broadcast(data []byte) {
	h.mu.RLock()
	clients := make([]*WebSocketClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		h.trySend(client, data)
	}
}

// trySend attempts to send data to a client, handling the case where
// the client's channel was closed between snapshot and send.
func (h *WebSocketHub) trySend(client *WebSocketClient, data []byte) {
	defer func() {
		// removeClient closed the channel; the client is already gone.
		_ = recover()
	}()

	select {
	case client.send <- data:
	default:
		// Slow consumer.
		h.removeClient(client)
	}
}

func (h *WebSocketHub) addClient(client *WebSocketClient) {
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
}

func (h *WebSocketHub) removeClient(client *WebSocketClient) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
}

// Close disconnects every client.
func (h *WebSocketHub) Close() {
	h.mu.Lock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
}

// ServeWS handles WebSocket connection requests.
func (h *WebSocketHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	client := &WebSocketClient{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
	}

	msgs := []WebSocketMessage{{
		Type: MessageConnected,
		Data: map[string]any{"message": "live updates enabled"},
	}}
	if h.initial != nil {
		msgs = append(msgs, h.initial()...)
	}
	for _, msg := range msgs {
		if data, err := json.Marshal(msg); err == nil {
			client.send <- data
		}
	}

	h.addClient(client)

	go client.writePump()
	go client.readPump()
}

// readPump reads messages from the WebSocket connection.
// Clients don't send anything meaningful; reading detects disconnects.
func (c *WebSocketClient) readPump() {
	defer func() {
		// Closing send makes writePump close the connection.
		c.hub.removeClient(c)
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket read error", "err", err)
			}
			break
		}
	}
}

// writePump writes messages to the WebSocket connection.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One frame per message so each frame is a complete JSON document.
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
