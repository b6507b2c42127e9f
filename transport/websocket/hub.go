package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wricardo/mcp-training/game2048/game/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 8192

	// Outgoing frames buffered per client.
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Frame types
const (
	TypeNewGame = "new_game"
	TypeMove    = "move"
	TypeRules   = "rules"
	TypeState   = "state"
	TypeError   = "error"
	TypeEvent   = "event"
)

// Request is a frame sent by a client
type Request struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is a frame sent to a client
type Response struct {
	Type    string     `json:"type"`
	ID      string     `json:"id,omitempty"`
	Event   string     `json:"event,omitempty"`
	Payload any        `json:"payload,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody mirrors the HTTP error body
type ErrorBody struct {
	Message string `json:"error"`
	Type    string `json:"type"`
}

// Client represents a WebSocket client
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	service service.GameService
	logger  *log.Logger

	clients map[*Client]bool
	count   atomic.Int64

	// Server events fanned out to every client
	broadcast chan []byte

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	stopped chan struct{}
}

// NewHub creates a new WebSocket hub
func NewHub(gameService service.GameService, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		service:    gameService,
		logger:     logger.WithPrefix("ws"),
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stopped:    make(chan struct{}),
	}
}

// Run starts the hub's event loop. It returns when ctx is cancelled, after
// disconnecting every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-ctx.Done():
			for client := range h.clients {
				h.unregisterClient(client)
			}
			return
		}
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	return int(h.count.Load())
}

// ServeWS upgrades the request and starts the client pumps
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "err", err)
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}

	select {
	case h.register <- client:
	case <-h.stopped:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// Broadcast sends an event to every connected client. It never blocks: the
// event is dropped when the hub is backed up or stopped.
func (h *Hub) Broadcast(event string, payload any) {
	data, err := json.Marshal(Response{Type: TypeEvent, Event: event, Payload: payload})
	if err != nil {
		h.logger.Error("failed to marshal broadcast", "event", event, "err", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("broadcast dropped", "event", event)
	}
}

// registerClient adds a client to the registry
func (h *Hub) registerClient(client *Client) {
	h.clients[client] = true
	h.count.Store(int64(len(h.clients)))
	h.logger.Debug("client registered", "client", client.id, "total", len(h.clients))
}

// unregisterClient removes a client and stops its write pump
func (h *Hub) unregisterClient(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		h.count.Store(int64(len(h.clients)))
		close(client.done)
		h.logger.Debug("client unregistered", "client", client.id, "remaining", len(h.clients))
	}
}

// broadcastMessage queues message on every client, dropping clients that
// cannot keep up
func (h *Hub) broadcastMessage(message []byte) {
	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			h.unregisterClient(client)
		}
	}
}

// handle answers one request frame
func (h *Hub) handle(ctx context.Context, req Request) Response {
	resp := Response{ID: req.ID}

	var (
		payload any
		err     error
	)

	switch req.Type {
	case TypeNewGame:
		var body service.NewGameRequest
		if err = decodePayload(req.Payload, &body); err == nil {
			payload, err = h.service.NewGame(ctx, body)
		}
		resp.Type = TypeState

	case TypeMove:
		var body service.MoveRequest
		if err = decodePayload(req.Payload, &body); err == nil {
			payload, err = h.service.Move(ctx, body)
		}
		resp.Type = TypeState

	case TypeRules:
		payload, err = h.service.Rules(ctx)
		resp.Type = TypeRules

	default:
		return errorResponse(req.ID, "unknown request type "+strconv.Quote(req.Type), service.ErrTypeBadRequest)
	}

	if err != nil {
		var perr *payloadError
		if errors.As(err, &perr) {
			return errorResponse(req.ID, err.Error(), service.ErrTypeBadRequest)
		}
		return errorResponse(req.ID, err.Error(), service.ErrorType(err))
	}

	resp.Payload = payload
	return resp
}

type payloadError struct{ err error }

func (e *payloadError) Error() string { return "invalid payload: " + e.err.Error() }

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &payloadError{err: err}
	}
	return nil
}

func errorResponse(id, message, errType string) Response {
	return Response{
		Type:  TypeError,
		ID:    id,
		Error: &ErrorBody{Message: message, Type: errType},
	}
}

// readPump reads request frames and queues the replies
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.stopped:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("read error", "client", c.id, "err", err)
			}
			return
		}

		var resp Response
		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			resp = errorResponse("", "invalid frame: "+err.Error(), service.ErrTypeBadRequest)
		} else {
			resp = c.hub.handle(context.Background(), req)
		}

		out, err := json.Marshal(resp)
		if err != nil {
			c.hub.logger.Error("failed to marshal reply", "client", c.id, "err", err)
			continue
		}

		select {
		case c.send <- out:
		case <-c.done:
			return
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
