// Package hub relays chat messages between websocket connections of the same
// team. It keeps no history and caches no membership state.
package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

// Message is one chat line as broadcast to the room.
type Message struct {
	UserID   int64     `json:"user_id"`
	Nickname string    `json:"nickname"`
	Content  string    `json:"content"`
	SentAt   time.Time `json:"sent_at"`
}

// inbound is what a client sends.
type inbound struct {
	Content string `json:"content"`
}

// Hub holds one room per team.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[int64]map[*Client]struct{}
	logger *zap.SugaredLogger
	now    func() time.Time
}

// New creates an empty hub.
func New(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		rooms:  make(map[int64]map[*Client]struct{}),
		logger: logger,
		now:    time.Now,
	}
}

// Client is one websocket connection in a room.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	teamID   int64
	userID   int64
	nickname string
}

// Attach registers conn in the team's room and blocks until the connection
// closes.
func (h *Hub) Attach(conn *websocket.Conn, teamID, userID int64, nickname string) {
	c := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		teamID:   teamID,
		userID:   userID,
		nickname: nickname,
	}
	h.join(c)

	go c.writeLoop()
	c.readLoop()
}

// RoomSize returns the number of open connections for the team.
func (h *Hub) RoomSize(teamID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[teamID])
}

// Connections returns the number of open connections across all rooms.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, room := range h.rooms {
		n += len(room)
	}
	return n
}

// Broadcast delivers msg to every connection in the team's room. A client
// whose buffer is full is dropped.
func (h *Hub) Broadcast(teamID int64, msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Errorw("chat message encode failed", "team_id", teamID, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.rooms[teamID] {
		select {
		case c.send <- payload:
		default:
			h.logger.Warnw("chat client too slow, dropping", "team_id", teamID, "user_id", c.userID)
			h.removeLocked(c)
		}
	}
}

// Close sends a close frame to every connection and empties all rooms.
// Hijacked connections are not tracked by http.Server.Shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, room := range h.rooms {
		for c := range room {
			h.removeLocked(c)
		}
	}
}

func (h *Hub) join(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.teamID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[c.teamID] = room
	}
	room[c] = struct{}{}
	h.logger.Debugw("chat client joined", "team_id", c.teamID, "user_id", c.userID, "room_size", len(room))
}

func (h *Hub) leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	room := h.rooms[c.teamID]
	if _, ok := room[c]; !ok {
		return
	}
	delete(room, c)
	close(c.send)
	if len(room) == 0 {
		delete(h.rooms, c.teamID)
	}
	h.logger.Debugw("chat client left", "team_id", c.teamID, "user_id", c.userID)
}

func (c *Client) readLoop() {
	defer func() {
		c.hub.leave(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var in inbound
		if err := c.conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debugw("chat read failed", "team_id", c.teamID, "user_id", c.userID, "error", err)
			}
			return
		}
		if in.Content == "" {
			continue
		}
		c.hub.Broadcast(c.teamID, Message{
			UserID:   c.userID,
			Nickname: c.nickname,
			Content:  in.Content,
			SentAt:   c.hub.now().UTC(),
		})
	}
}

func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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
