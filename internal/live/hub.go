package live

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var _ Broadcaster = (*Hub)(nil)

// NewHub creates a hub. Run must be started before clients connect.
func NewHub() *Hub {
	return &Hub{
		groups:     make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan outbound, 256),
		quit:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Run processes registrations and broadcasts until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			group, ok := h.groups[client.gameID]
			if !ok {
				group = make(map[*Client]bool)
				h.groups[client.gameID] = group
			}
			group[client] = true
			h.mu.Unlock()
			log.Debug("Client joined game", "clientID", client.id, "gameID", client.gameID)
			h.countChanged()

		case client := <-h.unregister:
			if h.remove(client) {
				log.Debug("Client left game", "clientID", client.id, "gameID", client.gameID)
				h.countChanged()
			}

		case msg := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			for client := range h.groups[msg.gameID] {
				select {
				case client.send <- msg.data:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()
			for _, client := range slow {
				log.Warn("Dropping slow client", "clientID", client.id, "gameID", client.gameID)
				h.remove(client)
			}
			if len(slow) > 0 {
				h.countChanged()
			}

		case <-h.quit:
			h.mu.Lock()
			for _, group := range h.groups {
				for client := range group {
					close(client.send)
				}
			}
			h.groups = make(map[int64]map[*Client]bool)
			h.mu.Unlock()
			return
		}
	}
}

// Stop shuts the hub down and disconnects every client.
func (h *Hub) Stop() {
	close(h.quit)
}

func (h *Hub) remove(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.groups[client.gameID]
	if !ok || !group[client] {
		return false
	}
	delete(group, client)
	close(client.send)
	if len(group) == 0 {
		delete(h.groups, client.gameID)
	}
	return true
}

func (h *Hub) countChanged() {
	if h.OnCountChange != nil {
		h.OnCountChange(h.TotalClients())
	}
}

// Broadcast queues a message for every client of the game.
func (h *Hub) Broadcast(gameID int64, kind MessageType, payload any) error {
	data, err := json.Marshal(Message{Type: kind, GameID: gameID, Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to encode %s message: %w", kind, err)
	}
	select {
	case h.broadcast <- outbound{gameID: gameID, data: data}:
		return nil
	case <-h.quit:
		return fmt.Errorf("hub stopped")
	}
}

// ClientCount returns the number of clients watching a game.
func (h *Hub) ClientCount(gameID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[gameID])
}

// TotalClients returns the number of connected clients across all games.
func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, group := range h.groups {
		n += len(group)
	}
	return n
}

// ServeWS upgrades the request and subscribes the connection to the game.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, gameID int64) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Websocket upgrade failed", "error", err, "gameID", gameID)
		return
	}
	h.Subscribe(gameID, conn)
}

// Subscribe attaches an established connection to a game group and starts
// its pumps.
func (h *Hub) Subscribe(gameID int64, conn *websocket.Conn) *Client {
	client := &Client{
		id:     uuid.NewString(),
		gameID: gameID,
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
	select {
	case h.register <- client:
	case <-h.quit:
		conn.Close()
		return client
	}

	go client.writePump()
	go client.readPump()
	return client
}
