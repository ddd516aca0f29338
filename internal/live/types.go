// Package live pushes game updates to browsers watching a game over
// websockets. Connections are grouped per game.
package live

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// MessageType names the kind of update sent to clients.
type MessageType string

const (
	MessageTurnRecorded MessageType = "turn_recorded"
	MessageRoundStarted MessageType = "round_started"
	MessageGameEnded    MessageType = "game_ended"
)

// Message is the JSON envelope written to every client.
type Message struct {
	Type    MessageType `json:"type"`
	GameID  int64       `json:"game_id"`
	Payload any         `json:"payload"`
}

type outbound struct {
	gameID int64
	data   []byte
}

// Hub tracks the clients of every game and fans messages out to them.
type Hub struct {
	mu         sync.RWMutex
	groups     map[int64]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan outbound
	quit       chan struct{}
	upgrader   websocket.Upgrader

	// OnCountChange, when set, receives the total number of connected clients.
	OnCountChange func(total int)
}

// Client is a single websocket connection watching one game.
type Client struct {
	id     string
	gameID int64
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
}
