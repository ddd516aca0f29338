package pubsub

import (
	"context"
	"sync"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub. It doubles
// as the topic name.
type EventType string

const (
	EventGameEnded EventType = "game-ended"
)

// GameEnded is published when staff end a game from the round complete page.
type GameEnded struct {
	GameID int64 `msgpack:"game_id"`
	DryRun bool  `msgpack:"dry_run"`
}

// PushEnvelope is the body of a Pub/Sub push subscription request. Data
// arrives base64 encoded and is decoded by encoding/json.
type PushEnvelope struct {
	Message struct {
		Data       []byte            `json:"data"`
		MessageID  string            `json:"messageId"`
		Attributes map[string]string `json:"attributes"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// Handler consumes the msgpack payload of a delivered event.
type Handler func(ctx context.Context, data []byte) error

// Local delivers events to in-process handlers. It is used when no Google
// Cloud project is configured.
type Local struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	wg       sync.WaitGroup
}
