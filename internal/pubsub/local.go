package pubsub

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

var _ PubSubClient = (*Local)(nil)

// NewLocal creates an in-process client with no subscribers.
func NewLocal() *Local {
	return &Local{handlers: make(map[EventType][]Handler)}
}

// Subscribe registers a handler for a topic.
func (l *Local) Subscribe(topic EventType, h Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers[topic] = append(l.handlers[topic], h)
}

// SendMessage encodes data like the cloud client does and hands it to every
// subscriber of the topic on its own goroutine.
func (l *Local) SendMessage(topic EventType, data any) error {
	payload, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}

	l.mu.RLock()
	handlers := append([]Handler(nil), l.handlers[topic]...)
	l.mu.RUnlock()
	if len(handlers) == 0 {
		log.Debug("No local subscribers for topic", "topic", topic)
		return nil
	}

	for _, h := range handlers {
		l.wg.Add(1)
		go func(h Handler) {
			defer l.wg.Done()
			if err := h(context.Background(), payload); err != nil {
				log.Error("Local subscriber failed", "error", err, "topic", topic)
			}
		}(h)
	}
	return nil
}

func (l *Local) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

// Wait blocks until every delivered message has been handled.
func (l *Local) Wait() {
	l.wg.Wait()
}
