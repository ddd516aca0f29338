package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/keiths-skittles/internal/pubsub"
)

// EventHandler consumes the payload of a delivered event.
type EventHandler func(ctx context.Context, data []byte) error

// PushHandler accepts a Pub/Sub push delivery and hands the decoded payload
// to handle. Failures answer 500 so the subscription retries.
func PushHandler(name string, handle EventHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received push message", "event", name, "body", string(bodyBytes))

		var envelope pubsub.PushEnvelope
		if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if len(envelope.Message.Data) == 0 {
			http.Error(w, "Empty message", http.StatusBadRequest)
			return
		}

		if err := handle(r.Context(), envelope.Message.Data); err != nil {
			log.Error("Failed to handle push message", "event", name, "messageID", envelope.Message.MessageID, "error", err)
			http.Error(w, "Failed to handle message", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
