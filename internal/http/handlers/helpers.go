package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/keiths-skittles/internal/game"
)

// ContextKey is a custom type to avoid key collisions in context.
type ContextKey string

const (
	DryRunKey ContextKey = "dryRun"
)

// IsDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func IsDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(DryRunKey).(bool)
	return ok && dryRun
}

// PathID parses a numeric path value such as {id}.
func PathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

// QueryID parses an optional numeric query parameter. Missing or malformed
// values are 0.
func QueryID(r *http.Request, name string) int64 {
	id, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// WriteJSON encodes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// WriteError answers with {"error": msg}. Store lookups that miss become 404.
func WriteError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, game.ErrNotFound) {
		WriteJSON(w, http.StatusNotFound, map[string]string{"error": "Not found."})
		return
	}
	log.Error(msg, "error", err)
	WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": msg})
}
