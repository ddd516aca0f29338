package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/keiths-skittles/internal/game"
	"github.com/mauv0809/keiths-skittles/internal/http/handlers"
)

// AddLookupHandler creates an opponent, location or game type from the
// start game form.
func (s *Server) AddLookupHandler(kind game.LookupKind) http.HandlerFunc {
	label := kind.Label()
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(r.PostFormValue("name"))
		if name == "" {
			handlers.WriteJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": label + " name cannot be empty."})
			return
		}

		l, err := s.Games.AddLookup(kind, name)
		switch {
		case err == nil:
			log.Info("Lookup added", "kind", kind, "id", l.ID, "name", l.Name)
			handlers.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "id": l.ID, "name": l.Name})
		case errors.Is(err, game.ErrDuplicate):
			handlers.WriteJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": fmt.Sprintf("%s %q already exists.", label, name)})
		default:
			log.Error("Failed to add lookup", "kind", kind, "error", err)
			handlers.WriteJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": fmt.Sprintf("Server error creating %s.", strings.ToLower(label))})
		}
	}
}
