package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/keiths-skittles/internal/auth"
	"github.com/mauv0809/keiths-skittles/internal/http/handlers"
)

func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next := auth.SafeNext(r.URL.Query().Get("next"))
		if !s.Auth.Enabled() || s.Auth.IsStaff(r) {
			http.Redirect(w, r, next, http.StatusSeeOther)
			return
		}
		s.render(w, r, http.StatusOK, "login.html", pageData{"Title": "Staff login", "Next": next})
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next := auth.SafeNext(r.PostFormValue("next"))
		token, _, err := s.Auth.Login(r.PostFormValue("password"))
		switch {
		case errors.Is(err, auth.ErrDisabled):
			http.Redirect(w, r, next, http.StatusSeeOther)
		case err != nil:
			log.Warn("Failed staff login", "remoteAddr", r.RemoteAddr)
			s.render(w, r, http.StatusUnauthorized, "login.html", pageData{
				"Title": "Staff login",
				"Next":  next,
				"Error": "Incorrect password.",
			})
		default:
			log.Info("Staff logged in", "remoteAddr", r.RemoteAddr)
			auth.SetCookie(w, r, token, int(auth.TokenTTL.Seconds()))
			http.Redirect(w, r, next, http.StatusSeeOther)
		}
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth.ClearCookie(w, r)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Server) APILoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handlers.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
			return
		}
		token, expires, err := s.Auth.Login(req.Password)
		switch {
		case errors.Is(err, auth.ErrDisabled):
			handlers.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Staff authentication is disabled."})
		case err != nil:
			log.Warn("Failed API login", "remoteAddr", r.RemoteAddr)
			handlers.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "Incorrect password."})
		default:
			handlers.WriteJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expires})
		}
	}
}

type turnRequest struct {
	Roll1 *int `json:"roll1"`
	Roll2 *int `json:"roll2"`
	Roll3 *int `json:"roll3"`
}

// APITurnHandler records the next turn of a game from a JSON body.
func (s *Server) APITurnHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlers.PathID(r, "id")
		if err != nil {
			handlers.WriteJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "Game not found."})
			return
		}
		var req turnRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handlers.WriteJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "Invalid JSON"})
			return
		}
		out, err := s.Tracker.RecordTurn(id, rollText(req.Roll1), rollText(req.Roll2), rollText(req.Roll3))
		s.writeTurnResponse(w, id, out, err)
	}
}

func rollText(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
