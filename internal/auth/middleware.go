package auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
)

// TokenFromRequest reads the staff token from the bearer header or cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// IsStaff reports whether the request carries a valid staff token. Every
// request counts as staff while authentication is disabled.
func (a *Authenticator) IsStaff(r *http.Request) bool {
	if !a.Enabled() {
		return true
	}
	token := TokenFromRequest(r)
	if token == "" {
		return false
	}
	_, err := a.Validate(token)
	return err == nil
}

// RequireStaff rejects requests without a valid staff token. Pages redirect
// to the login form, AJAX and API calls get 401.
func (a *Authenticator) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		token := TokenFromRequest(r)
		claims, err := a.Validate(token)
		if token != "" && err == nil {
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
			return
		}
		log.Debug("Rejected staff request", "path", r.URL.Path, "error", err)

		if WantsJSON(r) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false,"error":"Staff login required."}`))
			return
		}
		http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
	})
}

// WantsJSON reports whether the caller expects a JSON answer rather than a page.
func WantsJSON(r *http.Request) bool {
	if r.Header.Get("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	if strings.HasPrefix(r.URL.Path, "/api/") || strings.HasPrefix(r.URL.Path, "/ajax/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// SetCookie stores the token for browser sessions.
func SetCookie(w http.ResponseWriter, r *http.Request, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie logs the browser out.
func ClearCookie(w http.ResponseWriter, r *http.Request) {
	SetCookie(w, r, "", -1)
}

// SafeNext keeps post-login redirects on this site.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
