package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/keiths-skittles/internal/auth"
	"github.com/mauv0809/keiths-skittles/internal/http/handlers"
)

//go:embed templates
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "N/A"
		}
		return t.Format("02 Jan 2006")
	},
	"isodate": func(t time.Time) string { return t.Format("2006-01-02") },
	"signed":  func(n int) string { return fmt.Sprintf("%+d", n) },
	"f1":      func(f float64) string { return fmt.Sprintf("%.1f", f) },
	"f2":      func(f float64) string { return fmt.Sprintf("%.2f", f) },
	"add":     func(a, b int) int { return a + b },
	"eq64":    func(a, b int64) bool { return a == b },
	"contains": func(ids []int64, id int64) bool {
		for _, v := range ids {
			if v == id {
				return true
			}
		}
		return false
	},
}

// mustParsePages builds one template set per page so every page can define
// its own "content" block on top of the shared layout and partials.
func mustParsePages() map[string]*template.Template {
	pages, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		panic(err)
	}
	out := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl := template.Must(template.New(path.Base(page)).Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html", "templates/partials.html", page))
		out[path.Base(page)] = tmpl
	}
	return out
}

// render executes a page inside the layout.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	tmpl, ok := s.pages[page]
	if !ok {
		log.Error("Unknown template", "page", page)
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = pageData{}
	}
	data["Staff"] = s.Auth.IsStaff(r)
	data["AuthEnabled"] = s.Auth.Enabled()
	if _, ok := data["Title"]; !ok {
		data["Title"] = "Keith's Skittles"
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Error("Failed to render template", "page", page, "error", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// renderPartial executes a named block of a page's template set to a string.
func (s *Server) renderPartial(page, name string, data any) (string, error) {
	tmpl, ok := s.pages[page]
	if !ok {
		return "", fmt.Errorf("unknown template %s", page)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderError answers AJAX callers with JSON and browsers with the error page.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if auth.WantsJSON(r) {
		handlers.WriteJSON(w, status, map[string]any{"success": false, "error": msg})
		return
	}
	s.render(w, r, status, "error.html", pageData{"Title": http.StatusText(status), "Message": msg})
}

func isAjax(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}
