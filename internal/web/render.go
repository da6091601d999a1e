package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/UkralStul/social-blog-service/internal/auth"
	"github.com/UkralStul/social-blog-service/internal/domain"
)

//go:embed templates
var templateFS embed.FS

func parseTemplates() (*template.Template, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return t, nil
}

// renderBytes executes a template into a buffer so pages can be cached or
// discarded on error before any bytes hit the wire.
func (s *Server) renderBytes(name string, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) {
	body, err := s.renderBytes(name, data)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeHTML(w, status, body)
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

type errorData struct {
	Viewer *domain.User
	Path   string
}

// notFound renders the dedicated 404 page.
func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	data := errorData{Viewer: auth.CurrentUser(r.Context()), Path: r.URL.Path}
	body, err := s.renderBytes("404.html", data)
	if err != nil {
		log.Printf("failed to render 404 page: %v", err)
		http.NotFound(w, r)
		return
	}
	writeHTML(w, http.StatusNotFound, body)
}

// serverError logs the failure and renders the dedicated 500 page.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("server error on %s %s: %v", r.Method, r.URL.Path, err)
	data := errorData{Viewer: auth.CurrentUser(r.Context()), Path: r.URL.Path}
	body, rerr := s.renderBytes("500.html", data)
	if rerr != nil {
		log.Printf("failed to render 500 page: %v", rerr)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusInternalServerError, body)
}
