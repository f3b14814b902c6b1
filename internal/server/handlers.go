package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/seedling-dev/seedling/internal/templates"
)

// greetFragment is what htmx callers get back, bypassing the template
// environment entirely.
const greetFragment = `<p>Hello from the server!</p>`

// handleHome renders the home template.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, templates.Context{"title": "Home"})
}

// handleGreet serves the greet endpoint. Fragment requesters, identified by
// the HX-Request header, get the fixed fragment; everyone else gets the full
// home page.
func (s *Server) handleGreet(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, greetFragment)
		return
	}
	s.renderPage(w, templates.Context{"title": "Greeting"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// renderPage renders the home template to a buffer first so a failed render
// produces a clean 500 instead of a half-written page. There is no error
// page beyond that; render failures are logged and surfaced as-is.
func (s *Server) renderPage(w http.ResponseWriter, ctx templates.Context) {
	var buf bytes.Buffer
	if err := s.env.Render(&buf, s.config.Templates.Home, ctx); err != nil {
		log.Printf("rendering %q: %v", s.config.Templates.Home, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
