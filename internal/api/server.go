package api

import (
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smdata-dev/smdata/internal/service"
)

// Server holds all dependencies for the site handlers.
type Server struct {
	contactSvc service.ContactService
	pages      fs.FS
	logger     *slog.Logger
}

// New creates a new API Server. pages holds index.html, privacy.html and terms.html.
func New(contactSvc service.ContactService, pages fs.FS, logger *slog.Logger) *Server {
	return &Server{
		contactSvc: contactSvc,
		pages:      pages,
		logger:     logger,
	}
}

// Mount registers all site routes under the given router.
func (s *Server) Mount(r chi.Router) {
	// Contact form. Every method is routed here so that a non-POST gets the
	// in-band JSON error rather than a 405.
	r.HandleFunc("/contact", s.handleContact)
	r.HandleFunc("/contact/", s.handleContact)

	// Informational pages
	r.Get("/", s.handlePage(pageIndex))
	r.Get("/privacy", s.handlePage(pagePrivacy))
	r.Get("/privacy/", s.handlePage(pagePrivacy))
	r.Get("/terms", s.handlePage(pageTerms))
	r.Get("/terms/", s.handlePage(pageTerms))

	r.Get("/api/version", s.handleVersion)
}

// ─── Shared helpers ───────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
