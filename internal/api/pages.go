package api

import (
	"io/fs"
	"net/http"
)

const (
	pageIndex   = "index.html"
	pagePrivacy = "privacy.html"
	pageTerms   = "terms.html"
)

func (s *Server) handlePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.pages == nil {
			http.NotFound(w, r)
			return
		}
		b, err := fs.ReadFile(s.pages, name)
		if err != nil {
			s.logger.Error("page not available", "page", name, "error", err)
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	}
}
