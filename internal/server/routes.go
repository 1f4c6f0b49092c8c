package server

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/joseph-ayodele/pdf-analyst/internal/session"
)

// RegisterRoutes registers the page, form and download routes on mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	mux.HandleFunc("GET /{$}", h.Page)
	mux.HandleFunc("GET /healthz", h.Health)
	mux.HandleFunc("GET /export.xlsx", h.Export)

	mux.HandleFunc("POST /settings", h.Settings)
	mux.HandleFunc("POST /upload", h.Upload)
	mux.HandleFunc("POST /documents/{id}/process", h.DocumentAction(session.ActionProcess))
	mux.HandleFunc("POST /documents/{id}/save", h.DocumentAction(session.ActionSave))
	mux.HandleFunc("POST /documents/{id}/remove", h.DocumentAction(session.ActionRemove))
	mux.HandleFunc("POST /reset", h.Reset)
}

// NewRouter returns the full HTTP handler with middleware applied.
func NewRouter(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, h)
	return ApplyMiddleware(mux, logger)
}
