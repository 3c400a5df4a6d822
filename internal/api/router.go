package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vladelaina/Catime/internal/fontservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// fontsRoot is used to serve and accept font files.
func NewRouter(svc *fontservice.Service, authEnabled bool, token string, sseHandler http.Handler, fontsRoot string) chi.Router {
	h := NewHandler(svc)
	fh := NewFontFileHandler(fontsRoot, svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Snapshot and menu reads.
	r.Get("/fonts", h.ListFonts)
	r.Get("/menu", h.GetMenu)

	// Selection.
	r.Post("/fonts/select", h.SelectFont)
	r.Post("/fonts/current", h.SetCurrentFont)

	// Rescan.
	r.Post("/refresh", h.Refresh)

	// Font file upload and download (auth-protected).
	r.Post("/fonts/files", fh.Upload)
	r.Get("/fonts/files/*", fh.ServeFile)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
