package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vladelaina/Catime/internal/apperr"
	"github.com/vladelaina/Catime/internal/fontservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *fontservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *fontservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListFonts handles GET /api/fonts.
//
//	@Summary		List the font snapshot in menu order
//	@Tags			fonts
//	@Produce		json
//	@Success		200	{object}	FontListResponse
//	@Security		BearerAuth
//	@Router			/fonts [get]
func (h *Handler) ListFonts(w http.ResponseWriter, r *http.Request) {
	fonts, state := h.svc.ListFonts(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"fonts": fonts,
		"total": len(fonts),
		"state": state.String(),
	})
}

// GetMenu handles GET /api/menu.
//
//	@Summary		Get the synthesized font menu tree
//	@Tags			fonts
//	@Produce		json
//	@Success		200	{object}	MenuResponse
//	@Security		BearerAuth
//	@Router			/menu [get]
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.svc.BuildMenu(r.Context())
	if err != nil {
		slog.Error("build menu failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"menu": menu,
	})
}

// SelectFont handles POST /api/fonts/select.
//
//	@Summary		Select a font by menu identifier
//	@Tags			fonts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SelectFontRequest	true	"Menu id to select"
//	@Success		200		{object}	SelectFontResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/fonts/select [post]
func (h *Handler) SelectFont(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req SelectFontRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.ID == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("id is required"))
		return
	}

	path, err := h.svc.SelectFont(r.Context(), req.ID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("unknown menu id"))
		} else {
			slog.Error("select font failed", slog.Int("id", req.ID), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"path": path,
	})
}

// SetCurrentFont handles POST /api/fonts/current.
//
//	@Summary		Record a selection made by path
//	@Tags			fonts
//	@Accept			json
//	@Produce		json
//	@Param			body	body	SetCurrentFontRequest	true	"Font reference"
//	@Success		204		"Selection recorded"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/fonts/current [post]
func (h *Handler) SetCurrentFont(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req SetCurrentFontRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}

	if err := h.svc.NotifyCurrentFontChanged(r.Context(), req.Path); err != nil {
		slog.Error("set current font failed", slog.String("path", req.Path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Refresh handles POST /api/refresh.
//
//	@Summary		Request a background rescan of the fonts folder
//	@Tags			fonts
//	@Success		202	"Rescan queued"
//	@Security		BearerAuth
//	@Router			/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.svc.RequestRefresh(r.Context())
	w.WriteHeader(http.StatusAccepted)
}
