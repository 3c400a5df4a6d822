package api

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vladelaina/Catime/internal/fontservice"
)

const maxUploadBytes = 50 << 20 // 50 MB

// FontFileHandler serves and accepts font files under the managed root.
type FontFileHandler struct {
	fontsRoot string
	svc       *fontservice.Service
}

// NewFontFileHandler creates a handler rooted at the fonts directory.
func NewFontFileHandler(fontsRoot string, svc *fontservice.Service) *FontFileHandler {
	return &FontFileHandler{fontsRoot: fontsRoot, svc: svc}
}

// safeName validates that the filename is a plain font file name (no path
// separators, no traversal) and returns the absolute path under the root.
func (h *FontFileHandler) safeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	ext := strings.ToLower(filepath.Ext(cleaned))
	if ext != ".ttf" && ext != ".otf" {
		return "", fmt.Errorf("unsupported font type: %s", ext)
	}
	abs := filepath.Join(h.fontsRoot, cleaned)
	if !strings.HasPrefix(abs, h.fontsRoot+string(os.PathSeparator)) && abs != h.fontsRoot {
		return "", fmt.Errorf("path escapes fonts directory")
	}
	return abs, nil
}

// safeRel resolves a slash-separated relative path under the fonts root,
// rejecting traversal. Used for reads, which may target subfolders.
func (h *FontFileHandler) safeRel(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("path is required")
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("invalid path: %s", rel)
	}
	return filepath.Join(h.fontsRoot, cleaned), nil
}

// ServeFile handles GET /api/fonts/files/*.
func (h *FontFileHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}
	abs, err := h.safeRel(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, statErr := os.Stat(abs); os.IsNotExist(statErr) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}

// Upload handles POST /api/fonts/files (multipart/form-data, field "file").
// A successful upload queues a rescan so the new font shows up in the
// next menu build.
func (h *FontFileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	abs, err := h.safeName(header.Filename)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	if err := os.MkdirAll(h.fontsRoot, 0o755); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to create fonts dir"))
		return
	}

	dst, err := os.Create(abs)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to create file"))
		return
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to write file"))
		return
	}

	h.svc.RequestRefresh(r.Context())

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"filename": header.Filename,
		"size":     written,
		"url":      "/fonts/files/" + header.Filename,
	})
}
