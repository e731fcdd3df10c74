package handler

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/petravell/choreboard/internal/photo"
)

type PhotoHandler struct {
	photos photo.Store
}

func NewPhotoHandler(photos photo.Store) *PhotoHandler {
	return &PhotoHandler{photos: photos}
}

// Serve streams a stored completion photo by handle.
func (h *PhotoHandler) Serve(w http.ResponseWriter, r *http.Request) {
	handle := r.PathValue("handle")
	if handle == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "handle is required"})
		return
	}

	exists, err := h.photos.Exists(r.Context(), handle)
	if err != nil {
		respondError(w, err)
		return
	}
	if !exists {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "photo not found"})
		return
	}

	rc, err := h.photos.Open(r.Context(), handle)
	if err != nil {
		respondError(w, err)
		return
	}
	defer rc.Close()

	if ct := mime.TypeByExtension(filepath.Ext(handle)); ct != "" {
		w.Header().Set("Content-Type", ct)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	io.Copy(w, rc)
}
