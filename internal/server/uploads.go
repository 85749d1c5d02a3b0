package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/tackboard/tack/internal/upload"
)

// handleUpload accepts a multipart form with a single "file" field and
// stores it under a generated name. Board backgrounds and card covers
// reference the returned name.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.uploads == nil {
		http.Error(w, "uploads disabled", http.StatusNotImplemented)
		return
	}

	// Parse at most the configured size plus form overhead.
	if err := r.ParseMultipartForm(s.cfg.Uploads.MaxSizeBytes + 1024); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	name, err := s.uploads.Save(header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrTooLarge):
			http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
		case errors.Is(err, upload.ErrUnsupportedType):
			http.Error(w, "unsupported file type", http.StatusUnsupportedMediaType)
		default:
			log.Error().Err(err).Msg("upload save")
			http.Error(w, "failed to store file", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"name": name,
		"url":  "/uploads/" + name,
	})
}

// handleServeUpload streams a stored file back to the client.
func (s *Server) handleServeUpload(w http.ResponseWriter, r *http.Request) {
	if s.uploads == nil {
		http.Error(w, "uploads disabled", http.StatusNotImplemented)
		return
	}

	name := chi.URLParam(r, "name")

	f, err := s.uploads.Open(name)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", upload.ContentType(name))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, f); err != nil {
		log.Debug().Err(err).Msg("upload serve")
	}
}
