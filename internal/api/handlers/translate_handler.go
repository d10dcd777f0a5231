package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/markdave123-py/doctranslate/internal/core"
	"github.com/markdave123-py/doctranslate/internal/services"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temp file.
const multipartMemory = 8 << 20

type TranslateHandler struct {
	svc *services.TranslationService
}

func NewTranslateHandler(svc *services.TranslationService) *TranslateHandler {
	return &TranslateHandler{svc: svc}
}

func (h *TranslateHandler) Languages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Languages())
}

// Translate accepts a multipart form with file, source_language and
// target_language and answers once the translated PDF is stored.
func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large. The limit is %d bytes.", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request: expected a multipart form.")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: no file provided.")
		return
	}
	defer file.Close()

	res, err := h.svc.Translate(r.Context(), header.Filename, r.FormValue("source_language"), r.FormValue("target_language"), file)
	if err != nil {
		writeError(w, statusFor(err), core.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *TranslateHandler) Download(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	filename := chi.URLParam(r, "filename")

	rc, err := h.svc.OpenOutput(r.Context(), jobID, filename)
	if errors.Is(err, core.ErrNotFound) {
		writeError(w, http.StatusNotFound, "File not found.")
		return
	}
	if err != nil {
		log.Printf("TranslateHandler: open output %s/%s: %v", jobID, filename, err)
		writeError(w, http.StatusInternalServerError, "The file could not be retrieved.")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
	if _, err := io.Copy(w, rc); err != nil {
		log.Printf("TranslateHandler: stream output %s/%s: %v", jobID, filename, err)
	}
}

func (h *TranslateHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps a pipeline failure kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrUnreadableDocument), errors.Is(err, core.ErrLanguageMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrDetectionUnavailable), errors.Is(err, core.ErrTranslationUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("TranslateHandler: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
