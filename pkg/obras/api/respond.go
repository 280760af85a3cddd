package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-obras/pkg/obras"
)

// Messages returned by the JSON API.
const (
	msgNotFound       = "no encontrado"
	msgTitleContent   = "titulo y contenido requeridos"
	msgInvalidJSON    = "json inválido"
	msgEmailTaken     = "correo ya registrado"
	msgInternal       = "error interno"
	msgImageStorage   = "almacenamiento de imágenes no configurado"
	msgEmptyImage     = "imagen vacía"
	msgImageTooLarge  = "imagen demasiado grande"
	msgInvalidBody    = "cuerpo inválido"
	msgPageNotFound   = "Obra no encontrada"
	maxImageBodyBytes = 10 << 20
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// OKResponse is the JSON body of a successful mutation.
type OKResponse struct {
	OK   bool        `json:"ok"`
	Work *obras.Work `json:"obra,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: msg})
}

// writeServiceError maps a service error onto the JSON API status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		writeError(w, r, http.StatusRequestEntityTooLarge, msgImageTooLarge)
	case errors.Is(err, obras.ErrNotFound):
		writeError(w, r, http.StatusNotFound, msgNotFound)
	case errors.Is(err, obras.ErrMissingFields):
		writeError(w, r, http.StatusBadRequest, msgTitleContent)
	case errors.Is(err, obras.ErrValidation):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, obras.ErrConflict):
		writeError(w, r, http.StatusConflict, msgEmailTaken)
	case errors.Is(err, obras.ErrImageStoreMissing):
		writeError(w, r, http.StatusNotImplemented, msgImageStorage)
	default:
		slog.ErrorContext(r.Context(), "Request failed", "op", op, "error", err)
		writeError(w, r, http.StatusInternalServerError, msgInternal)
	}
}

// decodeJSON reads an optional JSON body. An empty body decodes to the zero value.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := render.DecodeJSON(r.Body, v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// workIDParam parses the {id} route parameter.
func workIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// writePageNotFound answers a page request for an unknown work.
func writePageNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = io.WriteString(w, msgPageNotFound)
}

func summaries(works []*obras.Work) []obras.WorkSummary {
	out := make([]obras.WorkSummary, 0, len(works))
	for _, w := range works {
		out = append(out, w.Summary())
	}
	return out
}
