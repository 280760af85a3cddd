package api

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-obras/pkg/obras"
)

// CreateWorkBody is the request body for POST /api/obras
type CreateWorkBody struct {
	Title   string  `json:"titulo"`
	Content string  `json:"contenido"`
	Kind    *string `json:"tipo"`
	Author  *string `json:"autor"`
}

// UpdateWorkBody is the request body for PUT /api/obras/{id}. Absent fields keep their value.
type UpdateWorkBody struct {
	Title   *string `json:"titulo"`
	Content *string `json:"contenido"`
	Kind    *string `json:"tipo"`
}

// StyleBody is the request body for PUT /api/obras/{id}/estilo
type StyleBody struct {
	TextColor       *string `json:"color_texto"`
	FontFamily      *string `json:"fuente"`
	FontSize        *string `json:"tamano_letra"`
	BackgroundColor *string `json:"color_fondo"`
	BackgroundImage *string `json:"imagen_fondo"`
}

// WorksHandler serves the JSON API over the work lifecycle service
type WorksHandler struct {
	service obras.Service
}

// NewWorksHandler creates a new works handler
func NewWorksHandler(service obras.Service) *WorksHandler {
	return &WorksHandler{service: service}
}

// Routes returns the routes mounted under /api
func (h *WorksHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/obras", h.ListWorks)
	r.Post("/obras", h.CreateWork)
	r.Get("/obras/{id}", h.GetWork)
	r.Put("/obras/{id}", h.UpdateWork)
	r.Delete("/obras/{id}", h.DeleteWork)

	r.Put("/obras/{id}/estilo", h.AttachStyle)
	r.Post("/obras/{id}/publicar", h.PublishWork)

	r.Post("/obras/{id}/images", h.UploadImage)
	r.Get("/obras/{id}/images/{index}", h.DownloadImage)

	r.Get("/premium", h.ListPlans)

	return r
}

// ListWorks returns work summaries filtered by ?q= and ?tipo=
func (h *WorksHandler) ListWorks(w http.ResponseWriter, r *http.Request) {
	works, err := h.service.ListWorks(r.Context(), obras.WorkFilter{
		Query: r.URL.Query().Get("q"),
		Kind:  r.URL.Query().Get("tipo"),
	})
	if err != nil {
		writeServiceError(w, r, err, "list")
		return
	}
	render.JSON(w, r, summaries(works))
}

// CreateWork creates a published work
func (h *WorksHandler) CreateWork(w http.ResponseWriter, r *http.Request) {
	var body CreateWorkBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	req := obras.CreateWorkRequest{Title: body.Title, Content: body.Content}
	if body.Kind != nil {
		req.Kind = *body.Kind
	}
	if body.Author != nil {
		req.Author = *body.Author
	}

	work, err := h.service.CreateWork(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "create")
		return
	}

	slog.InfoContext(r.Context(), "Work created", "work_id", work.ID)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, OKResponse{OK: true, Work: work})
}

// GetWork returns the full work and counts a view
func (h *WorksHandler) GetWork(w http.ResponseWriter, r *http.Request) {
	id, ok := workIDParam(r)
	if !ok {
		writeError(w, r, http.StatusNotFound, msgNotFound)
		return
	}

	work, err := h.service.GetWork(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "get")
		return
	}
	render.JSON(w, r, work)
}

// UpdateWork applies a partial update of title, content and kind
func (h *WorksHandler) UpdateWork(w http.ResponseWriter, r *http.Request) {
	id, ok := workIDParam(r)
	if !ok {
		writeError(w, r, http.StatusNotFound, msgNotFound)
		return
	}
	// An unknown id answers 404 whatever the body holds.
	if _, err := h.service.LookupWork(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "update")
		return
	}

	var body UpdateWorkBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	work, err := h.service.EditWork(r.Context(), id, obras.EditWorkRequest{
		Title:   body.Title,
		Content: body.Content,
		Kind:    body.Kind,
	})
	if err != nil {
		writeServiceError(w, r, err, "update")
		return
	}
	render.JSON(w, r, OKResponse{OK: true, Work: work})
}

// DeleteWork removes a work
func (h *WorksHandler) DeleteWork(w http.ResponseWriter, r *http.Request) {
	id, ok := workIDParam(r)
	if !ok {
		writeError(w, r, http.StatusNotFound, msgNotFound)
		return
	}

	if err := h.service.DeleteWork(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "delete")
		return
	}

	slog.InfoContext(r.Context(), "Work deleted", "work_id", id)
	render.JSON(w, r, OKResponse{OK: true})
}

// AttachStyle replaces the style record of a work
func (h *WorksHandler) AttachStyle(w http.ResponseWriter, r *http.Request) {
	id, ok := workIDParam(r)
	if !ok {
		writeError(w, r, http.StatusNotFound, msgNotFound)
		return
	}
	if _, err := h.service.LookupWork(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "attach_style")
		return
	}

	var body StyleBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	work, err := h.service.AttachStyle(r.Context(), id, obras.AttachStyleRequest{
		TextColor:       body.TextColor,
		FontFamily:      body.FontFamily,
		FontSize:        body.FontSize,
		BackgroundColor: body.BackgroundColor,
		BackgroundImage: body.BackgroundImage,
	})
	if err != nil {
		writeServiceError(w, r, err, "attach_style")
		return
	}
	render.JSON(w, r, OKResponse{OK: true, Work: work})
}

// PublishWork moves a work to published
func (h *WorksHandler) PublishWork(w http.ResponseWriter, r *http.Request) {
	id, ok := workIDParam(r)
	if !ok {
		writeError(w, r, http.StatusNotFound, msgNotFound)
		return
	}

	work, err := h.service.PublishWork(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "publish")
		return
	}
	render.JSON(w, r, OKResponse{OK: true, Work: work})
}

// UploadImage stores the raw request body as an image of the work
func (h *WorksHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := workIDParam(r)
	if !ok {
		writeError(w, r, http.StatusNotFound, msgNotFound)
		return
	}

	// Buffer the body so size and emptiness are known before anything is stored.
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImageBodyBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, r, http.StatusRequestEntityTooLarge, msgImageTooLarge)
			return
		}
		writeError(w, r, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if len(data) == 0 {
		writeError(w, r, http.StatusBadRequest, msgEmptyImage)
		return
	}

	work, err := h.service.AttachImage(r.Context(), obras.AttachImageRequest{
		WorkID:   id,
		FileName: r.URL.Query().Get("filename"),
		MimeType: r.Header.Get("Content-Type"),
		Reader:   bytes.NewReader(data),
	})
	if err != nil {
		writeServiceError(w, r, err, "attach_image")
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, OKResponse{OK: true, Work: work})
}

// DownloadImage streams one image of the work by its position
func (h *WorksHandler) DownloadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := workIDParam(r)
	if !ok {
		writeError(w, r, http.StatusNotFound, msgNotFound)
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, msgNotFound)
		return
	}

	rc, meta, err := h.service.OpenImage(r.Context(), id, index)
	if err != nil {
		writeServiceError(w, r, err, "open_image")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", meta.ContentType)
	if meta.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	}
	if meta.ETag != "" {
		w.Header().Set("ETag", `"`+meta.ETag+`"`)
	}
	if _, err := io.Copy(w, rc); err != nil {
		slog.WarnContext(r.Context(), "Failed to stream image", "work_id", id, "index", index, "error", err)
	}
}

// ListPlans returns the premium catalog
func (h *WorksHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Plans())
}
