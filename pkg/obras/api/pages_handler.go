package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-obras/pkg/obras"
)

// Inline form messages.
const (
	msgMissingFields    = "Completa todos los campos."
	msgPasswordMismatch = "Las contraseñas no coinciden."
	msgPasswordTooLong  = "La contraseña es demasiado larga."
	msgEmailRegistered  = "Correo ya registrado."
	msgTitleRequired    = "Título y contenido requeridos."
	msgDraftSaved       = "Obra guardada como borrador."
)

// topWorksLimit is the number of works shown on the home page.
const topWorksLimit = 5

// Create form actions.
const (
	actionSave    = "save"
	actionContact = "contact"
	actionFinish  = "finish"
)

// HomeView is the home page model
type HomeView struct {
	TopWorks []obras.WorkSummary `json:"top_obras"`
}

// FormView is the model of a form page with an optional inline message
type FormView struct {
	Error   string      `json:"error,omitempty"`
	Message string      `json:"mensaje,omitempty"`
	Work    *obras.Work `json:"obra,omitempty"`
}

// LibraryView is the library page model
type LibraryView struct {
	Works []*obras.Work `json:"obras"`
}

// EditorView is the content and style editor model
type EditorView struct {
	Work         *obras.Work  `json:"obra"`
	PremiumPlans []obras.Plan `json:"premium_plans,omitempty"`
}

// PremiumView is the premium page model
type PremiumView struct {
	PremiumPlans []obras.Plan `json:"premium_plans"`
}

// StaticView names a page with no model
type StaticView struct {
	Page string `json:"pagina"`
}

// PagesHandler serves the form/page surface. Views are rendered as JSON view models.
type PagesHandler struct {
	service obras.Service
}

// NewPagesHandler creates a new pages handler
func NewPagesHandler(service obras.Service) *PagesHandler {
	return &PagesHandler{service: service}
}

// Routes returns the page routes mounted at the root
func (h *PagesHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Home)
	r.Get("/registro", h.RegisterForm)
	r.Post("/registro", h.Register)
	r.Get("/obras", h.Library)

	r.Get("/crear_obra", h.CreateForm)
	r.Post("/crear_obra", h.Create)
	r.Get("/editar_obra", h.Editor)
	r.Post("/editar_obra", h.Edit)
	r.Get("/editar_obra_estilo", h.StyleEditor)
	r.Post("/editar_obra_estilo", h.EditStyle)
	r.Post("/publicar_obra/{id}", h.Publish)
	r.Post("/eliminar_obra/{id}", h.Delete)

	r.Get("/premium", h.Premium)
	for _, page := range []string{"contacto", "terminos", "privacidad"} {
		r.Get("/"+page, h.static(page))
	}

	return r
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func editorURL(id int64) string {
	return "/editar_obra?obra_id=" + url.QueryEscape(strconv.FormatInt(id, 10))
}

// queryWorkID parses ?obra_id=. ok is false when it is absent or not an integer.
func queryWorkID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get("obra_id"), 10, 64)
	return id, err == nil
}

// formValue returns the posted value and whether the field was sent at all.
func formValue(r *http.Request, key string) (*string, bool) {
	values, ok := r.PostForm[key]
	if !ok || len(values) == 0 {
		return nil, false
	}
	v := values[0]
	return &v, true
}

func formValueOr(r *http.Request, key, fallback string) string {
	if v, ok := formValue(r, key); ok {
		return *v
	}
	return fallback
}

// Home shows the five most viewed works
func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	top, err := h.service.TopWorks(r.Context(), topWorksLimit)
	if err != nil {
		h.internalError(w, r, "top_works", err)
		return
	}
	render.JSON(w, r, HomeView{TopWorks: summaries(top)})
}

// RegisterForm shows the empty registration form
func (h *PagesHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, FormView{})
}

// Register creates a user and redirects home, or shows the form with an inline error
func (h *PagesHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.service.Register(r.Context(), obras.RegisterRequest{
		Name:            r.PostForm.Get("nombre"),
		Email:           r.PostForm.Get("email"),
		Password:        r.PostForm.Get("password"),
		ConfirmPassword: r.PostForm.Get("confirm_password"),
	})
	switch {
	case err == nil:
		slog.InfoContext(r.Context(), "User registered", "user_id", user.ID)
		redirect(w, r, "/")
	case errors.Is(err, obras.ErrPasswordMismatch):
		render.JSON(w, r, FormView{Error: msgPasswordMismatch})
	case errors.Is(err, obras.ErrPasswordTooLong):
		render.JSON(w, r, FormView{Error: msgPasswordTooLong})
	case errors.Is(err, obras.ErrConflict):
		render.JSON(w, r, FormView{Error: msgEmailRegistered})
	case errors.Is(err, obras.ErrValidation):
		render.JSON(w, r, FormView{Error: msgMissingFields})
	default:
		h.internalError(w, r, "register", err)
	}
}

// Library lists every work in insertion order
func (h *PagesHandler) Library(w http.ResponseWriter, r *http.Request) {
	works, err := h.service.ListWorks(r.Context(), obras.WorkFilter{})
	if err != nil {
		h.internalError(w, r, "list", err)
		return
	}
	render.JSON(w, r, LibraryView{Works: works})
}

// CreateForm shows the empty creation form
func (h *PagesHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, FormView{})
}

// Create saves a new work. The action field selects draft-save, contact or the editor.
func (h *PagesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	action := formValueOr(r, "action", actionFinish)
	work, err := h.service.CreateWork(r.Context(), obras.CreateWorkRequest{
		Title:   r.PostForm.Get("titulo"),
		Content: r.PostForm.Get("contenido"),
		Kind:    formValueOr(r, "tipo", obras.DefaultKind),
		Author:  formValueOr(r, "autor", obras.DefaultAuthor),
		IsDraft: action == actionSave,
	})
	if err != nil {
		if errors.Is(err, obras.ErrValidation) {
			render.JSON(w, r, FormView{Error: msgTitleRequired})
			return
		}
		h.internalError(w, r, "create", err)
		return
	}

	slog.InfoContext(r.Context(), "Work created", "work_id", work.ID, "action", action)
	switch action {
	case actionSave:
		render.JSON(w, r, FormView{Message: msgDraftSaved, Work: work})
	case actionContact:
		redirect(w, r, "/contacto")
	default:
		redirect(w, r, editorURL(work.ID))
	}
}

// Editor shows the content editor for ?obra_id=
func (h *PagesHandler) Editor(w http.ResponseWriter, r *http.Request) {
	id, ok := queryWorkID(r)
	if !ok {
		redirect(w, r, "/obras")
		return
	}

	work, err := h.service.LookupWork(r.Context(), id)
	if err != nil {
		h.pageError(w, r, "lookup", err)
		return
	}
	render.JSON(w, r, EditorView{Work: work})
}

// Edit applies the submitted fields. Fields absent from the form keep their value.
func (h *PagesHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := queryWorkID(r)
	if !ok {
		redirect(w, r, "/obras")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req := obras.EditWorkRequest{}
	req.Title, _ = formValue(r, "titulo")
	req.Author, _ = formValue(r, "autor")
	req.Kind, _ = formValue(r, "tipo")
	req.Content, _ = formValue(r, "contenido")

	if _, err := h.service.EditWork(r.Context(), id, req); err != nil {
		h.pageError(w, r, "edit", err)
		return
	}
	redirect(w, r, editorURL(id))
}

// StyleEditor shows the style editor for ?obra_id= with the premium catalog
func (h *PagesHandler) StyleEditor(w http.ResponseWriter, r *http.Request) {
	id, ok := queryWorkID(r)
	if !ok {
		writePageNotFound(w)
		return
	}

	work, err := h.service.LookupWork(r.Context(), id)
	if err != nil {
		h.pageError(w, r, "lookup", err)
		return
	}
	render.JSON(w, r, EditorView{Work: work, PremiumPlans: h.service.Plans()})
}

// EditStyle replaces the style of the work and returns to the content editor
func (h *PagesHandler) EditStyle(w http.ResponseWriter, r *http.Request) {
	id, ok := queryWorkID(r)
	if !ok {
		writePageNotFound(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req := obras.AttachStyleRequest{}
	req.TextColor, _ = formValue(r, "font_color")
	req.FontFamily, _ = formValue(r, "font_family")
	req.FontSize, _ = formValue(r, "font_size")
	req.BackgroundColor, _ = formValue(r, "background_color")
	req.BackgroundImage, _ = formValue(r, "background_image")

	if _, err := h.service.AttachStyle(r.Context(), id, req); err != nil {
		h.pageError(w, r, "attach_style", err)
		return
	}
	redirect(w, r, editorURL(id))
}

// Publish publishes a work from the library
func (h *PagesHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, ok := workIDParam(r)
	if !ok {
		writePageNotFound(w)
		return
	}

	if _, err := h.service.PublishWork(r.Context(), id); err != nil {
		h.pageError(w, r, "publish", err)
		return
	}
	redirect(w, r, "/obras")
}

// Delete removes a work from the library
func (h *PagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := workIDParam(r)
	if !ok {
		writePageNotFound(w)
		return
	}

	if err := h.service.DeleteWork(r.Context(), id); err != nil {
		h.pageError(w, r, "delete", err)
		return
	}
	redirect(w, r, "/obras")
}

// Premium shows the premium catalog
func (h *PagesHandler) Premium(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, PremiumView{PremiumPlans: h.service.Plans()})
}

func (h *PagesHandler) static(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, StaticView{Page: page})
	}
}

// pageError answers unknown works with the plain-text not-found page.
func (h *PagesHandler) pageError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, obras.ErrNotFound) {
		writePageNotFound(w)
		return
	}
	h.internalError(w, r, op, err)
}

func (h *PagesHandler) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	slog.ErrorContext(r.Context(), "Page request failed", "op", op, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
