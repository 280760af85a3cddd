package obras

import (
	"time"
)

// WorkStatus is the domain type for work lifecycle states.
type WorkStatus string

// Work status constants (typed).
const (
	WorkStatusDraft     WorkStatus = "draft"
	WorkStatusPublished WorkStatus = "published"
)

// DefaultKind is the kind assigned to works created without one.
const DefaultKind = "cuento"

// DefaultAuthor is the author assigned to works created without one.
const DefaultAuthor = "Tú"

// Style defaults applied when a style field is not supplied.
const (
	DefaultTextColor       = "#000000"
	DefaultFontFamily      = "Inter"
	DefaultFontSize        = "16"
	DefaultBackgroundColor = "#ffffff"
)

// Style is the presentational record attached to a work. It is always
// replaced as a whole.
type Style struct {
	TextColor       string `json:"color_texto"`
	FontFamily      string `json:"fuente"`
	FontSize        string `json:"tamano_letra"`
	BackgroundColor string `json:"color_fondo"`
	BackgroundImage string `json:"imagen_fondo"`
}

// DefaultStyle returns the style used when no field is supplied.
func DefaultStyle() Style {
	return Style{
		TextColor:       DefaultTextColor,
		FontFamily:      DefaultFontFamily,
		FontSize:        DefaultFontSize,
		BackgroundColor: DefaultBackgroundColor,
	}
}

// Work represents a single authored work.
type Work struct {
	ID        int64      `json:"id"`
	Title     string     `json:"titulo"`
	Author    string     `json:"autor"`
	Kind      string     `json:"tipo"`
	Content   string     `json:"contenido"`
	CreatedAt time.Time  `json:"created_at"`
	Views     int64      `json:"views"`
	Images    []string   `json:"images"`
	Premium   *string    `json:"premium"`
	Status    WorkStatus `json:"status"`
	Style     *Style     `json:"estilo"`
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (w *Work) Clone() *Work {
	c := *w
	c.Images = append(make([]string, 0, len(w.Images)), w.Images...)
	if w.Premium != nil {
		p := *w.Premium
		c.Premium = &p
	}
	if w.Style != nil {
		s := *w.Style
		c.Style = &s
	}
	return &c
}

// Summary returns the listing projection of the work (no content body).
func (w *Work) Summary() WorkSummary {
	return WorkSummary{
		ID:        w.ID,
		Title:     w.Title,
		Author:    w.Author,
		Kind:      w.Kind,
		CreatedAt: w.CreatedAt,
		Views:     w.Views,
	}
}

// WorkSummary is the listing representation of a work.
type WorkSummary struct {
	ID        int64     `json:"id"`
	Title     string    `json:"titulo"`
	Author    string    `json:"autor"`
	Kind      string    `json:"tipo"`
	CreatedAt time.Time `json:"created_at"`
	Views     int64     `json:"views"`
}

// User represents a registered user. PasswordHash is never serialized.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"nombre"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Plan is a premium subscription tier. Plans are static reference data.
type Plan struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Months  int    `json:"months"`
	Price   string `json:"price"`
	Summary string `json:"summary"`
}

// WorkFilter selects works for listing. Empty fields do not filter.
type WorkFilter struct {
	// Query matches case-insensitively as a substring of title, author or content.
	Query string
	// Kind matches case-insensitively against the whole kind.
	Kind string
}
