package obras

import (
	"errors"
	"fmt"
	"io"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// notBlank rejects strings that are empty after trimming whitespace.
var notBlank = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
})

// RegisterRequest contains parameters for registering a user
type RegisterRequest struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Validate checks presence of the required fields and the password confirmation.
func (r RegisterRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Name, notBlank),
		validation.Field(&r.Email, notBlank),
		validation.Field(&r.Password, notBlank),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMissingFields, err)
	}
	if r.Password != r.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}

// NormalizedEmail returns the email as it is stored and compared.
func (r RegisterRequest) NormalizedEmail() string {
	return NormalizeEmail(r.Email)
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateWorkRequest contains parameters for creating a work
type CreateWorkRequest struct {
	Title   string
	Content string
	Kind    string
	Author  string
	IsDraft bool
}

// Validate checks that title and content are present.
func (r CreateWorkRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Title, notBlank),
		validation.Field(&r.Content, notBlank),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMissingFields, err)
	}
	return nil
}

// normalized trims every field and fills kind and author defaults.
func (r CreateWorkRequest) normalized() CreateWorkRequest {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
	r.Kind = strings.TrimSpace(r.Kind)
	r.Author = strings.TrimSpace(r.Author)
	if r.Kind == "" {
		r.Kind = DefaultKind
	}
	if r.Author == "" {
		r.Author = DefaultAuthor
	}
	return r
}

// EditWorkRequest is a partial update. A nil field keeps the current value.
type EditWorkRequest struct {
	Title   *string
	Author  *string
	Kind    *string
	Content *string
}

func (r EditWorkRequest) apply(w *Work) {
	if r.Title != nil {
		w.Title = *r.Title
	}
	if r.Author != nil {
		w.Author = *r.Author
	}
	if r.Kind != nil {
		w.Kind = *r.Kind
	}
	if r.Content != nil {
		w.Content = *r.Content
	}
}

// AttachStyleRequest replaces the style of a work. A nil field takes its default.
type AttachStyleRequest struct {
	TextColor       *string
	FontFamily      *string
	FontSize        *string
	BackgroundColor *string
	BackgroundImage *string
}

// Style builds the full style record, filling defaults for absent fields.
func (r AttachStyleRequest) Style() Style {
	s := DefaultStyle()
	if r.TextColor != nil {
		s.TextColor = *r.TextColor
	}
	if r.FontFamily != nil {
		s.FontFamily = *r.FontFamily
	}
	if r.FontSize != nil {
		s.FontSize = *r.FontSize
	}
	if r.BackgroundColor != nil {
		s.BackgroundColor = *r.BackgroundColor
	}
	if r.BackgroundImage != nil {
		s.BackgroundImage = strings.TrimSpace(*r.BackgroundImage)
	}
	return s
}

// AttachImageRequest contains parameters for attaching an image to a work
type AttachImageRequest struct {
	WorkID   int64
	FileName string
	MimeType string
	Reader   io.Reader
}

// Validate checks the target work and the image body.
func (r AttachImageRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.WorkID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.Reader, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
