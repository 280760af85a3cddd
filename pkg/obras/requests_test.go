package obras

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRequestValidate(t *testing.T) {
	ok := RegisterRequest{Name: "Ana", Email: "a@x.com", Password: "p", ConfirmPassword: "p"}
	assert.NoError(t, ok.Validate())

	missing := ok
	missing.Email = "  "
	assert.ErrorIs(t, missing.Validate(), ErrMissingFields)

	// Missing fields are reported before a mismatch.
	both := RegisterRequest{Name: "Ana", Email: "a@x.com", Password: "", ConfirmPassword: "x"}
	assert.ErrorIs(t, both.Validate(), ErrMissingFields)

	mismatch := ok
	mismatch.ConfirmPassword = "q"
	assert.ErrorIs(t, mismatch.Validate(), ErrPasswordMismatch)

	assert.Equal(t, "a@x.com", RegisterRequest{Email: " A@X.com "}.NormalizedEmail())
}

func TestCreateWorkRequestNormalized(t *testing.T) {
	req := CreateWorkRequest{Title: " T ", Content: " C ", Kind: "  ", Author: " "}.normalized()
	assert.Equal(t, "T", req.Title)
	assert.Equal(t, "C", req.Content)
	assert.Equal(t, DefaultKind, req.Kind)
	assert.Equal(t, DefaultAuthor, req.Author)

	req = CreateWorkRequest{Title: "T", Content: "C", Kind: "poema", Author: "Ana"}.normalized()
	assert.Equal(t, "poema", req.Kind)
	assert.Equal(t, "Ana", req.Author)
}

func TestEditWorkRequestApply(t *testing.T) {
	w := &Work{Title: "a", Author: "b", Kind: "c", Content: "d"}
	empty := ""
	EditWorkRequest{Content: &empty}.apply(w)
	assert.Equal(t, &Work{Title: "a", Author: "b", Kind: "c", Content: ""}, w)
}

func TestWorkCloneIsDeep(t *testing.T) {
	premium := "basic"
	style := DefaultStyle()
	w := &Work{ID: 1, Images: []string{"k"}, Premium: &premium, Style: &style}

	c := w.Clone()
	c.Images[0] = "changed"
	*c.Premium = "pro"
	c.Style.FontFamily = "Georgia"

	assert.Equal(t, "k", w.Images[0])
	assert.Equal(t, "basic", *w.Premium)
	assert.Equal(t, DefaultFontFamily, w.Style.FontFamily)
}
