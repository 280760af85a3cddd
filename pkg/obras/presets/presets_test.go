package presets

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-obras/pkg/obras"
)

func TestNewDevelopment(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dev-data")

	svc, cleanup, err := NewDevelopment(WithDevStorage(dir))
	require.NoError(t, err)
	require.NotNil(t, cleanup)

	ctx := context.Background()
	works, err := svc.ListWorks(ctx, obras.WorkFilter{})
	require.NoError(t, err)
	assert.Len(t, works, 2)

	_, err = svc.AttachImage(ctx, obras.AttachImageRequest{
		WorkID:   works[0].ID,
		FileName: "a.png",
		Reader:   strings.NewReader("png"),
	})
	require.NoError(t, err)

	_, err = os.Stat(dir)
	require.NoError(t, err)

	cleanup()
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestNewTesting(t *testing.T) {
	ctx := context.Background()

	empty := NewTesting(t)
	works, err := empty.ListWorks(ctx, obras.WorkFilter{})
	require.NoError(t, err)
	assert.Empty(t, works)

	seeded := NewTesting(t, WithSampleWorks())
	works, err = seeded.ListWorks(ctx, obras.WorkFilter{})
	require.NoError(t, err)
	assert.Len(t, works, 2)

	_, err = seeded.Register(ctx, obras.RegisterRequest{
		Name: "Ana", Email: "a@x.com", Password: "p", ConfirmPassword: "p",
	})
	assert.NoError(t, err)
}

func TestPresetIsolation(t *testing.T) {
	ctx := context.Background()
	a := NewTesting(t)
	b := NewTesting(t)

	_, err := a.CreateWork(ctx, obras.CreateWorkRequest{Title: "T", Content: "C"})
	require.NoError(t, err)

	works, err := b.ListWorks(ctx, obras.WorkFilter{})
	require.NoError(t, err)
	assert.Empty(t, works)
}
