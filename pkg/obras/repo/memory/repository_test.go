package memory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-obras/pkg/obras"
	"github.com/tendant/simple-obras/pkg/obras/repo/memory"
)

func newWork(title, author, kind, content string) *obras.Work {
	return &obras.Work{
		Title:     title,
		Author:    author,
		Kind:      kind,
		Content:   content,
		CreatedAt: time.Now(),
		Status:    obras.WorkStatusPublished,
	}
}

func TestMemoryRepository_WorkOperations(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	t.Run("CreateWork assigns increasing ids", func(t *testing.T) {
		var last int64
		for i := 0; i < 3; i++ {
			w := newWork(fmt.Sprintf("T%d", i), "A", "cuento", "C")
			require.NoError(t, repo.CreateWork(ctx, w))
			assert.Greater(t, w.ID, last)
			assert.NotNil(t, w.Images)
			last = w.ID
		}
	})

	t.Run("GetWork returns a copy", func(t *testing.T) {
		w := newWork("Original", "A", "cuento", "C")
		require.NoError(t, repo.CreateWork(ctx, w))

		got, err := repo.GetWork(ctx, w.ID)
		require.NoError(t, err)
		got.Title = "Mutated"
		got.Images = append(got.Images, "x")

		again, err := repo.GetWork(ctx, w.ID)
		require.NoError(t, err)
		assert.Equal(t, "Original", again.Title)
		assert.Empty(t, again.Images)
	})

	t.Run("GetWork_NotFound", func(t *testing.T) {
		got, err := repo.GetWork(ctx, 9999)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, obras.ErrNotFound)
	})

	t.Run("UpdateWork applies fn", func(t *testing.T) {
		w := newWork("Before", "A", "cuento", "C")
		require.NoError(t, repo.CreateWork(ctx, w))

		updated, err := repo.UpdateWork(ctx, w.ID, func(w *obras.Work) error {
			w.Title = "After"
			w.Views++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "After", updated.Title)
		assert.Equal(t, int64(1), updated.Views)
	})

	t.Run("UpdateWork error leaves record untouched", func(t *testing.T) {
		w := newWork("Keep", "A", "cuento", "C")
		require.NoError(t, repo.CreateWork(ctx, w))

		boom := errors.New("boom")
		_, err := repo.UpdateWork(ctx, w.ID, func(w *obras.Work) error {
			w.Title = "Lost"
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := repo.GetWork(ctx, w.ID)
		require.NoError(t, err)
		assert.Equal(t, "Keep", got.Title)
	})

	t.Run("UpdateWork_NotFound", func(t *testing.T) {
		_, err := repo.UpdateWork(ctx, 9999, func(w *obras.Work) error { return nil })
		assert.ErrorIs(t, err, obras.ErrWorkNotFound)
	})

	t.Run("DeleteWork", func(t *testing.T) {
		w := newWork("Gone", "A", "cuento", "C")
		require.NoError(t, repo.CreateWork(ctx, w))

		require.NoError(t, repo.DeleteWork(ctx, w.ID))
		_, err := repo.GetWork(ctx, w.ID)
		assert.ErrorIs(t, err, obras.ErrWorkNotFound)
		assert.ErrorIs(t, repo.DeleteWork(ctx, w.ID), obras.ErrWorkNotFound)
	})
}

func TestMemoryRepository_IDsNotReusedAfterDelete(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	a := newWork("A", "x", "cuento", "c")
	require.NoError(t, repo.CreateWork(ctx, a))
	require.NoError(t, repo.DeleteWork(ctx, a.ID))

	b := newWork("B", "x", "cuento", "c")
	require.NoError(t, repo.CreateWork(ctx, b))
	assert.Equal(t, a.ID+1, b.ID)
}

func TestMemoryRepository_ListWorks(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	fixtures := []*obras.Work{
		newWork("El primer amanecer", "Anónimo", "cuento", "Era una vez"),
		newWork("Reseña: Libro X", "Lector1", "reseña", "Este libro"),
		newWork("Noche", "Marta", "Poema", "Un AMANECER lejano"),
		newWork("Tarde", "Amanecer Díaz", "cuento", "nada"),
	}
	for _, w := range fixtures {
		require.NoError(t, repo.CreateWork(ctx, w))
	}

	titles := func(ws []*obras.Work) []string {
		out := make([]string, 0, len(ws))
		for _, w := range ws {
			out = append(out, w.Title)
		}
		return out
	}

	tests := []struct {
		name   string
		filter obras.WorkFilter
		want   []string
	}{
		{"no filter keeps insertion order", obras.WorkFilter{}, []string{"El primer amanecer", "Reseña: Libro X", "Noche", "Tarde"}},
		{"query matches title, author or content", obras.WorkFilter{Query: "amanecer"}, []string{"El primer amanecer", "Noche", "Tarde"}},
		{"query is case-insensitive", obras.WorkFilter{Query: "LECTOR"}, []string{"Reseña: Libro X"}},
		{"kind is exact and case-insensitive", obras.WorkFilter{Kind: "POEMA"}, []string{"Noche"}},
		{"kind folds non-ASCII letters", obras.WorkFilter{Kind: "RESEÑA"}, []string{"Reseña: Libro X"}},
		{"query with surrounding spaces is literal", obras.WorkFilter{Query: " lector "}, []string{}},
		{"kind is not a substring match", obras.WorkFilter{Kind: "cuen"}, []string{}},
		{"query and kind combine with AND", obras.WorkFilter{Query: "amanecer", Kind: "cuento"}, []string{"El primer amanecer", "Tarde"}},
		{"no matches", obras.WorkFilter{Query: "zzz"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ListWorks(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(got))
		})
	}

	t.Run("order survives deletes", func(t *testing.T) {
		require.NoError(t, repo.DeleteWork(ctx, fixtures[1].ID))
		got, err := repo.ListWorks(ctx, obras.WorkFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"El primer amanecer", "Noche", "Tarde"}, titles(got))

		count, err := repo.CountWorks(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})
}

func TestMemoryRepository_UserOperations(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	first := &obras.User{Name: "Ana", Email: "A@x.com", PasswordHash: "h"}
	require.NoError(t, repo.CreateUser(ctx, first))
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "a@x.com", first.Email)

	dup := &obras.User{Name: "Otra", Email: "a@x.com", PasswordHash: "h"}
	assert.ErrorIs(t, repo.CreateUser(ctx, dup), obras.ErrEmailTaken)

	second := &obras.User{Name: "Bea", Email: "b@x.com", PasswordHash: "h"}
	require.NoError(t, repo.CreateUser(ctx, second))
	assert.Equal(t, int64(2), second.ID)

	upper := &obras.User{Name: "Bea", Email: " B@X.COM ", PasswordHash: "h"}
	assert.ErrorIs(t, repo.CreateUser(ctx, upper), obras.ErrEmailTaken)
}

func TestMemoryRepository_ConcurrentViews(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	w := newWork("Hot", "A", "cuento", "C")
	require.NoError(t, repo.CreateWork(ctx, w))

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.UpdateWork(ctx, w.ID, func(w *obras.Work) error {
				w.Views++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.GetWork(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), got.Views)
}
