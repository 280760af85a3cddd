package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-obras/pkg/obras"
	"github.com/tendant/simple-obras/pkg/obras/repo/postgres"
)

// newTestRepository connects to TEST_DATABASE_URL and resets the tables.
func newTestRepository(t *testing.T) *postgres.Repository {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(pool.Close)
	require.NoError(t, pool.Ping(ctx), "Failed to ping test database")

	repo := postgres.NewWithPool(pool)
	require.NoError(t, repo.Migrate(ctx))
	_, err = pool.Exec(ctx, "TRUNCATE obras, usuarios RESTART IDENTITY")
	require.NoError(t, err)

	return repo
}

func TestPostgresRepository_WorkLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	work := &obras.Work{
		Title:     "El primer amanecer",
		Author:    "Anónimo",
		Kind:      "cuento",
		Content:   "Era una vez un amanecer",
		CreatedAt: time.Now().UTC(),
		Status:    obras.WorkStatusDraft,
	}
	require.NoError(t, repo.CreateWork(ctx, work))
	assert.Equal(t, int64(1), work.ID)

	got, err := repo.GetWork(ctx, work.ID)
	require.NoError(t, err)
	assert.Equal(t, "El primer amanecer", got.Title)
	assert.Equal(t, obras.WorkStatusDraft, got.Status)
	assert.Empty(t, got.Images)
	assert.Nil(t, got.Style)

	style := obras.DefaultStyle()
	updated, err := repo.UpdateWork(ctx, work.ID, func(w *obras.Work) error {
		w.Status = obras.WorkStatusPublished
		w.Style = &style
		w.Views++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, obras.WorkStatusPublished, updated.Status)

	got, err = repo.GetWork(ctx, work.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Style)
	assert.Equal(t, style, *got.Style)
	assert.Equal(t, int64(1), got.Views)

	list, err := repo.ListWorks(ctx, obras.WorkFilter{Query: "AMANECER", Kind: "Cuento"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, repo.DeleteWork(ctx, work.ID))
	_, err = repo.GetWork(ctx, work.ID)
	assert.ErrorIs(t, err, obras.ErrWorkNotFound)
	assert.ErrorIs(t, repo.DeleteWork(ctx, work.ID), obras.ErrWorkNotFound)
}

func TestPostgresRepository_UserEmailUnique(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := &obras.User{Name: "Ana", Email: "A@x.com", PasswordHash: "h", CreatedAt: time.Now()}
	require.NoError(t, repo.CreateUser(ctx, first))

	dup := &obras.User{Name: "Ana", Email: "a@x.com", PasswordHash: "h", CreatedAt: time.Now()}
	assert.ErrorIs(t, repo.CreateUser(ctx, dup), obras.ErrEmailTaken)
	assert.Equal(t, "a@x.com", first.Email)
}

func TestPostgresRepository_ListWorksFoldsNonASCII(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	review := &obras.Work{
		Title:     "Reseña: Libro X",
		Author:    "Lector1",
		Kind:      "reseña",
		Content:   "ÑANDÚ en la pampa",
		CreatedAt: time.Now().UTC(),
		Status:    obras.WorkStatusPublished,
	}
	require.NoError(t, repo.CreateWork(ctx, review))

	byKind, err := repo.ListWorks(ctx, obras.WorkFilter{Kind: "RESEÑA"})
	require.NoError(t, err)
	require.Len(t, byKind, 1)
	assert.Equal(t, review.ID, byKind[0].ID)

	byQuery, err := repo.ListWorks(ctx, obras.WorkFilter{Query: "ñandú"})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)

	_, err = repo.UpdateWork(ctx, review.ID, func(w *obras.Work) error {
		w.Kind = "CRÍTICA"
		return nil
	})
	require.NoError(t, err)

	byNewKind, err := repo.ListWorks(ctx, obras.WorkFilter{Kind: "crítica"})
	require.NoError(t, err)
	require.Len(t, byNewKind, 1)
	stale, err := repo.ListWorks(ctx, obras.WorkFilter{Kind: "reseña"})
	require.NoError(t, err)
	assert.Empty(t, stale)
}
