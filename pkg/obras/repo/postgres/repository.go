package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-obras/pkg/obras"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// TxBeginner starts transactions. *pgxpool.Pool and pgx.Tx both satisfy it.
type TxBeginner interface {
	DBTX
	Begin(context.Context) (pgx.Tx, error)
}

// Repository implements obras.Repository using PostgreSQL
type Repository struct {
	db TxBeginner
}

// New creates a new PostgreSQL repository
func New(db TxBeginner) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

const schema = `
	CREATE TABLE IF NOT EXISTS obras (
		id BIGSERIAL PRIMARY KEY,
		titulo TEXT NOT NULL,
		autor TEXT NOT NULL,
		tipo TEXT NOT NULL,
		contenido TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL,
		views BIGINT NOT NULL DEFAULT 0 CHECK (views >= 0),
		images TEXT[] NOT NULL DEFAULT '{}',
		premium TEXT,
		status VARCHAR(20) NOT NULL CHECK (status IN ('draft', 'published')),
		estilo JSONB,
		titulo_fold TEXT NOT NULL DEFAULT '',
		autor_fold TEXT NOT NULL DEFAULT '',
		tipo_fold TEXT NOT NULL DEFAULT '',
		contenido_fold TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS usuarios (
		id BIGSERIAL PRIMARY KEY,
		nombre TEXT NOT NULL,
		email TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS usuarios_email_key ON usuarios (email);
`

// Migrate creates the tables if they do not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}
	return nil
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if pgErr.ConstraintName == "usuarios_email_key" {
				return obras.ErrEmailTaken
			}
			return fmt.Errorf("%w: duplicate entry", obras.ErrConflict)
		case "23502": // not_null_violation
			return fmt.Errorf("%w: required field %s is missing", obras.ErrValidation, pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

const workColumns = `id, titulo, autor, tipo, contenido, created_at, views, images, premium, status, estilo`

func scanWork(row pgx.Row) (*obras.Work, error) {
	var (
		work   obras.Work
		status string
		estilo []byte
	)
	err := row.Scan(
		&work.ID, &work.Title, &work.Author, &work.Kind, &work.Content,
		&work.CreatedAt, &work.Views, &work.Images, &work.Premium, &status, &estilo)
	if err != nil {
		return nil, err
	}

	work.Status = obras.WorkStatus(status)
	if work.Images == nil {
		work.Images = []string{}
	}
	if len(estilo) > 0 {
		var style obras.Style
		if err := json.Unmarshal(estilo, &style); err != nil {
			return nil, fmt.Errorf("failed to decode estilo: %w", err)
		}
		work.Style = &style
	}
	return &work, nil
}

func encodeStyle(style *obras.Style) ([]byte, error) {
	if style == nil {
		return nil, nil
	}
	return json.Marshal(style)
}

// The *_fold columns hold obras.FoldSearch of their source column. Folding
// happens in Go so search does not depend on the database collation.
func foldColumns(work *obras.Work) []interface{} {
	return []interface{}{
		obras.FoldSearch(work.Title), obras.FoldSearch(work.Author),
		obras.FoldSearch(work.Kind), obras.FoldSearch(work.Content),
	}
}

// Work operations

func (r *Repository) CreateWork(ctx context.Context, work *obras.Work) error {
	estilo, err := encodeStyle(work.Style)
	if err != nil {
		return err
	}
	if work.Images == nil {
		work.Images = []string{}
	}

	query := `
		INSERT INTO obras (titulo, autor, tipo, contenido, created_at, views, images, premium, status, estilo,
		                   titulo_fold, autor_fold, tipo_fold, contenido_fold)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`

	args := []interface{}{
		work.Title, work.Author, work.Kind, work.Content, work.CreatedAt,
		work.Views, work.Images, work.Premium, string(work.Status), estilo,
	}
	err = r.db.QueryRow(ctx, query, append(args, foldColumns(work)...)...).Scan(&work.ID)
	if err != nil {
		return r.handlePostgresError("create work", err)
	}

	return nil
}

func (r *Repository) GetWork(ctx context.Context, id int64) (*obras.Work, error) {
	query := `SELECT ` + workColumns + ` FROM obras WHERE id = $1`

	work, err := scanWork(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, obras.ErrWorkNotFound
		}
		return nil, r.handlePostgresError("get work", err)
	}
	return work, nil
}

func (r *Repository) UpdateWork(ctx context.Context, id int64, fn func(*obras.Work) error) (*obras.Work, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + workColumns + ` FROM obras WHERE id = $1 FOR UPDATE`
	work, err := scanWork(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, obras.ErrWorkNotFound
		}
		return nil, r.handlePostgresError("update work", err)
	}

	if err := fn(work); err != nil {
		return nil, err
	}
	work.ID = id

	estilo, err := encodeStyle(work.Style)
	if err != nil {
		return nil, err
	}

	update := `
		UPDATE obras SET
			titulo = $2, autor = $3, tipo = $4, contenido = $5,
			views = $6, images = $7, premium = $8, status = $9, estilo = $10,
			titulo_fold = $11, autor_fold = $12, tipo_fold = $13, contenido_fold = $14
		WHERE id = $1`

	args := []interface{}{
		id, work.Title, work.Author, work.Kind, work.Content,
		work.Views, work.Images, work.Premium, string(work.Status), estilo,
	}
	_, err = tx.Exec(ctx, update, append(args, foldColumns(work)...)...)
	if err != nil {
		return nil, r.handlePostgresError("update work", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit work update: %w", err)
	}
	return work, nil
}

func (r *Repository) DeleteWork(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM obras WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete work", err)
	}
	if tag.RowsAffected() == 0 {
		return obras.ErrWorkNotFound
	}
	return nil
}

func (r *Repository) ListWorks(ctx context.Context, filter obras.WorkFilter) ([]*obras.Work, error) {
	// strpos instead of LIKE so user input is never a pattern.
	query := `
		SELECT ` + workColumns + `
		FROM obras
		WHERE ($1::text = '' OR strpos(titulo_fold, $1) > 0
		               OR strpos(autor_fold, $1) > 0
		               OR strpos(contenido_fold, $1) > 0)
		  AND ($2::text = '' OR tipo_fold = $2)
		ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query, obras.FoldSearch(filter.Query), obras.FoldSearch(filter.Kind))
	if err != nil {
		return nil, r.handlePostgresError("list works", err)
	}
	defer rows.Close()

	works := []*obras.Work{}
	for rows.Next() {
		work, err := scanWork(rows)
		if err != nil {
			return nil, r.handlePostgresError("list works", err)
		}
		works = append(works, work)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list works", err)
	}

	return works, nil
}

func (r *Repository) CountWorks(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM obras`).Scan(&count); err != nil {
		return 0, r.handlePostgresError("count works", err)
	}
	return count, nil
}

// User operations

func (r *Repository) CreateUser(ctx context.Context, user *obras.User) error {
	user.Email = obras.NormalizeEmail(user.Email)

	query := `
		INSERT INTO usuarios (nombre, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.QueryRow(ctx, query, user.Name, user.Email, user.PasswordHash, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		return r.handlePostgresError("create user", err)
	}
	return nil
}
