package obras

import (
	"context"
	"io"
)

// Service defines the main interface for the obras library
type Service interface {
	// User registry
	Register(ctx context.Context, req RegisterRequest) (*User, error)

	// Work lifecycle
	CreateWork(ctx context.Context, req CreateWorkRequest) (*Work, error)
	EditWork(ctx context.Context, id int64, req EditWorkRequest) (*Work, error)
	AttachStyle(ctx context.Context, id int64, req AttachStyleRequest) (*Work, error)
	PublishWork(ctx context.Context, id int64) (*Work, error)
	DeleteWork(ctx context.Context, id int64) error

	// GetWork returns a single work and counts one view.
	GetWork(ctx context.Context, id int64) (*Work, error)
	// LookupWork returns a single work without counting a view.
	LookupWork(ctx context.Context, id int64) (*Work, error)
	ListWorks(ctx context.Context, filter WorkFilter) ([]*Work, error)
	TopWorks(ctx context.Context, n int) ([]*Work, error)

	// Seed creates the sample works when the store is empty.
	Seed(ctx context.Context) error

	// Image attachments
	AttachImage(ctx context.Context, req AttachImageRequest) (*Work, error)
	OpenImage(ctx context.Context, workID int64, index int) (io.ReadCloser, *ObjectMeta, error)

	// Premium catalog
	Plans() []Plan
	PlanByID(id string) (*Plan, error)
}
