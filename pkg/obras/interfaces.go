package obras

import (
	"context"
	"io"
	"time"
)

// Repository defines the interface for work and user persistence.
//
// Implementations must make every method safe for concurrent use. ListWorks
// returns works in insertion order.
type Repository interface {
	// Work operations
	CreateWork(ctx context.Context, work *Work) error
	GetWork(ctx context.Context, id int64) (*Work, error)
	// UpdateWork applies fn to the stored work atomically and returns the result.
	// If fn returns an error nothing is written.
	UpdateWork(ctx context.Context, id int64, fn func(*Work) error) (*Work, error)
	DeleteWork(ctx context.Context, id int64) error
	ListWorks(ctx context.Context, filter WorkFilter) ([]*Work, error)
	CountWorks(ctx context.Context) (int, error)

	// User operations
	// CreateUser assigns the user id and fails with ErrEmailTaken when the
	// email is already registered.
	CreateUser(ctx context.Context, user *User) error
}

// BlobStore defines the interface for image storage backends
type BlobStore interface {
	// Upload uploads content directly
	Upload(ctx context.Context, objectKey string, reader io.Reader) error

	// UploadWithParams uploads content with additional parameters
	UploadWithParams(ctx context.Context, reader io.Reader, params UploadParams) error

	// Download downloads content directly
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete deletes content
	Delete(ctx context.Context, objectKey string) error

	// GetObjectMeta retrieves metadata for an object
	GetObjectMeta(ctx context.Context, objectKey string) (*ObjectMeta, error)
}

// EventSink receives work and user lifecycle events
type EventSink interface {
	WorkCreated(ctx context.Context, work *Work) error
	WorkUpdated(ctx context.Context, work *Work) error
	WorkPublished(ctx context.Context, work *Work) error
	WorkDeleted(ctx context.Context, workID int64) error
	UserRegistered(ctx context.Context, user *User) error
}

// ObjectMeta contains metadata about an object in storage
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
	ETag        string
}

// UploadParams contains parameters for uploading an object
type UploadParams struct {
	ObjectKey string
	MimeType  string
}
