package obras

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/tendant/simple-obras/pkg/obras/objectkey"
	"golang.org/x/crypto/bcrypt"
)

// service implements the Service interface
type service struct {
	repository Repository
	imageStore BlobStore
	keyGen     objectkey.Generator
	eventSink  EventSink
	bcryptCost int
	now        func() time.Time
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithImageStore sets the blob store used for work images
func WithImageStore(store BlobStore) Option {
	return func(s *service) {
		s.imageStore = store
	}
}

// WithObjectKeyGenerator sets the strategy used to name image objects
func WithObjectKeyGenerator(gen objectkey.Generator) Option {
	return func(s *service) {
		s.keyGen = gen
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithBcryptCost sets the bcrypt cost used to hash passwords
func WithBcryptCost(cost int) Option {
	return func(s *service) {
		s.bcryptCost = cost
	}
}

// WithClock overrides the time source used for created_at
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		keyGen:     objectkey.NewPerWorkGenerator(),
		eventSink:  NewNoopEventSink(),
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.keyGen == nil {
		return nil, fmt.Errorf("object key generator is required")
	}
	if s.bcryptCost < bcrypt.MinCost || s.bcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range", s.bcryptCost)
	}

	return s, nil
}

// User operations

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Name:         trimmed(req.Name),
		Email:        req.NormalizedEmail(),
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repository.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if err := s.eventSink.UserRegistered(ctx, user); err != nil {
		slog.Warn("Event sink failed", "event", "user_registered", "user_id", user.ID, "error", err)
	}

	return user, nil
}

// Work operations

func (s *service) CreateWork(ctx context.Context, req CreateWorkRequest) (*Work, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.normalized()

	work := &Work{
		Title:     req.Title,
		Author:    req.Author,
		Kind:      req.Kind,
		Content:   req.Content,
		CreatedAt: s.now().UTC(),
		Images:    []string{},
		Status:    statusForDraft(req.IsDraft),
	}

	if err := s.repository.CreateWork(ctx, work); err != nil {
		return nil, &WorkError{
			WorkID: work.ID,
			Op:     "create",
			Err:    err,
		}
	}

	if err := s.eventSink.WorkCreated(ctx, work); err != nil {
		slog.Warn("Event sink failed", "event", "work_created", "work_id", work.ID, "error", err)
	}

	return work, nil
}

func (s *service) EditWork(ctx context.Context, id int64, req EditWorkRequest) (*Work, error) {
	work, err := s.repository.UpdateWork(ctx, id, func(w *Work) error {
		req.apply(w)
		return nil
	})
	if err != nil {
		return nil, s.workError(id, "edit", err)
	}

	if err := s.eventSink.WorkUpdated(ctx, work); err != nil {
		slog.Warn("Event sink failed", "event", "work_updated", "work_id", id, "error", err)
	}

	return work, nil
}

func (s *service) AttachStyle(ctx context.Context, id int64, req AttachStyleRequest) (*Work, error) {
	style := req.Style()
	work, err := s.repository.UpdateWork(ctx, id, func(w *Work) error {
		w.Style = &style
		return nil
	})
	if err != nil {
		return nil, s.workError(id, "attach_style", err)
	}

	if err := s.eventSink.WorkUpdated(ctx, work); err != nil {
		slog.Warn("Event sink failed", "event", "work_updated", "work_id", id, "error", err)
	}

	return work, nil
}

func (s *service) PublishWork(ctx context.Context, id int64) (*Work, error) {
	changed := false
	work, err := s.repository.UpdateWork(ctx, id, func(w *Work) error {
		next, err := transitionStatus(w.Status, WorkStatusPublished)
		if err != nil {
			return err
		}
		changed = next != w.Status
		w.Status = next
		return nil
	})
	if err != nil {
		return nil, s.workError(id, "publish", err)
	}

	if changed {
		if err := s.eventSink.WorkPublished(ctx, work); err != nil {
			slog.Warn("Event sink failed", "event", "work_published", "work_id", id, "error", err)
		}
	}

	return work, nil
}

func (s *service) DeleteWork(ctx context.Context, id int64) error {
	work, err := s.repository.GetWork(ctx, id)
	if err != nil {
		return s.workError(id, "delete", err)
	}

	if err := s.repository.DeleteWork(ctx, id); err != nil {
		return s.workError(id, "delete", err)
	}

	// Orphaned blobs are not fatal; the record is already gone.
	if s.imageStore != nil {
		for _, key := range work.Images {
			if err := s.imageStore.Delete(ctx, key); err != nil {
				slog.Warn("Failed to delete work image", "work_id", id, "key", key, "error", err)
			}
		}
	}

	if err := s.eventSink.WorkDeleted(ctx, id); err != nil {
		slog.Warn("Event sink failed", "event", "work_deleted", "work_id", id, "error", err)
	}

	return nil
}

func (s *service) GetWork(ctx context.Context, id int64) (*Work, error) {
	work, err := s.repository.UpdateWork(ctx, id, func(w *Work) error {
		w.Views++
		return nil
	})
	if err != nil {
		return nil, s.workError(id, "get", err)
	}
	return work, nil
}

func (s *service) LookupWork(ctx context.Context, id int64) (*Work, error) {
	work, err := s.repository.GetWork(ctx, id)
	if err != nil {
		return nil, s.workError(id, "lookup", err)
	}
	return work, nil
}

func (s *service) ListWorks(ctx context.Context, filter WorkFilter) ([]*Work, error) {
	return s.repository.ListWorks(ctx, filter)
}

func (s *service) TopWorks(ctx context.Context, n int) ([]*Work, error) {
	works, err := s.repository.ListWorks(ctx, WorkFilter{})
	if err != nil {
		return nil, err
	}

	// Stable keeps insertion order among equal view counts.
	sort.SliceStable(works, func(i, j int) bool {
		return works[i].Views > works[j].Views
	})

	if n >= 0 && len(works) > n {
		works = works[:n]
	}
	return works, nil
}

func (s *service) Seed(ctx context.Context) error {
	count, err := s.repository.CountWorks(ctx)
	if err != nil {
		return fmt.Errorf("failed to count works: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := s.now().UTC()
	for _, sample := range sampleWorks() {
		work := sample
		work.CreatedAt = now
		if err := s.repository.CreateWork(ctx, &work); err != nil {
			return fmt.Errorf("failed to seed work %q: %w", work.Title, err)
		}
	}

	slog.Info("Seeded sample works", "count", len(sampleWorks()))
	return nil
}

// Image operations

func (s *service) AttachImage(ctx context.Context, req AttachImageRequest) (*Work, error) {
	if s.imageStore == nil {
		return nil, ErrImageStoreMissing
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Fail before uploading when the work does not exist.
	if _, err := s.repository.GetWork(ctx, req.WorkID); err != nil {
		return nil, s.workError(req.WorkID, "attach_image", err)
	}

	key := s.keyGen.GenerateKey(req.WorkID, req.FileName)
	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	if err := s.imageStore.UploadWithParams(ctx, req.Reader, UploadParams{ObjectKey: key, MimeType: mimeType}); err != nil {
		return nil, &StorageError{Key: key, Op: "upload", Err: err}
	}

	work, err := s.repository.UpdateWork(ctx, req.WorkID, func(w *Work) error {
		w.Images = append(w.Images, key)
		return nil
	})
	if err != nil {
		if delErr := s.imageStore.Delete(ctx, key); delErr != nil {
			slog.Warn("Failed to remove orphaned image", "key", key, "error", delErr)
		}
		return nil, s.workError(req.WorkID, "attach_image", err)
	}

	slog.Info("Image attached", "work_id", req.WorkID, "key", key)
	return work, nil
}

func (s *service) OpenImage(ctx context.Context, workID int64, index int) (io.ReadCloser, *ObjectMeta, error) {
	if s.imageStore == nil {
		return nil, nil, ErrImageStoreMissing
	}

	work, err := s.repository.GetWork(ctx, workID)
	if err != nil {
		return nil, nil, s.workError(workID, "open_image", err)
	}
	if index < 0 || index >= len(work.Images) {
		return nil, nil, ErrImageNotFound
	}

	key := work.Images[index]
	meta, err := s.imageStore.GetObjectMeta(ctx, key)
	if err != nil {
		return nil, nil, &StorageError{Key: key, Op: "meta", Err: err}
	}
	rc, err := s.imageStore.Download(ctx, key)
	if err != nil {
		return nil, nil, &StorageError{Key: key, Op: "download", Err: err}
	}
	return rc, meta, nil
}

// Premium catalog

func (s *service) Plans() []Plan {
	return Plans()
}

func (s *service) PlanByID(id string) (*Plan, error) {
	return PlanByID(id)
}

func (s *service) workError(id int64, op string, err error) error {
	return &WorkError{WorkID: id, Op: op, Err: err}
}
