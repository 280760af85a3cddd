package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/tendant/simple-obras/pkg/obras"
	"github.com/tendant/simple-obras/pkg/obras/idseq"
)

// Repository implements obras.Repository using in-memory storage
type Repository struct {
	mu         sync.RWMutex
	works      map[int64]*obras.Work
	order      []int64 // insertion order of live work ids
	users      map[int64]*obras.User
	usersEmail map[string]int64 // lowercase email -> user id
	workIDs    idseq.Sequence
	userIDs    idseq.Sequence
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		works:      make(map[int64]*obras.Work),
		users:      make(map[int64]*obras.User),
		usersEmail: make(map[string]int64),
	}
}

// Work operations

func (r *Repository) CreateWork(ctx context.Context, work *obras.Work) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	work.ID = r.workIDs.Next()
	if work.Images == nil {
		work.Images = []string{}
	}

	// Store a copy to avoid external modifications
	r.works[work.ID] = work.Clone()
	r.order = append(r.order, work.ID)

	return nil
}

func (r *Repository) GetWork(ctx context.Context, id int64) (*obras.Work, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	work, exists := r.works[id]
	if !exists {
		return nil, obras.ErrWorkNotFound
	}
	return work.Clone(), nil
}

func (r *Repository) UpdateWork(ctx context.Context, id int64, fn func(*obras.Work) error) (*obras.Work, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.works[id]
	if !exists {
		return nil, obras.ErrWorkNotFound
	}

	draft := stored.Clone()
	if err := fn(draft); err != nil {
		return nil, err
	}
	draft.ID = id
	r.works[id] = draft

	return draft.Clone(), nil
}

func (r *Repository) DeleteWork(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.works[id]; !exists {
		return obras.ErrWorkNotFound
	}

	delete(r.works, id)
	for i, wid := range r.order {
		if wid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *Repository) ListWorks(ctx context.Context, filter obras.WorkFilter) ([]*obras.Work, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := obras.FoldSearch(filter.Query)
	kind := obras.FoldSearch(filter.Kind)

	result := make([]*obras.Work, 0, len(r.order))
	for _, id := range r.order {
		work := r.works[id]
		if query != "" && !matchesQuery(work, query) {
			continue
		}
		if kind != "" && obras.FoldSearch(work.Kind) != kind {
			continue
		}
		result = append(result, work.Clone())
	}

	return result, nil
}

func (r *Repository) CountWorks(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order), nil
}

func matchesQuery(work *obras.Work, query string) bool {
	return strings.Contains(obras.FoldSearch(work.Title), query) ||
		strings.Contains(obras.FoldSearch(work.Author), query) ||
		strings.Contains(obras.FoldSearch(work.Content), query)
}

// User operations

func (r *Repository) CreateUser(ctx context.Context, user *obras.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := obras.NormalizeEmail(user.Email)
	if _, taken := r.usersEmail[email]; taken {
		return obras.ErrEmailTaken
	}

	user.ID = r.userIDs.Next()
	user.Email = email

	userCopy := *user
	r.users[user.ID] = &userCopy
	r.usersEmail[email] = user.ID

	return nil
}
