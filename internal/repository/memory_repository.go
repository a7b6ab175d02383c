package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "passvault/internal/errors"
	"passvault/internal/model"
)

// MemoryUserRepository keeps users in process memory. The email index is
// checked under the same lock as the insert, mirroring a unique index.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]model.User
	byEmail map[string]uuid.UUID
}

var _ UserRepository = (*MemoryUserRepository)(nil)

// NewMemoryUserRepository returns an empty in-memory store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[uuid.UUID]model.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *model.User) error {
	if err := user.BeforeCreate(nil); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return apperrors.ErrEmailTaken
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.byID[user.ID] = clone(*user)
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	out := clone(u)
	return &out, nil
}

func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *MemoryUserRepository) Save(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[user.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	stored.Entries = clone(*user).Entries
	stored.UpdatedAt = time.Now()
	r.byID[user.ID] = stored
	return nil
}

// clone copies the entry slice so callers never share backing arrays with the store.
func clone(u model.User) model.User {
	entries := make(model.Entries, len(u.Entries))
	copy(entries, u.Entries)
	u.Entries = entries
	return u
}
