package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"passvault/internal/cache"
	apperrors "passvault/internal/errors"
	"passvault/internal/model"
	"passvault/internal/repository"
)

const entriesCacheTTL = 5 * time.Minute

// EntryService manages the saved credentials of one authenticated owner.
// Every method is scoped to the given user id; there is no cross-user path.
//
// Mutations read, modify and save the whole user record, so two concurrent
// writes to the same user are last-write-wins.
type EntryService interface {
	AddEntry(ctx context.Context, userID uuid.UUID, appName, username, password, category string) (*model.PasswordEntry, error)
	ListEntries(ctx context.Context, userID uuid.UUID) ([]model.PasswordEntry, error)
	DeleteEntry(ctx context.Context, userID uuid.UUID, entryID string) error
}

type entryService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewEntryService builds an EntryService. cache may be nil.
func NewEntryService(repo repository.UserRepository, cache *cache.Client) EntryService {
	return &entryService{repo: repo, cache: cache}
}

func (s *entryService) generationKey(userID uuid.UUID) string {
	return fmt.Sprintf("entries:gen:%s", userID.String())
}

// listingKey names the cached listing for the user's current generation. It
// reports false when no generation can be read and the cache must be skipped.
func (s *entryService) listingKey(ctx context.Context, userID uuid.UUID) (string, bool) {
	gen, err := s.cache.Generation(ctx, s.generationKey(userID))
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("entries:%s:%d", userID.String(), gen), true
}

// invalidate moves the user to a new generation. A listing read before the
// write may still be stored afterwards, but only under the old generation,
// where no reader looks. If the bump fails the current listing is dropped.
func (s *entryService) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx, s.generationKey(userID)); err == nil {
		return
	}
	if key, ok := s.listingKey(ctx, userID); ok {
		_ = s.cache.Delete(ctx, key)
	}
}

func (s *entryService) AddEntry(ctx context.Context, userID uuid.UUID, appName, username, password, category string) (*model.PasswordEntry, error) {
	switch {
	case appName == "":
		return nil, fmt.Errorf("%w: appName is required", apperrors.ErrValidation)
	case username == "":
		return nil, fmt.Errorf("%w: username is required", apperrors.ErrValidation)
	case password == "":
		return nil, fmt.Errorf("%w: password is required", apperrors.ErrValidation)
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry := model.NewPasswordEntry(appName, username, password, category)
	user.AddEntry(entry)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	s.invalidate(ctx, userID)

	return &entry, nil
}

func (s *entryService) ListEntries(ctx context.Context, userID uuid.UUID) ([]model.PasswordEntry, error) {
	key, cacheable := s.listingKey(ctx, userID)
	if cacheable {
		var cached []model.PasswordEntry
		if s.cache.GetJSON(ctx, key, &cached) {
			return cached, nil
		}
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := []model.PasswordEntry(user.Entries)
	if entries == nil {
		entries = []model.PasswordEntry{}
	}
	if cacheable {
		s.cache.SetJSON(ctx, key, entries, entriesCacheTTL)
	}
	return entries, nil
}

// DeleteEntry removes the entry with entryID. An unknown entry id is not an
// error and leaves the collection untouched.
func (s *entryService) DeleteEntry(ctx context.Context, userID uuid.UUID, entryID string) error {
	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	if !user.RemoveEntry(entryID) {
		return nil
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *entryService) load(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
