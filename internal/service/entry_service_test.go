package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "passvault/internal/errors"
	"passvault/internal/model"
	"passvault/internal/repository"
)

func newUser(t *testing.T, repo repository.UserRepository, email string) uuid.UUID {
	t.Helper()
	u := &model.User{Email: email, PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), u))
	return u.ID
}

func TestEntryService_AddThenList(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryUserRepository()
	svc := NewEntryService(repo, nil)
	owner := newUser(t, repo, "a@example.com")

	created, err := svc.AddEntry(ctx, owner, "github", "octo", "s3cret", "dev")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	entries, err := svc.ListEntries(ctx, owner)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, *created, entries[0])
	assert.Equal(t, "s3cret", entries[0].Password)
}

func TestEntryService_AddEntry_Validation(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryUserRepository()
	svc := NewEntryService(repo, nil)
	owner := newUser(t, repo, "a@example.com")

	tests := []struct {
		name                      string
		appName, username, secret string
	}{
		{"missing app", "", "octo", "pw"},
		{"missing username", "github", "", "pw"},
		{"missing secret", "github", "octo", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := svc.AddEntry(ctx, owner, tt.appName, tt.username, tt.secret, "")
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Nil(t, entry)
		})
	}

	entries, err := svc.ListEntries(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEntryService_UnknownUser(t *testing.T) {
	ctx := context.Background()
	svc := NewEntryService(repository.NewMemoryUserRepository(), nil)
	ghost := uuid.New()

	_, err := svc.AddEntry(ctx, ghost, "github", "octo", "pw", "")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = svc.ListEntries(ctx, ghost)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	err = svc.DeleteEntry(ctx, ghost, uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestEntryService_CrossUserIsolation(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryUserRepository()
	svc := NewEntryService(repo, nil)
	alice := newUser(t, repo, "alice@example.com")
	bob := newUser(t, repo, "bob@example.com")

	aliceEntry, err := svc.AddEntry(ctx, alice, "bank", "alice", "pw-a", "")
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, bob, "mail", "bob", "pw-b", "")
	require.NoError(t, err)

	bobs, err := svc.ListEntries(ctx, bob)
	require.NoError(t, err)
	require.Len(t, bobs, 1)
	assert.Equal(t, "bob", bobs[0].Username)

	// bob deleting alice's entry id touches nothing of alice's
	require.NoError(t, svc.DeleteEntry(ctx, bob, aliceEntry.ID.String()))
	alices, err := svc.ListEntries(ctx, alice)
	require.NoError(t, err)
	require.Len(t, alices, 1)
	assert.Equal(t, aliceEntry.ID, alices[0].ID)
}

func TestEntryService_DeleteEntry(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryUserRepository()
	svc := NewEntryService(repo, nil)
	owner := newUser(t, repo, "a@example.com")

	var ids []uuid.UUID
	for _, app := range []string{"one", "two", "three"} {
		e, err := svc.AddEntry(ctx, owner, app, "me", "pw", "")
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}

	t.Run("unknown id is a no-op", func(t *testing.T) {
		require.NoError(t, svc.DeleteEntry(ctx, owner, uuid.NewString()))
		require.NoError(t, svc.DeleteEntry(ctx, owner, "not-an-id"))
		entries, err := svc.ListEntries(ctx, owner)
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})

	t.Run("existing id removes exactly one", func(t *testing.T) {
		require.NoError(t, svc.DeleteEntry(ctx, owner, ids[1].String()))
		entries, err := svc.ListEntries(ctx, owner)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, ids[0], entries[0].ID)
		assert.Equal(t, ids[2], entries[1].ID)
	})
}

func TestEntryService_DeleteUnknownDoesNotSave(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	owner := uuid.New()
	mockRepo.On("FindByID", mock.Anything, owner).Return(&model.User{ID: owner, Entries: model.Entries{}}, nil)

	svc := NewEntryService(mockRepo, nil)
	require.NoError(t, svc.DeleteEntry(ctx, owner, uuid.NewString()))

	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestEntryService_SaveFailure(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	owner := uuid.New()
	mockRepo.On("FindByID", mock.Anything, owner).Return(&model.User{ID: owner}, nil)
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.User")).Return(errors.New("disk full"))

	svc := NewEntryService(mockRepo, nil)
	entry, err := svc.AddEntry(ctx, owner, "github", "octo", "pw", "")
	assert.Nil(t, entry)
	assert.Error(t, err)
	assert.True(t, apperrors.IsInternal(err))
	mockRepo.AssertExpectations(t)
}
