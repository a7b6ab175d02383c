package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passvault/internal/cache"
	"passvault/internal/model"
	"passvault/internal/repository"
)

func newCache(t *testing.T) (*cache.Client, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)
	c := cache.NewWithClient(redis.NewClient(&redis.Options{
		Addr:       mini.Addr(),
		MaxRetries: -1,
	}))
	t.Cleanup(func() { _ = c.Close() })
	return c, mini
}

// interleavingRepo runs afterFind once, right after the next FindByID has
// read its snapshot.
type interleavingRepo struct {
	repository.UserRepository
	afterFind func()
}

func (r *interleavingRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := r.UserRepository.FindByID(ctx, id)
	if hook := r.afterFind; hook != nil {
		r.afterFind = nil
		hook()
	}
	return u, err
}

// addBehindService appends an entry straight to the store, bypassing the
// service and its invalidation.
func addBehindService(t *testing.T, repo repository.UserRepository, owner uuid.UUID, app string) {
	t.Helper()
	ctx := context.Background()
	u, err := repo.FindByID(ctx, owner)
	require.NoError(t, err)
	u.AddEntry(model.NewPasswordEntry(app, "me", "pw", ""))
	require.NoError(t, repo.Save(ctx, u))
}

func apps(entries []model.PasswordEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.AppName)
	}
	return out
}

func TestEntryService_CachedListing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, svc EntryService, owner uuid.UUID, first *model.PasswordEntry)
		want   []string
	}{
		{
			name:   "no mutation serves the cached listing",
			mutate: func(t *testing.T, svc EntryService, owner uuid.UUID, first *model.PasswordEntry) {},
			want:   []string{"github"},
		},
		{
			name: "add invalidates",
			mutate: func(t *testing.T, svc EntryService, owner uuid.UUID, first *model.PasswordEntry) {
				_, err := svc.AddEntry(context.Background(), owner, "mail", "me", "pw", "")
				require.NoError(t, err)
			},
			want: []string{"github", "bank", "mail"},
		},
		{
			name: "delete invalidates",
			mutate: func(t *testing.T, svc EntryService, owner uuid.UUID, first *model.PasswordEntry) {
				require.NoError(t, svc.DeleteEntry(context.Background(), owner, first.ID.String()))
			},
			want: []string{"bank"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			c, _ := newCache(t)
			repo := repository.NewMemoryUserRepository()
			svc := NewEntryService(repo, c)
			owner := newUser(t, repo, "a@example.com")

			first, err := svc.AddEntry(ctx, owner, "github", "me", "pw", "")
			require.NoError(t, err)
			warm, err := svc.ListEntries(ctx, owner)
			require.NoError(t, err)
			require.Equal(t, []string{"github"}, apps(warm))

			// only a cache hit can hide this write
			addBehindService(t, repo, owner, "bank")

			tt.mutate(t, svc, owner, first)

			entries, err := svc.ListEntries(ctx, owner)
			require.NoError(t, err)
			assert.Equal(t, tt.want, apps(entries))
		})
	}
}

func TestEntryService_WriteDuringListingMissIsNotLost(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)
	mem := repository.NewMemoryUserRepository()
	repo := &interleavingRepo{UserRepository: mem}
	svc := NewEntryService(repo, c)
	owner := newUser(t, mem, "a@example.com")

	var added *model.PasswordEntry
	repo.afterFind = func() {
		var err error
		added, err = svc.AddEntry(ctx, owner, "github", "me", "pw", "")
		require.NoError(t, err)
	}

	// this listing read its snapshot before the add landed
	stale, err := svc.ListEntries(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, stale)

	entries, err := svc.ListEntries(ctx, owner)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, added.ID, entries[0].ID)
}

func TestEntryService_CacheKeysArePerUser(t *testing.T) {
	ctx := context.Background()
	c, mini := newCache(t)
	repo := repository.NewMemoryUserRepository()
	svc := NewEntryService(repo, c)
	alice := newUser(t, repo, "alice@example.com")
	bob := newUser(t, repo, "bob@example.com")

	_, err := svc.AddEntry(ctx, alice, "bank", "alice", "pw", "")
	require.NoError(t, err)

	aliceEntries, err := svc.ListEntries(ctx, alice)
	require.NoError(t, err)
	bobEntries, err := svc.ListEntries(ctx, bob)
	require.NoError(t, err)

	assert.Len(t, aliceEntries, 1)
	assert.Empty(t, bobEntries)
	assert.True(t, mini.Exists("entries:gen:"+alice.String()))
	assert.True(t, mini.Exists("entries:gen:"+bob.String()))
}

func TestEntryService_LostGenerationDoesNotReviveListing(t *testing.T) {
	ctx := context.Background()
	c, mini := newCache(t)
	repo := repository.NewMemoryUserRepository()
	svc := NewEntryService(repo, c)
	owner := newUser(t, repo, "a@example.com")

	_, err := svc.ListEntries(ctx, owner)
	require.NoError(t, err)

	addBehindService(t, repo, owner, "github")
	mini.Del("entries:gen:" + owner.String())

	entries, err := svc.ListEntries(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"github"}, apps(entries))
}

func TestEntryService_RedisDownFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	c, mini := newCache(t)
	repo := repository.NewMemoryUserRepository()
	svc := NewEntryService(repo, c)
	owner := newUser(t, repo, "a@example.com")

	mini.Close()

	_, err := svc.AddEntry(ctx, owner, "github", "me", "pw", "")
	require.NoError(t, err)
	entries, err := svc.ListEntries(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"github"}, apps(entries))
}
