package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/secrets-server/internal/model"
)

func localUser(name string) model.User {
	return model.User{
		Username: name,
		Local:    &model.LocalCredential{PasswordHash: []byte("hash"), Salt: []byte("salt")},
	}
}

func TestUserRepository_CreateLocal(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	u, err := r.CreateLocal(ctx, localUser("alice"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	_, err = r.CreateLocal(ctx, localUser("alice"))
	require.ErrorIs(t, err, model.ErrDuplicateUsername)

	got, err := r.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = r.CreateLocal(ctx, model.User{Username: "bob"})
	require.ErrorIs(t, err, model.ErrMissingCredentials)
}

func TestUserRepository_ConcurrentRegistration(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.CreateLocal(ctx, localUser("alice"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var created, duplicates int
	for err := range errs {
		if err == nil {
			created++
			continue
		}
		if assert.ErrorIs(t, err, model.ErrDuplicateUsername) {
			duplicates++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, n-1, duplicates)
}

func TestUserRepository_FindOrCreateOAuth_Idempotent(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	const n = 25
	ids := make(chan uuid.UUID, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := r.FindOrCreateOAuth(ctx, model.User{
				OAuth: &model.OAuthCredential{Provider: "google", Subject: "108"},
			})
			assert.NoError(t, err)
			ids <- u.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uuid.UUID]struct{})
	for id := range ids {
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 1)
	assert.Len(t, r.users, 1)

	got, err := r.GetByOAuthID(ctx, "google", "108")
	require.NoError(t, err)
	assert.Equal(t, "", got.Username)
	assert.Nil(t, got.Local)

	_, err = r.GetByOAuthID(ctx, "google", "109")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserRepository_SaveAndList(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	alice, err := r.CreateLocal(ctx, localUser("alice"))
	require.NoError(t, err)
	bob, err := r.CreateLocal(ctx, localUser("bob"))
	require.NoError(t, err)
	_, err = r.CreateLocal(ctx, localUser("carol"))
	require.NoError(t, err)

	s1 := "first"
	alice.Secret = &s1
	_, err = r.Save(ctx, alice)
	require.NoError(t, err)

	s2 := "second"
	bob.Secret = &s2
	_, err = r.Save(ctx, bob)
	require.NoError(t, err)

	list, err := r.ListWithSecret(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, bob.ID, list[0].ID)
	assert.Equal(t, alice.ID, list[1].ID)

	s3 := "replaced"
	alice.Secret = &s3
	_, err = r.Save(ctx, alice)
	require.NoError(t, err)

	got, err := r.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "replaced", got.SecretText())

	_, err = r.Save(ctx, model.User{ID: uuid.New(), Secret: &s3})
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	u, err := r.CreateLocal(ctx, localUser("alice"))
	require.NoError(t, err)

	s := "mutated"
	u.Secret = &s
	u.Local.PasswordHash[0] = 'X'

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.HasSecret())
	assert.Equal(t, []byte("hash"), got.Local.PasswordHash)
}

func TestUserRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewUserRepository()
	_, err := r.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, model.ErrPersistence)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, r.Ping(ctx), model.ErrPersistence)
}
