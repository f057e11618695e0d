package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/secrets-server/internal/mocks"
	"github.com/dtroode/secrets-server/internal/model"
	"github.com/dtroode/secrets-server/internal/repository/memory"
	"github.com/dtroode/secrets-server/internal/testutil"
)

var testKDF = NewKDFParams(1, 1024, 1)

func newTestCredentials(t *testing.T, store model.UserStore) *Credentials {
	t.Helper()

	c, err := NewCredentials(store, testKDF, testutil.MakeNoopLogger())
	require.NoError(t, err)
	return c
}

func TestCredentials_Register(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewUserStore(t)

	store.On("GetByUsername", mock.Anything, "alice").Return(model.User{}, model.ErrNotFound).Once()
	store.On("CreateLocal", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Username == "alice" &&
			u.Local != nil &&
			len(u.Local.Salt) == saltLength &&
			len(u.Local.PasswordHash) == keyLength &&
			!bytes.Contains(u.Local.PasswordHash, []byte("pw1"))
	})).Return(func(_ context.Context, u model.User) (model.User, error) {
		return u, nil
	}).Once()

	c := newTestCredentials(t, store)

	user, err := c.Register(ctx, "  alice ", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.JSONEq(t, `{"time":1,"mem_kib":1024,"par":1}`, string(user.Local.KDF))
}

func TestCredentials_Register_MissingCredentials(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "empty username", username: "", password: "pw"},
		{name: "blank username", username: "   ", password: "pw"},
		{name: "empty password", username: "alice", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCredentials(t, mocks.NewUserStore(t))

			_, err := c.Register(context.Background(), tt.username, tt.password)
			assert.ErrorIs(t, err, model.ErrMissingCredentials)
		})
	}
}

func TestCredentials_Register_Duplicate(t *testing.T) {
	store := mocks.NewUserStore(t)
	store.On("GetByUsername", mock.Anything, "alice").Return(model.User{Username: "alice"}, nil).Once()

	c := newTestCredentials(t, store)

	_, err := c.Register(context.Background(), "alice", "pw")
	assert.ErrorIs(t, err, model.ErrDuplicateUsername)
	store.AssertNotCalled(t, "CreateLocal", mock.Anything, mock.Anything)
}

func TestCredentials_Register_DuplicateOnCreate(t *testing.T) {
	store := mocks.NewUserStore(t)
	store.On("GetByUsername", mock.Anything, "alice").Return(model.User{}, model.ErrNotFound).Once()
	store.On("CreateLocal", mock.Anything, mock.Anything).Return(model.User{}, model.ErrDuplicateUsername).Once()

	c := newTestCredentials(t, store)

	_, err := c.Register(context.Background(), "alice", "pw")
	assert.ErrorIs(t, err, model.ErrDuplicateUsername)
}

func TestCredentials_Register_StoreError(t *testing.T) {
	store := mocks.NewUserStore(t)
	store.On("GetByUsername", mock.Anything, "alice").
		Return(model.User{}, model.NewPersistenceError("get user", assert.AnError)).Once()

	c := newTestCredentials(t, store)

	_, err := c.Register(context.Background(), "alice", "pw")
	assert.ErrorIs(t, err, model.ErrPersistence)
	assert.NotErrorIs(t, err, model.ErrDuplicateUsername)
}

func TestCredentials_Register_DistinctSalts(t *testing.T) {
	ctx := context.Background()
	c := newTestCredentials(t, memory.NewUserRepository())

	a, err := c.Register(ctx, "alice", "same")
	require.NoError(t, err)
	b, err := c.Register(ctx, "bob", "same")
	require.NoError(t, err)

	assert.NotEqual(t, a.Local.Salt, b.Local.Salt)
	assert.NotEqual(t, a.Local.PasswordHash, b.Local.PasswordHash)
}

func TestCredentials_Verify(t *testing.T) {
	ctx := context.Background()
	store := memory.NewUserRepository()
	c := newTestCredentials(t, store)

	registered, err := c.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = store.FindOrCreateOAuth(ctx, model.User{
		OAuth: &model.OAuthCredential{Provider: "google", Subject: "123"},
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "correct password", username: "alice", password: "pw1"},
		{name: "wrong password", username: "alice", password: "pw2", wantErr: model.ErrAuthenticationFailed},
		{name: "unknown user", username: "mallory", password: "pw1", wantErr: model.ErrAuthenticationFailed},
		{name: "empty password", username: "alice", password: "", wantErr: model.ErrAuthenticationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := c.Verify(ctx, tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, registered.ID, user.ID)
		})
	}
}

func TestCredentials_Verify_NoLocalCredential(t *testing.T) {
	store := mocks.NewUserStore(t)
	store.On("GetByUsername", mock.Anything, "alice").Return(model.User{Username: "alice"}, nil).Once()

	c := newTestCredentials(t, store)

	_, err := c.Verify(context.Background(), "alice", "pw")
	assert.ErrorIs(t, err, model.ErrAuthenticationFailed)
}

func TestCredentials_Verify_StoreError(t *testing.T) {
	store := mocks.NewUserStore(t)
	store.On("GetByUsername", mock.Anything, "alice").
		Return(model.User{}, model.NewPersistenceError("get user", assert.AnError)).Once()

	c := newTestCredentials(t, store)

	_, err := c.Verify(context.Background(), "alice", "pw")
	assert.ErrorIs(t, err, model.ErrPersistence)
}

func TestCredentials_Verify_UsesStoredKDF(t *testing.T) {
	ctx := context.Background()
	store := memory.NewUserRepository()

	_, err := newTestCredentials(t, store).Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	stronger, err := NewCredentials(store, NewKDFParams(2, 2048, 1), testutil.MakeNoopLogger())
	require.NoError(t, err)

	_, err = stronger.Verify(ctx, "alice", "pw1")
	assert.NoError(t, err)
}
