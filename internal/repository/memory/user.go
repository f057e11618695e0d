// Package memory implements the stores on process memory. It backs local runs
// and tests where no database is available.
package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/secrets-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type oauthKey struct {
	provider string
	subject  string
}

type UserRepository struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]model.User
	byUsername map[string]uuid.UUID
	byOAuth    map[oauthKey]uuid.UUID
	now        func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:      make(map[uuid.UUID]model.User),
		byUsername: make(map[string]uuid.UUID),
		byOAuth:    make(map[oauthKey]uuid.UUID),
		now:        time.Now,
	}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, model.NewPersistenceError("get user by id", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return clone(u), nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, model.NewPersistenceError("get user by username", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return clone(r.users[id]), nil
}

func (r *UserRepository) GetByOAuthID(ctx context.Context, provider, subject string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, model.NewPersistenceError("get user by oauth id", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byOAuth[oauthKey{provider: provider, subject: subject}]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return clone(r.users[id]), nil
}

// ListWithSecret returns users that submitted a secret, most recently updated first.
func (r *UserRepository) ListWithSecret(ctx context.Context) ([]model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, model.NewPersistenceError("list users with secret", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]model.User, 0)
	for _, u := range r.users {
		if u.HasSecret() {
			users = append(users, clone(u))
		}
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].UpdatedAt.Equal(users[j].UpdatedAt) {
			return users[i].UpdatedAt.After(users[j].UpdatedAt)
		}
		return bytes.Compare(users[i].ID[:], users[j].ID[:]) < 0
	})
	return users, nil
}

func (r *UserRepository) CreateLocal(ctx context.Context, user model.User) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, model.NewPersistenceError("create local user", err)
	}
	if user.Local == nil || user.Username == "" {
		return model.User{}, model.ErrMissingCredentials
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byUsername[user.Username]; taken {
		return model.User{}, model.ErrDuplicateUsername
	}

	user = r.stamp(user)
	r.users[user.ID] = clone(user)
	r.byUsername[user.Username] = user.ID
	return clone(user), nil
}

func (r *UserRepository) FindOrCreateOAuth(ctx context.Context, user model.User) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, model.NewPersistenceError("find or create oauth user", err)
	}
	if user.OAuth == nil {
		return model.User{}, model.ErrMissingCredentials
	}
	key := oauthKey{provider: user.OAuth.Provider, subject: user.OAuth.Subject}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byOAuth[key]; ok {
		return clone(r.users[id]), nil
	}

	user = r.stamp(user)
	user.Username = ""
	user.Local = nil
	r.users[user.ID] = clone(user)
	r.byOAuth[key] = user.ID
	return clone(user), nil
}

func (r *UserRepository) Save(ctx context.Context, user model.User) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, model.NewPersistenceError("save user", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	stored.Secret = nil
	if user.Secret != nil {
		s := *user.Secret
		stored.Secret = &s
	}
	stored.UpdatedAt = r.now().UTC()
	r.users[stored.ID] = stored
	return clone(stored), nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return model.NewPersistenceError("ping memory store", err)
	}
	return nil
}

func (r *UserRepository) stamp(user model.User) model.User {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := r.now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	return user
}

func clone(u model.User) model.User {
	if u.Local != nil {
		local := *u.Local
		local.PasswordHash = bytes.Clone(local.PasswordHash)
		local.Salt = bytes.Clone(local.Salt)
		local.KDF = bytes.Clone(local.KDF)
		u.Local = &local
	}
	if u.OAuth != nil {
		oauth := *u.OAuth
		u.OAuth = &oauth
	}
	if u.Secret != nil {
		s := *u.Secret
		u.Secret = &s
	}
	return u
}
