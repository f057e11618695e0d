package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/secrets-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const userColumns = `id, username, password_hash, password_salt, kdf, oauth_provider, oauth_subject, secret, created_at, updated_at`

type UserRepository struct {
	db  DBTX
	now func() time.Time
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{
		db:  db,
		now: time.Now,
	}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, model.NewPersistenceError("get user by id", err)
	}

	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, model.NewPersistenceError("get user by username", err)
	}

	return user, nil
}

func (r *UserRepository) GetByOAuthID(ctx context.Context, provider, subject string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE oauth_provider = $1 AND oauth_subject = $2`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, provider, subject))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, model.NewPersistenceError("get user by oauth id", err)
	}

	return user, nil
}

// ListWithSecret returns users that submitted a secret, most recently updated first.
func (r *UserRepository) ListWithSecret(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE secret IS NOT NULL ORDER BY updated_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, model.NewPersistenceError("list users with secret", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, model.NewPersistenceError("scan user", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewPersistenceError("list users with secret", err)
	}

	return users, nil
}

// CreateLocal inserts a locally registered user. The unique index on username
// turns concurrent registrations of one name into ErrDuplicateUsername.
func (r *UserRepository) CreateLocal(ctx context.Context, user model.User) (model.User, error) {
	if user.Local == nil {
		return model.User{}, model.ErrMissingCredentials
	}
	query := `INSERT INTO users (id, username, password_hash, password_salt, kdf, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING ` + userColumns

	user = r.stamp(user)
	saved, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.Local.PasswordHash, user.Local.Salt, user.Local.KDF,
		user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrDuplicateUsername
		}
		return model.User{}, model.NewPersistenceError("create local user", err)
	}

	return saved, nil
}

// FindOrCreateOAuth returns the user bound to the OAuth identity, creating it
// in the same statement when absent.
func (r *UserRepository) FindOrCreateOAuth(ctx context.Context, user model.User) (model.User, error) {
	if user.OAuth == nil {
		return model.User{}, model.ErrMissingCredentials
	}
	query := `INSERT INTO users (id, oauth_provider, oauth_subject, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (oauth_provider, oauth_subject) DO UPDATE SET oauth_subject = EXCLUDED.oauth_subject
			  RETURNING ` + userColumns

	user = r.stamp(user)
	saved, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.ID, user.OAuth.Provider, user.OAuth.Subject, user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		return model.User{}, model.NewPersistenceError("find or create oauth user", err)
	}

	return saved, nil
}

// Save persists the mutable fields of user.
func (r *UserRepository) Save(ctx context.Context, user model.User) (model.User, error) {
	query := `UPDATE users SET secret = $2, updated_at = $3 WHERE id = $1
			  RETURNING ` + userColumns

	var secret sql.NullString
	if user.Secret != nil {
		secret = sql.NullString{String: *user.Secret, Valid: true}
	}

	saved, err := scanUser(r.db.QueryRowContext(ctx, query, user.ID, secret, r.now().UTC()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, model.NewPersistenceError("save user", err)
	}

	return saved, nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return model.NewPersistenceError("ping database", err)
	}
	return nil
}

func (r *UserRepository) stamp(user model.User) model.User {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := r.now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}
	return user
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (model.User, error) {
	var (
		user                        model.User
		username, provider, subject sql.NullString
		secret                      sql.NullString
		hash, salt, kdf             []byte
	)

	err := row.Scan(
		&user.ID, &username, &hash, &salt, &kdf, &provider, &subject, &secret,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return model.User{}, err
	}

	user.Username = username.String
	if hash != nil {
		user.Local = &model.LocalCredential{PasswordHash: hash, Salt: salt, KDF: kdf}
	}
	if subject.Valid {
		user.OAuth = &model.OAuthCredential{Provider: provider.String, Subject: subject.String}
	}
	if secret.Valid {
		s := secret.String
		user.Secret = &s
	}

	return user, nil
}
