package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"github.com/dtroode/secrets-server/internal/logger"
	"github.com/dtroode/secrets-server/internal/model"
)

const (
	saltLength = 16
	keyLength  = 32
)

// KDFParams are the argon2id parameters a password hash was derived with.
type KDFParams struct {
	Time   uint32 `json:"time"`
	MemKiB uint32 `json:"mem_kib"`
	Par    uint8  `json:"par"`
}

// NewKDFParams returns KDF parameters from configuration values.
func NewKDFParams(time, memKiB uint32, par uint8) KDFParams {
	return KDFParams{Time: time, MemKiB: memKiB, Par: par}
}

// Credentials registers and verifies users with local passwords.
type Credentials struct {
	userStore model.UserStore
	kdf       KDFParams
	logger    *logger.Logger
	decoy     model.LocalCredential
}

func NewCredentials(userStore model.UserStore, kdf KDFParams, logger *logger.Logger) (*Credentials, error) {
	c := &Credentials{
		userStore: userStore,
		kdf:       kdf,
		logger:    logger,
	}

	decoy, err := c.derive(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("failed to derive decoy credential: %w", err)
	}
	c.decoy = decoy

	return c, nil
}

// Register creates a local user. The password is stored only as a salted argon2id hash.
func (c *Credentials) Register(ctx context.Context, username, password string) (model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.User{}, model.ErrMissingCredentials
	}

	c.logger.Debug("Credentials service: starting user registration",
		"username", username)

	_, err := c.userStore.GetByUsername(ctx, username)
	if err == nil {
		c.logger.Info("Credentials service: username already taken",
			"username", username)
		return model.User{}, model.ErrDuplicateUsername
	}
	if !errors.Is(err, model.ErrNotFound) {
		c.logger.Error("Credentials service: failed to get user by username",
			"username", username,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	credential, err := c.derive(password)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to derive password hash: %w", err)
	}

	user, err := c.userStore.CreateLocal(ctx, model.User{
		ID:       uuid.New(),
		Username: username,
		Local:    &credential,
	})
	if errors.Is(err, model.ErrDuplicateUsername) {
		c.logger.Info("Credentials service: username taken concurrently",
			"username", username)
		return model.User{}, err
	}
	if err != nil {
		c.logger.Error("Credentials service: failed to create user",
			"username", username,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	c.logger.Info("Credentials service: user registration completed successfully",
		"username", username,
		"user_id", user.ID)

	return user, nil
}

// Verify checks a username and password. Unknown users and wrong passwords both
// yield ErrAuthenticationFailed after the same amount of hashing work.
func (c *Credentials) Verify(ctx context.Context, username, password string) (model.User, error) {
	username = strings.TrimSpace(username)

	user, err := c.userStore.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		c.logger.Error("Credentials service: failed to get user by username",
			"username", username,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	if err != nil || user.Local == nil {
		c.matches(c.decoy, password)
		c.logger.Info("Credentials service: login rejected",
			"username", username)
		return model.User{}, model.ErrAuthenticationFailed
	}

	if !c.matches(*user.Local, password) {
		c.logger.Info("Credentials service: login rejected",
			"username", username)
		return model.User{}, model.ErrAuthenticationFailed
	}

	c.logger.Info("Credentials service: login completed successfully",
		"username", username,
		"user_id", user.ID)

	return user, nil
}

func (c *Credentials) derive(password string) (model.LocalCredential, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return model.LocalCredential{}, fmt.Errorf("failed to generate salt: %w", err)
	}

	marshaledKDF, err := json.Marshal(c.kdf)
	if err != nil {
		return model.LocalCredential{}, fmt.Errorf("failed to marshal kdf params: %w", err)
	}

	return model.LocalCredential{
		PasswordHash: hashPassword(password, salt, c.kdf),
		Salt:         salt,
		KDF:          marshaledKDF,
	}, nil
}

// matches recomputes the hash with the parameters stored next to it.
func (c *Credentials) matches(credential model.LocalCredential, password string) bool {
	params := c.kdf
	if len(credential.KDF) > 0 {
		var stored KDFParams
		if err := json.Unmarshal(credential.KDF, &stored); err == nil && stored.Time > 0 && stored.Par > 0 {
			params = stored
		}
	}

	return equalBytes(hashPassword(password, credential.Salt, params), credential.PasswordHash)
}

func hashPassword(password string, salt []byte, params KDFParams) []byte {
	return argon2.IDKey([]byte(password), salt, params.Time, params.MemKiB, params.Par, keyLength)
}

func equalBytes(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
