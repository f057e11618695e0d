package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrDuplicateUsername    = errors.New("username already taken")
	ErrMissingCredentials   = errors.New("username and password are required")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrOAuthProvider        = errors.New("oauth provider failure")
	ErrPersistence          = errors.New("persistence failure")
	ErrEmptySecret          = errors.New("secret is empty")
	ErrSessionExpired       = errors.New("session expired")
	ErrInvalidToken         = errors.New("invalid token")
)

// PersistenceError is returned by stores when the backing storage fails.
// It matches ErrPersistence with errors.Is.
type PersistenceError struct {
	Op  string
	Err error
}

// NewPersistenceError wraps err as a failure of operation op.
func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
