package handler

import (
	"errors"

	"github.com/dtroode/secrets-server/internal/model"
)

// Flash keys carried in the flash cookie.
const (
	flashUsernameTaken      = "username_taken"
	flashMissingCredentials = "missing_credentials"
	flashRegisterFailed     = "register_failed"
	flashLoginFailed        = "login_failed"
	flashSessionFailed      = "session_failed"
	flashOAuthFailed        = "oauth_failed"
	flashEmptySecret        = "empty_secret"
	flashSubmitFailed       = "submit_failed"
	flashUnavailable        = "unavailable"
)

var flashMessages = map[string]string{
	flashUsernameTaken:      "A user with the given username is already registered.",
	flashMissingCredentials: "Username and password are required.",
	flashRegisterFailed:     "Registration failed, please try again.",
	flashLoginFailed:        "Invalid username or password.",
	flashSessionFailed:      "Could not start a session, please log in.",
	flashOAuthFailed:        "Google sign-in failed, please try again.",
	flashEmptySecret:        "A secret cannot be empty.",
	flashSubmitFailed:       "Your secret could not be saved, please try again.",
	flashUnavailable:        "Secrets are temporarily unavailable.",
}

// flashMessage returns the text for a flash key; unknown keys show nothing.
func flashMessage(key string) string {
	return flashMessages[key]
}

func registerFlash(err error) string {
	switch {
	case errors.Is(err, model.ErrDuplicateUsername):
		return flashUsernameTaken
	case errors.Is(err, model.ErrMissingCredentials):
		return flashMissingCredentials
	default:
		return flashRegisterFailed
	}
}

func submitFlash(err error) string {
	if errors.Is(err, model.ErrEmptySecret) {
		return flashEmptySecret
	}
	return flashSubmitFailed
}
