package model

import "context"

// OAuthProvider is an external identity provider reached by redirect and callback.
type OAuthProvider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (OAuthProfile, error)
}

// OAuthProfile is the subset of the provider profile the application uses.
type OAuthProfile struct {
	Subject string
	Name    string
	Picture string
}

// OAuthCallback carries the query parameters of a provider callback.
type OAuthCallback struct {
	State string
	Code  string
	Error string
}
