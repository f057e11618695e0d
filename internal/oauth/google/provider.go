// Package google implements the Google account provider for the
// authorization-code sign-in flow.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"github.com/dtroode/secrets-server/internal/model"
)

const (
	// ProviderName is stored with every user created through Google.
	ProviderName = "google"

	userInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
)

// Provider exchanges Google authorization codes for profiles.
type Provider struct {
	config      *oauth2.Config
	userInfoURL string
	client      *http.Client
}

// New creates a Google provider that requests the basic profile scope.
func New(clientID, clientSecret, callbackURL string, timeout time.Duration) *Provider {
	return newProvider(&oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  callbackURL,
		Scopes:       []string{"profile"},
		Endpoint:     googleoauth.Endpoint,
	}, userInfoURL, timeout)
}

func newProvider(config *oauth2.Config, userInfoURL string, timeout time.Duration) *Provider {
	return &Provider{
		config:      config,
		userInfoURL: userInfoURL,
		client:      &http.Client{Timeout: timeout},
	}
}

func (p *Provider) Name() string {
	return ProviderName
}

// AuthCodeURL returns the consent page URL carrying state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

type userInfo struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Exchange trades the authorization code for a token and fetches the profile.
func (p *Provider) Exchange(ctx context.Context, code string) (model.OAuthProfile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)

	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return model.OAuthProfile{}, fmt.Errorf("failed to exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return model.OAuthProfile{}, fmt.Errorf("failed to build userinfo request: %w", err)
	}

	resp, err := p.config.Client(ctx, tok).Do(req)
	if err != nil {
		return model.OAuthProfile{}, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.OAuthProfile{}, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return model.OAuthProfile{}, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if info.Sub == "" {
		return model.OAuthProfile{}, fmt.Errorf("userinfo has no subject")
	}

	return model.OAuthProfile{
		Subject: info.Sub,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
