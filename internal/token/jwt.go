package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/secrets-server/internal/model"
)

// Claims represents JWT claims with token type and the OAuth state.
type Claims struct {
	jwt.RegisteredClaims
	State     string `json:"state,omitempty"`
	TokenType string `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey []byte
	now       func() time.Time
}

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string) *JWT {
	return &JWT{secretKey: []byte(secretKey), now: time.Now}
}

var _ model.TokenManager = (*JWT)(nil)

const (
	stateTTL    = 10 * time.Minute
	typeSession = "session"
	typeState   = "oauth_state"
	issuer      = "secrets-server"
)

// GenerateSessionToken signs a cookie value referencing the server-side session.
func (j *JWT) GenerateSessionToken(sessionID uuid.UUID, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID.String(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(j.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		TokenType: typeSession,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// ParseSessionToken validates a session cookie value and returns the session ID.
func (j *JWT) ParseSessionToken(tokenString string) (uuid.UUID, error) {
	claims, err := j.parse(tokenString, typeSession)
	if err != nil {
		return uuid.Nil, err
	}

	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad session id", model.ErrInvalidToken)
	}

	return sessionID, nil
}

// GenerateStateToken signs the OAuth state so the callback can be matched to its initiation.
func (j *JWT) GenerateStateToken(state string) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
		},
		State:     state,
		TokenType: typeState,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign state token: %w", err)
	}

	return tokenString, nil
}

// ParseStateToken validates a state cookie value and returns the state.
func (j *JWT) ParseStateToken(tokenString string) (string, error) {
	claims, err := j.parse(tokenString, typeState)
	if err != nil {
		return "", err
	}
	if claims.State == "" {
		return "", fmt.Errorf("%w: empty state", model.ErrInvalidToken)
	}

	return claims.State, nil
}

func (j *JWT) parse(tokenString, tokenType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, model.ErrSessionExpired
		}
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, model.ErrInvalidToken
	}
	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("%w: token type mismatch: %s", model.ErrInvalidToken, claims.TokenType)
	}

	return claims, nil
}
