package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/secrets-server/internal/api/http/cookie"
	"github.com/dtroode/secrets-server/internal/mocks"
	"github.com/dtroode/secrets-server/internal/model"
	"github.com/dtroode/secrets-server/internal/testutil"
)

func TestOAuth_Begin(t *testing.T) {
	svc := mocks.NewOAuthService(t)
	svc.On("Initiate").Return("https://accounts.example.com/auth?state=s1", "state-token", nil).Once()

	h := NewOAuth(svc, mocks.NewSessionService(t), cookie.NewJar(false), testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	h.Begin(rec, httptest.NewRequest(http.MethodGet, "/auth/google", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://accounts.example.com/auth?state=s1", rec.Header().Get("Location"))
	state, _, _ := cookieValue(rec, cookie.StateName)
	assert.Equal(t, "state-token", state)
}

func TestOAuth_Begin_Error(t *testing.T) {
	svc := mocks.NewOAuthService(t)
	svc.On("Initiate").Return("", "", assert.AnError).Once()

	h := NewOAuth(svc, mocks.NewSessionService(t), cookie.NewJar(false), testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	h.Begin(rec, httptest.NewRequest(http.MethodGet, "/auth/google", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestOAuth_Callback(t *testing.T) {
	user := model.User{ID: uuid.New(), OAuth: &model.OAuthCredential{Provider: "google", Subject: "123"}}
	identity := model.Identity{UserID: user.ID}
	callback := model.OAuthCallback{State: "s1", Code: "c1"}

	svc := mocks.NewOAuthService(t)
	sessions := mocks.NewSessionService(t)
	svc.On("Callback", mock.Anything, "state-token", callback).Return(user, nil).Once()
	sessions.On("Serialize", user).Return(identity).Once()
	sessions.On("Establish", mock.Anything, identity).Return("session-token", time.Now().Add(time.Hour), nil).Once()

	h := NewOAuth(svc, sessions, cookie.NewJar(false), testutil.MakeNoopLogger())

	req := httptest.NewRequest(http.MethodGet, "/auth/google/secrets?state=s1&code=c1", nil)
	req.AddCookie(&http.Cookie{Name: cookie.StateName, Value: "state-token"})
	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/secrets", rec.Header().Get("Location"))
	token, _, _ := cookieValue(rec, cookie.SessionName)
	assert.Equal(t, "session-token", token)
	_, stateDeleted, _ := cookieValue(rec, cookie.StateName)
	assert.True(t, stateDeleted)
}

func TestOAuth_Callback_Failure(t *testing.T) {
	svc := mocks.NewOAuthService(t)
	svc.On("Callback", mock.Anything, "", model.OAuthCallback{Error: "access_denied"}).
		Return(model.User{}, model.ErrOAuthProvider).Once()

	h := NewOAuth(svc, mocks.NewSessionService(t), cookie.NewJar(false), testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	h.Callback(rec, httptest.NewRequest(http.MethodGet, "/auth/google/secrets?error=access_denied", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	_, _, hasSession := cookieValue(rec, cookie.SessionName)
	assert.False(t, hasSession)
	flash, _, _ := cookieValue(rec, cookie.FlashName)
	assert.Equal(t, flashOAuthFailed, flash)
}
