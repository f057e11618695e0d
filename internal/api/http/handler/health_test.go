package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/secrets-server/internal/mocks"
	"github.com/dtroode/secrets-server/internal/model"
	"github.com/dtroode/secrets-server/internal/testutil"
)

func TestHealth_Check(t *testing.T) {
	tests := []struct {
		name     string
		pingErr  error
		wantCode int
		wantBody string
	}{
		{name: "healthy", wantCode: http.StatusOK, wantBody: "OK"},
		{name: "store down", pingErr: model.NewPersistenceError("ping", assert.AnError), wantCode: http.StatusServiceUnavailable, wantBody: "UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewUserStore(t)
			store.On("Ping", mock.Anything).Return(tt.pingErr).Once()

			h := NewHealth(store, testutil.MakeNoopLogger())

			rec := httptest.NewRecorder()
			h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}
