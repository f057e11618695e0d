package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dtroode/secrets-server/internal/view"
)

func newRenderer(t *testing.T) *view.Renderer {
	t.Helper()

	r, err := view.NewRenderer()
	require.NoError(t, err)
	return r
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// cookieValue returns the value set for name, and whether it was deleted.
func cookieValue(rec *httptest.ResponseRecorder, name string) (string, bool, bool) {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c.Value, c.MaxAge < 0, true
		}
	}
	return "", false, false
}
