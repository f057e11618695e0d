package handler

import (
	"bytes"
	"io"
	"net/http"

	"github.com/dtroode/secrets-server/internal/api/http/cookie"
	"github.com/dtroode/secrets-server/internal/logger"
	"github.com/dtroode/secrets-server/internal/model"
	"github.com/dtroode/secrets-server/internal/view"
)

// Renderer renders a named HTML page.
type Renderer interface {
	Render(w io.Writer, name string, data view.Data) error
}

type pageWriter struct {
	renderer       Renderer
	contextManager model.ContextManager
	cookies        *cookie.Jar
	logger         *logger.Logger
}

// write renders a page with the request's auth state and pending flash.
func (p *pageWriter) write(w http.ResponseWriter, r *http.Request, status int, name string, data view.Data) {
	if identity, ok := p.contextManager.GetIdentityFromContext(r.Context()); ok {
		data.Authenticated = true
		data.Username = identity.Username
	}
	if key := p.cookies.PopFlash(w, r); key != "" && data.Flash == "" {
		data.Flash = flashMessage(key)
	}

	var buf bytes.Buffer
	if err := p.renderer.Render(&buf, name, data); err != nil {
		p.logger.Error("failed to render page",
			"page", name,
			"error", err.Error())
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
