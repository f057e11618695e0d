package handler

import (
	"net/http"

	"github.com/dtroode/secrets-server/internal/api/http/cookie"
	"github.com/dtroode/secrets-server/internal/logger"
	"github.com/dtroode/secrets-server/internal/model"
	"github.com/dtroode/secrets-server/internal/view"
)

// Pages serves the static forms and the landing page.
type Pages struct {
	pages *pageWriter
}

// NewPages creates a new Pages handler.
func NewPages(renderer Renderer, contextManager model.ContextManager, cookies *cookie.Jar, logger *logger.Logger) *Pages {
	return &Pages{
		pages: &pageWriter{
			renderer:       renderer,
			contextManager: contextManager,
			cookies:        cookies,
			logger:         logger,
		},
	}
}

func (h *Pages) Home(w http.ResponseWriter, r *http.Request) {
	h.pages.write(w, r, http.StatusOK, view.PageHome, view.Data{})
}

func (h *Pages) Register(w http.ResponseWriter, r *http.Request) {
	h.pages.write(w, r, http.StatusOK, view.PageRegister, view.Data{})
}

func (h *Pages) Login(w http.ResponseWriter, r *http.Request) {
	h.pages.write(w, r, http.StatusOK, view.PageLogin, view.Data{})
}

// Submit renders the secret form. Mounted behind RequireAuth.
func (h *Pages) Submit(w http.ResponseWriter, r *http.Request) {
	h.pages.write(w, r, http.StatusOK, view.PageSubmit, view.Data{})
}
