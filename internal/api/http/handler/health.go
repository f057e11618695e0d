package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/secrets-server/internal/logger"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports liveness of the server and its store.
type Health struct {
	pinger Pinger
	logger *logger.Logger
}

func NewHealth(pinger Pinger, logger *logger.Logger) *Health {
	return &Health{pinger: pinger, logger: logger}
}

func (h *Health) Check(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if err := h.pinger.Ping(r.Context()); err != nil {
		h.logger.Error("Health handler: store ping failed",
			"error", err.Error())
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("UNAVAILABLE"))
		return
	}

	_, _ = w.Write([]byte("OK"))
}
