package handler

import (
	"net/http"

	"github.com/portfolio/backend/internal/metrics"
	"github.com/portfolio/backend/internal/repository"
	"github.com/portfolio/backend/internal/service"
	"github.com/portfolio/backend/pkg/auth"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig carries the collaborators the HTTP API is built from.
type RouterConfig struct {
	DB            repository.DB
	FrontendURL   string
	Contacts      service.ContactService
	Authenticator auth.Authenticator
	Sessions      SessionIssuer

	// Optional per-IP limits for the public POST routes.
	ContactLimiter *RateLimiter
	SessionLimiter *RateLimiter
}

// NewRouter registers every route and wraps the mux in the middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	h := New(cfg.DB, cfg.FrontendURL)
	contactHandler := NewContactHandler(cfg.Contacts)
	sessionHandler := NewAdminSessionHandler(cfg.Sessions)
	requireAdmin := auth.RequireAdmin(cfg.Authenticator)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.Handle("POST /api/contact", limit(cfg.ContactLimiter, http.HandlerFunc(contactHandler.Submit)))
	mux.Handle("POST /api/admin/session", limit(cfg.SessionLimiter, http.HandlerFunc(sessionHandler.Create)))

	mux.Handle("GET /api/admin/messages", requireAdmin(http.HandlerFunc(contactHandler.AdminList)))
	mux.Handle("PUT /api/admin/messages", requireAdmin(http.HandlerFunc(contactHandler.Update)))
	mux.Handle("DELETE /api/admin/messages", requireAdmin(http.HandlerFunc(contactHandler.Delete)))

	return RequestLogger(metrics.InstrumentHandler(SecurityHeaders(h.CORS(mux))))
}

func limit(rl *RateLimiter, next http.Handler) http.Handler {
	if rl == nil {
		return next
	}
	return rl.Middleware(next)
}
