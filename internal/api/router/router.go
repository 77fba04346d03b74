package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/wolfman30/igdm-router/internal/http/middleware"
	"github.com/wolfman30/igdm-router/pkg/logging"
)

// WebhookHandler serves the Meta webhook endpoint.
type WebhookHandler interface {
	HandleVerification(w http.ResponseWriter, r *http.Request)
	HandleWebhook(w http.ResponseWriter, r *http.Request)
}

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	Webhook        WebhookHandler
	MetricsHandler http.Handler

	// RateLimiter guards /webhook when set.
	RateLimiter *httpmiddleware.RateLimiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.Webhook != nil {
		r.Group(func(webhook chi.Router) {
			if cfg.RateLimiter != nil {
				webhook.Use(cfg.RateLimiter.Middleware)
			}
			webhook.Get("/webhook", cfg.Webhook.HandleVerification)
			webhook.Post("/webhook", cfg.Webhook.HandleWebhook)
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
