// Package api exposes the HTTP surface around the hub: join, websocket
// upgrade, a read-only state probe, health, and prometheus metrics.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"holdfast/server/internal/game"
	hubnet "holdfast/server/internal/net"
)

// HubInterface is the slice of the hub the HTTP layer needs. Tests swap
// in a fake without running the loop.
type HubInterface interface {
	Join() (hubnet.JoinResponse, bool)
	Latest() game.Snapshot
	ServeWS(w http.ResponseWriter, r *http.Request)
}

// RouterConfig carries the router's dependencies.
type RouterConfig struct {
	Hub HubInterface

	// RateLimit configures the join limiter; nil uses defaults.
	RateLimit *RateLimitConfig

	// CORSOrigins whitelists browser origins; empty allows any.
	CORSOrigins []string

	// DisableLogging drops the request logger, useful in tests.
	DisableLogging bool
}

// NewRouter wires the chi router.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	limitCfg := DefaultRateLimitConfig
	if cfg.RateLimit != nil {
		limitCfg = *cfg.RateLimit
	}
	limiter := NewIPRateLimiter(limitCfg)

	r.With(limiter.Middleware).Post("/join", metricsMiddleware("/join", joinHandler(cfg.Hub)))
	r.Get("/ws", cfg.Hub.ServeWS)
	r.Get("/state", metricsMiddleware("/state", stateHandler(cfg.Hub)))
	r.Get("/healthz", metricsMiddleware("/healthz", healthHandler))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func joinHandler(hub HubInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, ok := hub.Join()
		if !ok {
			http.Error(w, "session full", http.StatusConflict)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func stateHandler(hub HubInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, hub.Latest())
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "encode failed", http.StatusInternalServerError)
	}
}
