package handlers

import (
	"net/http"
	"time"

	"imagehost/internal/middleware"

	"github.com/gorilla/mux"
)

// NewRouter registers the operational routes. Matched requests are
// recorded by the metrics middleware.
func NewRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Metrics)

	r.Handle("/metrics", h.MetricsHandler()).Methods("GET")
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, "not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	return r
}

// NewServer returns an HTTP server for the operational routes on addr.
func NewServer(addr string, h *Handlers) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           middleware.Logger(middleware.DefaultLoggingConfig())(NewRouter(h)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
