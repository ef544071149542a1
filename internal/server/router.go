package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danparkr/nrfcloud-appwrite-webhook/internal/handlers"
	"github.com/danparkr/nrfcloud-appwrite-webhook/internal/middleware"
)

// NewRouter constructs the HTTP routing table. The webhook handler owns the
// root: GET on any unclaimed path answers the liveness probe and POST
// processes a delivery, matching how the hosting platform invoked the
// original function.
func NewRouter(h *handlers.WebhookHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", h.Handle)

	// Orchestration probes
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/readyz", h.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(mux)
}
