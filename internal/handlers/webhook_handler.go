package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danparkr/nrfcloud-appwrite-webhook/internal/appwrite"
	"github.com/danparkr/nrfcloud-appwrite-webhook/internal/config"
	"github.com/danparkr/nrfcloud-appwrite-webhook/internal/httputil"
	"github.com/danparkr/nrfcloud-appwrite-webhook/internal/logging"
	"github.com/danparkr/nrfcloud-appwrite-webhook/internal/metrics"
	"github.com/danparkr/nrfcloud-appwrite-webhook/internal/models"
	"github.com/danparkr/nrfcloud-appwrite-webhook/internal/normalizer"
	"github.com/danparkr/nrfcloud-appwrite-webhook/internal/ratelimit"
	"github.com/danparkr/nrfcloud-appwrite-webhook/pkg/signature"
)

// KeyHeader lets a delivery supply its own store access key instead of the
// configured one.
const KeyHeader = "X-Appwrite-Key"

// Dispatcher processes a decoded batch of envelopes.
type Dispatcher interface {
	ProcessBatch(ctx context.Context, envelopes []models.Envelope) *models.BatchResponse
}

// WebhookHandler is the single webhook endpoint: GET answers a liveness
// probe, POST processes a telemetry delivery, anything else is rejected.
type WebhookHandler struct {
	dispatcher  Dispatcher
	rateLimiter ratelimit.RateLimiter
	cfg         *config.Config
}

func NewWebhookHandler(dispatcher Dispatcher, rateLimiter ratelimit.RateLimiter, cfg *config.Config) *WebhookHandler {
	return &WebhookHandler{
		dispatcher:  dispatcher,
		rateLimiter: rateLimiter,
		cfg:         cfg,
	}
}

// Handle dispatches on method. The store/collection identity check runs
// first, before any payload is read, so a misconfigured deployment fails
// deterministically with HTTP 500.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if err := h.cfg.Validate(); err != nil {
		h.sendError(w, r, http.StatusInternalServerError, "server configuration error: "+err.Error())
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.liveness(w, r)
	case http.MethodPost:
		h.handlePost(w, r)
	default:
		h.sendError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *WebhookHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.rateLimiter != nil {
		clientIP := httputil.GetClientIP(r)
		allowed, err := h.rateLimiter.Allow(ctx, "ip:"+clientIP)
		if err != nil {
			// A broken limiter must not block ingestion.
			slog.WarnContext(ctx, "Rate limiter unavailable", logging.IP(clientIP), logging.Error(err))
		} else if !allowed {
			h.sendError(w, r, http.StatusTooManyRequests, "Too many requests")
			return
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize())
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.sendError(w, r, http.StatusInternalServerError, "failed to read request body: "+err.Error())
		return
	}
	metrics.RequestBytesTotal.Add(float64(len(body)))

	if secret := h.cfg.Webhook.Secret; secret != "" {
		if err := signature.Verify(secret, r.Header.Get(signature.Header), body); err != nil {
			metrics.SignatureFailures.Inc()
			h.sendError(w, r, http.StatusUnauthorized, err.Error())
			return
		}
	}

	// Outermost failure boundary: a body that does not decode fails the
	// whole request before any message is processed.
	envelopes, err := decodeEnvelopes(body)
	if err != nil {
		h.sendError(w, r, http.StatusInternalServerError, "invalid JSON payload: "+err.Error())
		return
	}

	slog.InfoContext(ctx, "Received webhook payload",
		slog.Int("messages", len(envelopes)),
		slog.Int("bytes", len(body)),
	)

	if key := r.Header.Get(KeyHeader); key != "" {
		ctx = appwrite.ContextWithKey(ctx, key)
	}

	response := h.dispatcher.ProcessBatch(ctx, envelopes)
	metrics.RequestsTotal.WithLabelValues(r.Method, "200").Inc()
	httputil.WriteJSON(w, http.StatusOK, response)
}

// decodeEnvelopes coerces the polymorphic body shape into an ordered
// sequence exactly once: a "messages" array when present, otherwise the
// body itself as a one-element sequence.
func decodeEnvelopes(body []byte) ([]models.Envelope, error) {
	var batch models.BatchRequest
	if err := json.Unmarshal(body, &batch); err != nil {
		return nil, err
	}
	if batch.Messages != nil {
		return batch.Messages, nil
	}

	var single models.Envelope
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, err
	}
	return []models.Envelope{single}, nil
}

func (h *WebhookHandler) liveness(w http.ResponseWriter, r *http.Request) {
	metrics.RequestsTotal.WithLabelValues(r.Method, "200").Inc()
	httputil.WriteJSON(w, http.StatusOK, models.HealthResponse{
		Status:    "ok",
		Message:   "nRF Cloud webhook receiver",
		Timestamp: time.Now().UTC().Format(normalizer.ISOMillis),
	})
}

// Health answers orchestration liveness probes.
func (h *WebhookHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.liveness(w, r)
}

// Ready reports whether the service is configured well enough to accept
// deliveries.
func (h *WebhookHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.cfg.Validate(); err != nil {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *WebhookHandler) sendError(w http.ResponseWriter, r *http.Request, status int, message string) {
	metrics.RequestsTotal.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
	slog.WarnContext(r.Context(), "Request rejected",
		logging.Method(r.Method),
		logging.Path(r.URL.Path),
		logging.Status(status),
		slog.String(logging.FieldError, message),
	)
	httputil.WriteError(w, status, message)
}

func (h *WebhookHandler) maxBodySize() int64 {
	if h.cfg.Webhook.MaxBodySize > 0 {
		return h.cfg.Webhook.MaxBodySize
	}
	return 1 << 20
}
