// Package handler exposes the portal's HTTP surface: the registration form
// and the submission endpoint.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Traveler1145141/TRWhitelist/internal/platform/config"
	"github.com/Traveler1145141/TRWhitelist/internal/platform/metrics"
	"github.com/Traveler1145141/TRWhitelist/internal/registration/models"
	"github.com/Traveler1145141/TRWhitelist/internal/web"
	request "github.com/Traveler1145141/TRWhitelist/pkg/platform/middleware/request"
	"github.com/Traveler1145141/TRWhitelist/pkg/requestcontext"
)

// Service is the registration pipeline consumed by the handler.
type Service interface {
	Register(ctx context.Context, req models.RegistrationRequest) (models.Verdict, error)
}

// Handler serves the portal page and processes submissions.
type Handler struct {
	service Service
	cfg     *config.Manager
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs the portal handler with its dependencies.
func New(service Service, cfg *config.Manager, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
	}
}

// Register mounts the portal on the router. A single path serves both the
// form and the submission; any method other than POST gets the form.
func (h *Handler) Register(r chi.Router) {
	r.HandleFunc("/", h.Handle)
}

// Handle is the entry point for one HTTP exchange. The duration is measured
// from the request-scoped time the middleware stamped, so it includes the
// whole middleware chain, not just handler work.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	start := requestcontext.Now(r.Context())
	defer func() { h.metrics.ObserveRequestDuration(time.Since(start)) }()

	if r.Method == http.MethodPost {
		h.handleSubmit(w, r)
		return
	}
	h.handleIndex(w, r)
}

// handleIndex renders the static form page through the templater.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	cfg := h.cfg.Current()
	page := web.IndexPage(cfg.DataDir)
	writeHTML(w, http.StatusOK, web.Render(page, cfg.Messages))
}

// handleSubmit parses the form body, runs the pipeline and renders the
// verdict's message template.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg := h.cfg.Current()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.ErrorContext(ctx, "could not read request body",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
		writeHTML(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	params := parseForm(string(body))
	req := models.RegistrationRequest{
		Username: params["username"],
		Email:    params["email"],
		Code:     params["code"],
	}

	verdict, err := h.service.Register(ctx, req)
	if err != nil {
		// Internal failure: full detail stays server-side.
		h.logger.ErrorContext(ctx, "registration pipeline failed",
			"request_id", request.GetRequestID(ctx),
			"player", req.Username,
			"error", err,
		)
		writeHTML(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeHTML(w, verdict.Status, h.renderVerdict(cfg, verdict))
}

// renderVerdict selects the message template for the verdict and interpolates
// any per-rejection variables.
func (h *Handler) renderVerdict(cfg *config.Config, verdict models.Verdict) string {
	if verdict.Approved {
		return cfg.Messages["success"]
	}
	msg := cfg.Messages[string(verdict.Reason)]
	if verdict.Reason == models.ReasonSuffixNotAllowed {
		msg = web.Interpolate(msg, "suffixes", strings.Join(cfg.AllowedEmailSuffixes, ", "))
	}
	return msg
}

// parseForm decodes a form-url-encoded body. Pairs that do not split into
// exactly key and value, or that fail percent-decoding, are silently skipped.
func parseForm(body string) map[string]string {
	params := make(map[string]string)
	for _, pair := range strings.Split(body, "&") {
		parts := strings.Split(pair, "=")
		if len(parts) != 2 {
			continue
		}
		key, err := url.QueryUnescape(parts[0])
		if err != nil {
			continue
		}
		value, err := url.QueryUnescape(parts[1])
		if err != nil {
			continue
		}
		params[key] = value
	}
	return params
}

func writeHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
