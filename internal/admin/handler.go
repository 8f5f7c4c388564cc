// Package admin exposes the operator endpoints: configuration reload and
// clearing the registered-email store. Both sit behind the admin token
// middleware; they are the HTTP equivalent of the original console commands.
package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Traveler1145141/TRWhitelist/internal/platform/config"
	"github.com/Traveler1145141/TRWhitelist/internal/registration/store"
	request "github.com/Traveler1145141/TRWhitelist/pkg/platform/middleware/request"
)

// Handler wires the admin endpoints to the config manager and dedup store.
type Handler struct {
	cfg        *config.Manager
	registered store.AllowList
	restart    chan<- struct{}
	logger     *slog.Logger
}

// New constructs the admin handler. restart is signalled when a reload
// changes the listen port; the supervisor rebinds the listener on receipt.
func New(cfg *config.Manager, registered store.AllowList, restart chan<- struct{}, logger *slog.Logger) *Handler {
	return &Handler{
		cfg:        cfg,
		registered: registered,
		restart:    restart,
		logger:     logger,
	}
}

// Register mounts the admin endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/reload", h.HandleReload)
	r.Post("/admin/clear-registrations", h.HandleClear)
}

// HandleReload swaps in a fresh configuration snapshot.
func (h *Handler) HandleReload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	oldPort := h.cfg.Current().Port

	cfg, err := h.cfg.Reload()
	if err != nil {
		h.logger.ErrorContext(ctx, "configuration reload failed",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "reload_failed",
		})
		return
	}

	portChanged := cfg.Port != oldPort
	if portChanged {
		select {
		case h.restart <- struct{}{}:
		default:
			// A restart is already pending.
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "reloaded",
		"port_changed": portChanged,
	})
}

// HandleClear empties the registered-email store and persists the empty set.
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.registered.Clear(ctx); err != nil {
		h.logger.ErrorContext(ctx, "could not clear registered emails",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "clear_failed",
		})
		return
	}

	h.logger.InfoContext(ctx, "registered emails cleared",
		"request_id", request.GetRequestID(ctx),
	)
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
