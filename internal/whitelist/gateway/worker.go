package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Traveler1145141/TRWhitelist/internal/platform/metrics"
	"github.com/Traveler1145141/TRWhitelist/internal/web"
	"github.com/Traveler1145141/TRWhitelist/internal/whitelist"
)

// Worker drains admission tasks in submission order and is the only caller of
// the registry. Failures inside a task are caught and logged with the failing
// identity; they never reach the HTTP response, which has already been sent.
type Worker struct {
	registry whitelist.Registry
	inbox    <-chan Task
	logger   *slog.Logger
	metrics  *metrics.Metrics
	messages func() map[string]string
}

// NewWorker constructs the single registry consumer. messages yields the
// current console message templates (console_success, console_error).
func NewWorker(registry whitelist.Registry, inbox <-chan Task, logger *slog.Logger, m *metrics.Metrics, messages func() map[string]string) *Worker {
	return &Worker{
		registry: registry,
		inbox:    inbox,
		logger:   logger,
		metrics:  m,
		messages: messages,
	}
}

// Run consumes tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case task := <-w.inbox:
			w.apply(task)
		}
	}
}

// apply executes one admission against the registry. The recover mirrors the
// task boundary contract: nothing escapes into the queue loop.
func (w *Worker) apply(task Task) {
	defer func() {
		if rec := recover(); rec != nil {
			w.logFailure(task, fmt.Errorf("panic: %v", rec))
			w.metrics.IncrementAdmission("failed")
		}
	}()

	admitted, err := w.registry.IsAdmitted(task.Username)
	if err != nil {
		w.logFailure(task, err)
		w.metrics.IncrementAdmission("failed")
		return
	}
	if admitted {
		// Idempotent either way; the check just avoids duplicate log noise.
		w.logger.Info("player already whitelisted", "player", task.Username)
		w.metrics.IncrementAdmission("skipped")
		return
	}

	if err := w.registry.SetAdmitted(task.Username, true); err != nil {
		w.logFailure(task, err)
		w.metrics.IncrementAdmission("failed")
		return
	}

	msg := web.Interpolate(w.messages()["console_success"], "player", task.Username)
	w.logger.Info(msg, "player", task.Username, "email", task.Email)
	w.metrics.IncrementAdmission("applied")
}

func (w *Worker) logFailure(task Task, err error) {
	msg := web.Interpolate(w.messages()["console_error"], "error", err.Error())
	msg = web.Interpolate(msg, "player", task.Username)
	w.logger.Warn(msg, "player", task.Username, "error", err)
}
