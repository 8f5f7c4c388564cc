// Package gateway funnels whitelist mutations from the HTTP workers onto one
// consumer goroutine. The registry is not safe for concurrent mutation, so the
// worker's inbox is the single serialization point in the system.
package gateway

import (
	"log/slog"

	"github.com/Traveler1145141/TRWhitelist/internal/platform/metrics"
)

// Task is one pending admission, carrying the identity captured at submission
// time.
type Task struct {
	Username string
	Email    string
}

// Gateway is the producer side: handlers enqueue and return immediately.
// Delivery is best-effort; the HTTP success page is optimistic, not a
// confirmation that the mutation committed.
type Gateway struct {
	inbox   chan Task
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs a gateway with a bounded inbox.
func New(buffer int, logger *slog.Logger, m *metrics.Metrics) *Gateway {
	return &Gateway{
		inbox:   make(chan Task, buffer),
		logger:  logger,
		metrics: m,
	}
}

// RequestAdmission enqueues an admission task without blocking. When the
// inbox is full the task is dropped and logged; tasks are expected to drain
// far faster than submissions arrive.
func (g *Gateway) RequestAdmission(username, email string) {
	select {
	case g.inbox <- Task{Username: username, Email: email}:
	default:
		g.logger.Warn("admission queue full, dropping task", "player", username)
		g.metrics.IncrementAdmission("dropped")
	}
}

// Inbox exposes the consume side for the worker.
func (g *Gateway) Inbox() <-chan Task {
	return g.inbox
}
