// Package service orchestrates one registration: evaluate the submission,
// persist the dedup entry, and hand the admission off to the gateway.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Traveler1145141/TRWhitelist/internal/platform/config"
	"github.com/Traveler1145141/TRWhitelist/internal/platform/metrics"
	"github.com/Traveler1145141/TRWhitelist/internal/registration/models"
	"github.com/Traveler1145141/TRWhitelist/internal/registration/policy"
	"github.com/Traveler1145141/TRWhitelist/internal/registration/store"
	request "github.com/Traveler1145141/TRWhitelist/pkg/platform/middleware/request"
	"github.com/Traveler1145141/TRWhitelist/pkg/requestcontext"
)

// Admitter is the producer side of the whitelist gateway.
type Admitter interface {
	RequestAdmission(username, email string)
}

// Service runs the registration pipeline.
type Service struct {
	cfg        *config.Manager
	policy     *policy.Engine
	registered store.AllowList
	gateway    Admitter
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// New constructs the registration service.
func New(cfg *config.Manager, engine *policy.Engine, registered store.AllowList, gateway Admitter, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		cfg:        cfg,
		policy:     engine,
		registered: registered,
		gateway:    gateway,
		logger:     logger,
		metrics:    m,
	}
}

// Register validates the submission and, on approval, records the dedup entry
// and enqueues the whitelist mutation. The returned verdict drives the HTTP
// response; a non-nil error means an internal failure, not a rejection.
//
// The insert-then-enqueue order means two racing submissions for the same
// address can both be approved; the store insert is idempotent and the
// gateway worker re-checks admission, so the registry still ends up mutated
// at most once.
func (s *Service) Register(ctx context.Context, req models.RegistrationRequest) (models.Verdict, error) {
	cfg := s.cfg.Current()

	verdict, err := s.policy.Evaluate(ctx, cfg, req)
	if err != nil {
		return models.Verdict{}, fmt.Errorf("evaluate submission: %w", err)
	}
	s.metrics.IncrementRegistration(verdict.Outcome())

	if !verdict.Approved {
		s.logger.InfoContext(ctx, "registration rejected",
			"request_id", request.GetRequestID(ctx),
			"reason", verdict.Reason,
			"player", req.Username,
			"client_ip", requestcontext.ClientIP(ctx),
			"user_agent", requestcontext.UserAgent(ctx),
		)
		return verdict, nil
	}

	if cfg.Email.Enabled {
		if err := s.registered.Insert(ctx, req.Email); err != nil {
			// In-memory dedup stays authoritative; losing durability on one
			// write is preferred over failing the registration.
			s.logger.ErrorContext(ctx, "could not record registered email",
				"request_id", request.GetRequestID(ctx),
				"error", err,
			)
		}
	}

	s.gateway.RequestAdmission(req.Username, req.Email)

	s.logger.InfoContext(ctx, "registration approved",
		"request_id", request.GetRequestID(ctx),
		"player", req.Username,
		"client_ip", requestcontext.ClientIP(ctx),
		"user_agent", requestcontext.UserAgent(ctx),
	)
	return verdict, nil
}
