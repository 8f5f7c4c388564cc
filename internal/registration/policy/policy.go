// Package policy implements the ordered validation chain for registration
// submissions. Evaluation is side-effect-free: it reads a configuration
// snapshot and the dedup store, never mutates either.
package policy

import (
	"context"
	"fmt"

	"github.com/Traveler1145141/TRWhitelist/internal/platform/config"
	"github.com/Traveler1145141/TRWhitelist/internal/registration/models"
	"github.com/Traveler1145141/TRWhitelist/pkg/email"
)

// Membership is the read side of the allow-list store.
type Membership interface {
	Contains(ctx context.Context, addr string) (bool, error)
}

// Engine runs the validation chain.
type Engine struct {
	registered Membership
}

// New constructs a policy engine over the given dedup store.
func New(registered Membership) *Engine {
	return &Engine{registered: registered}
}

// Evaluate runs the checks in fixed order, short-circuiting at the first
// failure:
//
//  1. required fields present
//  2. email syntactically valid
//  3. email suffix allowed
//  4. email not already registered
//  5. verification code matches
//
// The order is part of the contract: cheap shape checks run before the store
// lookup, and the code comparison comes last so a probe with a bad code
// cannot learn whether an address is registered. When the email flow is
// disabled the email checks are skipped entirely.
//
// A non-nil error means the dedup store failed, not that the submission was
// rejected.
func (e *Engine) Evaluate(ctx context.Context, cfg *config.Config, req models.RegistrationRequest) (models.Verdict, error) {
	emailRequired := cfg.Email.Enabled

	if req.Username == "" || req.Code == "" || (emailRequired && req.Email == "") {
		return models.Reject(models.ReasonMissingParameters), nil
	}

	if emailRequired {
		if !email.Valid(req.Email) {
			return models.Reject(models.ReasonInvalidEmail), nil
		}
		if !email.SuffixAllowed(req.Email, cfg.AllowedEmailSuffixes) {
			return models.Reject(models.ReasonSuffixNotAllowed), nil
		}
		registered, err := e.registered.Contains(ctx, req.Email)
		if err != nil {
			return models.Verdict{}, fmt.Errorf("check registered email: %w", err)
		}
		if registered {
			return models.Reject(models.ReasonAlreadyRegistered), nil
		}
	}

	// Case-sensitive match against the shared secret.
	if req.Code != cfg.VerificationCode {
		return models.Reject(models.ReasonInvalidCode), nil
	}

	return models.Approve(), nil
}
