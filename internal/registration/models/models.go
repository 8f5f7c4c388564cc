// Package models defines the registration domain types shared by the policy
// engine, the service and the HTTP handler.
package models

import "net/http"

// RegistrationRequest is one parsed portal submission. Immutable once built.
type RegistrationRequest struct {
	Username string
	Email    string
	Code     string
}

// Reason identifies why a submission was rejected. The value doubles as the
// message key used to render the response body.
type Reason string

const (
	ReasonMissingParameters Reason = "missing_parameters"
	ReasonInvalidEmail      Reason = "invalid_email"
	ReasonSuffixNotAllowed  Reason = "email_suffix_not_allowed"
	ReasonAlreadyRegistered Reason = "email_already_registered"
	ReasonInvalidCode       Reason = "invalid_code"
)

// Verdict is the outcome of the validation chain.
type Verdict struct {
	Approved bool
	Reason   Reason
	Status   int
}

// Approve is the verdict for a submission that passed every check.
func Approve() Verdict {
	return Verdict{Approved: true, Status: http.StatusOK}
}

// Reject builds a rejection verdict for the given reason.
func Reject(reason Reason) Verdict {
	status := http.StatusForbidden
	switch reason {
	case ReasonMissingParameters, ReasonInvalidEmail:
		status = http.StatusBadRequest
	}
	return Verdict{Reason: reason, Status: status}
}

// Outcome returns the metrics label for this verdict.
func (v Verdict) Outcome() string {
	if v.Approved {
		return "approved"
	}
	return string(v.Reason)
}
