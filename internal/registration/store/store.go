// Package store persists the set of already-registered email addresses.
// Membership is case-insensitive: every variant normalizes addresses before
// storing or checking them.
package store

import "context"

// AllowList is the dedup store consulted by the policy engine and written by
// the registration service. Insert is idempotent: inserting a present address
// is a no-op, which is what makes the narrow double-approve race under
// concurrent submissions harmless.
type AllowList interface {
	Contains(ctx context.Context, addr string) (bool, error)
	Insert(ctx context.Context, addr string) error
	Clear(ctx context.Context) error

	// Load and Persist move the on-disk representation; backends without one
	// implement them as no-ops.
	Load(ctx context.Context) error
	Persist(ctx context.Context) error
}
