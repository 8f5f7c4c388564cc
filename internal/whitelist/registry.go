// Package whitelist models the authoritative player whitelist consumed by the
// game server. The portal is a mutation-requesting client only: it asks for
// "admit this name" and never assumes the request applied synchronously.
package whitelist

// Registry is the external whitelist. Implementations are NOT safe for
// concurrent use: every call must come from the single gateway worker
// goroutine.
type Registry interface {
	IsAdmitted(name string) (bool, error)
	SetAdmitted(name string, admitted bool) error
}
