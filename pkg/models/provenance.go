// Package models contains domain types for the variety catalog engine.
package models

import "context"

// ActorSource describes how a batch operation was triggered.
type ActorSource string

const (
	SourceAdminAPI ActorSource = "admin_api" // admin-triggered batch endpoint
	SourceSystem   ActorSource = "system"    // internal maintenance run
)

// ProvenanceContext carries actor information through batch operations so
// audit entries can record who triggered each mutation.
type ProvenanceContext struct {
	Source ActorSource
	// Actor identifies the caller (username or service name). Authorization is
	// enforced by the caller, not here; the actor string is trusted input.
	Actor string
}

type provenanceKey struct{}

// WithProvenance returns a new context with actor information attached.
func WithProvenance(ctx context.Context, p ProvenanceContext) context.Context {
	return context.WithValue(ctx, provenanceKey{}, p)
}

// GetProvenance retrieves actor information from the context.
// Returns the provenance context and true if present, otherwise a zero value
// and false.
func GetProvenance(ctx context.Context) (ProvenanceContext, bool) {
	p, ok := ctx.Value(provenanceKey{}).(ProvenanceContext)
	return p, ok
}
