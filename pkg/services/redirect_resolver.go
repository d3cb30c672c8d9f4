package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/89lafa/awesomegardener-sub003/pkg/models"
	"github.com/89lafa/awesomegardener-sub003/pkg/repositories"
)

// RedirectResolver follows the canonical pointer of merged-away varieties so
// read paths always land on the authoritative record.
type RedirectResolver interface {
	// Resolve returns the variety for id, following the canonical pointer
	// exactly one hop when the record has been removed. The merge executor
	// guarantees canonical records are never themselves removed, so a single
	// hop is always enough. Returns apperrors.ErrNotFound when id does not
	// exist at all.
	Resolve(ctx context.Context, id uuid.UUID) (*models.Variety, error)
}

type redirectResolver struct {
	varieties repositories.VarietyRepository
	logger    *zap.Logger
}

// NewRedirectResolver creates a new RedirectResolver.
func NewRedirectResolver(varieties repositories.VarietyRepository, logger *zap.Logger) RedirectResolver {
	return &redirectResolver{
		varieties: varieties,
		logger:    logger.Named("redirect-resolver"),
	}
}

var _ RedirectResolver = (*redirectResolver)(nil)

func (s *redirectResolver) Resolve(ctx context.Context, id uuid.UUID) (*models.Variety, error) {
	v, err := s.varieties.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !v.IsRemoved() {
		return v, nil
	}
	if v.CanonicalID == nil {
		// A removed record always carries its replacement; anything else is
		// data corruption worth surfacing loudly.
		return nil, fmt.Errorf("removed variety %s has no canonical pointer", id)
	}

	canonical, err := s.varieties.GetByID(ctx, *v.CanonicalID)
	if err != nil {
		return nil, fmt.Errorf("resolve canonical %s for %s: %w", *v.CanonicalID, id, err)
	}

	s.logger.Debug("Resolved merged variety",
		zap.String("requested_id", id.String()),
		zap.String("canonical_id", canonical.ID.String()))

	return canonical, nil
}
