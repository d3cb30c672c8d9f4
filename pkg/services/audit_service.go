package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/89lafa/awesomegardener-sub003/pkg/models"
	"github.com/89lafa/awesomegardener-sub003/pkg/repositories"
)

// AuditService appends one entry per primary mutation to the audit sink.
// It extracts the actor from the provenance context. A failed audit write is
// the caller's to log and count; it never rolls back the mutation it pairs
// with.
type AuditService interface {
	// Log records a mutation with its before/after payloads.
	Log(ctx context.Context, action, objectType string, objectID uuid.UUID, before, after map[string]any) error
}

type auditService struct {
	repo   repositories.AuditRepository
	logger *zap.Logger
}

// NewAuditService creates a new AuditService.
func NewAuditService(repo repositories.AuditRepository, logger *zap.Logger) AuditService {
	return &auditService{
		repo:   repo,
		logger: logger.Named("audit-service"),
	}
}

var _ AuditService = (*auditService)(nil)

func (s *auditService) Log(ctx context.Context, action, objectType string, objectID uuid.UUID, before, after map[string]any) error {
	actor := "system"
	if prov, ok := models.GetProvenance(ctx); ok && prov.Actor != "" {
		actor = prov.Actor
	}

	entry := &models.AuditLogEntry{
		Actor:         actor,
		Action:        action,
		ObjectType:    objectType,
		ObjectID:      objectID,
		BeforePayload: before,
		AfterPayload:  after,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to create audit log entry",
			zap.String("object_type", objectType),
			zap.String("object_id", objectID.String()),
			zap.String("action", action),
			zap.Error(err))
		return fmt.Errorf("create audit log entry: %w", err)
	}

	return nil
}
