package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/89lafa/awesomegardener-sub003/pkg/database"
	"github.com/89lafa/awesomegardener-sub003/pkg/models"
)

// AuditRepository appends entries to the catalog audit log.
// The log is append-only; there is no update or delete path.
type AuditRepository interface {
	// Create inserts a new audit log entry.
	Create(ctx context.Context, entry *models.AuditLogEntry) error
}

type auditRepository struct {
	db *database.DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *database.DB) AuditRepository {
	return &auditRepository{db: db}
}

var _ AuditRepository = (*auditRepository)(nil)

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now()

	beforeJSON, err := marshalPayload(entry.BeforePayload)
	if err != nil {
		return fmt.Errorf("failed to marshal before_payload: %w", err)
	}
	afterJSON, err := marshalPayload(entry.AfterPayload)
	if err != nil {
		return fmt.Errorf("failed to marshal after_payload: %w", err)
	}

	query := `
		INSERT INTO catalog_audit_log (id, actor, action, object_type, object_id, before_payload, after_payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.Exec(ctx, query,
		entry.ID,
		entry.Actor,
		entry.Action,
		entry.ObjectType,
		entry.ObjectID,
		beforeJSON,
		afterJSON,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log entry: %w", err)
	}

	return nil
}

func marshalPayload(payload map[string]any) ([]byte, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	return json.Marshal(payload)
}
