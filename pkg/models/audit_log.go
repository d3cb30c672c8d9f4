package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit object types covered by the catalog maintenance engine.
const (
	AuditObjectVariety     = "variety"
	AuditObjectSubcategory = "plant_subcategory"
)

// Audit actions emitted by batch mutations.
const (
	AuditActionUpdate     = "update"
	AuditActionSoftDelete = "soft_delete"
	AuditActionClassify   = "classify"
)

// AuditLogEntry is one record in the append-only audit sink. One entry is
// emitted per primary mutation; a failed audit write never rolls back the
// mutation it describes.
type AuditLogEntry struct {
	ID         uuid.UUID `json:"id"`
	Actor      string    `json:"actor"`
	Action     string    `json:"action"`
	ObjectType string    `json:"object_type"`
	ObjectID   uuid.UUID `json:"object_id"`

	BeforePayload map[string]any `json:"before_payload,omitempty"`
	AfterPayload  map[string]any `json:"after_payload,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
