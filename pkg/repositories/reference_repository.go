package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/89lafa/awesomegardener-sub003/pkg/database"
)

// ReferenceRepointer rewrites foreign keys on one referencing-entity type from
// a removed variety to its canonical replacement. The merge executor treats
// every implementation identically; new referencing tables only need a new
// constructor here.
type ReferenceRepointer interface {
	// EntityType names the referencing entity for reports and logs.
	EntityType() string

	// Repoint rewrites every reference from oldID to newID and returns how
	// many rows changed.
	Repoint(ctx context.Context, oldID, newID uuid.UUID) (int64, error)
}

// tableRepointer is a ReferenceRepointer over a single table/column pair.
type tableRepointer struct {
	db         *database.DB
	entityType string
	table      string
	column     string
}

var _ ReferenceRepointer = (*tableRepointer)(nil)

func (r *tableRepointer) EntityType() string {
	return r.entityType
}

func (r *tableRepointer) Repoint(ctx context.Context, oldID, newID uuid.UUID) (int64, error) {
	// Table and column names come from the fixed constructors below, never
	// from input.
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`, r.table, r.column, r.column)

	tag, err := r.db.Exec(ctx, query, oldID, newID)
	if err != nil {
		return 0, fmt.Errorf("failed to repoint %s references: %w", r.entityType, err)
	}
	return tag.RowsAffected(), nil
}

// NewProfilePlantRepointer repoints grower profile records.
func NewProfilePlantRepointer(db *database.DB) ReferenceRepointer {
	return &tableRepointer{db: db, entityType: "profile_plant", table: "profile_plants", column: "variety_id"}
}

// NewPlannedCropRepointer repoints season-plan crop records.
func NewPlannedCropRepointer(db *database.DB) ReferenceRepointer {
	return &tableRepointer{db: db, entityType: "planned_crop", table: "planned_crops", column: "variety_id"}
}

// NewTrayCellRepointer repoints seed-tray cell records.
func NewTrayCellRepointer(db *database.DB) ReferenceRepointer {
	return &tableRepointer{db: db, entityType: "tray_cell", table: "tray_cells", column: "variety_id"}
}

// DefaultRepointers returns the full set of referencing-entity types known to
// the catalog.
func DefaultRepointers(db *database.DB) []ReferenceRepointer {
	return []ReferenceRepointer{
		NewProfilePlantRepointer(db),
		NewPlannedCropRepointer(db),
		NewTrayCellRepointer(db),
	}
}
