package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/89lafa/awesomegardener-sub003/pkg/apperrors"
	"github.com/89lafa/awesomegardener-sub003/pkg/database"
	"github.com/89lafa/awesomegardener-sub003/pkg/models"
)

// VarietyRepository provides data access for catalog variety records.
type VarietyRepository interface {
	// GetByID returns a single variety regardless of status.
	// Returns apperrors.ErrNotFound when the id does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Variety, error)

	// ListActive returns active varieties, optionally filtered to one plant
	// type, capped at limit rows. Ordered by created_date then id so batch
	// runs see a stable ordering.
	ListActive(ctx context.Context, plantTypeID *uuid.UUID, limit int) ([]*models.Variety, error)

	// UpdateMergedArrays writes the planned array-field unions to the
	// canonical record. Scalar fields are untouched. Idempotent.
	UpdateMergedArrays(ctx context.Context, id uuid.UUID, preview models.MergePreview) error

	// MarkRemoved soft-deletes a duplicate and points it at its canonical
	// record. The canonical target must be active and must not itself
	// redirect anywhere; otherwise apperrors.ErrCanonicalRemoved is returned
	// and nothing is written. This write-time guard is what keeps redirects
	// single-hop.
	MarkRemoved(ctx context.Context, id, canonicalID uuid.UUID) error

	// UpdateClassification writes the heat bucket assignment (scalar and
	// array) and, when species is non-empty, promotes it into the species
	// column.
	UpdateClassification(ctx context.Context, id uuid.UUID, bucketID uuid.UUID, subcategoryIDs []uuid.UUID, species string) error
}

type varietyRepository struct {
	db *database.DB
}

// NewVarietyRepository creates a new VarietyRepository.
func NewVarietyRepository(db *database.DB) VarietyRepository {
	return &varietyRepository{db: db}
}

var _ VarietyRepository = (*varietyRepository)(nil)

const varietyColumns = `
	id, plant_type_id, variety_name, variety_code, status, canonical_id,
	scoville_min, scoville_max, heat_scoville_min, heat_scoville_max,
	species, images, synonyms, plant_subcategory_ids, plant_subcategory_id,
	traits, created_date, updated_at`

func (r *varietyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Variety, error) {
	query := `SELECT ` + varietyColumns + ` FROM varieties WHERE id = $1`

	v, err := scanVariety(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get variety: %w", err)
	}
	return v, nil
}

func (r *varietyRepository) ListActive(ctx context.Context, plantTypeID *uuid.UUID, limit int) ([]*models.Variety, error) {
	query := `
		SELECT ` + varietyColumns + `
		FROM varieties
		WHERE status = $1 AND ($2::uuid IS NULL OR plant_type_id = $2)
		ORDER BY created_date, id
		LIMIT $3`

	rows, err := r.db.Query(ctx, query, models.VarietyStatusActive, plantTypeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query varieties: %w", err)
	}
	defer rows.Close()

	var varieties []*models.Variety
	for rows.Next() {
		v, err := scanVariety(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan variety: %w", err)
		}
		varieties = append(varieties, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating varieties: %w", err)
	}

	return varieties, nil
}

func (r *varietyRepository) UpdateMergedArrays(ctx context.Context, id uuid.UUID, preview models.MergePreview) error {
	query := `
		UPDATE varieties
		SET images = $2, synonyms = $3, plant_subcategory_ids = $4, updated_at = $5
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id,
		preview.Images, preview.Synonyms, uuidStrings(preview.PlantSubcategoryIDs), time.Now())
	if err != nil {
		return fmt.Errorf("failed to update merged arrays: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *varietyRepository) MarkRemoved(ctx context.Context, id, canonicalID uuid.UUID) error {
	// The EXISTS clause refuses to create a redirect chain: the target must be
	// active and must not redirect elsewhere.
	query := `
		UPDATE varieties
		SET status = $3, canonical_id = $2, updated_at = $4
		WHERE id = $1
		  AND EXISTS (
			SELECT 1 FROM varieties c
			WHERE c.id = $2 AND c.status = $5 AND c.canonical_id IS NULL
		  )`

	tag, err := r.db.Exec(ctx, query, id, canonicalID,
		models.VarietyStatusRemoved, time.Now(), models.VarietyStatusActive)
	if err != nil {
		return fmt.Errorf("failed to mark variety removed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("variety %s -> %s: %w", id, canonicalID, apperrors.ErrCanonicalRemoved)
	}
	return nil
}

func (r *varietyRepository) UpdateClassification(ctx context.Context, id uuid.UUID, bucketID uuid.UUID, subcategoryIDs []uuid.UUID, species string) error {
	query := `
		UPDATE varieties
		SET plant_subcategory_id = $2,
		    plant_subcategory_ids = $3,
		    species = CASE WHEN $4 <> '' THEN $4 ELSE species END,
		    updated_at = $5
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, bucketID, uuidStrings(subcategoryIDs), species, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update classification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanVariety(row pgx.Row) (*models.Variety, error) {
	var v models.Variety
	var canonicalID *string
	var subcatIDs []string
	var subcatID *string
	var traitsJSON []byte

	err := row.Scan(
		&v.ID,
		&v.PlantTypeID,
		&v.VarietyName,
		&v.VarietyCode,
		&v.Status,
		&canonicalID,
		&v.ScovilleMin,
		&v.ScovilleMax,
		&v.HeatScovilleMin,
		&v.HeatScovilleMax,
		&v.Species,
		&v.Images,
		&v.Synonyms,
		&subcatIDs,
		&subcatID,
		&traitsJSON,
		&v.CreatedDate,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if canonicalID != nil {
		parsed, err := uuid.Parse(*canonicalID)
		if err != nil {
			return nil, fmt.Errorf("invalid canonical_id %q: %w", *canonicalID, err)
		}
		v.CanonicalID = &parsed
	}
	if subcatID != nil {
		parsed, err := uuid.Parse(*subcatID)
		if err != nil {
			return nil, fmt.Errorf("invalid plant_subcategory_id %q: %w", *subcatID, err)
		}
		v.PlantSubcategoryID = &parsed
	}
	for _, s := range subcatIDs {
		parsed, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid plant_subcategory_ids entry %q: %w", s, err)
		}
		v.PlantSubcategoryIDs = append(v.PlantSubcategoryIDs, parsed)
	}

	if len(traitsJSON) > 0 && string(traitsJSON) != "null" {
		if err := json.Unmarshal(traitsJSON, &v.Traits); err != nil {
			return nil, fmt.Errorf("failed to unmarshal traits: %w", err)
		}
	}

	return &v, nil
}

// uuidStrings renders a uuid slice as text for a uuid[] column parameter.
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
