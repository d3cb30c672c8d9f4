package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/89lafa/awesomegardener-sub003/pkg/database"
	"github.com/89lafa/awesomegardener-sub003/pkg/models"
)

// SubcategoryRepository provides data access for plant subcategories.
// The heat classifier treats this as a read-mostly code -> id lookup; the
// write paths exist for canonical bucket seeding.
type SubcategoryRepository interface {
	// ListByPlantType returns subcategories for a plant type. With activeOnly
	// set, deactivated buckets are excluded.
	ListByPlantType(ctx context.Context, plantTypeID uuid.UUID, activeOnly bool) ([]*models.PlantSubCategory, error)

	// Upsert inserts a subcategory or refreshes an existing one matched on
	// (plant_type_id, code). Reports whether a new row was created.
	Upsert(ctx context.Context, sc *models.PlantSubCategory) (bool, error)

	// DeactivateOthers marks every subcategory of the plant type whose code is
	// not in keepCodes as inactive. Returns how many rows changed.
	DeactivateOthers(ctx context.Context, plantTypeID uuid.UUID, keepCodes []string) (int64, error)
}

type subcategoryRepository struct {
	db *database.DB
}

// NewSubcategoryRepository creates a new SubcategoryRepository.
func NewSubcategoryRepository(db *database.DB) SubcategoryRepository {
	return &subcategoryRepository{db: db}
}

var _ SubcategoryRepository = (*subcategoryRepository)(nil)

func (r *subcategoryRepository) ListByPlantType(ctx context.Context, plantTypeID uuid.UUID, activeOnly bool) ([]*models.PlantSubCategory, error) {
	query := `
		SELECT id, plant_type_id, code, name, scoville_min, scoville_max, sort_order, is_active, created_at
		FROM plant_subcategories
		WHERE plant_type_id = $1 AND ($2 = false OR is_active)
		ORDER BY sort_order, code`

	rows, err := r.db.Query(ctx, query, plantTypeID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query subcategories: %w", err)
	}
	defer rows.Close()

	var subcats []*models.PlantSubCategory
	for rows.Next() {
		sc, err := scanSubcategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subcategory: %w", err)
		}
		subcats = append(subcats, sc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subcategories: %w", err)
	}

	return subcats, nil
}

func (r *subcategoryRepository) Upsert(ctx context.Context, sc *models.PlantSubCategory) (bool, error) {
	if sc.ID == uuid.Nil {
		sc.ID = uuid.New()
	}
	if sc.CreatedAt.IsZero() {
		sc.CreatedAt = time.Now()
	}

	// xmax = 0 distinguishes a fresh insert from a conflict-update.
	query := `
		INSERT INTO plant_subcategories (id, plant_type_id, code, name, scoville_min, scoville_max, sort_order, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (plant_type_id, code) DO UPDATE
		SET name = EXCLUDED.name,
		    scoville_min = EXCLUDED.scoville_min,
		    scoville_max = EXCLUDED.scoville_max,
		    sort_order = EXCLUDED.sort_order,
		    is_active = EXCLUDED.is_active
		RETURNING id, (xmax = 0) AS inserted`

	var inserted bool
	err := r.db.QueryRow(ctx, query,
		sc.ID, sc.PlantTypeID, sc.Code, sc.Name,
		sc.ScovilleMin, sc.ScovilleMax, sc.SortOrder, sc.IsActive, sc.CreatedAt,
	).Scan(&sc.ID, &inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert subcategory %s: %w", sc.Code, err)
	}

	return inserted, nil
}

func (r *subcategoryRepository) DeactivateOthers(ctx context.Context, plantTypeID uuid.UUID, keepCodes []string) (int64, error) {
	query := `
		UPDATE plant_subcategories
		SET is_active = false
		WHERE plant_type_id = $1 AND is_active AND NOT (code = ANY($2))`

	tag, err := r.db.Exec(ctx, query, plantTypeID, keepCodes)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate subcategories: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanSubcategory(row pgx.Row) (*models.PlantSubCategory, error) {
	var sc models.PlantSubCategory
	err := row.Scan(
		&sc.ID,
		&sc.PlantTypeID,
		&sc.Code,
		&sc.Name,
		&sc.ScovilleMin,
		&sc.ScovilleMax,
		&sc.SortOrder,
		&sc.IsActive,
		&sc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sc, nil
}
