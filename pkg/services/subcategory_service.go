package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/89lafa/awesomegardener-sub003/pkg/models"
	"github.com/89lafa/awesomegardener-sub003/pkg/repositories"
)

// SubcategoryService maintains the canonical heat bucket set for a plant type.
type SubcategoryService interface {
	// EnsureCanonicalBuckets upserts the seven canonical heat buckets and
	// returns how many were newly created. Idempotent.
	EnsureCanonicalBuckets(ctx context.Context, plantTypeID uuid.UUID) (int, error)

	// DeactivateLegacyBuckets marks every non-canonical subcategory of the
	// plant type inactive and returns how many changed.
	DeactivateLegacyBuckets(ctx context.Context, plantTypeID uuid.UUID) (int64, error)

	// BucketLookup returns the code -> id map of active canonical buckets.
	// Returns apperrors.ErrScopeNotFound via the caller when codes are missing.
	BucketLookup(ctx context.Context, plantTypeID uuid.UUID) (map[string]uuid.UUID, error)

	// Labels returns the id -> display name map of every subcategory of the
	// plant type, inactive ones included. The classifier uses the old label
	// as keyword-inference input.
	Labels(ctx context.Context, plantTypeID uuid.UUID) (map[uuid.UUID]string, error)
}

type subcategoryService struct {
	repo   repositories.SubcategoryRepository
	logger *zap.Logger
}

// NewSubcategoryService creates a new SubcategoryService.
func NewSubcategoryService(repo repositories.SubcategoryRepository, logger *zap.Logger) SubcategoryService {
	return &subcategoryService{
		repo:   repo,
		logger: logger.Named("subcategory-service"),
	}
}

var _ SubcategoryService = (*subcategoryService)(nil)

func (s *subcategoryService) EnsureCanonicalBuckets(ctx context.Context, plantTypeID uuid.UUID) (int, error) {
	created := 0
	for _, seed := range heatBucketSeeds() {
		sc := &models.PlantSubCategory{
			PlantTypeID: plantTypeID,
			Code:        seed.Code,
			Name:        seed.Name,
			ScovilleMin: seed.ScovilleMin,
			ScovilleMax: seed.ScovilleMax,
			SortOrder:   seed.SortOrder,
			IsActive:    true,
		}
		inserted, err := s.repo.Upsert(ctx, sc)
		if err != nil {
			return created, fmt.Errorf("ensure bucket %s: %w", seed.Code, err)
		}
		if inserted {
			created++
			s.logger.Info("Created canonical heat bucket",
				zap.String("plant_type_id", plantTypeID.String()),
				zap.String("code", seed.Code))
		}
	}
	return created, nil
}

func (s *subcategoryService) DeactivateLegacyBuckets(ctx context.Context, plantTypeID uuid.UUID) (int64, error) {
	deactivated, err := s.repo.DeactivateOthers(ctx, plantTypeID, models.CanonicalHeatCodes)
	if err != nil {
		return 0, fmt.Errorf("deactivate legacy buckets: %w", err)
	}
	if deactivated > 0 {
		s.logger.Info("Deactivated legacy subcategories",
			zap.String("plant_type_id", plantTypeID.String()),
			zap.Int64("count", deactivated))
	}
	return deactivated, nil
}

func (s *subcategoryService) BucketLookup(ctx context.Context, plantTypeID uuid.UUID) (map[string]uuid.UUID, error) {
	subcats, err := s.repo.ListByPlantType(ctx, plantTypeID, true)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}

	lookup := make(map[string]uuid.UUID, len(models.CanonicalHeatCodes))
	for _, sc := range subcats {
		if models.IsCanonicalHeatCode(sc.Code) {
			lookup[sc.Code] = sc.ID
		}
	}
	return lookup, nil
}

func (s *subcategoryService) Labels(ctx context.Context, plantTypeID uuid.UUID) (map[uuid.UUID]string, error) {
	subcats, err := s.repo.ListByPlantType(ctx, plantTypeID, false)
	if err != nil {
		return nil, fmt.Errorf("list subcategory labels: %w", err)
	}

	labels := make(map[uuid.UUID]string, len(subcats))
	for _, sc := range subcats {
		labels[sc.ID] = sc.Name
	}
	return labels, nil
}
