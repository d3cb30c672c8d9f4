package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/89lafa/awesomegardener-sub003/pkg/apperrors"
	"github.com/89lafa/awesomegardener-sub003/pkg/jsonutil"
	"github.com/89lafa/awesomegardener-sub003/pkg/models"
	"github.com/89lafa/awesomegardener-sub003/pkg/repositories"
)

// HeatService runs the batch heat-level classifier over a plant type's
// varieties.
type HeatService interface {
	// ClassifyPlantType ensures the canonical bucket set exists, classifies
	// every active variety of the plant type into exactly one bucket, and
	// writes the assignments back. Per-record failures are counted and the
	// batch continues; only missing scope aborts the run.
	ClassifyPlantType(ctx context.Context, plantTypeID uuid.UUID) (*models.ClassificationReport, error)
}

type heatService struct {
	varieties     repositories.VarietyRepository
	subcategories SubcategoryService
	audit         AuditService
	logger        *zap.Logger
	scanLimit     int
}

// NewHeatService creates a new HeatService.
func NewHeatService(
	varieties repositories.VarietyRepository,
	subcategories SubcategoryService,
	audit AuditService,
	scanLimit int,
	logger *zap.Logger,
) HeatService {
	return &heatService{
		varieties:     varieties,
		subcategories: subcategories,
		audit:         audit,
		logger:        logger.Named("heat-service"),
		scanLimit:     scanLimit,
	}
}

var _ HeatService = (*heatService)(nil)

func (s *heatService) ClassifyPlantType(ctx context.Context, plantTypeID uuid.UUID) (*models.ClassificationReport, error) {
	report := &models.ClassificationReport{
		Diagnostics: models.ClassificationDiagnostics{
			BucketCounts: make(map[string]int),
		},
	}

	created, err := s.subcategories.EnsureCanonicalBuckets(ctx, plantTypeID)
	if err != nil {
		return nil, fmt.Errorf("ensure canonical buckets: %w", err)
	}
	report.CanonicalSubcatsCreated = created

	deactivated, err := s.subcategories.DeactivateLegacyBuckets(ctx, plantTypeID)
	if err != nil {
		return nil, fmt.Errorf("deactivate legacy buckets: %w", err)
	}
	report.OldSubcatsDeactivated = int(deactivated)

	lookup, err := s.subcategories.BucketLookup(ctx, plantTypeID)
	if err != nil {
		return nil, err
	}
	if len(lookup) < len(models.CanonicalHeatCodes) {
		return nil, fmt.Errorf("canonical bucket codes missing for plant type %s: %w",
			plantTypeID, apperrors.ErrScopeNotFound)
	}

	labelByID, err := s.subcategories.Labels(ctx, plantTypeID)
	if err != nil {
		return nil, err
	}
	canonicalIDs := make(map[uuid.UUID]struct{}, len(lookup))
	for _, id := range lookup {
		canonicalIDs[id] = struct{}{}
	}

	varieties, err := s.varieties.ListActive(ctx, &plantTypeID, s.scanLimit)
	if err != nil {
		return nil, fmt.Errorf("list varieties: %w", err)
	}

	for _, v := range varieties {
		if err := s.classifyOne(ctx, v, lookup, canonicalIDs, labelByID, report); err != nil {
			report.ErrorsEncountered++
			s.logger.Warn("Failed to classify variety, continuing batch",
				zap.String("variety_id", v.ID.String()),
				zap.String("variety_name", v.VarietyName),
				zap.Error(err))
		}
	}

	report.Timestamp = time.Now()
	s.logger.Info("Heat classification complete",
		zap.String("plant_type_id", plantTypeID.String()),
		zap.Int("varieties_updated", report.VarietiesUpdated),
		zap.Int("errors", report.ErrorsEncountered))

	return report, nil
}

func (s *heatService) classifyOne(
	ctx context.Context,
	v *models.Variety,
	lookup map[string]uuid.UUID,
	canonicalIDs map[uuid.UUID]struct{},
	labelByID map[uuid.UUID]string,
	report *models.ClassificationReport,
) error {
	oldLabel := ""
	if v.PlantSubcategoryID != nil {
		oldLabel = labelByID[*v.PlantSubcategoryID]
	}

	code := ClassifyHeatLevel(v, oldLabel, v.PlantSubcategoryID, lookup)
	bucketID := lookup[code]

	// Bucket id first, remaining memberships after it. Ids of other heat
	// buckets are dropped so the variety lands in exactly one.
	newIDs := []uuid.UUID{bucketID}
	seen := map[uuid.UUID]struct{}{bucketID: {}}
	for _, id := range v.PlantSubcategoryIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		if _, isHeatBucket := canonicalIDs[id]; isHeatBucket {
			continue
		}
		seen[id] = struct{}{}
		newIDs = append(newIDs, id)
	}

	species := s.promotableSpecies(v)

	if err := s.varieties.UpdateClassification(ctx, v.ID, bucketID, newIDs, species); err != nil {
		return err
	}

	report.VarietiesUpdated++
	report.Diagnostics.BucketCounts[code]++
	if code == models.HeatSweet {
		if max := v.EffectiveScovilleMax(); max != nil && *max == 0 {
			report.Diagnostics.SweetWithZeroSHU = append(report.Diagnostics.SweetWithZeroSHU, v.VarietyName)
		}
	}

	if err := s.audit.Log(ctx, models.AuditActionClassify, models.AuditObjectVariety, v.ID,
		map[string]any{"heat_bucket": oldLabel},
		map[string]any{"heat_bucket": code},
	); err != nil {
		s.logger.Warn("Audit write failed for classification", zap.Error(err))
	}

	return nil
}

// promotableSpecies returns a species value worth promoting from the traits
// bag into the first-class column: only when the column is empty and the
// trait matches the fixed species enumeration.
func (s *heatService) promotableSpecies(v *models.Variety) string {
	if v.Species != "" {
		return ""
	}
	raw, ok := v.Traits["species"]
	if !ok {
		return ""
	}
	candidate := strings.ToLower(strings.TrimSpace(jsonutil.FlexibleStringValue(raw)))
	if !IsKnownSpecies(candidate) {
		return ""
	}
	return candidate
}
