package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/89lafa/awesomegardener-sub003/pkg/apperrors"
	"github.com/89lafa/awesomegardener-sub003/pkg/models"
	"github.com/89lafa/awesomegardener-sub003/pkg/repositories"
	"github.com/89lafa/awesomegardener-sub003/pkg/retry"
)

// ScopeLocker serializes merge-apply runs per scope. database.DB provides a
// Postgres advisory-lock implementation.
type ScopeLocker interface {
	WithScopeLock(ctx context.Context, scope string, fn func(ctx context.Context) error) error
}

// MergeService runs duplicate detection and canonical merges over the variety
// catalog.
type MergeService interface {
	// DryRun groups duplicates and computes merge previews without writing
	// anything. Safe under arbitrary concurrent invocation.
	DryRun(ctx context.Context, plantTypeID *uuid.UUID, mode models.MatchingMode) (*models.DryRunReport, error)

	// Apply executes the merge for every duplicate group in scope. Holds the
	// scope lock for the duration; per-group failures are recorded and the
	// batch continues.
	Apply(ctx context.Context, plantTypeID *uuid.UUID, mode models.MatchingMode) (*models.MergeReport, error)
}

type mergeService struct {
	varieties  repositories.VarietyRepository
	repointers []repositories.ReferenceRepointer
	audit      AuditService
	locker     ScopeLocker
	logger     *zap.Logger
	scanLimit  int
	retryCfg   *retry.Config
}

// NewMergeService creates a new MergeService.
func NewMergeService(
	varieties repositories.VarietyRepository,
	repointers []repositories.ReferenceRepointer,
	audit AuditService,
	locker ScopeLocker,
	scanLimit int,
	logger *zap.Logger,
) MergeService {
	return &mergeService{
		varieties:  varieties,
		repointers: repointers,
		audit:      audit,
		locker:     locker,
		logger:     logger.Named("merge-service"),
		scanLimit:  scanLimit,
		retryCfg:   retry.DefaultConfig(),
	}
}

var _ MergeService = (*mergeService)(nil)

func (s *mergeService) DryRun(ctx context.Context, plantTypeID *uuid.UUID, mode models.MatchingMode) (*models.DryRunReport, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("mode %q: %w", mode, apperrors.ErrInvalidMode)
	}

	varieties, err := s.varieties.ListActive(ctx, plantTypeID, s.scanLimit)
	if err != nil {
		return nil, fmt.Errorf("list varieties: %w", err)
	}

	groups := Group(varieties, mode)
	report := &models.DryRunReport{
		TotalDuplicates: CountDuplicates(groups),
	}
	for _, g := range groups {
		report.DuplicateGroups = append(report.DuplicateGroups, PlanMerge(g))
	}

	s.logger.Info("Duplicate dry run complete",
		zap.Int("varieties_scanned", len(varieties)),
		zap.Int("groups", len(groups)),
		zap.Int("total_duplicates", report.TotalDuplicates),
		zap.String("mode", string(mode)))

	return report, nil
}

func (s *mergeService) Apply(ctx context.Context, plantTypeID *uuid.UUID, mode models.MatchingMode) (*models.MergeReport, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("mode %q: %w", mode, apperrors.ErrInvalidMode)
	}

	report := &models.MergeReport{}

	err := s.locker.WithScopeLock(ctx, mergeScope(plantTypeID), func(ctx context.Context) error {
		varieties, err := s.varieties.ListActive(ctx, plantTypeID, s.scanLimit)
		if err != nil {
			return fmt.Errorf("list varieties: %w", err)
		}

		groups := Group(varieties, mode)
		for _, g := range groups {
			plan := PlanMerge(g)
			if err := s.applyGroup(ctx, plan, report); err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("group %s: %v", g.Fingerprint, err))
				s.logger.Warn("Merge group failed, continuing batch",
					zap.String("fingerprint", g.Fingerprint),
					zap.Error(err))
				continue
			}
			report.Summary.GroupsMerged++
		}

		// Re-group the updated scope. A correct run leaves nothing behind:
		// each merged fingerprint now resolves to a single active record.
		remaining, err := s.varieties.ListActive(ctx, plantTypeID, s.scanLimit)
		if err != nil {
			return fmt.Errorf("re-list varieties: %w", err)
		}
		report.Summary.RemainingDuplicates = CountDuplicates(Group(remaining, mode))
		return nil
	})
	if err != nil {
		return nil, err
	}

	report.Timestamp = time.Now()
	s.logger.Info("Merge apply complete",
		zap.Int("groups_merged", report.Summary.GroupsMerged),
		zap.Int("records_merged", report.Summary.RecordsMerged),
		zap.Int64("references_updated", report.Summary.ReferencesUpdated),
		zap.Int("remaining_duplicates", report.Summary.RemainingDuplicates),
		zap.Int("errors", len(report.Errors)))

	return report, nil
}

// applyGroup persists one group's plan: canonical arrays first, then each
// duplicate is soft-deleted and its foreign references repointed. The first
// failure aborts the group; earlier members stay merged (re-running the scope
// is safe, an already-merged group collapses to a singleton and disappears).
func (s *mergeService) applyGroup(ctx context.Context, plan *models.MergePlan, report *models.MergeReport) error {
	canonical := s.memberByID(plan, plan.CanonicalID)

	if err := s.varieties.UpdateMergedArrays(ctx, plan.CanonicalID, plan.MergePreview); err != nil {
		return fmt.Errorf("update canonical: %w", err)
	}
	if err := s.audit.Log(ctx, models.AuditActionUpdate, models.AuditObjectVariety, plan.CanonicalID,
		arrayPayload(canonical.Images, canonical.Synonyms, canonical.PlantSubcategoryIDs),
		arrayPayload(plan.MergePreview.Images, plan.MergePreview.Synonyms, plan.MergePreview.PlantSubcategoryIDs),
	); err != nil {
		// Audit failure never rolls back the primary mutation.
		s.logger.Warn("Audit write failed for canonical update", zap.Error(err))
	}

	repointed := make(map[string]int64, len(s.repointers))
	for _, member := range plan.Group.Members {
		if member.ID == plan.CanonicalID {
			continue
		}

		if err := retry.DoIfRetryable(ctx, s.retryCfg, func() error {
			return s.varieties.MarkRemoved(ctx, member.ID, plan.CanonicalID)
		}); err != nil {
			return fmt.Errorf("remove duplicate %s: %w", member.ID, err)
		}
		report.Summary.RecordsMerged++

		if err := s.audit.Log(ctx, models.AuditActionSoftDelete, models.AuditObjectVariety, member.ID,
			map[string]any{"status": models.VarietyStatusActive},
			map[string]any{"status": models.VarietyStatusRemoved, "canonical_id": plan.CanonicalID.String()},
		); err != nil {
			s.logger.Warn("Audit write failed for soft delete", zap.Error(err))
		}

		for _, rp := range s.repointers {
			var count int64
			if err := retry.DoIfRetryable(ctx, s.retryCfg, func() error {
				var rerr error
				count, rerr = rp.Repoint(ctx, member.ID, plan.CanonicalID)
				return rerr
			}); err != nil {
				return fmt.Errorf("repoint %s references of %s: %w", rp.EntityType(), member.ID, err)
			}
			report.Summary.ReferencesUpdated += count
			repointed[rp.EntityType()] += count
		}
	}

	// Per-type repoint summary goes to the structured log; the audit sink
	// carries one entry per mutated record only.
	for entityType, count := range repointed {
		if count > 0 {
			s.logger.Info("Repointed foreign references",
				zap.String("entity_type", entityType),
				zap.Int64("count", count),
				zap.String("canonical_id", plan.CanonicalID.String()))
		}
	}

	return nil
}

func (s *mergeService) memberByID(plan *models.MergePlan, id uuid.UUID) *models.Variety {
	for _, m := range plan.Group.Members {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func mergeScope(plantTypeID *uuid.UUID) string {
	if plantTypeID == nil {
		return "variety-merge:all"
	}
	return "variety-merge:" + plantTypeID.String()
}

func arrayPayload(images, synonyms []string, subcatIDs []uuid.UUID) map[string]any {
	ids := make([]string, len(subcatIDs))
	for i, id := range subcatIDs {
		ids[i] = id.String()
	}
	return map[string]any{
		"images":                images,
		"synonyms":              synonyms,
		"plant_subcategory_ids": ids,
	}
}
