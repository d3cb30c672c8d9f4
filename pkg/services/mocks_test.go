package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/89lafa/awesomegardener-sub003/pkg/apperrors"
	"github.com/89lafa/awesomegardener-sub003/pkg/models"
)

// mockVarietyRepository is an in-memory implementation of VarietyRepository
// for testing. It enforces the same single-hop redirect guard as the real SQL.
type mockVarietyRepository struct {
	varieties map[uuid.UUID]*models.Variety

	markRemovedErr    map[uuid.UUID]error
	classificationErr map[uuid.UUID]error
}

func newMockVarietyRepository(varieties ...*models.Variety) *mockVarietyRepository {
	m := &mockVarietyRepository{
		varieties:         make(map[uuid.UUID]*models.Variety),
		markRemovedErr:    make(map[uuid.UUID]error),
		classificationErr: make(map[uuid.UUID]error),
	}
	for _, v := range varieties {
		m.varieties[v.ID] = v
	}
	return m
}

func (m *mockVarietyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Variety, error) {
	v, ok := m.varieties[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return v, nil
}

func (m *mockVarietyRepository) ListActive(ctx context.Context, plantTypeID *uuid.UUID, limit int) ([]*models.Variety, error) {
	var result []*models.Variety
	for _, v := range m.varieties {
		if v.Status != models.VarietyStatusActive {
			continue
		}
		if plantTypeID != nil && v.PlantTypeID != *plantTypeID {
			continue
		}
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedDate.Equal(result[j].CreatedDate) {
			return result[i].CreatedDate.Before(result[j].CreatedDate)
		}
		return result[i].ID.String() < result[j].ID.String()
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockVarietyRepository) UpdateMergedArrays(ctx context.Context, id uuid.UUID, preview models.MergePreview) error {
	v, ok := m.varieties[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	v.Images = preview.Images
	v.Synonyms = preview.Synonyms
	v.PlantSubcategoryIDs = preview.PlantSubcategoryIDs
	return nil
}

func (m *mockVarietyRepository) MarkRemoved(ctx context.Context, id, canonicalID uuid.UUID) error {
	if err := m.markRemovedErr[id]; err != nil {
		return err
	}
	v, ok := m.varieties[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	canonical, ok := m.varieties[canonicalID]
	if !ok || canonical.Status != models.VarietyStatusActive || canonical.CanonicalID != nil {
		return fmt.Errorf("variety %s -> %s: %w", id, canonicalID, apperrors.ErrCanonicalRemoved)
	}
	v.Status = models.VarietyStatusRemoved
	v.CanonicalID = &canonicalID
	return nil
}

func (m *mockVarietyRepository) UpdateClassification(ctx context.Context, id uuid.UUID, bucketID uuid.UUID, subcategoryIDs []uuid.UUID, species string) error {
	if err := m.classificationErr[id]; err != nil {
		return err
	}
	v, ok := m.varieties[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	v.PlantSubcategoryID = &bucketID
	v.PlantSubcategoryIDs = subcategoryIDs
	if species != "" {
		v.Species = species
	}
	return nil
}

// mockRepointer records repoint calls and reports a fixed count per call.
type mockRepointer struct {
	entityType string
	countPer   int64
	err        error

	calls []repointCall
}

type repointCall struct {
	oldID uuid.UUID
	newID uuid.UUID
}

func (m *mockRepointer) EntityType() string {
	return m.entityType
}

func (m *mockRepointer) Repoint(ctx context.Context, oldID, newID uuid.UUID) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.calls = append(m.calls, repointCall{oldID: oldID, newID: newID})
	return m.countPer, nil
}

// mockAuditService records audit entries in memory.
type mockAuditService struct {
	entries []auditEntry
	err     error
}

type auditEntry struct {
	action     string
	objectType string
	objectID   uuid.UUID
	before     map[string]any
	after      map[string]any
}

func (m *mockAuditService) Log(ctx context.Context, action, objectType string, objectID uuid.UUID, before, after map[string]any) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, auditEntry{
		action:     action,
		objectType: objectType,
		objectID:   objectID,
		before:     before,
		after:      after,
	})
	return nil
}

// mockScopeLocker runs the callback inline and records the scopes it saw.
type mockScopeLocker struct {
	scopes []string
	err    error
}

func (m *mockScopeLocker) WithScopeLock(ctx context.Context, scope string, fn func(ctx context.Context) error) error {
	if m.err != nil {
		return m.err
	}
	m.scopes = append(m.scopes, scope)
	return fn(ctx)
}

// mockSubcategoryRepository is an in-memory implementation of
// SubcategoryRepository for testing.
type mockSubcategoryRepository struct {
	subcats map[uuid.UUID]*models.PlantSubCategory
}

func newMockSubcategoryRepository(subcats ...*models.PlantSubCategory) *mockSubcategoryRepository {
	m := &mockSubcategoryRepository{subcats: make(map[uuid.UUID]*models.PlantSubCategory)}
	for _, sc := range subcats {
		m.subcats[sc.ID] = sc
	}
	return m
}

func (m *mockSubcategoryRepository) ListByPlantType(ctx context.Context, plantTypeID uuid.UUID, activeOnly bool) ([]*models.PlantSubCategory, error) {
	var result []*models.PlantSubCategory
	for _, sc := range m.subcats {
		if sc.PlantTypeID != plantTypeID {
			continue
		}
		if activeOnly && !sc.IsActive {
			continue
		}
		result = append(result, sc)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SortOrder != result[j].SortOrder {
			return result[i].SortOrder < result[j].SortOrder
		}
		return result[i].Code < result[j].Code
	})
	return result, nil
}

func (m *mockSubcategoryRepository) Upsert(ctx context.Context, sc *models.PlantSubCategory) (bool, error) {
	for _, existing := range m.subcats {
		if existing.PlantTypeID == sc.PlantTypeID && existing.Code == sc.Code {
			existing.Name = sc.Name
			existing.ScovilleMin = sc.ScovilleMin
			existing.ScovilleMax = sc.ScovilleMax
			existing.SortOrder = sc.SortOrder
			existing.IsActive = sc.IsActive
			sc.ID = existing.ID
			return false, nil
		}
	}
	if sc.ID == uuid.Nil {
		sc.ID = uuid.New()
	}
	m.subcats[sc.ID] = sc
	return true, nil
}

func (m *mockSubcategoryRepository) DeactivateOthers(ctx context.Context, plantTypeID uuid.UUID, keepCodes []string) (int64, error) {
	keep := make(map[string]struct{}, len(keepCodes))
	for _, c := range keepCodes {
		keep[c] = struct{}{}
	}
	var count int64
	for _, sc := range m.subcats {
		if sc.PlantTypeID != plantTypeID || !sc.IsActive {
			continue
		}
		if _, ok := keep[sc.Code]; !ok {
			sc.IsActive = false
			count++
		}
	}
	return count, nil
}
