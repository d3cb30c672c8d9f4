//go:build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/89lafa/awesomegardener-sub003/pkg/apperrors"
	"github.com/89lafa/awesomegardener-sub003/pkg/models"
	"github.com/89lafa/awesomegardener-sub003/pkg/testhelpers"
)

// varietyTestContext holds test dependencies for variety repository tests.
type varietyTestContext struct {
	t           *testing.T
	catalogDB   *testhelpers.CatalogDB
	repo        VarietyRepository
	plantTypeID uuid.UUID
}

func setupVarietyTest(t *testing.T) *varietyTestContext {
	catalogDB := testhelpers.GetCatalogDB(t)
	return &varietyTestContext{
		t:           t,
		catalogDB:   catalogDB,
		repo:        NewVarietyRepository(catalogDB.DB),
		plantTypeID: uuid.New(),
	}
}

func (tc *varietyTestContext) insertVariety(v *models.Variety) *models.Variety {
	tc.t.Helper()
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.PlantTypeID == uuid.Nil {
		v.PlantTypeID = tc.plantTypeID
	}
	if v.Status == "" {
		v.Status = models.VarietyStatusActive
	}
	if v.CreatedDate.IsZero() {
		v.CreatedDate = time.Now()
	}

	_, err := tc.catalogDB.DB.Exec(context.Background(), `
		INSERT INTO varieties (id, plant_type_id, variety_name, variety_code, status,
			scoville_min, scoville_max, species, images, synonyms, traits, created_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
	`, v.ID, v.PlantTypeID, v.VarietyName, v.VarietyCode, v.Status,
		v.ScovilleMin, v.ScovilleMax, v.Species, v.Images, v.Synonyms, nil, v.CreatedDate)
	require.NoError(tc.t, err)
	return v
}

func TestVarietyRepository_GetByID(t *testing.T) {
	tc := setupVarietyTest(t)
	ctx := context.Background()

	v := tc.insertVariety(&models.Variety{
		VarietyName: "Cherokee Purple",
		VarietyCode: "CP-1",
		Species:     "annuum",
		Images:      []string{"cp.jpg"},
	})

	got, err := tc.repo.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cherokee Purple", got.VarietyName)
	assert.Equal(t, "CP-1", got.VarietyCode)
	assert.Equal(t, []string{"cp.jpg"}, got.Images)

	_, err = tc.repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestVarietyRepository_ListActiveOrdering(t *testing.T) {
	tc := setupVarietyTest(t)
	ctx := context.Background()

	older := tc.insertVariety(&models.Variety{
		VarietyName: "Older",
		CreatedDate: time.Now().Add(-time.Hour),
	})
	newer := tc.insertVariety(&models.Variety{
		VarietyName: "Newer",
		CreatedDate: time.Now(),
	})

	varieties, err := tc.repo.ListActive(ctx, &tc.plantTypeID, 100)
	require.NoError(t, err)
	require.Len(t, varieties, 2)
	assert.Equal(t, older.ID, varieties[0].ID)
	assert.Equal(t, newer.ID, varieties[1].ID)
}

func TestVarietyRepository_MarkRemovedGuardsRedirectChains(t *testing.T) {
	tc := setupVarietyTest(t)
	ctx := context.Background()

	canonical := tc.insertVariety(&models.Variety{VarietyName: "Canonical"})
	duplicate := tc.insertVariety(&models.Variety{VarietyName: "Duplicate"})
	second := tc.insertVariety(&models.Variety{VarietyName: "Second Duplicate"})

	require.NoError(t, tc.repo.MarkRemoved(ctx, duplicate.ID, canonical.ID))

	got, err := tc.repo.GetByID(ctx, duplicate.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VarietyStatusRemoved, got.Status)
	require.NotNil(t, got.CanonicalID)
	assert.Equal(t, canonical.ID, *got.CanonicalID)

	// Pointing at a removed record would create a chain; refused.
	err = tc.repo.MarkRemoved(ctx, second.ID, duplicate.ID)
	assert.ErrorIs(t, err, apperrors.ErrCanonicalRemoved)

	got, err = tc.repo.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VarietyStatusActive, got.Status)

	// Removed records drop out of active listings.
	varieties, err := tc.repo.ListActive(ctx, &tc.plantTypeID, 100)
	require.NoError(t, err)
	for _, v := range varieties {
		assert.NotEqual(t, duplicate.ID, v.ID)
	}
}

func TestVarietyRepository_UpdateMergedArrays(t *testing.T) {
	tc := setupVarietyTest(t)
	ctx := context.Background()

	v := tc.insertVariety(&models.Variety{VarietyName: "Merge Target", Images: []string{"old.jpg"}})
	subcatID := uuid.New()

	err := tc.repo.UpdateMergedArrays(ctx, v.ID, models.MergePreview{
		Images:              []string{"old.jpg", "new.jpg"},
		Synonyms:            []string{"alias"},
		PlantSubcategoryIDs: []uuid.UUID{subcatID},
	})
	require.NoError(t, err)

	got, err := tc.repo.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.jpg", "new.jpg"}, got.Images)
	assert.Equal(t, []string{"alias"}, got.Synonyms)
	assert.Equal(t, []uuid.UUID{subcatID}, got.PlantSubcategoryIDs)
}

func TestVarietyRepository_UpdateClassification(t *testing.T) {
	tc := setupVarietyTest(t)
	ctx := context.Background()

	v := tc.insertVariety(&models.Variety{VarietyName: "Classified"})
	bucketID := uuid.New()

	err := tc.repo.UpdateClassification(ctx, v.ID, bucketID, []uuid.UUID{bucketID}, "chinense")
	require.NoError(t, err)

	got, err := tc.repo.GetByID(ctx, v.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PlantSubcategoryID)
	assert.Equal(t, bucketID, *got.PlantSubcategoryID)
	assert.Equal(t, "chinense", got.Species)

	// Empty species leaves the column alone.
	err = tc.repo.UpdateClassification(ctx, v.ID, bucketID, []uuid.UUID{bucketID}, "")
	require.NoError(t, err)
	got, err = tc.repo.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "chinense", got.Species)
}
