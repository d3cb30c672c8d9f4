package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/89lafa/awesomegardener-sub003/pkg/models"
)

func TestFingerprint_CodeFirst(t *testing.T) {
	plantTypeID := uuid.New()

	withCode := &models.Variety{ID: uuid.New(), PlantTypeID: plantTypeID, VarietyName: "Jalapeño M", VarietyCode: "JAL-M"}
	withoutCode := &models.Variety{ID: uuid.New(), PlantTypeID: plantTypeID, VarietyName: "Jalapeño M"}

	assert.Equal(t, plantTypeID.String()+"|code:JAL-M", Fingerprint(withCode, models.MatchCodeFirst))
	assert.Equal(t, plantTypeID.String()+"|name:jalapeño m", Fingerprint(withoutCode, models.MatchCodeFirst))
}

func TestFingerprint_NameOnlyIgnoresCode(t *testing.T) {
	plantTypeID := uuid.New()
	v := &models.Variety{ID: uuid.New(), PlantTypeID: plantTypeID, VarietyName: "Jalapeño M", VarietyCode: "JAL-M"}

	assert.Equal(t, plantTypeID.String()+"|name:jalapeño m", Fingerprint(v, models.MatchNameOnly))
}

func TestFingerprint_CodeIsCaseSensitive(t *testing.T) {
	plantTypeID := uuid.New()
	a := &models.Variety{ID: uuid.New(), PlantTypeID: plantTypeID, VarietyName: "A", VarietyCode: "jal-m"}
	b := &models.Variety{ID: uuid.New(), PlantTypeID: plantTypeID, VarietyName: "A", VarietyCode: "JAL-M"}

	assert.NotEqual(t, Fingerprint(a, models.MatchCodeFirst), Fingerprint(b, models.MatchCodeFirst))
}

func TestFingerprint_PlantTypeScopesKeys(t *testing.T) {
	a := &models.Variety{ID: uuid.New(), PlantTypeID: uuid.New(), VarietyName: "Cherokee Purple"}
	b := &models.Variety{ID: uuid.New(), PlantTypeID: uuid.New(), VarietyName: "Cherokee Purple"}

	assert.NotEqual(t, Fingerprint(a, models.MatchNameOnly), Fingerprint(b, models.MatchNameOnly))
}

func TestGroup_DiscardsSingletons(t *testing.T) {
	plantTypeID := uuid.New()
	varieties := []*models.Variety{
		{ID: uuid.New(), PlantTypeID: plantTypeID, VarietyName: "Cherokee Purple"},
		{ID: uuid.New(), PlantTypeID: plantTypeID, VarietyName: "cherokee purple "},
		{ID: uuid.New(), PlantTypeID: plantTypeID, VarietyName: "Black Krim"},
	}

	groups := Group(varieties, models.MatchNameOnly)

	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Members, 2)
	assert.Equal(t, 1, CountDuplicates(groups))
}

func TestGroup_MembersKeepInputOrder(t *testing.T) {
	plantTypeID := uuid.New()
	first := &models.Variety{ID: uuid.New(), PlantTypeID: plantTypeID, VarietyName: "Thai Hot"}
	second := &models.Variety{ID: uuid.New(), PlantTypeID: plantTypeID, VarietyName: "THAI HOT"}
	third := &models.Variety{ID: uuid.New(), PlantTypeID: plantTypeID, VarietyName: "thai hot"}

	groups := Group([]*models.Variety{first, second, third}, models.MatchNameOnly)

	require.Len(t, groups, 1)
	require.Len(t, groups[0].Members, 3)
	assert.Equal(t, first.ID, groups[0].Members[0].ID)
	assert.Equal(t, second.ID, groups[0].Members[1].ID)
	assert.Equal(t, third.ID, groups[0].Members[2].ID)
}

func TestGroup_Deterministic(t *testing.T) {
	plantTypeID := uuid.New()
	var varieties []*models.Variety
	names := []string{"Alpha", "alpha", "Beta", "beta", "Gamma", "gamma"}
	for _, n := range names {
		varieties = append(varieties, &models.Variety{ID: uuid.New(), PlantTypeID: plantTypeID, VarietyName: n})
	}

	first := Group(varieties, models.MatchNameOnly)
	second := Group(varieties, models.MatchNameOnly)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Fingerprint, second[i].Fingerprint)
		require.Equal(t, len(first[i].Members), len(second[i].Members))
		for j := range first[i].Members {
			assert.Equal(t, first[i].Members[j].ID, second[i].Members[j].ID)
		}
	}
}

func TestGroup_CodeFirstSplitsDistinctCodes(t *testing.T) {
	// Same normalized name but different codes means different physical stock;
	// code_first must not merge them.
	plantTypeID := uuid.New()
	varieties := []*models.Variety{
		{ID: uuid.New(), PlantTypeID: plantTypeID, VarietyName: "Early Jalapeño", VarietyCode: "EJ-1"},
		{ID: uuid.New(), PlantTypeID: plantTypeID, VarietyName: "Early Jalapeño", VarietyCode: "EJ-2"},
	}

	groups := Group(varieties, models.MatchCodeFirst)
	assert.Empty(t, groups)

	// name_only collapses them.
	groups = Group(varieties, models.MatchNameOnly)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Members, 2)
}

func TestCountDuplicates_Empty(t *testing.T) {
	assert.Equal(t, 0, CountDuplicates(nil))
}
