package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/89lafa/awesomegardener-sub003/pkg/models"
)

func intPtr(n int) *int { return &n }

func TestCompletenessScore(t *testing.T) {
	assert.Equal(t, 0, CompletenessScore(&models.Variety{}))

	full := &models.Variety{
		VarietyName:         "Habanero Orange",
		VarietyCode:         "HAB-O",
		Species:             "chinense",
		ScovilleMin:         intPtr(150000),
		ScovilleMax:         intPtr(350000),
		HeatScovilleMin:     intPtr(150000),
		HeatScovilleMax:     intPtr(350000),
		PlantSubcategoryID:  &uuid.UUID{},
		Images:              []string{"a.jpg"},
		Synonyms:            []string{"orange hab"},
		PlantSubcategoryIDs: []uuid.UUID{uuid.New()},
		Traits:              map[string]json.RawMessage{"days_to_maturity": json.RawMessage(`90`)},
	}
	assert.Equal(t, 12, CompletenessScore(full))
}

func TestSelectCanonical_CodeBeatsCompleteness(t *testing.T) {
	group := &models.DuplicateGroup{Members: []*models.Variety{
		{
			ID:          uuid.New(),
			VarietyName: "Jalapeño M",
			Species:     "annuum",
			Images:      []string{"a.jpg", "b.jpg"},
			Synonyms:    []string{"jal"},
			ScovilleMax: intPtr(8000),
		},
		{
			ID:          uuid.New(),
			VarietyName: "Jalapeño M",
			VarietyCode: "JAL-M",
		},
	}}

	canonical := SelectCanonical(group)
	assert.Equal(t, "JAL-M", canonical.VarietyCode)
}

func TestSelectCanonical_CompletenessBreaksCodeTie(t *testing.T) {
	sparse := &models.Variety{ID: uuid.New(), VarietyName: "Serrano", VarietyCode: "SER"}
	rich := &models.Variety{
		ID:          uuid.New(),
		VarietyName: "Serrano",
		VarietyCode: "SER",
		Species:     "annuum",
		ScovilleMax: intPtr(23000),
	}

	canonical := SelectCanonical(&models.DuplicateGroup{Members: []*models.Variety{sparse, rich}})
	assert.Equal(t, rich.ID, canonical.ID)
}

func TestSelectCanonical_EarliestCreatedBreaksScoreTie(t *testing.T) {
	older := &models.Variety{ID: uuid.New(), VarietyName: "Poblano", CreatedDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := &models.Variety{ID: uuid.New(), VarietyName: "Poblano", CreatedDate: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)}

	canonical := SelectCanonical(&models.DuplicateGroup{Members: []*models.Variety{newer, older}})
	assert.Equal(t, older.ID, canonical.ID)
}

func TestSelectCanonical_LowestIDIsFinalTiebreak(t *testing.T) {
	created := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	a := &models.Variety{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), VarietyName: "Anaheim", CreatedDate: created}
	b := &models.Variety{ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), VarietyName: "Anaheim", CreatedDate: created}

	canonical := SelectCanonical(&models.DuplicateGroup{Members: []*models.Variety{b, a}})
	assert.Equal(t, a.ID, canonical.ID)

	// Member order never changes the outcome.
	canonical = SelectCanonical(&models.DuplicateGroup{Members: []*models.Variety{a, b}})
	assert.Equal(t, a.ID, canonical.ID)
}
