package services

import (
	"strings"

	"github.com/89lafa/awesomegardener-sub003/pkg/models"
)

// CompletenessScore counts the non-empty scalar and array fields of a variety.
// Used as the second-ranked criterion when selecting a canonical record.
func CompletenessScore(v *models.Variety) int {
	score := 0
	for _, present := range []bool{
		v.VarietyName != "",
		v.VarietyCode != "",
		v.Species != "",
		v.ScovilleMin != nil,
		v.ScovilleMax != nil,
		v.HeatScovilleMin != nil,
		v.HeatScovilleMax != nil,
		v.PlantSubcategoryID != nil,
		len(v.Images) > 0,
		len(v.Synonyms) > 0,
		len(v.PlantSubcategoryIDs) > 0,
		len(v.Traits) > 0,
	} {
		if present {
			score++
		}
	}
	return score
}

// SelectCanonical picks the single authoritative member of a duplicate group.
// Ranking, in order: has a variety_code, higher completeness score, earliest
// created_date, lowest id. The final id criterion makes the choice fully
// deterministic; re-running on an unchanged group always picks the same member.
func SelectCanonical(group *models.DuplicateGroup) *models.Variety {
	best := group.Members[0]
	for _, candidate := range group.Members[1:] {
		if canonicalRankLess(candidate, best) {
			best = candidate
		}
	}
	return best
}

// canonicalRankLess reports whether a should be preferred over b as canonical.
func canonicalRankLess(a, b *models.Variety) bool {
	aHasCode, bHasCode := a.VarietyCode != "", b.VarietyCode != ""
	if aHasCode != bHasCode {
		return aHasCode
	}

	aScore, bScore := CompletenessScore(a), CompletenessScore(b)
	if aScore != bScore {
		return aScore > bScore
	}

	if !a.CreatedDate.Equal(b.CreatedDate) {
		return a.CreatedDate.Before(b.CreatedDate)
	}

	return strings.Compare(a.ID.String(), b.ID.String()) < 0
}
