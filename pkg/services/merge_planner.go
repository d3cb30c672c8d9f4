package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/89lafa/awesomegardener-sub003/pkg/models"
)

// PlanMerge computes the dry-run merge result for one duplicate group. It
// selects the canonical member and builds the union of every array field:
// canonical entries first, then each duplicate's novel entries in member
// order, de-duplicated. Scalar fields are never auto-resolved; disagreements
// are surfaced as conflicts for operator visibility. Pure: calling this twice
// on the same group yields identical output.
func PlanMerge(group *models.DuplicateGroup) *models.MergePlan {
	canonical := SelectCanonical(group)

	// Canonical first, duplicates in member order after it.
	ordered := make([]*models.Variety, 0, len(group.Members))
	ordered = append(ordered, canonical)
	for _, m := range group.Members {
		if m.ID != canonical.ID {
			ordered = append(ordered, m)
		}
	}

	plan := &models.MergePlan{
		Group:       group,
		CanonicalID: canonical.ID,
		MergePreview: models.MergePreview{
			Images:              unionStrings(ordered, func(v *models.Variety) []string { return v.Images }),
			Synonyms:            unionStrings(ordered, func(v *models.Variety) []string { return v.Synonyms }),
			PlantSubcategoryIDs: unionUUIDs(ordered, func(v *models.Variety) []uuid.UUID { return v.PlantSubcategoryIDs }),
		},
		ScalarConflicts: scalarConflicts(canonical, ordered[1:]),
	}

	for _, m := range group.Members {
		plan.MemberDiagnostics = append(plan.MemberDiagnostics, models.MemberDiagnostic{
			VarietyID:   m.ID,
			VarietyName: m.VarietyName,
			IsCanonical: m.ID == canonical.ID,
			FieldCount:  CompletenessScore(m),
			ArraySizes: map[string]int{
				"images":                len(m.Images),
				"synonyms":              len(m.Synonyms),
				"plant_subcategory_ids": len(m.PlantSubcategoryIDs),
			},
		})
	}

	return plan
}

func unionStrings(ordered []*models.Variety, field func(*models.Variety) []string) []string {
	seen := make(map[string]struct{})
	var union []string
	for _, v := range ordered {
		for _, entry := range field(v) {
			if _, ok := seen[entry]; ok {
				continue
			}
			seen[entry] = struct{}{}
			union = append(union, entry)
		}
	}
	return union
}

func unionUUIDs(ordered []*models.Variety, field func(*models.Variety) []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var union []uuid.UUID
	for _, v := range ordered {
		for _, entry := range field(v) {
			if _, ok := seen[entry]; ok {
				continue
			}
			seen[entry] = struct{}{}
			union = append(union, entry)
		}
	}
	return union
}

// scalarConflicts reports scalar fields where a duplicate carries a non-empty
// value that disagrees with the canonical record.
func scalarConflicts(canonical *models.Variety, duplicates []*models.Variety) []models.ScalarConflict {
	fields := []struct {
		name  string
		value func(*models.Variety) string
	}{
		{"variety_code", func(v *models.Variety) string { return v.VarietyCode }},
		{"species", func(v *models.Variety) string { return v.Species }},
		{"scoville_min", func(v *models.Variety) string { return intString(v.ScovilleMin) }},
		{"scoville_max", func(v *models.Variety) string { return intString(v.ScovilleMax) }},
	}

	var conflicts []models.ScalarConflict
	for _, f := range fields {
		canonicalValue := f.value(canonical)
		var disagreeing map[string]string
		for _, d := range duplicates {
			if dv := f.value(d); dv != "" && dv != canonicalValue {
				if disagreeing == nil {
					disagreeing = make(map[string]string)
				}
				disagreeing[d.ID.String()] = dv
			}
		}
		if disagreeing != nil {
			conflicts = append(conflicts, models.ScalarConflict{
				Field:          f.name,
				CanonicalValue: canonicalValue,
				MemberValues:   disagreeing,
			})
		}
	}
	return conflicts
}

func intString(n *int) string {
	if n == nil {
		return ""
	}
	return fmt.Sprintf("%d", *n)
}
