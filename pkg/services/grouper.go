package services

import (
	"sort"

	"github.com/89lafa/awesomegardener-sub003/pkg/models"
)

// Fingerprint computes the grouping key for duplicate detection.
// In code_first mode a non-empty variety_code wins and is compared
// case-sensitively; otherwise (and always in name_only mode) the key is the
// normalized name. The code/name prefix keeps the two key spaces disjoint.
func Fingerprint(v *models.Variety, mode models.MatchingMode) string {
	if mode == models.MatchCodeFirst && v.VarietyCode != "" {
		return v.PlantTypeID.String() + "|code:" + v.VarietyCode
	}
	return v.PlantTypeID.String() + "|name:" + Normalize(v.VarietyName)
}

// Group partitions varieties into duplicate-candidate groups by fingerprint.
// Groups of size 1 are discarded. Side-effect free and deterministic: groups
// come back sorted by fingerprint, members in input order.
func Group(varieties []*models.Variety, mode models.MatchingMode) []*models.DuplicateGroup {
	byFingerprint := make(map[string][]*models.Variety)
	for _, v := range varieties {
		fp := Fingerprint(v, mode)
		byFingerprint[fp] = append(byFingerprint[fp], v)
	}

	var groups []*models.DuplicateGroup
	for fp, members := range byFingerprint {
		if len(members) < 2 {
			continue
		}
		groups = append(groups, &models.DuplicateGroup{
			Fingerprint: fp,
			PlantTypeID: members[0].PlantTypeID,
			Members:     members,
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Fingerprint < groups[j].Fingerprint
	})

	return groups
}

// CountDuplicates returns the number of redundant records across groups
// (every member beyond the first in each group).
func CountDuplicates(groups []*models.DuplicateGroup) int {
	total := 0
	for _, g := range groups {
		total += len(g.Members) - 1
	}
	return total
}
