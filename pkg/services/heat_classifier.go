package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/89lafa/awesomegardener-sub003/pkg/models"
)

// keywordTier binds a heat bucket to the name fragments that imply it.
// Tiers are evaluated in declaration order, most severe first, and the first
// tier with any match wins.
type keywordTier struct {
	Code     string
	Keywords []string
}

// heatKeywordTiers is the ordered keyword classifier used when a variety has
// no numeric SHU data. Note "chipotle" appears in both the Hot and Medium
// tiers; Hot wins because it is checked first. The double entry matches the
// curated keyword data and must not be de-duplicated without a product
// decision.
var heatKeywordTiers = []keywordTier{
	{models.HeatSuperhot, []string{"superhot", "reaper", "ghost", "bhut", "7 pot", "scorpion", "primotalii", "moruga", "douglah"}},
	{models.HeatExtraHot, []string{"habanero", "scotch bonnet", "fatalii", "trinidad", "naga"}},
	{models.HeatHot, []string{"thai", "cayenne", "tabasco", "pequin", "arbol", "chipotle"}},
	{models.HeatMedium, []string{"jalape", "serrano", "chipotle"}},
	{models.HeatMild, []string{"anaheim", "poblano", "pasilla", "wax", "banana", "cubanelle", "pepperoncini"}},
	{models.HeatSweet, []string{"bell", "sweet", "pimento", "pimiento"}},
}

// sweetCheck is one predicate of the confidently-sweet heuristic. The checks
// are named and ordered so the heuristic stays auditable.
type sweetCheck struct {
	Name  string
	Match func(name, oldLabel, species string) bool
}

var sweetNameKeywords = []string{"bell", "sweet", "pimento", "pimiento"}

// confidentlySweetChecks decides whether a 0-SHU variety is genuinely sweet.
// Zero SHU alone is not sufficient evidence; one of these has to agree.
var confidentlySweetChecks = []sweetCheck{
	{
		Name: "name_keyword",
		Match: func(name, _, _ string) bool {
			return containsAny(name, sweetNameKeywords)
		},
	},
	{
		Name: "old_label_keyword",
		Match: func(_, oldLabel, _ string) bool {
			return containsAny(oldLabel, []string{"sweet", "bell"})
		},
	},
	{
		Name: "annuum_bell",
		Match: func(name, oldLabel, species string) bool {
			return species == "annuum" &&
				(strings.Contains(name, "bell") || strings.Contains(oldLabel, "bell"))
		},
	},
}

// SHU bucket boundaries, inclusive upper bounds.
const (
	mildMaxSHU     = 2500
	mediumMaxSHU   = 30000
	hotMaxSHU      = 100000
	extraHotMaxSHU = 300000
)

// ClassifyHeatLevel assigns a variety to exactly one of the seven canonical
// heat buckets. bucketLookup maps canonical codes to their subcategory ids;
// existingBucketID is the variety's current assignment, consulted only by the
// stability rule.
//
// Decision order, first match wins:
//  1. No numeric SHU data: keyword inference over name + old bucket label,
//     most severe tier first; else preserve an existing canonical assignment;
//     else UNKNOWN.
//  2. Effective max SHU is 0: SWEET only when the confidently-sweet heuristic
//     agrees, otherwise UNKNOWN.
//  3. Effective max SHU above 0: fixed inclusive-upper-bound ranges.
func ClassifyHeatLevel(v *models.Variety, oldBucketLabel string, existingBucketID *uuid.UUID, bucketLookup map[string]uuid.UUID) string {
	maxSHU := v.EffectiveScovilleMax()
	minSHU := v.EffectiveScovilleMin()

	name := strings.ToLower(v.VarietyName)
	oldLabel := strings.ToLower(oldBucketLabel)

	// Rule 1: nothing numeric to go on.
	if maxSHU == nil && minSHU == nil {
		text := name + " " + oldLabel
		for _, tier := range heatKeywordTiers {
			if containsAny(text, tier.Keywords) {
				return tier.Code
			}
		}
		// Stability: a confident prior placement survives absent data.
		if existingBucketID != nil {
			for code, id := range bucketLookup {
				if id == *existingBucketID {
					return code
				}
			}
		}
		return models.HeatUnknown
	}

	effectiveMax := 0
	if maxSHU != nil {
		effectiveMax = *maxSHU
	} else if minSHU != nil {
		effectiveMax = *minSHU
	}

	// Rule 2: measured at zero. Only confidently sweet varieties get SWEET.
	if effectiveMax == 0 {
		for _, check := range confidentlySweetChecks {
			if check.Match(name, oldLabel, v.Species) {
				return models.HeatSweet
			}
		}
		return models.HeatUnknown
	}

	// Rule 3: bucket by range.
	switch {
	case effectiveMax <= mildMaxSHU:
		return models.HeatMild
	case effectiveMax <= mediumMaxSHU:
		return models.HeatMedium
	case effectiveMax <= hotMaxSHU:
		return models.HeatHot
	case effectiveMax <= extraHotMaxSHU:
		return models.HeatExtraHot
	default:
		return models.HeatSuperhot
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
