package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Variety status values. Removed varieties are never physically deleted;
// they keep a pointer to the canonical record that replaced them.
const (
	VarietyStatusActive  = "active"
	VarietyStatusRemoved = "removed"
)

// Variety is a catalog entry for one cultivar of a plant type.
// Contributed by many sources, so near-duplicate records are expected.
type Variety struct {
	ID          uuid.UUID `json:"id"`
	PlantTypeID uuid.UUID `json:"plant_type_id"`

	VarietyName string `json:"variety_name"`
	// VarietyCode is an optional stable external identifier (seed bank code,
	// supplier SKU). Compared case-sensitively when fingerprinting.
	VarietyCode string `json:"variety_code,omitempty"`

	Status string `json:"status"`
	// CanonicalID is set only when Status is removed, and always points to an
	// active record. Canonical records never carry a CanonicalID (no chains).
	CanonicalID *uuid.UUID `json:"canonical_id,omitempty"`

	// Heat measurements in Scoville Heat Units. The Heat* pair is the
	// legacy-named fallback still present on older records.
	ScovilleMin     *int `json:"scoville_min,omitempty"`
	ScovilleMax     *int `json:"scoville_max,omitempty"`
	HeatScovilleMin *int `json:"heat_scoville_min,omitempty"`
	HeatScovilleMax *int `json:"heat_scoville_max,omitempty"`

	Species string `json:"species,omitempty"`

	Images   []string `json:"images,omitempty"`
	Synonyms []string `json:"synonyms,omitempty"`
	// PlantSubcategoryIDs holds subcategory memberships. Keys are unique and
	// order is irrelevant, except the heat bucket id is conventionally first.
	PlantSubcategoryIDs []uuid.UUID `json:"plant_subcategory_ids,omitempty"`
	// PlantSubcategoryID is the scalar heat bucket assignment.
	PlantSubcategoryID *uuid.UUID `json:"plant_subcategory_id,omitempty"`

	// Traits is a loosely-typed bag of extra attributes carried over from
	// catalog ingestion. Values are kept raw; use jsonutil to read them.
	Traits map[string]json.RawMessage `json:"traits,omitempty"`

	CreatedDate time.Time `json:"created_date"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EffectiveScovilleMax returns scoville_max, falling back to the legacy
// heat_scoville_max column. Nil when neither is recorded.
func (v *Variety) EffectiveScovilleMax() *int {
	if v.ScovilleMax != nil {
		return v.ScovilleMax
	}
	return v.HeatScovilleMax
}

// EffectiveScovilleMin returns scoville_min with the legacy fallback.
func (v *Variety) EffectiveScovilleMin() *int {
	if v.ScovilleMin != nil {
		return v.ScovilleMin
	}
	return v.HeatScovilleMin
}

// IsRemoved reports whether the variety has been merged away.
func (v *Variety) IsRemoved() bool {
	return v.Status == VarietyStatusRemoved
}
