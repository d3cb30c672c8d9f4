package models

import (
	"time"

	"github.com/google/uuid"
)

// Canonical heat bucket codes. Every pepper variety is assigned exactly one.
const (
	HeatSweet    = "SWEET"
	HeatMild     = "MILD"
	HeatMedium   = "MEDIUM"
	HeatHot      = "HOT"
	HeatExtraHot = "EXTRA_HOT"
	HeatSuperhot = "SUPERHOT"
	HeatUnknown  = "UNKNOWN"
)

// CanonicalHeatCodes lists the seven bucket codes in ascending heat order,
// with UNKNOWN last.
var CanonicalHeatCodes = []string{
	HeatSweet, HeatMild, HeatMedium, HeatHot, HeatExtraHot, HeatSuperhot, HeatUnknown,
}

// IsCanonicalHeatCode reports whether code is one of the seven fixed buckets.
func IsCanonicalHeatCode(code string) bool {
	for _, c := range CanonicalHeatCodes {
		if c == code {
			return true
		}
	}
	return false
}

// PlantSubCategory is a categorical bucket under a plant type. For peppers the
// canonical set is the seven heat buckets; the numeric range is nil for UNKNOWN.
type PlantSubCategory struct {
	ID          uuid.UUID `json:"id"`
	PlantTypeID uuid.UUID `json:"plant_type_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	ScovilleMin *int      `json:"scoville_min,omitempty"`
	ScovilleMax *int      `json:"scoville_max,omitempty"`
	SortOrder   int       `json:"sort_order"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}
