package models

import (
	"fmt"
	"strings"
	"time"
)

// ClassificationDiagnostics carries per-run observations for operator review.
type ClassificationDiagnostics struct {
	// BucketCounts is the number of varieties assigned per bucket code.
	BucketCounts map[string]int `json:"bucketCounts"`
	// SweetWithZeroSHU lists variety names classified SWEET on the strength of
	// the confidently-sweet heuristic alone (0 SHU is not evidence by itself).
	SweetWithZeroSHU []string `json:"sweetWith0SHU"`
}

// ClassificationReport is the outcome of a heat-level classification batch.
type ClassificationReport struct {
	CanonicalSubcatsCreated int                       `json:"canonicalSubcatsCreated"`
	OldSubcatsDeactivated   int                       `json:"oldSubcatsDeactivated"`
	VarietiesUpdated        int                       `json:"varietiesUpdated"`
	ErrorsEncountered       int                       `json:"errorsEncountered"`
	Diagnostics             ClassificationDiagnostics `json:"diagnostics"`
	Timestamp               time.Time                 `json:"timestamp"`
}

// Render produces an operator-facing text summary of the classification run.
func (r *ClassificationReport) Render() string {
	var b strings.Builder
	b.WriteString("Heat-level classification results:\n")
	fmt.Fprintf(&b, "  %d canonical %s created, %d old %s deactivated\n",
		r.CanonicalSubcatsCreated, pluralize("bucket", r.CanonicalSubcatsCreated),
		r.OldSubcatsDeactivated, pluralize("bucket", r.OldSubcatsDeactivated))
	fmt.Fprintf(&b, "  %d %s updated, %d %s\n",
		r.VarietiesUpdated, pluralize("variety", r.VarietiesUpdated),
		r.ErrorsEncountered, pluralize("error", r.ErrorsEncountered))
	for _, code := range CanonicalHeatCodes {
		if n, ok := r.Diagnostics.BucketCounts[code]; ok {
			fmt.Fprintf(&b, "    %-10s %d\n", code, n)
		}
	}
	if len(r.Diagnostics.SweetWithZeroSHU) > 0 {
		fmt.Fprintf(&b, "  sweet with 0 SHU: %s\n", strings.Join(r.Diagnostics.SweetWithZeroSHU, ", "))
	}
	return b.String()
}
