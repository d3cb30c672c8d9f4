package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/inflection"
)

// MatchingMode selects the fingerprint strategy for duplicate detection.
type MatchingMode string

const (
	// MatchCodeFirst fingerprints by variety_code when present, otherwise by
	// normalized name.
	MatchCodeFirst MatchingMode = "code_first"
	// MatchNameOnly always fingerprints by normalized name.
	MatchNameOnly MatchingMode = "name_only"
)

// IsValid reports whether the mode is one of the supported strategies.
func (m MatchingMode) IsValid() bool {
	return m == MatchCodeFirst || m == MatchNameOnly
}

// DuplicateGroup is a set of varieties sharing a fingerprint. Derived during a
// batch run, never persisted. Groups of size 1 are not duplicates and are
// discarded before this type is constructed.
type DuplicateGroup struct {
	Fingerprint string     `json:"fingerprint"`
	PlantTypeID uuid.UUID  `json:"plant_type_id"`
	Members     []*Variety `json:"members"`
}

// MergePreview is the computed union of array fields for the canonical record.
// Canonical entries come first; each duplicate contributes its novel entries in
// member order. Scalars are not previewed, they stay as the canonical has them.
type MergePreview struct {
	Images              []string    `json:"images"`
	Synonyms            []string    `json:"synonyms"`
	PlantSubcategoryIDs []uuid.UUID `json:"plant_subcategory_ids"`
}

// MemberDiagnostic summarizes one group member for operator review.
type MemberDiagnostic struct {
	VarietyID   uuid.UUID      `json:"variety_id"`
	VarietyName string         `json:"variety_name"`
	IsCanonical bool           `json:"is_canonical"`
	FieldCount  int            `json:"field_count"`
	ArraySizes  map[string]int `json:"array_sizes"`
}

// ScalarConflict surfaces a scalar field where a duplicate disagrees with the
// canonical record. Conflicts are reported for visibility only, never
// auto-resolved.
type ScalarConflict struct {
	Field          string            `json:"field"`
	CanonicalValue string            `json:"canonical_value"`
	MemberValues   map[string]string `json:"member_values"` // variety id -> value
}

// MergePlan is the dry-run output for one duplicate group.
type MergePlan struct {
	Group             *DuplicateGroup    `json:"group"`
	CanonicalID       uuid.UUID          `json:"canonical_id"`
	MergePreview      MergePreview       `json:"merge_preview"`
	MemberDiagnostics []MemberDiagnostic `json:"member_diagnostics"`
	ScalarConflicts   []ScalarConflict   `json:"scalar_conflicts,omitempty"`
}

// DryRunReport is the response of a duplicate-detection pass with previews.
type DryRunReport struct {
	DuplicateGroups []*MergePlan `json:"duplicateGroups"`
	TotalDuplicates int          `json:"totalDuplicates"`
}

// MergeSummary aggregates the outcome of an apply run.
type MergeSummary struct {
	GroupsMerged        int   `json:"groupsMerged"`
	RecordsMerged       int   `json:"recordsMerged"`
	ReferencesUpdated   int64 `json:"referencesUpdated"`
	RemainingDuplicates int   `json:"remainingDuplicates"`
}

// MergeReport is the response of an apply run. Per-group failures are recorded
// in Errors; the batch never aborts on a single bad group.
type MergeReport struct {
	Summary   MergeSummary `json:"summary"`
	Timestamp time.Time    `json:"timestamp"`
	Errors    []string     `json:"errors,omitempty"`
}

// Render produces an operator-facing text summary of the merge run.
func (r *MergeReport) Render() string {
	var b strings.Builder
	b.WriteString("Variety merge results:\n")
	fmt.Fprintf(&b, "  %d %s merged (%d %s removed)\n",
		r.Summary.GroupsMerged, pluralize("group", r.Summary.GroupsMerged),
		r.Summary.RecordsMerged, pluralize("record", r.Summary.RecordsMerged))
	fmt.Fprintf(&b, "  %d foreign %s repointed\n",
		r.Summary.ReferencesUpdated, pluralize("reference", int(r.Summary.ReferencesUpdated)))
	fmt.Fprintf(&b, "  %d remaining %s\n",
		r.Summary.RemainingDuplicates, pluralize("duplicate", r.Summary.RemainingDuplicates))
	if len(r.Errors) > 0 {
		fmt.Fprintf(&b, "  %d %s:\n", len(r.Errors), pluralize("error", len(r.Errors)))
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "    - %s\n", e)
		}
	}
	return b.String()
}

func pluralize(noun string, n int) string {
	if n == 1 {
		return inflection.Singular(noun)
	}
	return inflection.Plural(noun)
}
