// Package validate assesses reconstruction trustworthiness without ground
// truth: structural parity against the presentation hierarchy, duplicate and
// conflicting candidate facts, missing-value classification, context
// coherence, and arithmetic subtotal checks, aggregated to per-filing and
// per-batch health reports. Validation never fails fast for business-data
// reasons; callers branch on the report status.
package validate

import (
	"time"

	"sec_reconstructor/pkg/core/reconstruct"
)

// Status values for filing and statement health.
const (
	StatusPass = "pass"
	StatusWarn = "warn"
	StatusFail = "fail"
)

// Subtotal tolerance in reporting units, absorbing filer rounding.
const SubtotalTolerance = 1.0

// StructuralParity records whether the reconstructed (report, line, depth,
// tag) sequence equals the presentation structure exactly, in count and
// order. Statements with no presentation structure auto-pass as
// inapplicable.
type StructuralParity struct {
	Applicable   bool   `json:"applicable"`
	Passed       bool   `json:"passed"`
	ExpectedRows int    `json:"expected_rows"`
	ActualRows   int    `json:"actual_rows"`
	FirstBreak   string `json:"first_break,omitempty"`
}

// DuplicateRow flags a row whose selector saw more than one candidate fact.
// Conflict marks the subset where candidates disagreed in value.
type DuplicateRow struct {
	Report       int    `json:"report"`
	Line         int    `json:"line"`
	Tag          string `json:"tag"`
	Candidates   int    `json:"candidates"`
	UniqueValues int    `json:"unique_values"`
	Conflict     bool   `json:"conflict"`
}

// MissingValues splits unvalued rows into expected (non-numeric disclosure
// concepts) and unexpected (the actionable signal).
type MissingValues struct {
	ExpectedTags   []string `json:"expected_tags"`
	UnexpectedTags []string `json:"unexpected_tags"`
}

// ContextKey identifies one (date, duration) pair observed among valued rows.
type ContextKey struct {
	DDate string `json:"ddate"`
	Qtrs  *int   `json:"qtrs"`
}

// ContextCoherence reports how many distinct contexts the valued rows of a
// statement span and whether that is within the statement's tolerance.
type ContextCoherence struct {
	Passed           bool         `json:"passed"`
	DurationContexts int          `json:"duration_contexts"`
	InstantContexts  int          `json:"instant_contexts"`
	Contexts         []ContextKey `json:"contexts"`
}

// SubtotalCheck is one arithmetic consistency check. Variant names the
// formula that was evaluated (for cash flow, whether the exchange-rate
// effect adjustment was needed).
type SubtotalCheck struct {
	Name      string  `json:"name"`
	Variant   string  `json:"variant"`
	Passed    bool    `json:"passed"`
	Delta     float64 `json:"delta"`
	Tolerance float64 `json:"tolerance"`
}

// StatementValidation bundles every per-statement check result.
type StatementValidation struct {
	Stmt             string               `json:"stmt"`
	Coverage         reconstruct.Coverage `json:"coverage"`
	StructuralParity StructuralParity     `json:"structural_parity"`
	DuplicateRows    []DuplicateRow       `json:"duplicate_rows"`
	ConflictRows     int                  `json:"conflict_rows"`
	MissingValues    MissingValues        `json:"missing_values"`
	ContextCoherence ContextCoherence     `json:"context_coherence"`
	SubtotalChecks   []SubtotalCheck      `json:"subtotal_checks"`
}

// FilingSummary totals the statement checks of one filing and derives the
// tri-state status: fail on any structural or subtotal failure, warn on any
// context or candidate-conflict issue, otherwise pass.
type FilingSummary struct {
	Status                 string  `json:"status"`
	RowsTotal              int     `json:"rows_total"`
	RowsWithValues         int     `json:"rows_with_values"`
	OverallCoverageRatio   float64 `json:"overall_coverage_ratio"`
	StructuralFailures     int     `json:"structural_failures"`
	ContextWarnings        int     `json:"context_warnings"`
	DuplicateCandidateRows int     `json:"duplicate_candidate_rows"`
	ConflictRows           int     `json:"conflict_rows"`
	SubtotalFailures       int     `json:"subtotal_failures"`
}

// FilingReport is the full validation result for one filing.
type FilingReport struct {
	Adsh       string                          `json:"adsh"`
	Statements map[string]*StatementValidation `json:"statements"`
	Summary    FilingSummary                   `json:"summary"`
}

// BatchReport aggregates filing reports across a batch run.
type BatchReport struct {
	RunID        string                   `json:"run_id"`
	GeneratedAt  time.Time                `json:"generated_at"`
	Count        int                      `json:"count"`
	StatusCounts map[string]int           `json:"status_counts"`
	Results      map[string]*FilingReport `json:"results"`
}

// StatementHealth is the per-statement pass ratio across a batch.
type StatementHealth struct {
	PassCount  int     `json:"pass_count"`
	TotalCount int     `json:"total_count"`
	PassRatio  float64 `json:"pass_ratio"`
}

// Scoreboard condenses a batch report into headline quality numbers.
type Scoreboard struct {
	BatchCount                      int                        `json:"batch_count"`
	StatusCounts                    map[string]int             `json:"status_counts"`
	AvgStatementCoverageRatio       float64                    `json:"avg_statement_coverage_ratio"`
	MinStatementCoverageRatio       float64                    `json:"min_statement_coverage_ratio"`
	AggregateStructuralFailures     int                        `json:"aggregate_structural_failures"`
	AggregateContextWarnings        int                        `json:"aggregate_context_warnings"`
	AggregateSubtotalFailures       int                        `json:"aggregate_subtotal_failures"`
	AggregateDuplicateCandidateRows int                        `json:"aggregate_duplicate_candidate_rows"`
	PerStatementHealth              map[string]StatementHealth `json:"per_statement_health"`
}
