// Package reconstruct rebuilds standardized financial statement tables from
// the regulator's presentation hierarchy and numeric fact pool. Rows come
// from the presentation structure in exact (report, line) order; values are
// resolved deterministically from the fact pool, sign-normalized, and
// formatted for display.
package reconstruct

import (
	"sec_reconstructor/pkg/models"
)

// Statement code families. Balance-sheet family codes anchor to an instant
// context; everything else anchors to a duration.
var (
	BalanceSheetCodes    = []string{"BS", "BS-LND", "BS-ALT"}
	IncomeStatementCodes = []string{"IS", "IS-COND"}
	CashFlowCodes        = []string{"CF", "CF-INDIRECT", "CF-DIRECT"}
	CoreStatementCodes   = []string{"BS", "IS", "CF", "EQ", "CI"}
)

func isBalanceSheetCode(stmt string) bool {
	for _, c := range BalanceSheetCodes {
		if stmt == c {
			return true
		}
	}
	return false
}

// FactStore supplies all numeric facts for one filing.
type FactStore interface {
	FactsFor(adsh string) []models.NumericFact
}

// PresentationStore supplies the presentation rows for one filing/statement.
// Rows may arrive in any order; the engine sorts them.
type PresentationStore interface {
	StructureFor(adsh, stmt string) []models.PresentationRow
}

// LabelLookup resolves a human-readable label for a concept tag. Used only
// by the comprehensive-income fallback path, where no presentation label
// exists.
type LabelLookup interface {
	LabelFor(tag string) (string, bool)
}

// ResolvedContext is the (end date, duration) pair chosen to represent "the"
// period or instant of a statement. DDate is empty and Qtrs nil when no
// qualifying fact exists ("context unknown", not an error).
type ResolvedContext struct {
	DDate string `json:"ddate"`
	Qtrs  *int   `json:"qtrs"`
}

// StatementRow is one reconstructed line of a statement: the presentation
// row it came from plus the resolved value and selection diagnostics.
// Exactly one StatementRow exists per presentation row; rows with no
// resolvable fact are retained with HasValue false, never dropped.
type StatementRow struct {
	Adsh       string `json:"adsh"`
	Stmt       string `json:"stmt"`
	Report     int    `json:"report"`
	Line       int    `json:"line"`
	Depth      int    `json:"inpth"`
	SourceFile string `json:"rfile"`
	Tag        string `json:"tag"`
	Version    string `json:"version"`
	Label      string `json:"label"`
	Negating   bool   `json:"negating"`

	Value          *float64 `json:"value"`
	DisplayValue   *float64 `json:"display_value"`
	FormattedValue string   `json:"formatted_value"` // empty when no value
	UOM            string   `json:"uom"`
	DDate          string   `json:"ddate"`
	Qtrs           *int     `json:"qtrs"`
	Segments       string   `json:"segments"`
	Coreg          string   `json:"coreg"`

	CandidateCount  int  `json:"candidate_count"`
	CandidateValues int  `json:"candidate_unique_values"`
	Conflict        bool `json:"conflict"`
	HasValue        bool `json:"has_value"`
}

// Engine carries read-only references to the fact and presentation stores.
// It holds no mutable state; every method is a pure function of its inputs
// and the store snapshot.
type Engine struct {
	Facts     FactStore
	Structure PresentationStore
	Labels    LabelLookup // optional; nil disables label lookup in CI fallback
}

// NewEngine builds an engine over the given stores.
func NewEngine(facts FactStore, structure PresentationStore, labels LabelLookup) *Engine {
	return &Engine{Facts: facts, Structure: structure, Labels: labels}
}
