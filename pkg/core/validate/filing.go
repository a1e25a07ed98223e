package validate

import (
	"sec_reconstructor/pkg/core/reconstruct"
)

// Validator runs the check suite over reconstructed statements. It is
// stateless; one instance can serve any number of filings concurrently.
type Validator struct {
	Engine *reconstruct.Engine
}

// NewValidator builds a validator over a reconstruction engine.
func NewValidator(engine *reconstruct.Engine) *Validator {
	return &Validator{Engine: engine}
}

// ValidateStatement reconstructs one statement and runs every per-statement
// check. All checks are independent; none aborts the others.
func (v *Validator) ValidateStatement(adsh, stmt string) *StatementValidation {
	rows := v.Engine.ReconstructStatement(adsh, stmt, reconstruct.ResolvedContext{})
	structure := v.Engine.Structure.StructureFor(adsh, stmt)

	dups, conflicts := CheckDuplicates(rows)
	if dups == nil {
		dups = []DuplicateRow{}
	}

	return &StatementValidation{
		Stmt:             stmt,
		Coverage:         reconstruct.CoverageOf(stmt, rows),
		StructuralParity: CheckStructuralParity(structure, rows),
		DuplicateRows:    dups,
		ConflictRows:     conflicts,
		MissingValues:    ClassifyMissing(rows),
		ContextCoherence: CheckContextCoherence(stmt, rows),
		SubtotalChecks:   CheckSubtotals(stmt, rows),
	}
}

// ValidateFiling validates several statements of one filing and derives the
// filing summary. A nil code list means the five core statements.
// Inconsistencies are recorded in the report, never raised; other statements
// keep being processed.
func (v *Validator) ValidateFiling(adsh string, codes []string) *FilingReport {
	if len(codes) == 0 {
		codes = reconstruct.CoreStatementCodes
	}

	report := &FilingReport{
		Adsh:       adsh,
		Statements: make(map[string]*StatementValidation, len(codes)),
	}

	for _, code := range codes {
		stmt := v.ValidateStatement(adsh, code)
		report.Statements[code] = stmt

		report.Summary.RowsTotal += stmt.Coverage.RowsTotal
		report.Summary.RowsWithValues += stmt.Coverage.RowsWithValues
		if stmt.StructuralParity.Applicable && !stmt.StructuralParity.Passed {
			report.Summary.StructuralFailures++
		}
		if !stmt.ContextCoherence.Passed {
			report.Summary.ContextWarnings++
		}
		report.Summary.DuplicateCandidateRows += len(stmt.DuplicateRows)
		report.Summary.ConflictRows += stmt.ConflictRows
		for _, check := range stmt.SubtotalChecks {
			if !check.Passed {
				report.Summary.SubtotalFailures++
			}
		}
	}

	if report.Summary.RowsTotal > 0 {
		report.Summary.OverallCoverageRatio =
			float64(report.Summary.RowsWithValues) / float64(report.Summary.RowsTotal)
	}
	report.Summary.Status = deriveStatus(&report.Summary)
	return report
}

// deriveStatus maps summary counters to the tri-state filing status.
func deriveStatus(s *FilingSummary) string {
	if s.StructuralFailures > 0 || s.SubtotalFailures > 0 {
		return StatusFail
	}
	if s.ContextWarnings > 0 || s.ConflictRows > 0 {
		return StatusWarn
	}
	return StatusPass
}
