package validate

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"sec_reconstructor/pkg/core/reconstruct"
	"sec_reconstructor/pkg/models"
)

// CheckStructuralParity compares the reconstructed row sequence against the
// presentation structure's (report, line, depth, tag) sequence.
func CheckStructuralParity(structure []models.PresentationRow, rows []reconstruct.StatementRow) StructuralParity {
	parity := StructuralParity{
		Applicable:   len(structure) > 0,
		ExpectedRows: len(structure),
		ActualRows:   len(rows),
	}
	if !parity.Applicable {
		parity.Passed = true
		return parity
	}

	expected := make([]models.PresentationRow, len(structure))
	copy(expected, structure)
	sort.SliceStable(expected, func(i, j int) bool {
		if expected[i].Report != expected[j].Report {
			return expected[i].Report < expected[j].Report
		}
		return expected[i].Line < expected[j].Line
	})

	if len(rows) != len(expected) {
		parity.FirstBreak = fmt.Sprintf("row count %d != structure count %d", len(rows), len(expected))
		return parity
	}
	for i := range expected {
		e, a := &expected[i], &rows[i]
		if e.Report != a.Report || e.Line != a.Line || e.Depth != a.Depth || e.Tag != a.Tag {
			parity.FirstBreak = fmt.Sprintf(
				"position %d: structure (%d,%d,%d,%s) vs reconstructed (%d,%d,%d,%s)",
				i, e.Report, e.Line, e.Depth, e.Tag, a.Report, a.Line, a.Depth, a.Tag,
			)
			return parity
		}
	}
	parity.Passed = true
	return parity
}

// CheckDuplicates surfaces rows whose selector saw several candidate facts,
// and the count of those whose candidates disagreed in value.
func CheckDuplicates(rows []reconstruct.StatementRow) ([]DuplicateRow, int) {
	var dups []DuplicateRow
	conflicts := 0
	for i := range rows {
		r := &rows[i]
		if r.CandidateCount <= 1 {
			continue
		}
		dups = append(dups, DuplicateRow{
			Report:       r.Report,
			Line:         r.Line,
			Tag:          r.Tag,
			Candidates:   r.CandidateCount,
			UniqueValues: r.CandidateValues,
			Conflict:     r.Conflict,
		})
		if r.Conflict {
			conflicts++
		}
	}
	return dups, conflicts
}

// ClassifyMissing splits unvalued rows into expected (headers, text blocks,
// policy disclosures) and unexpected.
func ClassifyMissing(rows []reconstruct.StatementRow) MissingValues {
	missing := MissingValues{ExpectedTags: []string{}, UnexpectedTags: []string{}}
	for i := range rows {
		if rows[i].HasValue {
			continue
		}
		if reconstruct.IsExpectedMissing(rows[i].Tag) {
			missing.ExpectedTags = append(missing.ExpectedTags, rows[i].Tag)
		} else {
			missing.UnexpectedTags = append(missing.UnexpectedTags, rows[i].Tag)
		}
	}
	return missing
}

// CheckContextCoherence counts the distinct (date, duration) pairs among
// valued rows and applies the statement-specific tolerance: cash flow allows
// one duration context plus the two cash boundary instants, equity allows
// any number (multi-period movement is expected), everything else must sit
// in exactly one context.
func CheckContextCoherence(stmt string, rows []reconstruct.StatementRow) ContextCoherence {
	seen := make(map[string]ContextKey)
	var order []string
	for i := range rows {
		if !rows[i].HasValue {
			continue
		}
		key := rows[i].DDate + "|"
		if rows[i].Qtrs != nil {
			key += fmt.Sprint(*rows[i].Qtrs)
		}
		if _, ok := seen[key]; !ok {
			seen[key] = ContextKey{DDate: rows[i].DDate, Qtrs: rows[i].Qtrs}
			order = append(order, key)
		}
	}

	coherence := ContextCoherence{Contexts: []ContextKey{}}
	for _, key := range order {
		ctx := seen[key]
		coherence.Contexts = append(coherence.Contexts, ctx)
		if ctx.Qtrs != nil && *ctx.Qtrs > 0 {
			coherence.DurationContexts++
		} else {
			coherence.InstantContexts++
		}
	}

	switch stmt {
	case "CF":
		coherence.Passed = coherence.DurationContexts <= 1 && coherence.InstantContexts <= 2
	case "EQ":
		coherence.Passed = true
	default:
		coherence.Passed = len(order) <= 1
	}
	return coherence
}

func displayOf(r *reconstruct.StatementRow) (float64, bool) {
	if r.DisplayValue != nil {
		return *r.DisplayValue, true
	}
	if r.Value != nil {
		return *r.Value, true
	}
	return 0, false
}

func findByTag(rows []reconstruct.StatementRow, tag string) (float64, bool) {
	for i := range rows {
		if rows[i].Tag == tag && rows[i].HasValue {
			return displayOf(&rows[i])
		}
	}
	return 0, false
}

func findByTagSubstring(rows []reconstruct.StatementRow, substr string) (float64, bool) {
	for i := range rows {
		if rows[i].HasValue && strings.Contains(strings.ToLower(rows[i].Tag), substr) {
			return displayOf(&rows[i])
		}
	}
	return 0, false
}

func findCashBoundary(rows []reconstruct.StatementRow, role reconstruct.RowRole) (float64, bool) {
	for i := range rows {
		r := &rows[i]
		if !r.HasValue || !reconstruct.IsCashConcept(r.Tag) {
			continue
		}
		if reconstruct.ClassifyLabel(r.Label) == role {
			return displayOf(r)
		}
	}
	return 0, false
}

// CheckSubtotals runs the arithmetic consistency checks available for the
// statement: the balance-sheet equation and the cash roll-forward. Checks
// whose inputs are absent are not emitted.
func CheckSubtotals(stmt string, rows []reconstruct.StatementRow) []SubtotalCheck {
	checks := []SubtotalCheck{}

	switch {
	case stmt == "BS" || stmt == "BS-LND" || stmt == "BS-ALT":
		assets, okA := findByTag(rows, "Assets")
		liabEquity, okL := findByTag(rows, "LiabilitiesAndStockholdersEquity")
		if okA && okL {
			delta := assets - liabEquity
			checks = append(checks, SubtotalCheck{
				Name:      "balance_sheet_equation",
				Variant:   "assets_vs_liabilities_and_equity",
				Passed:    math.Abs(delta) <= SubtotalTolerance,
				Delta:     delta,
				Tolerance: SubtotalTolerance,
			})
		}

	case stmt == "CF":
		netChange, okN := findByTagSubstring(rows, "periodincreasedecrease")
		begin, okB := findCashBoundary(rows, reconstruct.RoleBeginning)
		end, okE := findCashBoundary(rows, reconstruct.RoleEnding)
		if okN && okB && okE {
			observed := end - begin
			direct := observed - netChange
			check := SubtotalCheck{
				Name:      "cash_roll_forward",
				Variant:   "net_change",
				Passed:    math.Abs(direct) <= SubtotalTolerance,
				Delta:     direct,
				Tolerance: SubtotalTolerance,
			}
			if !check.Passed {
				if fx, okF := findByTagSubstring(rows, "effectofexchangerate"); okF {
					adjusted := observed - (netChange + fx)
					if math.Abs(adjusted) <= SubtotalTolerance {
						check.Variant = "net_change_with_fx"
						check.Passed = true
						check.Delta = adjusted
					}
				}
			}
			checks = append(checks, check)
		}
	}
	return checks
}
