package reconstruct

import (
	"math"
	"sort"
	"time"

	"sec_reconstructor/pkg/models"
)

// Selection is the outcome of per-row fact selection: the chosen fact (nil
// when nothing survives), how many facts matched at the final filter stage,
// and how many distinct non-null values they carried. UniqueValues > 1 marks
// a genuine data conflict rather than multiple contexts agreeing.
type Selection struct {
	Fact           *models.NumericFact
	CandidateCount int
	UniqueValues   int
}

// narrowIf applies pred and keeps the narrowed set only when it is
// non-empty; an emptying filter is skipped and the broader set survives.
func narrowIf(facts []models.NumericFact, pred func(*models.NumericFact) bool) []models.NumericFact {
	var out []models.NumericFact
	for i := range facts {
		if pred(&facts[i]) {
			out = append(out, facts[i])
		}
	}
	if len(out) == 0 {
		return facts
	}
	return out
}

// desiredQtrs determines the duration a row's value must have. Balance-sheet
// statements are all instants. On the cash-flow statement the cash
// roll-forward concept's beginning/ending rows are instants while movement
// rows use the statement duration. On the equity statement
// beginning/ending/balance rows are instants and movement rows use the
// statement duration. nil means no duration requirement.
func desiredQtrs(stmt string, row *models.PresentationRow, role RowRole, target ResolvedContext) *int {
	zero := 0
	switch {
	case isBalanceSheetCode(stmt):
		return &zero
	case stmt == "CF" && IsCashConcept(row.Tag):
		if role == RoleBeginning || role == RoleEnding {
			return &zero
		}
		return target.Qtrs
	case stmt == "EQ":
		if role == RoleBeginning || role == RoleEnding || role == RoleBalance {
			return &zero
		}
		return target.Qtrs
	default:
		return target.Qtrs
	}
}

// isBoundaryRow reports whether the row is a beginning/ending balance row on
// the cash-flow or equity statement, which gets forced boundary-date
// selection instead of the plain date filter.
func isBoundaryRow(stmt string, row *models.PresentationRow, role RowRole) bool {
	if role != RoleBeginning && role != RoleEnding {
		return false
	}
	if stmt == "CF" && IsCashConcept(row.Tag) {
		return true
	}
	return stmt == "EQ"
}

// forceBoundaryDate narrows candidates to the nearest valid boundary date:
// the latest date strictly before the target for beginning rows, the exact
// target date for ending rows. Without a target date (equity rows with no
// pinned context) the globally earliest / latest instant wins.
func forceBoundaryDate(cands []models.NumericFact, role RowRole, targetEnd *time.Time) []models.NumericFact {
	var boundary *time.Time
	for i := range cands {
		end := cands[i].EndDate()
		if end == nil {
			continue
		}
		switch role {
		case RoleBeginning:
			if targetEnd != nil {
				if !end.Before(*targetEnd) {
					continue
				}
				if boundary == nil || end.After(*boundary) {
					boundary = end
				}
				continue
			}
			if boundary == nil || end.Before(*boundary) {
				boundary = end
			}
		case RoleEnding:
			if targetEnd != nil {
				if end.Equal(*targetEnd) {
					boundary = end
				}
				continue
			}
			if boundary == nil || end.After(*boundary) {
				boundary = end
			}
		}
	}
	if boundary == nil {
		return cands
	}
	var out []models.NumericFact
	for i := range cands {
		if end := cands[i].EndDate(); end != nil && end.Equal(*boundary) {
			out = append(out, cands[i])
		}
	}
	if len(out) == 0 {
		return cands
	}
	return out
}

// rankCandidates orders candidates by the deterministic tie-break:
// consolidated-first, then (when segment preference applies) segment-free
// first, then descending absolute value, then descending date.
func rankCandidates(cands []models.NumericFact, segmentPref bool) []models.NumericFact {
	ranked := make([]models.NumericFact, len(cands))
	copy(ranked, cands)
	absValue := func(f *models.NumericFact) float64 {
		if f.Value == nil {
			return 0
		}
		return math.Abs(*f.Value)
	}
	dimRank := func(s string) int {
		if s == "" {
			return 0
		}
		return 1
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := &ranked[i], &ranked[j]
		if r1, r2 := dimRank(a.Coreg), dimRank(b.Coreg); r1 != r2 {
			return r1 < r2
		}
		if segmentPref {
			if r1, r2 := dimRank(a.Segments), dimRank(b.Segments); r1 != r2 {
				return r1 < r2
			}
		}
		if v1, v2 := absValue(a), absValue(b); v1 != v2 {
			return v1 > v2
		}
		d1, d2 := a.EndDate(), b.EndDate()
		switch {
		case d1 == nil && d2 == nil:
			return false
		case d1 == nil:
			return false
		case d2 == nil:
			return true
		default:
			return d1.After(*d2)
		}
	})
	return ranked
}

// choosePreferred picks exactly one fact from a candidate group via the
// ranking rule, or nil for an empty group.
func choosePreferred(cands []models.NumericFact, segmentPref bool) *models.NumericFact {
	if len(cands) == 0 {
		return nil
	}
	ranked := rankCandidates(cands, segmentPref)
	chosen := ranked[0]
	return &chosen
}

// SelectFact selects at most one fact for a presentation row given the
// resolved (or caller-pinned) context. It narrows candidates with
// row-semantic rules applied in order, keeping the broader set whenever a
// step would empty it, then ranks the survivors deterministically. It never
// raises for business-data reasons: no surviving candidate yields a nil
// fact, not an error.
func (e *Engine) SelectFact(pool []models.NumericFact, row *models.PresentationRow, target ResolvedContext) Selection {
	var cands []models.NumericFact
	for i := range pool {
		if pool[i].Tag == row.Tag {
			cands = append(cands, pool[i])
		}
	}
	if len(cands) == 0 {
		return Selection{}
	}
	if row.Version != "" {
		cands = narrowIf(cands, func(f *models.NumericFact) bool { return f.Version == row.Version })
	}

	role := ClassifyLabel(row.Label)
	stmt := row.Stmt

	if want := desiredQtrs(stmt, row, role, target); want != nil {
		cands = narrowIf(cands, func(f *models.NumericFact) bool {
			return f.Qtrs != nil && *f.Qtrs == *want
		})
	}

	targetEnd := models.ParseDDate(target.DDate)
	if role == RoleBeginning {
		if targetEnd != nil {
			cands = narrowIf(cands, func(f *models.NumericFact) bool {
				end := f.EndDate()
				return end != nil && end.Before(*targetEnd)
			})
		}
	} else if target.DDate != "" {
		cands = narrowIf(cands, func(f *models.NumericFact) bool { return f.DDate == target.DDate })
	}

	if isBoundaryRow(stmt, row, role) {
		cands = forceBoundaryDate(cands, role, targetEnd)
	}

	cands = narrowIf(cands, func(f *models.NumericFact) bool { return f.Coreg == "" })
	segmentPref := stmt != "EQ"
	if segmentPref {
		cands = narrowIf(cands, func(f *models.NumericFact) bool { return f.Segments == "" })
	}

	unique := make(map[float64]struct{})
	for i := range cands {
		if cands[i].Value != nil {
			unique[*cands[i].Value] = struct{}{}
		}
	}

	return Selection{
		Fact:           choosePreferred(cands, segmentPref),
		CandidateCount: len(cands),
		UniqueValues:   len(unique),
	}
}
