package reconstruct

import (
	"time"

	"sec_reconstructor/pkg/models"
)

// ScopeOutcome tags which stage of the two-stage consolidated/fallback filter
// produced the candidate set, so the decision is inspectable and testable on
// its own.
type ScopeOutcome int

const (
	ScopeNoMatch ScopeOutcome = iota
	ScopePrimary
	ScopeFallback
)

// primaryScope narrows to consolidated facts (no coreg, no segments).
// The fallback to the unrestricted set triggers only when the consolidated
// scope is empty, not when it merely yields a sub-optimal context.
func primaryScope(facts []models.NumericFact) ([]models.NumericFact, ScopeOutcome) {
	if len(facts) == 0 {
		return nil, ScopeNoMatch
	}
	var primary []models.NumericFact
	for _, f := range facts {
		if f.IsConsolidated() {
			primary = append(primary, f)
		}
	}
	if len(primary) > 0 {
		return primary, ScopePrimary
	}
	return facts, ScopeFallback
}

// modalQtrs returns the most frequent duration among facts, ignoring facts
// without one. Ties break by first-encountered order, which keeps the result
// stable for identical inputs.
func modalQtrs(facts []models.NumericFact) *int {
	counts := make(map[int]int)
	var order []int
	for _, f := range facts {
		if f.Qtrs == nil {
			continue
		}
		q := *f.Qtrs
		if _, seen := counts[q]; !seen {
			order = append(order, q)
		}
		counts[q]++
	}
	if len(order) == 0 {
		return nil
	}
	best := order[0]
	for _, q := range order[1:] {
		if counts[q] > counts[best] {
			best = q
		}
	}
	return &best
}

// ResolveContext infers the single (end date, duration) context to anchor
// value lookup for one statement when the caller does not pin one.
//
// Balance-sheet-family codes anchor to an instant (qtrs = 0); all other
// codes require a true accounting period (qtrs > 0). Among candidates the
// latest end date wins, and among facts sharing that date the modal duration
// is the representative one. An empty ResolvedContext means "context
// unknown" and is not an error.
func (e *Engine) ResolveContext(adsh, stmt string, tags map[string]struct{}) ResolvedContext {
	all := e.Facts.FactsFor(adsh)
	if len(all) == 0 {
		return ResolvedContext{}
	}

	filter := func(src []models.NumericFact) []models.NumericFact {
		var out []models.NumericFact
		for _, f := range src {
			if _, ok := tags[f.Tag]; !ok {
				continue
			}
			if isBalanceSheetCode(stmt) {
				if !f.IsInstant() {
					continue
				}
			} else if !f.IsDuration() {
				continue
			}
			out = append(out, f)
		}
		return out
	}

	scoped, _ := primaryScope(all)
	candidates := filter(scoped)
	if len(candidates) == 0 {
		candidates = filter(all)
	}
	if len(candidates) == 0 {
		return ResolvedContext{}
	}

	var latest *time.Time
	latestDDate := ""
	for _, f := range candidates {
		end := f.EndDate()
		if end == nil {
			continue
		}
		if latest == nil || end.After(*latest) {
			latest = end
			latestDDate = f.DDate
		}
	}
	if latest == nil {
		return ResolvedContext{}
	}

	var sameDate []models.NumericFact
	for _, f := range candidates {
		if f.DDate == latestDDate {
			sameDate = append(sameDate, f)
		}
	}

	return ResolvedContext{DDate: latestDDate, Qtrs: modalQtrs(sameDate)}
}
