package validate

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ValidateBatch fans the per-filing validation out across available cores
// and merges the results. Each filing is independent of every other, and the
// aggregation (status tallies, counters) is commutative, so the merge needs
// no ordering between workers. The context only bounds scheduling; a filing
// already in flight runs to completion.
func (v *Validator) ValidateBatch(ctx context.Context, adshList []string, codes []string) *BatchReport {
	report := &BatchReport{
		RunID:        uuid.NewString(),
		GeneratedAt:  time.Now().UTC(),
		Count:        len(adshList),
		StatusCounts: make(map[string]int),
		Results:      make(map[string]*FilingReport, len(adshList)),
	}
	if len(adshList) == 0 {
		return report
	}

	results := make([]*FilingReport, len(adshList))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, adsh := range adshList {
		i, adsh := i, adsh
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = v.ValidateFiling(adsh, codes)
			return nil
		})
	}
	// Validation itself never errors; only context cancellation stops early.
	_ = g.Wait()

	for i, adsh := range adshList {
		if results[i] == nil {
			continue
		}
		report.Results[adsh] = results[i]
		report.StatusCounts[results[i].Summary.Status]++
	}
	return report
}

// Summarize condenses a batch report into a scoreboard: coverage statistics,
// aggregate failure counters, and per-statement pass ratios.
func Summarize(batch *BatchReport) *Scoreboard {
	board := &Scoreboard{
		BatchCount:         batch.Count,
		StatusCounts:       batch.StatusCounts,
		PerStatementHealth: make(map[string]StatementHealth),
	}

	var coverages []float64
	passCounts := make(map[string]int)
	totalCounts := make(map[string]int)

	for _, filing := range batch.Results {
		board.AggregateStructuralFailures += filing.Summary.StructuralFailures
		board.AggregateContextWarnings += filing.Summary.ContextWarnings
		board.AggregateSubtotalFailures += filing.Summary.SubtotalFailures
		board.AggregateDuplicateCandidateRows += filing.Summary.DuplicateCandidateRows

		for code, stmt := range filing.Statements {
			coverages = append(coverages, stmt.Coverage.CoverageRatio)
			totalCounts[code]++

			subtotalsOK := true
			for _, check := range stmt.SubtotalChecks {
				if !check.Passed {
					subtotalsOK = false
				}
			}
			if stmt.StructuralParity.Passed && stmt.ContextCoherence.Passed && subtotalsOK {
				passCounts[code]++
			}
		}
	}

	if len(coverages) > 0 {
		sum := 0.0
		min := coverages[0]
		for _, c := range coverages {
			sum += c
			if c < min {
				min = c
			}
		}
		board.AvgStatementCoverageRatio = sum / float64(len(coverages))
		board.MinStatementCoverageRatio = min
	}

	for code, total := range totalCounts {
		health := StatementHealth{PassCount: passCounts[code], TotalCount: total}
		if total > 0 {
			health.PassRatio = float64(health.PassCount) / float64(total)
		}
		board.PerStatementHealth[code] = health
	}
	return board
}
