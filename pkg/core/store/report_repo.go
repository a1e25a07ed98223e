package store

import (
	"context"
	"encoding/json"
	"fmt"

	"sec_reconstructor/pkg/core/validate"
)

// ReportRepo writes validation reports, one per filing, as a JSONB document
// plus denormalized summary columns for cheap querying.
type ReportRepo struct{}

// NewReportRepo creates a new repository instance.
func NewReportRepo() *ReportRepo {
	return &ReportRepo{}
}

// Save upserts one filing validation report.
func (r *ReportRepo) Save(ctx context.Context, report *validate.FilingReport) error {
	p := GetPool()
	if p == nil {
		return fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `
		INSERT INTO validation_reports (
			adsh, summary_status, summary_rows_total, summary_rows_with_values,
			summary_coverage_ratio, report_json
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (adsh) DO UPDATE SET
			summary_status = EXCLUDED.summary_status,
			summary_rows_total = EXCLUDED.summary_rows_total,
			summary_rows_with_values = EXCLUDED.summary_rows_with_values,
			summary_coverage_ratio = EXCLUDED.summary_coverage_ratio,
			report_json = EXCLUDED.report_json,
			updated_at = NOW();
	`

	_, err = p.Exec(ctx, query,
		report.Adsh,
		report.Summary.Status,
		report.Summary.RowsTotal,
		report.Summary.RowsWithValues,
		report.Summary.OverallCoverageRatio,
		jsonData,
	)
	if err != nil {
		return fmt.Errorf("failed to save validation report: %w", err)
	}
	return nil
}

// SaveBatch upserts every filing report of a batch run.
func (r *ReportRepo) SaveBatch(ctx context.Context, batch *validate.BatchReport) error {
	for _, report := range batch.Results {
		if err := r.Save(ctx, report); err != nil {
			return err
		}
	}
	return nil
}
