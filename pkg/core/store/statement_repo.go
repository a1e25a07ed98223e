package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"sec_reconstructor/pkg/core/reconstruct"
)

// StatementRepo writes reconstructed statement rows, keyed by
// (adsh, stmt, report, line).
type StatementRepo struct{}

// NewStatementRepo creates a new repository instance.
func NewStatementRepo() *StatementRepo {
	return &StatementRepo{}
}

const upsertStatementRow = `
	INSERT INTO statement_rows (
		adsh, stmt, report, line, depth, rfile, tag, version, label, negating,
		value, display_value, formatted_value, uom, ddate, qtrs, segments, coreg,
		candidate_count, conflict, has_value
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
	ON CONFLICT (adsh, stmt, report, line) DO UPDATE SET
		depth = EXCLUDED.depth,
		rfile = EXCLUDED.rfile,
		tag = EXCLUDED.tag,
		version = EXCLUDED.version,
		label = EXCLUDED.label,
		negating = EXCLUDED.negating,
		value = EXCLUDED.value,
		display_value = EXCLUDED.display_value,
		formatted_value = EXCLUDED.formatted_value,
		uom = EXCLUDED.uom,
		ddate = EXCLUDED.ddate,
		qtrs = EXCLUDED.qtrs,
		segments = EXCLUDED.segments,
		coreg = EXCLUDED.coreg,
		candidate_count = EXCLUDED.candidate_count,
		conflict = EXCLUDED.conflict,
		has_value = EXCLUDED.has_value,
		updated_at = NOW();
`

// SaveTables upserts every row of the given statement tables and returns the
// number of rows written.
func (r *StatementRepo) SaveTables(ctx context.Context, tables map[string][]reconstruct.StatementRow) (int, error) {
	p := GetPool()
	if p == nil {
		return 0, fmt.Errorf("database pool not initialized")
	}

	batch := &pgx.Batch{}
	total := 0
	for _, rows := range tables {
		for i := range rows {
			row := &rows[i]
			batch.Queue(upsertStatementRow,
				row.Adsh, row.Stmt, row.Report, row.Line, row.Depth,
				row.SourceFile, row.Tag, row.Version, row.Label, row.Negating,
				row.Value, row.DisplayValue, nullableText(row.FormattedValue),
				nullableText(row.UOM), nullableText(row.DDate), row.Qtrs,
				nullableText(row.Segments), nullableText(row.Coreg),
				row.CandidateCount, row.Conflict, row.HasValue,
			)
			total++
		}
	}
	if total == 0 {
		return 0, nil
	}

	results := p.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < total; i++ {
		if _, err := results.Exec(); err != nil {
			return 0, fmt.Errorf("upsert statement row: %w", err)
		}
	}
	return total, nil
}

func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
