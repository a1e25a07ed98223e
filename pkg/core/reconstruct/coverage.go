package reconstruct

// Coverage summarizes how many presentation rows of one statement resolved
// to a value. MissingTags lists the concept tags of rows left without one.
type Coverage struct {
	Stmt              string   `json:"stmt"`
	RowsTotal         int      `json:"rows_total"`
	RowsWithValues    int      `json:"rows_with_values"`
	RowsMissingValues int      `json:"rows_missing_values"`
	CoverageRatio     float64  `json:"coverage_ratio"`
	MissingTags       []string `json:"missing_tags"`
}

// CoverageOf computes coverage from an already reconstructed table.
func CoverageOf(stmt string, rows []StatementRow) Coverage {
	cov := Coverage{Stmt: stmt, MissingTags: []string{}}
	cov.RowsTotal = len(rows)
	for i := range rows {
		if rows[i].HasValue {
			cov.RowsWithValues++
		} else {
			cov.RowsMissingValues++
			cov.MissingTags = append(cov.MissingTags, rows[i].Tag)
		}
	}
	if cov.RowsTotal > 0 {
		cov.CoverageRatio = float64(cov.RowsWithValues) / float64(cov.RowsTotal)
	}
	return cov
}

// Coverage reconstructs one statement and reports its coverage metrics.
func (e *Engine) Coverage(adsh, stmt string) Coverage {
	return CoverageOf(stmt, e.ReconstructStatement(adsh, stmt, ResolvedContext{}))
}
