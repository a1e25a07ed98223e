package dataset

import (
	"sec_reconstructor/pkg/models"
)

// PresentationTable holds the presentation hierarchy rows of one dataset
// quarter, indexed by (filing, statement).
type PresentationTable struct {
	rows   []models.PresentationRow
	byStmt map[string][]int
}

func stmtKey(adsh, stmt string) string {
	return adsh + "\x00" + stmt
}

// LoadPresentation parses a pre.txt file.
func LoadPresentation(path string) (*PresentationTable, error) {
	file, err := readTSV(path)
	if err != nil {
		return nil, err
	}

	t := &PresentationTable{byStmt: make(map[string][]int)}
	for _, row := range file.rows {
		pr := models.PresentationRow{
			Adsh:       file.field(row, "adsh"),
			Stmt:       file.field(row, "stmt"),
			Report:     intOrZero(file.field(row, "report")),
			Line:       intOrZero(file.field(row, "line")),
			Depth:      intOrZero(file.field(row, "inpth")),
			SourceFile: file.field(row, "rfile"),
			Tag:        file.field(row, "tag"),
			Version:    file.field(row, "version"),
			Label:      file.field(row, "plabel"),
			Negating:   file.field(row, "negating") == "1",
		}
		key := stmtKey(pr.Adsh, pr.Stmt)
		t.byStmt[key] = append(t.byStmt[key], len(t.rows))
		t.rows = append(t.rows, pr)
	}
	return t, nil
}

// Len reports the total row count.
func (t *PresentationTable) Len() int {
	return len(t.rows)
}

// StructureFor returns the presentation rows of one filing/statement in file
// order. The engine sorts them; callers must treat the slice as read-only.
func (t *PresentationTable) StructureFor(adsh, stmt string) []models.PresentationRow {
	idx := t.byStmt[stmtKey(adsh, stmt)]
	if len(idx) == 0 {
		return nil
	}
	out := make([]models.PresentationRow, 0, len(idx))
	for _, i := range idx {
		out = append(out, t.rows[i])
	}
	return out
}

// StatementsAvailable lists the statement codes present for one filing.
func (t *PresentationTable) StatementsAvailable(adsh string) []string {
	seen := make(map[string]struct{})
	var codes []string
	for i := range t.rows {
		if t.rows[i].Adsh != adsh || t.rows[i].Stmt == "" {
			continue
		}
		if _, ok := seen[t.rows[i].Stmt]; ok {
			continue
		}
		seen[t.rows[i].Stmt] = struct{}{}
		codes = append(codes, t.rows[i].Stmt)
	}
	return codes
}
