package dataset

import (
	"sort"
	"strings"

	"sec_reconstructor/pkg/models"
)

// SubmissionTable holds the submission index of one dataset quarter.
type SubmissionTable struct {
	subs   []models.Submission
	byAdsh map[string]int
	byCIK  map[string][]int
}

// LoadSubmissions parses a sub.txt file.
func LoadSubmissions(path string) (*SubmissionTable, error) {
	file, err := readTSV(path)
	if err != nil {
		return nil, err
	}

	t := &SubmissionTable{
		byAdsh: make(map[string]int),
		byCIK:  make(map[string][]int),
	}
	for _, row := range file.rows {
		sub := models.Submission{
			Adsh:          file.field(row, "adsh"),
			CIK:           file.field(row, "cik"),
			Name:          file.field(row, "name"),
			SIC:           file.field(row, "sic"),
			CountryInc:    file.field(row, "countryinc"),
			StateInc:      file.field(row, "stprinc"),
			EIN:           file.field(row, "ein"),
			FiscalYearEnd: file.field(row, "fye"),
			Form:          file.field(row, "form"),
			Period:        file.field(row, "period"),
			FiscalYear:    file.field(row, "fy"),
			FiscalPeriod:  file.field(row, "fp"),
			Filed:         file.field(row, "filed"),
			Instance:      file.field(row, "instance"),
		}
		if _, dup := t.byAdsh[sub.Adsh]; !dup {
			t.byAdsh[sub.Adsh] = len(t.subs)
		}
		t.byCIK[sub.CIK] = append(t.byCIK[sub.CIK], len(t.subs))
		t.subs = append(t.subs, sub)
	}
	return t, nil
}

// Len reports the submission count.
func (t *SubmissionTable) Len() int {
	return len(t.subs)
}

// ByAdsh looks one filing up by accession number.
func (t *SubmissionTable) ByAdsh(adsh string) (models.Submission, bool) {
	i, ok := t.byAdsh[adsh]
	if !ok {
		return models.Submission{}, false
	}
	return t.subs[i], true
}

// CompanyFilings returns every filing of one company.
func (t *SubmissionTable) CompanyFilings(cik string) []models.Submission {
	idx := t.byCIK[cik]
	out := make([]models.Submission, 0, len(idx))
	for _, i := range idx {
		out = append(out, t.subs[i])
	}
	return out
}

// FilterByForm returns filings whose form type contains the given form
// string (so "10-K" also matches "10-K/A").
func (t *SubmissionTable) FilterByForm(form string) []models.Submission {
	var out []models.Submission
	for i := range t.subs {
		if strings.Contains(t.subs[i].Form, form) {
			out = append(out, t.subs[i])
		}
	}
	return out
}

// FilterByDateRange returns filings filed within [start, end], both in
// YYYYMMDD form. The compact date format makes string comparison correct.
func (t *SubmissionTable) FilterByDateRange(start, end string) []models.Submission {
	var out []models.Submission
	for i := range t.subs {
		filed := t.subs[i].Filed
		if filed >= start && filed <= end {
			out = append(out, t.subs[i])
		}
	}
	return out
}

// SampleAdshList picks up to limit accession numbers for a batch run:
// newest filings first, restricted to the given form set when provided, and
// at most one filing per company when uniqueCIK is set.
func (t *SubmissionTable) SampleAdshList(limit int, forms []string, uniqueCIK bool) []string {
	formSet := make(map[string]struct{}, len(forms))
	for _, f := range forms {
		f = strings.ToUpper(strings.TrimSpace(f))
		if f != "" {
			formSet[f] = struct{}{}
		}
	}

	var pool []models.Submission
	for i := range t.subs {
		if t.subs[i].Adsh == "" {
			continue
		}
		if len(formSet) > 0 {
			if _, ok := formSet[strings.ToUpper(t.subs[i].Form)]; !ok {
				continue
			}
		}
		pool = append(pool, t.subs[i])
	}

	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].Filed != pool[j].Filed {
			return pool[i].Filed > pool[j].Filed
		}
		return pool[i].Adsh < pool[j].Adsh
	})

	seenCIK := make(map[string]struct{})
	var out []string
	for i := range pool {
		if uniqueCIK {
			if _, ok := seenCIK[pool[i].CIK]; ok {
				continue
			}
			seenCIK[pool[i].CIK] = struct{}{}
		}
		out = append(out, pool[i].Adsh)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
