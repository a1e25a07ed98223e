package dataset

import (
	"time"

	"github.com/patrickmn/go-cache"

	"sec_reconstructor/pkg/models"
)

// NumericTable holds every numeric fact of one dataset quarter, indexed by
// filing. Per-filing slices are materialized lazily and kept in a short TTL
// cache, since one reconstruction/validation pass reads the same filing's
// facts once per statement.
type NumericTable struct {
	facts    []models.NumericFact
	byAdsh   map[string][]int
	byFiling *cache.Cache
}

// LoadNumeric parses a num.txt file.
func LoadNumeric(path string) (*NumericTable, error) {
	file, err := readTSV(path)
	if err != nil {
		return nil, err
	}

	t := &NumericTable{
		byAdsh:   make(map[string][]int),
		byFiling: cache.New(10*time.Minute, 30*time.Minute),
	}
	for _, row := range file.rows {
		fact := models.NumericFact{
			Adsh:     file.field(row, "adsh"),
			Tag:      file.field(row, "tag"),
			Version:  file.field(row, "version"),
			DDate:    file.field(row, "ddate"),
			Qtrs:     parseIntField(file.field(row, "qtrs")),
			UOM:      file.field(row, "uom"),
			Segments: file.field(row, "segments"),
			Coreg:    file.field(row, "coreg"),
			Value:    parseFloatField(file.field(row, "value")),
			Footnote: file.field(row, "footnote"),
		}
		t.byAdsh[fact.Adsh] = append(t.byAdsh[fact.Adsh], len(t.facts))
		t.facts = append(t.facts, fact)
	}
	return t, nil
}

// Len reports the total fact count.
func (t *NumericTable) Len() int {
	return len(t.facts)
}

// FactsFor returns all facts of one filing. The returned slice is shared
// between callers and must be treated as read-only.
func (t *NumericTable) FactsFor(adsh string) []models.NumericFact {
	if hit, ok := t.byFiling.Get(adsh); ok {
		return hit.([]models.NumericFact)
	}
	idx := t.byAdsh[adsh]
	if len(idx) == 0 {
		return nil
	}
	out := make([]models.NumericFact, 0, len(idx))
	for _, i := range idx {
		out = append(out, t.facts[i])
	}
	t.byFiling.Set(adsh, out, cache.DefaultExpiration)
	return out
}

// FactsByTag returns every fact carrying one concept tag across all filings.
func (t *NumericTable) FactsByTag(tag string) []models.NumericFact {
	var out []models.NumericFact
	for i := range t.facts {
		if t.facts[i].Tag == tag {
			out = append(out, t.facts[i])
		}
	}
	return out
}
