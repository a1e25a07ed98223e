package reconstruct

import (
	"sort"
	"strings"
	"time"

	"sec_reconstructor/pkg/models"
)

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// ReconstructStatement rebuilds one statement as a row-accurate table.
// Output row count always equals the presentation row count (or the
// synthesized tag-group count on the comprehensive-income fallback path);
// rows are never reordered, merged, or dropped. A row with no resolvable
// fact is kept with HasValue false. Pin fields left empty are inferred from
// the statement's fact pool.
func (e *Engine) ReconstructStatement(adsh, stmt string, pin ResolvedContext) []StatementRow {
	structure := e.Structure.StructureFor(adsh, stmt)
	if len(structure) == 0 {
		if stmt == "CI" {
			return e.reconstructCIFallback(adsh, pin)
		}
		return nil
	}

	sorted := make([]models.PresentationRow, len(structure))
	copy(sorted, structure)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Report != sorted[j].Report {
			return sorted[i].Report < sorted[j].Report
		}
		return sorted[i].Line < sorted[j].Line
	})

	tags := make(map[string]struct{}, len(sorted))
	for i := range sorted {
		if sorted[i].Tag != "" {
			tags[sorted[i].Tag] = struct{}{}
		}
	}

	target := pin
	if target.DDate == "" || target.Qtrs == nil {
		inferred := e.ResolveContext(adsh, stmt, tags)
		if target.DDate == "" {
			target.DDate = inferred.DDate
		}
		if target.Qtrs == nil {
			target.Qtrs = inferred.Qtrs
		}
	}

	pool := e.Facts.FactsFor(adsh)

	rows := make([]StatementRow, 0, len(sorted))
	for i := range sorted {
		srow := &sorted[i]
		sel := e.SelectFact(pool, srow, target)

		label := srow.Label
		if label == "" {
			label = srow.Tag
		}

		out := StatementRow{
			Adsh:            adsh,
			Stmt:            stmt,
			Report:          srow.Report,
			Line:            srow.Line,
			Depth:           srow.Depth,
			SourceFile:      srow.SourceFile,
			Tag:             srow.Tag,
			Version:         srow.Version,
			Label:           label,
			Negating:        srow.Negating,
			DDate:           target.DDate,
			Qtrs:            copyInt(target.Qtrs),
			CandidateCount:  sel.CandidateCount,
			CandidateValues: sel.UniqueValues,
			Conflict:        sel.UniqueValues > 1,
		}

		if sel.Fact != nil {
			out.Value = copyFloat(sel.Fact.Value)
			if out.Value != nil {
				display := ApplySignRules(stmt, srow.Tag, *out.Value, srow.Negating)
				out.DisplayValue = &display
			}
			out.UOM = sel.Fact.UOM
			out.DDate = sel.Fact.DDate
			out.Qtrs = copyInt(sel.Fact.Qtrs)
			out.Segments = sel.Fact.Segments
			out.Coreg = sel.Fact.Coreg
		}
		out.FormattedValue = FormatDisplayValue(out.DisplayValue)
		out.HasValue = out.Value != nil

		rows = append(rows, out)
	}
	return rows
}

// reconstructCIFallback builds the comprehensive-income table directly from
// numeric facts when no standalone CI presentation structure exists. One
// synthetic row is emitted per concept tag in deterministic tag order, with
// the fact for each tag chosen by the standard candidate-ranking rule (no
// row-semantic narrowing, since there is no presentation label to key off).
func (e *Engine) reconstructCIFallback(adsh string, pin ResolvedContext) []StatementRow {
	all := e.Facts.FactsFor(adsh)
	var facts []models.NumericFact
	for i := range all {
		if !strings.Contains(strings.ToLower(all[i].Tag), "comprehensiveincome") {
			continue
		}
		if !all[i].IsDuration() {
			continue
		}
		if pin.DDate != "" && all[i].DDate != pin.DDate {
			continue
		}
		if pin.Qtrs != nil && (all[i].Qtrs == nil || *all[i].Qtrs != *pin.Qtrs) {
			continue
		}
		facts = append(facts, all[i])
	}
	if len(facts) == 0 {
		return nil
	}

	if pin.DDate == "" || pin.Qtrs == nil {
		latestDDate := ""
		var latestTime *time.Time
		for i := range facts {
			end := facts[i].EndDate()
			if end == nil {
				continue
			}
			if latestTime == nil || end.After(*latestTime) {
				latestTime = end
				latestDDate = facts[i].DDate
			}
		}
		if latestTime == nil {
			return nil
		}
		var narrowed []models.NumericFact
		for i := range facts {
			if facts[i].DDate == latestDDate {
				narrowed = append(narrowed, facts[i])
			}
		}
		facts = narrowed
		if pin.Qtrs == nil {
			if mode := modalQtrs(facts); mode != nil {
				var byQtrs []models.NumericFact
				for i := range facts {
					if facts[i].Qtrs != nil && *facts[i].Qtrs == *mode {
						byQtrs = append(byQtrs, facts[i])
					}
				}
				facts = byQtrs
			}
		}
	}

	groups := make(map[string][]models.NumericFact)
	for i := range facts {
		groups[facts[i].Tag] = append(groups[facts[i].Tag], facts[i])
	}
	tags := make([]string, 0, len(groups))
	for tag := range groups {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	rows := make([]StatementRow, 0, len(tags))
	line := 0
	for _, tag := range tags {
		chosen := choosePreferred(groups[tag], true)
		if chosen == nil {
			continue
		}
		line++

		label := tag
		if e.Labels != nil {
			if l, ok := e.Labels.LabelFor(tag); ok && l != "" {
				label = l
			}
		}

		out := StatementRow{
			Adsh:       adsh,
			Stmt:       "CI",
			Report:     0,
			Line:       line,
			Depth:      0,
			SourceFile: "D",
			Tag:        tag,
			Version:    chosen.Version,
			Label:      label,
			UOM:        chosen.UOM,
			DDate:      chosen.DDate,
			Qtrs:       copyInt(chosen.Qtrs),
			Segments:   chosen.Segments,
			Coreg:      chosen.Coreg,
		}
		out.Value = copyFloat(chosen.Value)
		if out.Value != nil {
			display := ApplySignRules("CI", tag, *out.Value, false)
			out.DisplayValue = &display
		}
		out.FormattedValue = FormatDisplayValue(out.DisplayValue)
		out.HasValue = out.Value != nil
		rows = append(rows, out)
	}
	return rows
}

// ReconstructFiling rebuilds several statements of one filing. A nil code
// list means the five core statements.
func (e *Engine) ReconstructFiling(adsh string, codes []string) map[string][]StatementRow {
	if len(codes) == 0 {
		codes = CoreStatementCodes
	}
	out := make(map[string][]StatementRow, len(codes))
	for _, code := range codes {
		out[code] = e.ReconstructStatement(adsh, code, ResolvedContext{})
	}
	return out
}
