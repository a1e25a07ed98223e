package reconstruct

import (
	"reflect"
	"testing"
)

func balanceSheetFixture() (fakeFacts, fakeStructure) {
	facts := fakeFacts{
		fact("a-1", "Assets", "20241231", 0, 1500),
		fact("a-1", "Liabilities", "20241231", 0, 900),
		fact("a-1", "StockholdersEquity", "20241231", 0, 600),
		fact("a-1", "Assets", "20231231", 0, 1400),
	}
	structure := fakeStructure{
		prow("BS", 2, 1, "Assets", "Total assets"),
		prow("BS", 2, 2, "Liabilities", "Total liabilities"),
		prow("BS", 2, 3, "StockholdersEquity", "Total stockholders' equity"),
		prow("BS", 2, 4, "CommitmentsAndContingencies", "Commitments and contingencies"),
	}
	return facts, structure
}

func TestReconstructStatementRowParity(t *testing.T) {
	facts, structure := balanceSheetFixture()
	e := NewEngine(facts, structure, nil)

	rows := e.ReconstructStatement("a-1", "BS", ResolvedContext{})
	if len(rows) != len(structure) {
		t.Fatalf("row count = %d, want %d (one output row per presentation row)", len(rows), len(structure))
	}
	for i := range rows {
		if rows[i].Report != structure[i].Report || rows[i].Line != structure[i].Line {
			t.Errorf("row %d: (%d,%d), want (%d,%d)", i,
				rows[i].Report, rows[i].Line, structure[i].Report, structure[i].Line)
		}
	}
}

func TestReconstructStatementUnresolvedRowKept(t *testing.T) {
	facts, structure := balanceSheetFixture()
	e := NewEngine(facts, structure, nil)

	rows := e.ReconstructStatement("a-1", "BS", ResolvedContext{})
	last := rows[len(rows)-1]
	if last.Tag != "CommitmentsAndContingencies" {
		t.Fatalf("unexpected last row %+v", last)
	}
	if last.HasValue || last.Value != nil {
		t.Errorf("valueless row must keep HasValue=false, got %+v", last)
	}
	if last.FormattedValue != "" {
		t.Errorf("valueless row formats to empty string, got %q", last.FormattedValue)
	}
}

func TestReconstructStatementInfersLatestContext(t *testing.T) {
	facts, structure := balanceSheetFixture()
	e := NewEngine(facts, structure, nil)

	rows := e.ReconstructStatement("a-1", "BS", ResolvedContext{})
	if rows[0].Value == nil || *rows[0].Value != 1500 {
		t.Errorf("Assets = %v, want 1500 from the latest instant", rows[0].Value)
	}
	if rows[0].DDate != "20241231" {
		t.Errorf("ddate = %q, want 20241231", rows[0].DDate)
	}
}

func TestReconstructStatementPinOverridesInference(t *testing.T) {
	facts, structure := balanceSheetFixture()
	e := NewEngine(facts, structure, nil)

	rows := e.ReconstructStatement("a-1", "BS", ResolvedContext{DDate: "20231231", Qtrs: iptr(0)})
	if rows[0].Value == nil || *rows[0].Value != 1400 {
		t.Errorf("pinned Assets = %v, want 1400", rows[0].Value)
	}
}

func TestReconstructStatementDeterministic(t *testing.T) {
	facts, structure := balanceSheetFixture()
	e := NewEngine(facts, structure, nil)

	first := e.ReconstructStatement("a-1", "BS", ResolvedContext{})
	for i := 0; i < 5; i++ {
		again := e.ReconstructStatement("a-1", "BS", ResolvedContext{})
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d: identical input must reproduce identical output", i)
		}
	}
}

func TestReconstructStatementSortsUnorderedStructure(t *testing.T) {
	facts, _ := balanceSheetFixture()
	shuffled := fakeStructure{
		prow("BS", 2, 3, "StockholdersEquity", "Total stockholders' equity"),
		prow("BS", 2, 1, "Assets", "Total assets"),
		prow("BS", 2, 2, "Liabilities", "Total liabilities"),
	}
	e := NewEngine(facts, shuffled, nil)

	rows := e.ReconstructStatement("a-1", "BS", ResolvedContext{})
	for i := 1; i < len(rows); i++ {
		if rows[i].Line < rows[i-1].Line {
			t.Fatalf("rows out of (report, line) order: %d before %d", rows[i-1].Line, rows[i].Line)
		}
	}
}

func TestReconstructStatementNegationDrivesDisplay(t *testing.T) {
	facts := fakeFacts{fact("a-1", "TreasuryStockValue", "20241231", 0, 250)}
	neg := prow("BS", 2, 1, "TreasuryStockValue", "Less: treasury stock")
	neg.Negating = true
	e := NewEngine(facts, fakeStructure{neg}, nil)

	rows := e.ReconstructStatement("a-1", "BS", ResolvedContext{})
	if rows[0].DisplayValue == nil || *rows[0].DisplayValue != -250 {
		t.Errorf("display value = %v, want -250", rows[0].DisplayValue)
	}
	if rows[0].FormattedValue != "(250)" {
		t.Errorf("formatted = %q, want (250)", rows[0].FormattedValue)
	}
	if rows[0].Value == nil || *rows[0].Value != 250 {
		t.Errorf("raw value must stay unnormalized, got %v", rows[0].Value)
	}
}

type fakeLabels map[string]string

func (l fakeLabels) LabelFor(tag string) (string, bool) {
	v, ok := l[tag]
	return v, ok
}

func TestReconstructCIFallback(t *testing.T) {
	facts := fakeFacts{
		fact("a-1", "ComprehensiveIncomeNetOfTax", "20241231", 4, 780),
		fact("a-1", "OtherComprehensiveIncomeLossNetOfTax", "20241231", 4, -20),
		fact("a-1", "ComprehensiveIncomeNetOfTax", "20231231", 4, 700), // stale period
		fact("a-1", "NetIncomeLoss", "20241231", 4, 800),               // not a CI concept
	}
	labels := fakeLabels{"ComprehensiveIncomeNetOfTax": "Comprehensive income"}
	e := NewEngine(facts, fakeStructure{}, labels)

	rows := e.ReconstructStatement("a-1", "CI", ResolvedContext{})
	if len(rows) != 2 {
		t.Fatalf("row count = %d, want 2 synthesized rows", len(rows))
	}
	// Deterministic tag order.
	if rows[0].Tag != "ComprehensiveIncomeNetOfTax" || rows[1].Tag != "OtherComprehensiveIncomeLossNetOfTax" {
		t.Errorf("unexpected tag order: %s, %s", rows[0].Tag, rows[1].Tag)
	}
	if rows[0].Label != "Comprehensive income" {
		t.Errorf("label = %q, want looked-up label", rows[0].Label)
	}
	if rows[1].Label != "OtherComprehensiveIncomeLossNetOfTax" {
		t.Errorf("label = %q, want tag fallback", rows[1].Label)
	}
	if rows[0].DDate != "20241231" {
		t.Errorf("ddate = %q, want latest period only", rows[0].DDate)
	}
	if rows[0].SourceFile != "D" {
		t.Errorf("rfile = %q, want D for synthesized rows", rows[0].SourceFile)
	}
}

func TestReconstructCIFallbackOneRowPerTag(t *testing.T) {
	seg := fact("a-1", "ComprehensiveIncomeNetOfTax", "20241231", 4, 760)
	seg.Segments = "Scenario=Forecast;"
	facts := fakeFacts{
		fact("a-1", "ComprehensiveIncomeNetOfTax", "20241231", 4, 780),
		seg,
	}
	e := NewEngine(facts, fakeStructure{}, nil)

	rows := e.ReconstructStatement("a-1", "CI", ResolvedContext{})
	if len(rows) != 1 {
		t.Fatalf("row count = %d, want one row per tag group", len(rows))
	}
	if rows[0].Value == nil || *rows[0].Value != 780 {
		t.Errorf("value = %v, want the higher-ranked consolidated fact", rows[0].Value)
	}
}

func TestReconstructCIFallbackEmptyWhenNoConcepts(t *testing.T) {
	e := NewEngine(fakeFacts{fact("a-1", "NetIncomeLoss", "20241231", 4, 800)}, fakeStructure{}, nil)
	if rows := e.ReconstructStatement("a-1", "CI", ResolvedContext{}); rows != nil {
		t.Errorf("expected nil rows, got %d", len(rows))
	}
}

func TestReconstructFilingDefaultsToCoreCodes(t *testing.T) {
	facts, structure := balanceSheetFixture()
	e := NewEngine(facts, structure, nil)

	tables := e.ReconstructFiling("a-1", nil)
	if len(tables) != len(CoreStatementCodes) {
		t.Fatalf("table count = %d, want %d", len(tables), len(CoreStatementCodes))
	}
	if len(tables["BS"]) == 0 {
		t.Errorf("BS table missing")
	}
	if _, ok := tables["CF"]; !ok {
		t.Errorf("absent statements still get an entry")
	}
}
