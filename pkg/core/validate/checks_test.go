package validate

import (
	"math"
	"testing"

	"sec_reconstructor/pkg/core/reconstruct"
	"sec_reconstructor/pkg/models"
)

func iptr(v int) *int         { return &v }
func fptr(v float64) *float64 { return &v }

func srow(stmt string, report, line int, tag, label string, display *float64, ddate string, qtrs *int) reconstruct.StatementRow {
	row := reconstruct.StatementRow{
		Adsh: "a-1", Stmt: stmt, Report: report, Line: line,
		Tag: tag, Label: label, DDate: ddate, Qtrs: qtrs,
	}
	if display != nil {
		row.Value = fptr(math.Abs(*display))
		row.DisplayValue = display
		row.HasValue = true
	}
	return row
}

func TestCheckStructuralParityPass(t *testing.T) {
	structure := []models.PresentationRow{
		{Report: 2, Line: 1, Tag: "Assets"},
		{Report: 2, Line: 2, Tag: "Liabilities"},
	}
	rows := []reconstruct.StatementRow{
		srow("BS", 2, 1, "Assets", "Total assets", fptr(100), "20241231", iptr(0)),
		srow("BS", 2, 2, "Liabilities", "Total liabilities", nil, "20241231", iptr(0)),
	}
	parity := CheckStructuralParity(structure, rows)
	if !parity.Passed {
		t.Errorf("parity should pass, break: %s", parity.FirstBreak)
	}
}

func TestCheckStructuralParityCountMismatch(t *testing.T) {
	structure := []models.PresentationRow{
		{Report: 2, Line: 1, Tag: "Assets"},
		{Report: 2, Line: 2, Tag: "Liabilities"},
	}
	rows := []reconstruct.StatementRow{
		srow("BS", 2, 1, "Assets", "Total assets", fptr(100), "20241231", iptr(0)),
	}
	parity := CheckStructuralParity(structure, rows)
	if parity.Passed {
		t.Error("count mismatch must fail parity")
	}
	if parity.FirstBreak == "" {
		t.Error("expected a first-break description")
	}
}

func TestCheckStructuralParityTagMismatch(t *testing.T) {
	structure := []models.PresentationRow{{Report: 2, Line: 1, Tag: "Assets"}}
	rows := []reconstruct.StatementRow{
		srow("BS", 2, 1, "Liabilities", "Total liabilities", nil, "", nil),
	}
	if CheckStructuralParity(structure, rows).Passed {
		t.Error("tag mismatch must fail parity")
	}
}

func TestCheckStructuralParityInapplicable(t *testing.T) {
	parity := CheckStructuralParity(nil, nil)
	if !parity.Passed || parity.Applicable {
		t.Errorf("empty structure auto-passes as inapplicable, got %+v", parity)
	}
}

func TestCheckDuplicates(t *testing.T) {
	agree := srow("IS", 1, 1, "Revenues", "Revenue", fptr(100), "20241231", iptr(4))
	agree.CandidateCount = 2
	agree.CandidateValues = 1

	conflict := srow("IS", 1, 2, "NetIncomeLoss", "Net income", fptr(20), "20241231", iptr(4))
	conflict.CandidateCount = 3
	conflict.CandidateValues = 2
	conflict.Conflict = true

	single := srow("IS", 1, 3, "GrossProfit", "Gross profit", fptr(40), "20241231", iptr(4))
	single.CandidateCount = 1

	dups, conflicts := CheckDuplicates([]reconstruct.StatementRow{agree, conflict, single})
	if len(dups) != 2 {
		t.Fatalf("duplicate rows = %d, want 2", len(dups))
	}
	if conflicts != 1 {
		t.Errorf("conflicts = %d, want 1", conflicts)
	}
	if dups[0].Conflict || !dups[1].Conflict {
		t.Errorf("conflict flags wrong: %+v", dups)
	}
}

func TestClassifyMissing(t *testing.T) {
	rows := []reconstruct.StatementRow{
		srow("BS", 2, 1, "Assets", "Total assets", fptr(100), "20241231", iptr(0)),
		srow("BS", 2, 2, "CommitmentsAndContingencies", "Commitments", nil, "", nil),
		srow("BS", 2, 3, "DeferredRevenue", "Deferred revenue", nil, "", nil),
	}
	missing := ClassifyMissing(rows)
	if len(missing.ExpectedTags) != 1 || missing.ExpectedTags[0] != "CommitmentsAndContingencies" {
		t.Errorf("expected tags = %v", missing.ExpectedTags)
	}
	if len(missing.UnexpectedTags) != 1 || missing.UnexpectedTags[0] != "DeferredRevenue" {
		t.Errorf("unexpected tags = %v", missing.UnexpectedTags)
	}
}

func TestCheckContextCoherenceSingleContext(t *testing.T) {
	rows := []reconstruct.StatementRow{
		srow("BS", 2, 1, "Assets", "Total assets", fptr(100), "20241231", iptr(0)),
		srow("BS", 2, 2, "Liabilities", "Total liabilities", fptr(60), "20241231", iptr(0)),
	}
	c := CheckContextCoherence("BS", rows)
	if !c.Passed || len(c.Contexts) != 1 {
		t.Errorf("single-context BS should pass, got %+v", c)
	}
}

func TestCheckContextCoherenceSplitContextFails(t *testing.T) {
	rows := []reconstruct.StatementRow{
		srow("BS", 2, 1, "Assets", "Total assets", fptr(100), "20241231", iptr(0)),
		srow("BS", 2, 2, "Liabilities", "Total liabilities", fptr(60), "20231231", iptr(0)),
	}
	if CheckContextCoherence("BS", rows).Passed {
		t.Error("two instants on BS must fail coherence")
	}
}

func TestCheckContextCoherenceCashFlowAllowsBoundaries(t *testing.T) {
	rows := []reconstruct.StatementRow{
		srow("CF", 5, 1, "NetCashProvidedByUsedInOperatingActivities", "Operating cash", fptr(300), "20241231", iptr(4)),
		srow("CF", 5, 2, "CashAndCashEquivalentsAtCarryingValue", "Cash, beginning of period", fptr(500), "20231231", iptr(0)),
		srow("CF", 5, 3, "CashAndCashEquivalentsAtCarryingValue", "Cash, ending of period", fptr(650), "20241231", iptr(0)),
	}
	if !CheckContextCoherence("CF", rows).Passed {
		t.Error("one duration plus two boundary instants is coherent for CF")
	}
}

func TestCheckContextCoherenceCashFlowThreeInstantsFail(t *testing.T) {
	rows := []reconstruct.StatementRow{
		srow("CF", 5, 1, "CashAndCashEquivalentsAtCarryingValue", "Cash, beginning of period", fptr(400), "20221231", iptr(0)),
		srow("CF", 5, 2, "CashAndCashEquivalentsAtCarryingValue", "Cash, beginning of period", fptr(500), "20231231", iptr(0)),
		srow("CF", 5, 3, "CashAndCashEquivalentsAtCarryingValue", "Cash, ending of period", fptr(650), "20241231", iptr(0)),
	}
	if CheckContextCoherence("CF", rows).Passed {
		t.Error("three instant contexts must fail CF coherence")
	}
}

func TestCheckContextCoherenceEquityUnlimited(t *testing.T) {
	rows := []reconstruct.StatementRow{
		srow("EQ", 7, 1, "StockholdersEquity", "Beginning balance", fptr(5000), "20221231", iptr(0)),
		srow("EQ", 7, 2, "NetIncomeLoss", "Net income", fptr(800), "20231231", iptr(4)),
		srow("EQ", 7, 3, "StockholdersEquity", "Ending balance", fptr(5600), "20231231", iptr(0)),
		srow("EQ", 7, 4, "NetIncomeLoss", "Net income", fptr(900), "20241231", iptr(4)),
	}
	if !CheckContextCoherence("EQ", rows).Passed {
		t.Error("equity statements accept any number of contexts")
	}
}

func TestCheckSubtotalsBalanceSheetEquation(t *testing.T) {
	rows := []reconstruct.StatementRow{
		srow("BS", 2, 1, "Assets", "Total assets", fptr(1000000), "20241231", iptr(0)),
		srow("BS", 2, 2, "LiabilitiesAndStockholdersEquity", "Total liabilities and equity", fptr(1000000), "20241231", iptr(0)),
	}
	checks := CheckSubtotals("BS", rows)
	if len(checks) != 1 {
		t.Fatalf("check count = %d, want 1", len(checks))
	}
	if !checks[0].Passed || checks[0].Delta != 0 {
		t.Errorf("balanced sheet should pass: %+v", checks[0])
	}
}

func TestCheckSubtotalsBalanceSheetImbalance(t *testing.T) {
	rows := []reconstruct.StatementRow{
		srow("BS", 2, 1, "Assets", "Total assets", fptr(1000000), "20241231", iptr(0)),
		srow("BS", 2, 2, "LiabilitiesAndStockholdersEquity", "Total liabilities and equity", fptr(999000), "20241231", iptr(0)),
	}
	checks := CheckSubtotals("BS", rows)
	if len(checks) != 1 || checks[0].Passed {
		t.Fatalf("imbalance beyond tolerance must fail: %+v", checks)
	}
	if checks[0].Delta != 1000 {
		t.Errorf("delta = %v, want 1000", checks[0].Delta)
	}
}

func TestCheckSubtotalsBalanceSheetWithinTolerance(t *testing.T) {
	rows := []reconstruct.StatementRow{
		srow("BS", 2, 1, "Assets", "Total assets", fptr(1000000), "20241231", iptr(0)),
		srow("BS", 2, 2, "LiabilitiesAndStockholdersEquity", "Total liabilities and equity", fptr(999999.5), "20241231", iptr(0)),
	}
	checks := CheckSubtotals("BS", rows)
	if len(checks) != 1 || !checks[0].Passed {
		t.Errorf("rounding-sized delta must pass: %+v", checks)
	}
}

func TestCheckSubtotalsSkippedWhenInputsMissing(t *testing.T) {
	rows := []reconstruct.StatementRow{
		srow("BS", 2, 1, "Assets", "Total assets", fptr(1000000), "20241231", iptr(0)),
	}
	if checks := CheckSubtotals("BS", rows); len(checks) != 0 {
		t.Errorf("missing counterpart must skip the check, got %+v", checks)
	}
}

func cashFlowRows(begin, end, netChange float64, fx *float64) []reconstruct.StatementRow {
	rows := []reconstruct.StatementRow{
		srow("CF", 5, 1, "CashCashEquivalentsRestrictedCashAndRestrictedCashEquivalentsPeriodIncreaseDecreaseIncludingExchangeRateEffect",
			"Net increase in cash", fptr(netChange), "20241231", iptr(4)),
		srow("CF", 5, 2, "CashAndCashEquivalentsAtCarryingValue", "Cash, beginning of period", fptr(begin), "20231231", iptr(0)),
		srow("CF", 5, 3, "CashAndCashEquivalentsAtCarryingValue", "Cash, ending of period", fptr(end), "20241231", iptr(0)),
	}
	if fx != nil {
		rows = append(rows, srow("CF", 5, 4, "EffectOfExchangeRateOnCashAndCashEquivalents",
			"Effect of exchange rate changes", fx, "20241231", iptr(4)))
	}
	return rows
}

func TestCheckSubtotalsCashRollForward(t *testing.T) {
	checks := CheckSubtotals("CF", cashFlowRows(500, 650, 150, nil))
	if len(checks) != 1 || !checks[0].Passed {
		t.Fatalf("clean roll-forward must pass: %+v", checks)
	}
	if checks[0].Variant != "net_change" {
		t.Errorf("variant = %q, want net_change", checks[0].Variant)
	}
}

func TestCheckSubtotalsCashRollForwardWithFX(t *testing.T) {
	// end - begin = 150 but reported net change is 140; the 10 difference is
	// the exchange-rate effect.
	checks := CheckSubtotals("CF", cashFlowRows(500, 650, 140, fptr(10)))
	if len(checks) != 1 || !checks[0].Passed {
		t.Fatalf("fx-adjusted roll-forward must pass: %+v", checks)
	}
	if checks[0].Variant != "net_change_with_fx" {
		t.Errorf("variant = %q, want net_change_with_fx", checks[0].Variant)
	}
}

func TestCheckSubtotalsCashRollForwardFailure(t *testing.T) {
	checks := CheckSubtotals("CF", cashFlowRows(500, 650, 100, nil))
	if len(checks) != 1 || checks[0].Passed {
		t.Fatalf("broken roll-forward must fail: %+v", checks)
	}
}
