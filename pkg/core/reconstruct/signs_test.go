package reconstruct

import (
	"math"
	"testing"
)

func fptr(v float64) *float64 { return &v }

func TestFormatDisplayValue(t *testing.T) {
	cases := []struct {
		in   *float64
		want string
	}{
		{nil, ""},
		{fptr(0), "0"},
		{fptr(1234.0), "1,234"},
		{fptr(-1234.0), "(1,234)"},
		{fptr(1234.5), "1,234.50"},
		{fptr(-1234.5), "(1,234.50)"},
		{fptr(1234.567), "1,234.57"},
		{fptr(987654321.0), "987,654,321"},
		{fptr(999.0), "999"},
		{fptr(1000.0), "1,000"},
		{fptr(-0.004), "0"}, // rounds to zero, no negative zero
	}
	for _, c := range cases {
		got := FormatDisplayValue(c.in)
		if got != c.want {
			t.Errorf("FormatDisplayValue(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestApplySignRulesNegationFlag(t *testing.T) {
	if got := ApplySignRules("IS", "CostOfRevenue", 500.0, true); got != -500.0 {
		t.Errorf("negating flag: got %v, want -500", got)
	}
	if got := ApplySignRules("IS", "Revenues", 500.0, false); got != 500.0 {
		t.Errorf("plain value: got %v, want 500", got)
	}
}

func TestApplySignRulesCashFlowOutflows(t *testing.T) {
	// Outflow concepts come out non-positive regardless of the stored sign
	// or negation flag.
	for _, raw := range []float64{750.0, -750.0} {
		for _, negating := range []bool{true, false} {
			got := ApplySignRules("CF", "PaymentsForRepurchaseOfCommonStock", raw, negating)
			if got != -750.0 {
				t.Errorf("outflow (raw=%v negating=%v): got %v, want -750", raw, negating, got)
			}
		}
	}
}

func TestApplySignRulesCashFlowInflows(t *testing.T) {
	for _, raw := range []float64{320.0, -320.0} {
		got := ApplySignRules("CF", "ProceedsFromIssuanceOfLongTermDebt", raw, false)
		if got != 320.0 {
			t.Errorf("inflow (raw=%v): got %v, want 320", raw, got)
		}
	}
}

func TestApplySignRulesEquityDeductions(t *testing.T) {
	got := ApplySignRules("EQ", "DividendsCommonStockCash", 410.0, false)
	if got != -410.0 {
		t.Errorf("dividends: got %v, want -410", got)
	}
	// Keyword overrides stay off other statements.
	got = ApplySignRules("BS", "DividendsCommonStockCash", 410.0, false)
	if got != 410.0 {
		t.Errorf("dividends on BS: got %v, want 410", got)
	}
}

func TestApplySignRulesIdempotentMagnitude(t *testing.T) {
	got := ApplySignRules("CF", "RepaymentsOfDebt", -900.0, true)
	if math.Abs(got) != 900.0 || got > 0 {
		t.Errorf("repayments: got %v, want -900", got)
	}
}
