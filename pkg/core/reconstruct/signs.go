package reconstruct

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ApplySignRules converts a raw fact value into the statement-correct
// displayed sign. The presentation negation flag is applied first, then
// statement-specific overrides force a sign from the semantic role of the
// concept tag: cash-flow outflows (payments, repurchases, repayments,
// purchases) are negative and inflows (proceeds, issuance, borrowings)
// positive; equity dividends/repurchases/payments are negative. The same
// concept can appear with inconsistent negation flags across filers, so the
// keyword override corrects for that without per-filer calibration.
func ApplySignRules(stmt, tag string, value float64, negating bool) float64 {
	signed := value
	if negating {
		signed = -value
	}
	tagLower := strings.ToLower(tag)

	if stmt == "CF" {
		if containsAny(tagLower, roles.CashFlowSigns.Negative) {
			signed = -abs(signed)
		} else if containsAny(tagLower, roles.CashFlowSigns.Positive) {
			signed = abs(signed)
		}
	}

	if stmt == "EQ" {
		if containsAny(tagLower, roles.EquitySigns.Negative) {
			signed = -abs(signed)
		}
	}

	return signed
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// FormatDisplayValue renders a display value under accounting convention:
// rounded to two decimals, thousands-grouped, whole numbers without a
// fraction, negatives wrapped in parentheses. A nil value formats to the
// empty string, not a placeholder.
func FormatDisplayValue(v *float64) string {
	if v == nil {
		return ""
	}

	rounded := decimal.NewFromFloat(*v).Round(2)
	magnitude := rounded.Abs()

	var text string
	if magnitude.IsInteger() {
		text = groupThousands(magnitude.StringFixed(0))
	} else {
		fixed := magnitude.StringFixed(2)
		dot := strings.IndexByte(fixed, '.')
		text = groupThousands(fixed[:dot]) + fixed[dot:]
	}

	if rounded.IsNegative() {
		return "(" + text + ")"
	}
	return text
}

// groupThousands inserts comma separators into a plain digit string.
func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
