package engine

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
)

var (
	nonAlphanumericRegex = regexp.MustCompile(`[^A-Z0-9 ]+`)
	whitespaceRegex      = regexp.MustCompile(`\s+`)
)

// normalizeDescription uppercases a statement line description and
// strips accents and punctuation so keyword matching works on the
// many spellings bookkeeping software produces for the same line.
func normalizeDescription(str string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	result, _, _ := transform.String(t, str)
	result = strings.ToUpper(result)
	result = nonAlphanumericRegex.ReplaceAllString(result, " ")
	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// Classify returns a copy of the lines with a tag filled in for every
// analytical line that arrived untagged. Lines that already carry a
// tag keep it untouched, so running Classify twice is a no-op.
func Classify(lines []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(lines))
	copy(out, lines)
	for i := range out {
		line := &out[i]
		if line.Kind != domain.LineAnalytical {
			continue
		}
		if line.Tag != "" && line.Tag != domain.TagOther {
			continue
		}
		line.Tag = classifyDescription(line.Description, line.Value, line.AggregateRow)
	}
	return out
}

// classifyDescription resolves a tag for one line: exact canonical
// names first, then the ordered keyword rules, then a sign fallback
// that treats leftover negative movement lines as plain expenses.
func classifyDescription(desc string, value float64, aggregateRow bool) domain.Tag {
	normalized := normalizeDescription(desc)
	if tag, ok := canonicalLines[normalized]; ok {
		return tag
	}
	for _, rule := range tagRules {
		if !containsAny(normalized, rule.keywords) {
			continue
		}
		if rule.bySign {
			if value >= 0 {
				return domain.TagFinancialRevenue
			}
			return domain.TagFinancialExpense
		}
		return rule.tag
	}
	if value < 0 && !aggregateRow {
		return domain.TagExpense
	}
	return domain.TagOther
}

// countsInSums reports whether a line contributes to any aggregate.
// Synthetic lines and subtotal rows are structural only.
func countsInSums(line domain.LineItem) bool {
	return line.Kind == domain.LineAnalytical && !line.AggregateRow
}

// Aggregate folds tagged analytical lines into the totals the
// calculators consume. Values enter by absolute amount, so statements
// that carry expenses as negatives and statements that carry them as
// positives aggregate the same way.
//
// CreditBase is only set when at least one line is flagged as
// generating PIS/COFINS credits; a nil CreditBase tells the
// non-cumulative calculator to fall back to its own estimate.
func Aggregate(lines []domain.LineItem) domain.FinancialSummary {
	var s domain.FinancialSummary
	var creditBase float64
	var creditFlagged bool
	for _, line := range lines {
		if !countsInSums(line) {
			continue
		}
		v := math.Abs(line.Value)
		switch line.Tag {
		case domain.TagRevenue:
			s.Revenue += v
		case domain.TagDeduction:
			s.Deductions += v
		case domain.TagSalesTax:
			s.SalesTaxes += v
		case domain.TagIncomeTax:
			s.IncomeTaxes += v
		case domain.TagPayroll:
			s.Payroll += v
		case domain.TagCost:
			s.COGS += v
		case domain.TagExpense:
			s.Expenses += v
		case domain.TagFinancialRevenue:
			s.FinancialRevenue += v
		case domain.TagFinancialExpense:
			s.FinancialExpense += v
		}
		if line.PISCOFINSCredit && (line.Tag == domain.TagCost || line.Tag == domain.TagExpense) {
			creditBase += v
			creditFlagged = true
		}
	}
	if creditFlagged {
		s.CreditBase = &creditBase
	}
	return s
}

// Adjustments sums the taxable-profit additions and exclusions marked
// on analytical lines, by absolute amount.
func Adjustments(lines []domain.LineItem) (additions, exclusions float64) {
	for _, line := range lines {
		if !countsInSums(line) {
			continue
		}
		switch line.Adjustment {
		case domain.AdjustmentAddition:
			additions += math.Abs(line.Value)
		case domain.AdjustmentExclusion:
			exclusions += math.Abs(line.Value)
		}
	}
	return additions, exclusions
}

// ApplyDefaultCreditPct fills the reform credit percentage on cost and
// expense lines that have none set. An explicit zero means the line
// was reviewed and grants no credit, so only nil values receive the
// default.
func ApplyDefaultCreditPct(lines []domain.LineItem, pct float64) []domain.LineItem {
	out := make([]domain.LineItem, len(lines))
	copy(out, lines)
	for i := range out {
		line := &out[i]
		if !countsInSums(line) {
			continue
		}
		if line.Tag != domain.TagCost && line.Tag != domain.TagExpense {
			continue
		}
		if line.CreditPct == nil {
			p := pct
			line.CreditPct = &p
		}
	}
	return out
}
