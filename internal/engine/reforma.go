package engine

import (
	"fmt"
	"math"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
)

// ReformaInput carries the aggregated statement, the classified lines
// whose credit percentages drive the VAT credits, the reform rate set
// and the baseline result whose income and payroll burden carries over
// unchanged into the projection.
type ReformaInput struct {
	Summary  domain.FinancialSummary
	Lines    []domain.LineItem
	Config   domain.ReformConfiguration
	Baseline domain.RegimeResult
}

// CalculateReforma projects the dual-VAT consumption-tax scenario.
// IBS and CBS debits run on revenue net of deductions; credits accrue
// per cost or expense line from its individual credit percentage, and
// each leg's payable floors at zero. Income tax, payroll tax and
// employer charges are not recomputed: the reform leaves income
// taxation untouched, so those amounts carry over from the baseline.
func CalculateReforma(in ReformaInput) domain.ReformResult {
	cfg := in.Config
	res := domain.ReformResult{
		RegimeResult: domain.RegimeResult{
			Regime:  domain.RegimeReforma,
			Label:   "Reforma Tributária (IBS/CBS)",
			Details: map[string]float64{},
		},
	}

	base := in.Summary.Revenue - in.Summary.Deductions
	ibsDebit := base * cfg.IBS / 100
	cbsDebit := base * cfg.CBS / 100
	selective := base * cfg.Selective / 100

	var ibsCredit, cbsCredit float64
	for _, line := range in.Lines {
		if !countsInSums(line) {
			continue
		}
		if line.Tag != domain.TagCost && line.Tag != domain.TagExpense {
			continue
		}
		if line.CreditPct == nil || *line.CreditPct <= 0 {
			continue
		}
		eligible := math.Abs(line.Value) * *line.CreditPct / 100
		ibsCredit += eligible * cfg.IBS / 100
		cbsCredit += eligible * cfg.CBS / 100
	}

	ibsPayable := math.Max(0, ibsDebit-ibsCredit)
	cbsPayable := math.Max(0, cbsDebit-cbsCredit)
	totalVAT := ibsPayable + cbsPayable + selective

	b := in.Baseline.Breakdown
	total := totalVAT + b.IncomeTax + b.Payroll + b.Charges

	res.Breakdown = domain.TaxBreakdown{
		SalesTax:  round2(totalVAT),
		IncomeTax: b.IncomeTax,
		Payroll:   b.Payroll,
		Charges:   b.Charges,
	}
	res.Details["IBS"] = round2(ibsPayable)
	res.Details["CBS"] = round2(cbsPayable)
	if selective > 0 {
		res.Details["Imposto Seletivo"] = round2(selective)
	}
	if b.IncomeTax > 0 {
		res.Details["IRPJ/CSLL (mantidos)"] = b.IncomeTax
	}
	if b.Payroll+b.Charges > 0 {
		res.Details["Folha e encargos (mantidos)"] = round2(b.Payroll + b.Charges)
	}

	res.IBSDebit = round2(ibsDebit)
	res.IBSCredit = round2(ibsCredit)
	res.CBSDebit = round2(cbsDebit)
	res.CBSCredit = round2(cbsCredit)
	res.TotalCredits = round2(ibsCredit + cbsCredit)

	res.TotalTax = round2(total)
	if in.Summary.Revenue > 0 {
		res.EffectiveRate = round2(total / in.Summary.Revenue * 100)
	}

	res.Notes = append(res.Notes, fmt.Sprintf(
		"Débitos de IVA sobre base de R$ %.2f (receita menos deduções)", base))
	if res.TotalCredits > 0 {
		res.Notes = append(res.Notes, fmt.Sprintf(
			"Créditos apropriados: R$ %.2f de IBS e R$ %.2f de CBS",
			res.IBSCredit, res.CBSCredit))
	}
	if in.Baseline.Label != "" {
		res.Notes = append(res.Notes, fmt.Sprintf(
			"Tributação sobre renda e folha mantida do regime %s", in.Baseline.Label))
	}
	return res
}
