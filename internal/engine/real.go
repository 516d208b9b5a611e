package engine

import (
	"fmt"
	"math"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
)

// RealInput carries the aggregated statement plus the taxable-income
// adjustments collected from flagged ledger lines.
type RealInput struct {
	Summary    domain.FinancialSummary
	Activity   domain.Activity
	Rates      domain.RateConfiguration
	Additions  float64
	Exclusions float64
}

// CalculateReal projects the Lucro Real burden. PIS and COFINS run in
// the non-cumulative mode with credits, income tax and the social
// contribution run on accounting profit adjusted by the addition and
// exclusion entries, and a projected loss floors the taxable base at
// zero instead of producing negative tax.
func CalculateReal(in RealInput) domain.RegimeResult {
	s, r := in.Summary, in.Rates
	res := domain.RegimeResult{
		Regime:  domain.RegimeReal,
		Label:   "Lucro Real",
		Details: map[string]float64{},
	}

	netOfDeductions := s.Revenue - s.Deductions
	creditBase, creditSource := pisCofinsCreditBase(in)

	pisDebit := netOfDeductions * r.PIS / 100
	pisCredit := creditBase * r.PIS / 100
	pis := math.Max(0, pisDebit-pisCredit)

	cofinsDebit := netOfDeductions * r.COFINS / 100
	cofinsCredit := creditBase * r.COFINS / 100
	cofins := math.Max(0, cofinsDebit-cofinsCredit)

	ipi := s.Revenue * r.IPI / 100
	var iss, icms float64
	if in.Activity.IsService() {
		iss = s.Revenue * r.ISS / 100
	} else {
		icms = s.Revenue * r.ICMS / 100
	}
	salesTaxes := pis + cofins + ipi + iss + icms

	// Financial revenue carries its own flat PIS/COFINS, with no
	// credit; it reduces the financial result below, not net revenue.
	finPIS := s.FinancialRevenue * r.FinancialPIS / 100
	finCOFINS := s.FinancialRevenue * r.FinancialCOFINS / 100

	cpp := s.Payroll * r.CPP / 100
	rat := s.Payroll * r.RAT / 100
	terceiros := s.Payroll * r.ThirdParty / 100
	fgts := s.Payroll * r.FGTS / 100
	charges := cpp + rat + terceiros + fgts

	netRevenue := s.Revenue - s.Deductions - (pis + cofins + iss + icms + ipi)
	operating := netRevenue - (s.COGS + s.Expenses + s.Payroll + charges)
	finResult := s.FinancialRevenue - finPIS - finCOFINS - s.FinancialExpense
	preTax := operating + finResult

	taxable := preTax + in.Additions - in.Exclusions
	fiscalLoss := taxable < 0
	if fiscalLoss {
		taxable = 0
	}

	irpj := taxable * r.IRPJ / 100
	surtax := math.Max(0, taxable-IRPJSurtaxThreshold) * r.IRPJSurtax / 100
	csll := taxable * r.CSLL / 100

	total := irpj + surtax + csll + salesTaxes + finPIS + finCOFINS + charges

	res.Breakdown = domain.TaxBreakdown{
		SalesTax:  round2(salesTaxes + finPIS + finCOFINS),
		IncomeTax: round2(irpj + surtax + csll),
		Payroll:   round2(cpp),
		Charges:   round2(rat + terceiros + fgts),
	}
	res.Details["PIS"] = round2(pis)
	res.Details["COFINS"] = round2(cofins)
	if finPIS > 0 {
		res.Details["PIS s/ receitas financeiras"] = round2(finPIS)
	}
	if finCOFINS > 0 {
		res.Details["COFINS s/ receitas financeiras"] = round2(finCOFINS)
	}
	if ipi > 0 {
		res.Details["IPI"] = round2(ipi)
	}
	if iss > 0 {
		res.Details["ISS"] = round2(iss)
	}
	if icms > 0 {
		res.Details["ICMS"] = round2(icms)
	}
	res.Details["IRPJ"] = round2(irpj)
	if surtax > 0 {
		res.Details["Adicional de IRPJ"] = round2(surtax)
	}
	res.Details["CSLL"] = round2(csll)
	if cpp > 0 {
		res.Details["CPP"] = round2(cpp)
	}
	if rat > 0 {
		res.Details["RAT"] = round2(rat)
	}
	if terceiros > 0 {
		res.Details["Terceiros"] = round2(terceiros)
	}
	if fgts > 0 {
		res.Details["FGTS"] = round2(fgts)
	}

	res.TotalTax = round2(total)
	if s.Revenue > 0 {
		res.EffectiveRate = round2(total / s.Revenue * 100)
	}

	res.Notes = append(res.Notes, fmt.Sprintf(
		"Créditos de PIS/COFINS apurados sobre base de R$ %.2f (%s)", creditBase, creditSource))
	res.Notes = append(res.Notes, fmt.Sprintf(
		"Lucro antes de IRPJ e CSLL: R$ %.2f", preTax))
	if in.Additions > 0 || in.Exclusions > 0 {
		res.Notes = append(res.Notes, fmt.Sprintf(
			"Ajustes ao lucro tributável: adições de R$ %.2f e exclusões de R$ %.2f",
			in.Additions, in.Exclusions))
	}
	if fiscalLoss {
		res.Notes = append(res.Notes,
			"Prejuízo fiscal projetado: IRPJ e CSLL zerados no período")
	}
	return res
}

// pisCofinsCreditBase resolves the base for non-cumulative credits:
// the explicit override when the statement carries one, otherwise the
// cost of goods for trade and industry, or a fifth of operating
// expenses for service activities.
func pisCofinsCreditBase(in RealInput) (float64, string) {
	if in.Summary.CreditBase != nil {
		return *in.Summary.CreditBase, "base informada nas linhas marcadas"
	}
	if !in.Activity.IsService() {
		return in.Summary.COGS, "CMV"
	}
	return in.Summary.Expenses * 0.20, "20% das despesas operacionais"
}
