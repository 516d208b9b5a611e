package engine

import (
	"fmt"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
)

// SimplesInput carries everything the unified-collection projection
// needs. Rates supplies the employer-charge percentages used for the
// severance fund and, on the qualified-services annex, the social
// security contribution collected outside the unified document.
type SimplesInput struct {
	Summary  domain.FinancialSummary
	Activity domain.Activity
	Rates    domain.RateConfiguration
}

// CalculateSimples projects the Simples Nacional burden for one year.
// Revenue above the ceiling blocks the regime instead of erroring so
// the caller can still render the full comparison.
func CalculateSimples(in SimplesInput) domain.RegimeResult {
	res := domain.RegimeResult{
		Regime:  domain.RegimeSimples,
		Label:   "Simples Nacional",
		Details: map[string]float64{},
	}

	revenue := in.Summary.Revenue
	if revenue > SimplesCeiling {
		res.Blocked = true
		res.Notes = append(res.Notes, fmt.Sprintf(
			"Receita bruta anual de R$ %.2f excede o teto de R$ %.2f do Simples Nacional",
			revenue, SimplesCeiling))
		return res
	}

	annex, factorR := annexFor(in)
	bracket := LookupBracket(annex, revenue)

	var effective float64
	if revenue > 0 {
		effective = (revenue*bracket.Rate/100 - bracket.Deduction) / revenue
		if effective < 0 {
			effective = 0
		}
	}
	das := revenue * effective

	payroll := in.Summary.Payroll
	var externalCPP float64
	if annex == AnnexIV {
		externalCPP = payroll * in.Rates.CPP / 100
	}
	fgts := payroll * in.Rates.FGTS / 100
	total := das + externalCPP + fgts

	res.Breakdown = domain.TaxBreakdown{
		SalesTax: round2(das),
		Payroll:  round2(externalCPP),
		Charges:  round2(fgts),
	}
	res.Details["DAS"] = round2(das)
	if externalCPP > 0 {
		res.Details["CPP"] = round2(externalCPP)
	}
	if fgts > 0 {
		res.Details["FGTS"] = round2(fgts)
	}
	res.TotalTax = round2(total)
	if revenue > 0 {
		res.EffectiveRate = round2(total / revenue * 100)
	}

	res.Notes = append(res.Notes, fmt.Sprintf(
		"%s: alíquota efetiva do DAS de %.2f%%", annex, effective*100))
	if in.Activity == domain.ActivityServicosQualificados {
		if annex == AnnexIII {
			res.Notes = append(res.Notes, fmt.Sprintf(
				"Fator R de %.2f (folha com encargos sobre receita) maior ou igual a %.2f: tributação pelo Anexo III",
				factorR, FactorRThreshold))
		} else {
			res.Notes = append(res.Notes, fmt.Sprintf(
				"Fator R de %.2f abaixo de %.2f: tributação pelo Anexo IV, com CPP recolhida fora do DAS",
				factorR, FactorRThreshold))
		}
	}
	return res
}

// annexFor maps the business activity to its bracket table. Qualified
// services run the payroll-ratio test: payroll cost plus the
// severance-fund uplift, divided by annual revenue; ratios at or above
// the threshold move the company to the general services annex.
func annexFor(in SimplesInput) (Annex, float64) {
	switch in.Activity {
	case domain.ActivityComercio:
		return AnnexI, 0
	case domain.ActivityIndustria:
		return AnnexII, 0
	case domain.ActivityServicosQualificados:
		var factorR float64
		if in.Summary.Revenue > 0 {
			uplift := 1 + in.Rates.FGTS/100
			factorR = in.Summary.Payroll * uplift / in.Summary.Revenue
		}
		if factorR >= FactorRThreshold {
			return AnnexIII, factorR
		}
		return AnnexIV, factorR
	default:
		return AnnexIII, 0
	}
}
