package engine

import (
	"fmt"
	"math"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
)

// PresumidoInput carries the aggregated statement, the business
// activity and the rate set for the presumed-profit projection.
type PresumidoInput struct {
	Summary  domain.FinancialSummary
	Activity domain.Activity
	Rates    domain.RateConfiguration
}

// CalculatePresumido projects the Lucro Presumido burden. Income tax
// and the social contribution run on presumption margins over gross
// revenue; PIS and COFINS are cumulative, with no credits.
func CalculatePresumido(in PresumidoInput) domain.RegimeResult {
	s, r := in.Summary, in.Rates
	res := domain.RegimeResult{
		Regime:  domain.RegimePresumido,
		Label:   "Lucro Presumido",
		Details: map[string]float64{},
	}

	// Financial revenue enters both presumption bases in full.
	irpjBase := s.Revenue*r.IRPJMargin/100 + s.FinancialRevenue
	csllBase := s.Revenue*r.CSLLMargin/100 + s.FinancialRevenue

	irpj := irpjBase * r.IRPJ / 100
	surtax := math.Max(0, irpjBase-IRPJSurtaxThreshold) * r.IRPJSurtax / 100
	csll := csllBase * r.CSLL / 100

	pis := s.Revenue * r.PIS / 100
	cofins := s.Revenue * r.COFINS / 100
	ipi := s.Revenue * r.IPI / 100
	var iss, icms float64
	if in.Activity.IsService() {
		iss = s.Revenue * r.ISS / 100
	} else {
		icms = s.Revenue * r.ICMS / 100
	}
	salesTaxes := pis + cofins + ipi + iss + icms

	cpp := s.Payroll * r.CPP / 100
	rat := s.Payroll * r.RAT / 100
	terceiros := s.Payroll * r.ThirdParty / 100
	fgts := s.Payroll * r.FGTS / 100

	total := irpj + surtax + csll + salesTaxes + cpp + rat + terceiros + fgts

	res.Breakdown = domain.TaxBreakdown{
		SalesTax:  round2(salesTaxes),
		IncomeTax: round2(irpj + surtax + csll),
		Payroll:   round2(cpp),
		Charges:   round2(rat + terceiros + fgts),
	}
	res.Details["IRPJ"] = round2(irpj)
	if surtax > 0 {
		res.Details["Adicional de IRPJ"] = round2(surtax)
	}
	res.Details["CSLL"] = round2(csll)
	res.Details["PIS"] = round2(pis)
	res.Details["COFINS"] = round2(cofins)
	if ipi > 0 {
		res.Details["IPI"] = round2(ipi)
	}
	if iss > 0 {
		res.Details["ISS"] = round2(iss)
	}
	if icms > 0 {
		res.Details["ICMS"] = round2(icms)
	}
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
		"Base presumida de IRPJ: R$ %.2f (margem de %.1f%%)", irpjBase, r.IRPJMargin))
	if surtax > 0 {
		res.Notes = append(res.Notes, fmt.Sprintf(
			"Adicional de IRPJ de %.0f%% sobre a base que excede R$ %.2f", r.IRPJSurtax, IRPJSurtaxThreshold))
	}
	return res
}
