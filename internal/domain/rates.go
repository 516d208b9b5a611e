package domain

// ============================================================
// Rate configuration — current regimes and IVA dual reform
// ============================================================

// RateConfiguration is a named set of tax rates, all expressed in
// percent points (0.65 means 0.65%). Immutable per calculation; the
// engine never mutates it.
type RateConfiguration struct {
	PIS        float64 `json:"pis"`
	COFINS     float64 `json:"cofins"`
	IRPJ       float64 `json:"irpj"`
	IRPJSurtax float64 `json:"irpjAdicional"`
	CSLL       float64 `json:"csll"`
	IPI        float64 `json:"ipi"`
	ISS        float64 `json:"iss"`
	ICMS       float64 `json:"icms"`
	RAT        float64 `json:"rat"`
	CPP        float64 `json:"cpp"`
	ThirdParty float64 `json:"terceiros"`
	FGTS       float64 `json:"fgts"`
	IRPJMargin float64 `json:"margemIrpj"`
	CSLLMargin float64 `json:"margemCsll"`
	// Lucro Real only: PIS/COFINS over financial revenue.
	FinancialPIS    float64 `json:"pisFinanceiro"`
	FinancialCOFINS float64 `json:"cofinsFinanceiro"`
}

// ReformConfiguration holds the dual-VAT reform rates, in percent
// points. DefaultCreditPct (0-100) is applied to cost/expense lines
// that carry no explicit credit percentage.
type ReformConfiguration struct {
	IBS              float64 `json:"ibs"`
	CBS              float64 `json:"cbs"`
	Selective        float64 `json:"impostoSeletivo"`
	DefaultCreditPct float64 `json:"creditoPadrao"`
}

// DefaultPresumidoRates returns the statutory defaults for the
// cumulative (Lucro Presumido) profile.
func DefaultPresumidoRates() RateConfiguration {
	return RateConfiguration{
		PIS:             0.65,
		COFINS:          3.00,
		IRPJ:            15.0,
		IRPJSurtax:      10.0,
		CSLL:            9.0,
		IPI:             0.0,
		ISS:             5.0,
		ICMS:            18.0,
		RAT:             2.0,
		CPP:             20.0,
		ThirdParty:      5.80,
		FGTS:            8.0,
		IRPJMargin:      32.0,
		CSLLMargin:      32.0,
		FinancialPIS:    0.65,
		FinancialCOFINS: 4.00,
	}
}

// DefaultRealRates returns the statutory defaults for the
// non-cumulative (Lucro Real) profile.
func DefaultRealRates() RateConfiguration {
	cfg := DefaultPresumidoRates()
	cfg.PIS = 1.65
	cfg.COFINS = 7.60
	cfg.IRPJMargin = 0
	cfg.CSLLMargin = 0
	return cfg
}

// DefaultReformRates returns the projected dual-VAT reference rates.
func DefaultReformRates() ReformConfiguration {
	return ReformConfiguration{
		IBS:              17.5,
		CBS:              9.0,
		Selective:        0.0,
		DefaultCreditPct: 100.0,
	}
}
