package engine_test

import (
	"strings"
	"testing"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
	"github.com/boddenberg/pj-taxsim-go/internal/engine"
)

func TestCalculateReal_CreditEqualToDebitZeroesPISCOFINS(t *testing.T) {
	creditBase := 400_000.0
	res := engine.CalculateReal(engine.RealInput{
		Summary: domain.FinancialSummary{
			Revenue:    500_000,
			Deductions: 100_000,
			CreditBase: &creditBase,
		},
		Activity: domain.ActivityServicos,
		Rates:    domain.DefaultRealRates(),
	})

	if !almostEqual(res.Details["PIS"], 0) {
		t.Errorf("expected PIS payable floored at zero, got %.2f", res.Details["PIS"])
	}
	if !almostEqual(res.Details["COFINS"], 0) {
		t.Errorf("expected COFINS payable floored at zero, got %.2f", res.Details["COFINS"])
	}
}

func TestCalculateReal_CreditBaseDefaultsToCOGSForGoods(t *testing.T) {
	res := engine.CalculateReal(engine.RealInput{
		Summary: domain.FinancialSummary{
			Revenue:  1_000_000,
			COGS:     400_000,
			Expenses: 100_000,
			Payroll:  200_000,
		},
		Activity: domain.ActivityComercio,
		Rates:    domain.DefaultRealRates(),
	})

	// PIS 16500-6600=9900, COFINS 76000-30400=45600, credits over the
	// 400000 cost of goods.
	if !almostEqual(res.Details["PIS"], 9_900) {
		t.Errorf("expected PIS 9900, got %.2f", res.Details["PIS"])
	}
	if !almostEqual(res.Details["COFINS"], 45_600) {
		t.Errorf("expected COFINS 45600, got %.2f", res.Details["COFINS"])
	}
	if !almostEqual(res.Details["ICMS"], 180_000) {
		t.Errorf("expected ICMS 180000, got %.2f", res.Details["ICMS"])
	}

	// The charge load pushes the result into a projected loss: income
	// taxes zero out but consumption taxes remain.
	if !almostEqual(res.Details["IRPJ"], 0) {
		t.Errorf("expected IRPJ zero on fiscal loss, got %.2f", res.Details["IRPJ"])
	}
	if !almostEqual(res.Details["CSLL"], 0) {
		t.Errorf("expected CSLL zero on fiscal loss, got %.2f", res.Details["CSLL"])
	}
	if !strings.Contains(strings.Join(res.Notes, "\n"), "Prejuízo fiscal") {
		t.Error("expected a projected fiscal loss note")
	}
	if !almostEqual(res.TotalTax, 307_100) {
		t.Errorf("expected total 307100, got %.2f", res.TotalTax)
	}
}

func TestCalculateReal_ServiceCompanyFullChain(t *testing.T) {
	res := engine.CalculateReal(engine.RealInput{
		Summary: domain.FinancialSummary{
			Revenue:  1_000_000,
			Expenses: 300_000,
			Payroll:  100_000,
		},
		Activity: domain.ActivityServicos,
		Rates:    domain.DefaultRealRates(),
	})

	// Credit base falls back to 20% of expenses = 60000.
	if !almostEqual(res.Details["PIS"], 15_510) {
		t.Errorf("expected PIS 15510, got %.2f", res.Details["PIS"])
	}
	if !almostEqual(res.Details["COFINS"], 71_440) {
		t.Errorf("expected COFINS 71440, got %.2f", res.Details["COFINS"])
	}
	if !almostEqual(res.Details["ISS"], 50_000) {
		t.Errorf("expected ISS 50000, got %.2f", res.Details["ISS"])
	}

	// Net revenue 863050, operating result 427250, taxed in full.
	if !almostEqual(res.Details["IRPJ"], 64_087.50) {
		t.Errorf("expected IRPJ 64087.50, got %.2f", res.Details["IRPJ"])
	}
	if !almostEqual(res.Details["Adicional de IRPJ"], 18_725) {
		t.Errorf("expected surtax 18725, got %.2f", res.Details["Adicional de IRPJ"])
	}
	if !almostEqual(res.Details["CSLL"], 38_452.50) {
		t.Errorf("expected CSLL 38452.50, got %.2f", res.Details["CSLL"])
	}
	if !almostEqual(res.TotalTax, 294_015) {
		t.Errorf("expected total 294015, got %.2f", res.TotalTax)
	}
	if !almostEqual(res.EffectiveRate, 29.40) {
		t.Errorf("expected effective rate 29.40, got %.2f", res.EffectiveRate)
	}
}

func TestCalculateReal_AdjustmentsShiftTaxableIncome(t *testing.T) {
	input := engine.RealInput{
		Summary: domain.FinancialSummary{
			Revenue:  1_000_000,
			Expenses: 300_000,
			Payroll:  100_000,
		},
		Activity:   domain.ActivityServicos,
		Rates:      domain.DefaultRealRates(),
		Additions:  50_000,
		Exclusions: 27_250,
	}
	res := engine.CalculateReal(input)

	// Taxable income 427250 + 50000 - 27250 = 450000.
	if !almostEqual(res.Details["IRPJ"], 67_500) {
		t.Errorf("expected IRPJ 67500, got %.2f", res.Details["IRPJ"])
	}
	if !almostEqual(res.Details["Adicional de IRPJ"], 21_000) {
		t.Errorf("expected surtax 21000, got %.2f", res.Details["Adicional de IRPJ"])
	}
	if !almostEqual(res.Details["CSLL"], 40_500) {
		t.Errorf("expected CSLL 40500, got %.2f", res.Details["CSLL"])
	}
	if !strings.Contains(strings.Join(res.Notes, "\n"), "Ajustes ao lucro") {
		t.Error("expected a note reporting the adjustments")
	}
}

func TestCalculateReal_FinancialRevenueSubTax(t *testing.T) {
	res := engine.CalculateReal(engine.RealInput{
		Summary: domain.FinancialSummary{
			Revenue:          100_000,
			FinancialRevenue: 50_000,
			FinancialExpense: 10_000,
		},
		Activity: domain.ActivityServicos,
		Rates:    domain.DefaultRealRates(),
	})

	if !almostEqual(res.Details["PIS s/ receitas financeiras"], 325) {
		t.Errorf("expected financial PIS 325, got %.2f", res.Details["PIS s/ receitas financeiras"])
	}
	if !almostEqual(res.Details["COFINS s/ receitas financeiras"], 2_000) {
		t.Errorf("expected financial COFINS 2000, got %.2f", res.Details["COFINS s/ receitas financeiras"])
	}

	// Financial result 50000-325-2000-10000 = 37675 joins the 85750
	// operating result before IRPJ/CSLL.
	if !almostEqual(res.Details["IRPJ"], 18_513.75) {
		t.Errorf("expected IRPJ 18513.75, got %.2f", res.Details["IRPJ"])
	}
	if !almostEqual(res.Details["CSLL"], 11_108.25) {
		t.Errorf("expected CSLL 11108.25, got %.2f", res.Details["CSLL"])
	}
	if !almostEqual(res.TotalTax, 46_197) {
		t.Errorf("expected total 46197, got %.2f", res.TotalTax)
	}
	if !almostEqual(res.Breakdown.SalesTax, 16_575) {
		t.Errorf("expected sales bucket 16575 including the financial sub-tax, got %.2f", res.Breakdown.SalesTax)
	}
}

func TestCalculateReal_TotalGrowsWithEachRate(t *testing.T) {
	summary := domain.FinancialSummary{
		Revenue:          800_000,
		Deductions:       50_000,
		COGS:             200_000,
		Expenses:         100_000,
		Payroll:          120_000,
		FinancialRevenue: 20_000,
	}
	base := engine.CalculateReal(engine.RealInput{
		Summary:  summary,
		Activity: domain.ActivityComercio,
		Rates:    domain.DefaultRealRates(),
	})

	bump := func(mutate func(*domain.RateConfiguration)) domain.RegimeResult {
		rates := domain.DefaultRealRates()
		mutate(&rates)
		return engine.CalculateReal(engine.RealInput{
			Summary:  summary,
			Activity: domain.ActivityComercio,
			Rates:    rates,
		})
	}

	cases := []struct {
		name   string
		mutate func(*domain.RateConfiguration)
	}{
		{"pis", func(r *domain.RateConfiguration) { r.PIS += 1 }},
		{"cofins", func(r *domain.RateConfiguration) { r.COFINS += 1 }},
		{"irpj", func(r *domain.RateConfiguration) { r.IRPJ += 1 }},
		{"csll", func(r *domain.RateConfiguration) { r.CSLL += 1 }},
		{"icms", func(r *domain.RateConfiguration) { r.ICMS += 1 }},
		{"ipi", func(r *domain.RateConfiguration) { r.IPI += 1 }},
		{"rat", func(r *domain.RateConfiguration) { r.RAT += 1 }},
		{"cpp", func(r *domain.RateConfiguration) { r.CPP += 1 }},
		{"fgts", func(r *domain.RateConfiguration) { r.FGTS += 1 }},
		{"pis financeiro", func(r *domain.RateConfiguration) { r.FinancialPIS += 1 }},
		{"cofins financeiro", func(r *domain.RateConfiguration) { r.FinancialCOFINS += 1 }},
	}
	for _, tc := range cases {
		if got := bump(tc.mutate); got.TotalTax < base.TotalTax {
			t.Errorf("%s: expected total not to decrease, got %.2f < %.2f", tc.name, got.TotalTax, base.TotalTax)
		}
	}
}
