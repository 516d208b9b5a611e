package engine_test

import (
	"strings"
	"testing"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
	"github.com/boddenberg/pj-taxsim-go/internal/engine"
)

func TestCalculateSimples_BlockedAboveCeiling(t *testing.T) {
	res := engine.CalculateSimples(engine.SimplesInput{
		Summary:  domain.FinancialSummary{Revenue: engine.SimplesCeiling + 1},
		Activity: domain.ActivityComercio,
		Rates:    domain.DefaultPresumidoRates(),
	})

	if !res.Blocked {
		t.Fatal("expected regime to be blocked above the ceiling")
	}
	if res.TotalTax != 0 {
		t.Errorf("expected zero tax when blocked, got %.2f", res.TotalTax)
	}
	if len(res.Notes) == 0 {
		t.Error("expected an explanatory note when blocked")
	}
}

func TestCalculateSimples_AtCeilingStillApplies(t *testing.T) {
	res := engine.CalculateSimples(engine.SimplesInput{
		Summary:  domain.FinancialSummary{Revenue: engine.SimplesCeiling},
		Activity: domain.ActivityComercio,
		Rates:    domain.DefaultPresumidoRates(),
	})

	if res.Blocked {
		t.Fatal("expected revenue exactly at the ceiling to stay eligible")
	}
	// 4800000 * 19% - 378000 = 534000
	if !almostEqual(res.Details["DAS"], 534_000) {
		t.Errorf("expected DAS 534000 at the last bracket, got %.2f", res.Details["DAS"])
	}
}

func TestCalculateSimples_AnnexPerActivity(t *testing.T) {
	cases := []struct {
		activity domain.Activity
		wantDAS  float64
	}{
		{domain.ActivityComercio, 4_000},   // Anexo I, 4%
		{domain.ActivityIndustria, 4_500},  // Anexo II, 4.5%
		{domain.ActivityServicos, 6_000},   // Anexo III, 6%
		{domain.ActivityServicosProfissionais, 6_000}, // Anexo III, 6%
	}

	for _, tc := range cases {
		res := engine.CalculateSimples(engine.SimplesInput{
			Summary:  domain.FinancialSummary{Revenue: 100_000},
			Activity: tc.activity,
			Rates:    domain.DefaultPresumidoRates(),
		})
		if !almostEqual(res.Details["DAS"], tc.wantDAS) {
			t.Errorf("%s: expected DAS %.2f, got %.2f", tc.activity, tc.wantDAS, res.Details["DAS"])
		}
	}
}

func TestCalculateSimples_BracketDeductionLowersEffectiveRate(t *testing.T) {
	res := engine.CalculateSimples(engine.SimplesInput{
		Summary:  domain.FinancialSummary{Revenue: 300_000},
		Activity: domain.ActivityServicos,
		Rates:    domain.DefaultPresumidoRates(),
	})

	// (300000 * 11.2% - 9360) = 24240, an effective 8.08%
	if !almostEqual(res.Details["DAS"], 24_240) {
		t.Errorf("expected DAS 24240, got %.2f", res.Details["DAS"])
	}
	if !almostEqual(res.EffectiveRate, 8.08) {
		t.Errorf("expected effective rate 8.08, got %.2f", res.EffectiveRate)
	}
}

func TestCalculateSimples_FactorRAtOrAboveThresholdUsesAnnexIII(t *testing.T) {
	res := engine.CalculateSimples(engine.SimplesInput{
		Summary:  domain.FinancialSummary{Revenue: 600_000, Payroll: 180_000},
		Activity: domain.ActivityServicosQualificados,
		Rates:    domain.DefaultPresumidoRates(),
	})

	// Factor R = 180000*1.08/600000 = 0.324
	// Anexo III: 600000 * 13.5% - 17640 = 63360
	if !almostEqual(res.Details["DAS"], 63_360) {
		t.Errorf("expected DAS 63360 via Anexo III, got %.2f", res.Details["DAS"])
	}
	if _, ok := res.Details["CPP"]; ok {
		t.Error("expected no external CPP on Anexo III")
	}
	if !almostEqual(res.Breakdown.Charges, 14_400) {
		t.Errorf("expected FGTS 14400 under charges, got %.2f", res.Breakdown.Charges)
	}
	if !strings.Contains(strings.Join(res.Notes, "\n"), "Anexo III") {
		t.Error("expected a note naming Anexo III")
	}
}

func TestCalculateSimples_FactorRBelowThresholdUsesAnnexIV(t *testing.T) {
	res := engine.CalculateSimples(engine.SimplesInput{
		Summary:  domain.FinancialSummary{Revenue: 600_000, Payroll: 100_000},
		Activity: domain.ActivityServicosQualificados,
		Rates:    domain.DefaultPresumidoRates(),
	})

	// Factor R = 100000*1.08/600000 = 0.18
	// Anexo IV: 600000 * 10.2% - 12420 = 48780, CPP outside the DAS
	if !almostEqual(res.Details["DAS"], 48_780) {
		t.Errorf("expected DAS 48780 via Anexo IV, got %.2f", res.Details["DAS"])
	}
	if !almostEqual(res.Details["CPP"], 20_000) {
		t.Errorf("expected external CPP 20000, got %.2f", res.Details["CPP"])
	}
	if !almostEqual(res.Breakdown.Payroll, 20_000) {
		t.Errorf("expected CPP under the payroll bucket, got %.2f", res.Breakdown.Payroll)
	}
	if !almostEqual(res.TotalTax, 76_780) {
		t.Errorf("expected total 76780, got %.2f", res.TotalTax)
	}
}

func TestCalculateSimples_FactorRBoundaryIsInclusive(t *testing.T) {
	rates := domain.DefaultPresumidoRates()
	rates.FGTS = 0 // no uplift, ratio is exactly payroll/revenue

	res := engine.CalculateSimples(engine.SimplesInput{
		Summary:  domain.FinancialSummary{Revenue: 600_000, Payroll: 168_000},
		Activity: domain.ActivityServicosQualificados,
		Rates:    rates,
	})

	// 168000/600000 = 0.28 exactly, stays on Anexo III
	if !strings.Contains(strings.Join(res.Notes, "\n"), "Anexo III") {
		t.Error("expected ratio exactly at the threshold to use Anexo III")
	}
}

func TestCalculateSimples_ZeroRevenue(t *testing.T) {
	res := engine.CalculateSimples(engine.SimplesInput{
		Summary:  domain.FinancialSummary{Revenue: 0, Payroll: 50_000},
		Activity: domain.ActivityServicos,
		Rates:    domain.DefaultPresumidoRates(),
	})

	if res.Blocked {
		t.Fatal("expected zero revenue not to block the regime")
	}
	if !almostEqual(res.Details["DAS"], 0) {
		t.Errorf("expected zero DAS, got %.2f", res.Details["DAS"])
	}
	if !almostEqual(res.TotalTax, 4_000) {
		t.Errorf("expected only FGTS 4000 due, got %.2f", res.TotalTax)
	}
	if res.EffectiveRate != 0 {
		t.Errorf("expected zero effective rate with zero revenue, got %.2f", res.EffectiveRate)
	}
}
