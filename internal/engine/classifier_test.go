package engine_test

import (
	"testing"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
	"github.com/boddenberg/pj-taxsim-go/internal/engine"
)

// --- helpers ---

func analytical(desc string, value float64) domain.LineItem {
	return domain.LineItem{
		Description: desc,
		Value:       value,
		Section:     domain.SectionDRE,
		Kind:        domain.LineAnalytical,
	}
}

func pct(v float64) *float64 { return &v }

// --- classification ---

func TestClassify_KeywordTagging(t *testing.T) {
	cases := []struct {
		desc  string
		value float64
		want  domain.Tag
	}{
		{"Receita Bruta de Vendas", 500_000, domain.TagRevenue},
		{"Prestação de Serviços", 120_000, domain.TagRevenue},
		{"(-) Devoluções de Vendas", -20_000, domain.TagDeduction},
		{"(-) ICMS sobre Vendas", -50_000, domain.TagSalesTax},
		{"ISS retido na fonte", -6_000, domain.TagSalesTax},
		{"Provisão para IRPJ", -10_000, domain.TagIncomeTax},
		{"Salários e Ordenados", -80_000, domain.TagPayroll},
		{"Pró-Labore dos Sócios", -30_000, domain.TagPayroll},
		{"Custo das Mercadorias Vendidas", -300_000, domain.TagCost},
		{"Receitas Financeiras", 5_000, domain.TagFinancialRevenue},
		{"Juros sobre Empréstimos", -3_000, domain.TagFinancialExpense},
		{"Despesas Administrativas", -40_000, domain.TagExpense},
		{"Aluguel do Escritório", -12_000, domain.TagExpense},
		{"Ajuste de Avaliação Patrimonial", -7_000, domain.TagExpense},
		{"Saldo de Caixa", 10_000, domain.TagOther},
	}

	for _, tc := range cases {
		out := engine.Classify([]domain.LineItem{analytical(tc.desc, tc.value)})
		if got := out[0].Tag; got != tc.want {
			t.Errorf("%q: expected tag %s, got %s", tc.desc, tc.want, got)
		}
	}
}

func TestClassify_FinancialTagFollowsSign(t *testing.T) {
	out := engine.Classify([]domain.LineItem{
		analytical("Rendimento de Aplicações", 8_000),
		analytical("Variação Cambial", -2_500),
	})
	if out[0].Tag != domain.TagFinancialRevenue {
		t.Errorf("expected FINANCIAL_REVENUE for positive value, got %s", out[0].Tag)
	}
	if out[1].Tag != domain.TagFinancialExpense {
		t.Errorf("expected FINANCIAL_EXPENSE for negative value, got %s", out[1].Tag)
	}
}

func TestClassify_KeepsExistingTags(t *testing.T) {
	line := analytical("Receita Bruta de Vendas", 100_000)
	line.Tag = domain.TagIgnore

	out := engine.Classify([]domain.LineItem{line})
	if out[0].Tag != domain.TagIgnore {
		t.Errorf("expected existing tag to survive, got %s", out[0].Tag)
	}
}

func TestClassify_SkipsSyntheticLines(t *testing.T) {
	line := analytical("Receita Líquida", 400_000)
	line.Kind = domain.LineSynthetic

	out := engine.Classify([]domain.LineItem{line})
	if out[0].Tag != "" {
		t.Errorf("expected synthetic line to stay untagged, got %s", out[0].Tag)
	}
}

func TestClassify_AggregateRowDoesNotDefaultToExpense(t *testing.T) {
	line := analytical("Total do Grupo 3", -90_000)
	line.AggregateRow = true

	out := engine.Classify([]domain.LineItem{line})
	if out[0].Tag != domain.TagOther {
		t.Errorf("expected OTHER for negative aggregate row, got %s", out[0].Tag)
	}
}

func TestClassify_IsIdempotent(t *testing.T) {
	lines := []domain.LineItem{
		analytical("Receita Bruta de Vendas", 500_000),
		analytical("Custo das Mercadorias Vendidas", -300_000),
		analytical("Despesas Administrativas", -40_000),
	}

	once := engine.Classify(lines)
	twice := engine.Classify(once)
	for i := range once {
		if once[i].Tag != twice[i].Tag {
			t.Errorf("line %d: tag changed on re-classification: %s vs %s", i, once[i].Tag, twice[i].Tag)
		}
	}
}

func TestClassify_DoesNotMutateInput(t *testing.T) {
	lines := []domain.LineItem{analytical("Receita Bruta de Vendas", 500_000)}
	engine.Classify(lines)
	if lines[0].Tag != "" {
		t.Errorf("expected input slice untouched, got tag %s", lines[0].Tag)
	}
}

// --- aggregation ---

func TestAggregate_SumsAbsoluteValuesPerTag(t *testing.T) {
	lines := engine.Classify([]domain.LineItem{
		analytical("Receita Bruta de Vendas", 500_000),
		analytical("(-) Devoluções de Vendas", -20_000),
		analytical("(-) ICMS sobre Vendas", -60_000),
		analytical("Custo das Mercadorias Vendidas", -200_000),
		analytical("Salários e Ordenados", -80_000),
		analytical("Despesas Administrativas", -40_000),
		analytical("Receitas Financeiras", 5_000),
		analytical("Despesas Financeiras", -3_000),
	})

	s := engine.Aggregate(lines)
	if !almostEqual(s.Revenue, 500_000) {
		t.Errorf("expected revenue 500000, got %.2f", s.Revenue)
	}
	if !almostEqual(s.Deductions, 20_000) {
		t.Errorf("expected deductions 20000, got %.2f", s.Deductions)
	}
	if !almostEqual(s.SalesTaxes, 60_000) {
		t.Errorf("expected sales taxes 60000, got %.2f", s.SalesTaxes)
	}
	if !almostEqual(s.COGS, 200_000) {
		t.Errorf("expected cogs 200000, got %.2f", s.COGS)
	}
	if !almostEqual(s.Payroll, 80_000) {
		t.Errorf("expected payroll 80000, got %.2f", s.Payroll)
	}
	if !almostEqual(s.Expenses, 40_000) {
		t.Errorf("expected expenses 40000, got %.2f", s.Expenses)
	}
	if !almostEqual(s.FinancialRevenue, 5_000) {
		t.Errorf("expected financial revenue 5000, got %.2f", s.FinancialRevenue)
	}
	if !almostEqual(s.FinancialExpense, 3_000) {
		t.Errorf("expected financial expense 3000, got %.2f", s.FinancialExpense)
	}
	if s.CreditBase != nil {
		t.Errorf("expected nil credit base without flagged lines, got %.2f", *s.CreditBase)
	}
}

func TestAggregate_IsOrderIndependent(t *testing.T) {
	lines := engine.Classify([]domain.LineItem{
		analytical("Receita Bruta de Vendas", 500_000),
		analytical("Custo das Mercadorias Vendidas", -200_000),
		analytical("Despesas Administrativas", -40_000),
		analytical("Salários e Ordenados", -80_000),
	})
	reversed := make([]domain.LineItem, len(lines))
	for i, line := range lines {
		reversed[len(lines)-1-i] = line
	}

	if engine.Aggregate(lines) != engine.Aggregate(reversed) {
		t.Error("expected the same summary regardless of line order")
	}
}

func TestAggregate_ExcludesSyntheticAndAggregateRows(t *testing.T) {
	subtotal := analytical("Receita Líquida", 999_999)
	subtotal.Kind = domain.LineSynthetic
	subtotal.Tag = domain.TagRevenue

	group := analytical("Total de Receitas", 888_888)
	group.AggregateRow = true
	group.Tag = domain.TagRevenue

	lines := []domain.LineItem{
		subtotal,
		group,
		analytical("Receita Bruta de Vendas", 100_000),
	}
	s := engine.Aggregate(engine.Classify(lines))
	if !almostEqual(s.Revenue, 100_000) {
		t.Errorf("expected only the analytical line to count, got %.2f", s.Revenue)
	}
}

func TestAggregate_CreditBaseFromFlaggedLines(t *testing.T) {
	cost := analytical("Custo das Mercadorias Vendidas", -100_000)
	cost.PISCOFINSCredit = true
	expense := analytical("Despesas com Frete", -50_000)
	expense.PISCOFINSCredit = true
	revenue := analytical("Receita Bruta de Vendas", 500_000)
	revenue.PISCOFINSCredit = true // wrong tag, must not count

	s := engine.Aggregate(engine.Classify([]domain.LineItem{cost, expense, revenue}))
	if s.CreditBase == nil {
		t.Fatal("expected credit base to be set")
	}
	if !almostEqual(*s.CreditBase, 150_000) {
		t.Errorf("expected credit base 150000, got %.2f", *s.CreditBase)
	}
}

// --- adjustments and credit defaults ---

func TestAdjustments_SumsFlaggedLines(t *testing.T) {
	addition := analytical("Multas Indedutíveis", -15_000)
	addition.Adjustment = domain.AdjustmentAddition
	exclusion := analytical("Resultado de Equivalência Patrimonial", 8_000)
	exclusion.Adjustment = domain.AdjustmentExclusion
	subtotal := analytical("Total de Ajustes", -99_000)
	subtotal.Kind = domain.LineSynthetic
	subtotal.Adjustment = domain.AdjustmentAddition

	additions, exclusions := engine.Adjustments([]domain.LineItem{addition, exclusion, subtotal})
	if !almostEqual(additions, 15_000) {
		t.Errorf("expected additions 15000, got %.2f", additions)
	}
	if !almostEqual(exclusions, 8_000) {
		t.Errorf("expected exclusions 8000, got %.2f", exclusions)
	}
}

func TestApplyDefaultCreditPct_FillsOnlyUnsetLines(t *testing.T) {
	unset := analytical("Despesas com Energia Elétrica", -10_000)
	zeroed := analytical("Despesas com Multas", -5_000)
	zeroed.CreditPct = pct(0)
	custom := analytical("Custo de Insumos", -20_000)
	custom.CreditPct = pct(30)
	revenue := analytical("Receita Bruta de Vendas", 100_000)

	out := engine.ApplyDefaultCreditPct(engine.Classify([]domain.LineItem{unset, zeroed, custom, revenue}), 100)

	if out[0].CreditPct == nil || *out[0].CreditPct != 100 {
		t.Error("expected unset cost/expense line to receive the default")
	}
	if *out[1].CreditPct != 0 {
		t.Errorf("expected explicit zero to survive, got %.2f", *out[1].CreditPct)
	}
	if *out[2].CreditPct != 30 {
		t.Errorf("expected explicit 30 to survive, got %.2f", *out[2].CreditPct)
	}
	if out[3].CreditPct != nil {
		t.Error("expected revenue line to stay without credit percentage")
	}
}
