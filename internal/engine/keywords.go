package engine

import "github.com/boddenberg/pj-taxsim-go/internal/domain"

// canonicalLines maps normalized full descriptions of common statement
// lines straight to a tag, ahead of any keyword scan. Financial lines
// live here with their direction already implied by the name.
var canonicalLines = map[string]domain.Tag{
	"RECEITA BRUTA":                     domain.TagRevenue,
	"RECEITA OPERACIONAL BRUTA":         domain.TagRevenue,
	"DEDUCOES DA RECEITA":               domain.TagDeduction,
	"DEDUCOES DA RECEITA BRUTA":         domain.TagDeduction,
	"IMPOSTOS SOBRE VENDAS":             domain.TagSalesTax,
	"CMV":                               domain.TagCost,
	"CPV":                               domain.TagCost,
	"CSP":                               domain.TagCost,
	"CUSTO DAS MERCADORIAS VENDIDAS":    domain.TagCost,
	"CUSTO DOS PRODUTOS VENDIDOS":       domain.TagCost,
	"CUSTO DOS SERVICOS PRESTADOS":      domain.TagCost,
	"FOLHA DE PAGAMENTO":                domain.TagPayroll,
	"RECEITAS FINANCEIRAS":              domain.TagFinancialRevenue,
	"RECEITA FINANCEIRA":                domain.TagFinancialRevenue,
	"DESPESAS FINANCEIRAS":              domain.TagFinancialExpense,
	"DESPESA FINANCEIRA":                domain.TagFinancialExpense,
	"IRPJ":                              domain.TagIncomeTax,
	"CSLL":                              domain.TagIncomeTax,
	"IRPJ E CSLL":                       domain.TagIncomeTax,
	"PROVISAO PARA IRPJ E CSLL":         domain.TagIncomeTax,
	"DESPESAS OPERACIONAIS":             domain.TagExpense,
	"DESPESAS GERAIS E ADMINISTRATIVAS": domain.TagExpense,
}

// tagRule binds a tag to the keywords that imply it. Rules with bySign
// ignore the tag field and resolve to financial revenue or expense
// from the sign of the line value.
type tagRule struct {
	tag      domain.Tag
	keywords []string
	bySign   bool
}

// tagRules is scanned in order and the first hit wins. Deductions and
// tax names come before cost and revenue so lines like "(-) IMPOSTOS
// SOBRE VENDAS" or "DEVOLUCOES DE VENDAS" never land in REVENUE, and
// the financial rule comes before the generic expense one so
// "DESPESAS FINANCEIRAS" keeps its own tag.
var tagRules = []tagRule{
	{tag: domain.TagDeduction, keywords: []string{
		"DEDUCO",
		"DEVOLUCO",
		"VENDAS CANCELADAS",
		"CANCELAMENTO",
		"ABATIMENTO",
		"DESCONTOS INCONDICIONAIS",
	}},
	{tag: domain.TagSalesTax, keywords: []string{
		"ICMS",
		"ISSQN",
		"ISS",
		"PIS",
		"COFINS",
		"IPI",
		"SIMPLES NACIONAL",
		"IMPOSTOS SOBRE VENDA",
		"IMPOSTO SOBRE VENDA",
		"TRIBUTOS SOBRE VENDA",
		"IMPOSTOS SOBRE A RECEITA",
	}},
	{tag: domain.TagIncomeTax, keywords: []string{
		"IRPJ",
		"CSLL",
		"IMPOSTO DE RENDA",
		"CONTRIBUICAO SOCIAL SOBRE O LUCRO",
		"PROVISAO PARA IR",
	}},
	{bySign: true, keywords: []string{
		"FINANCEIR",
		"JUROS",
		"RENDIMENTO DE APLICAC",
		"RENDIMENTOS DE APLICAC",
		"VARIACAO CAMBIAL",
		"VARIACOES CAMBIAIS",
		"DESCONTOS OBTIDOS",
		"DESCONTOS CONCEDIDOS",
		"IOF",
	}},
	{tag: domain.TagPayroll, keywords: []string{
		"FOLHA",
		"SALARIO",
		"PRO LABORE",
		"PROLABORE",
		"ORDENADO",
		"DECIMO TERCEIRO",
		"FERIAS",
		"INSS",
		"FGTS",
		"ENCARGOS SOCIAIS",
		"ENCARGOS TRABALHISTAS",
		"GASTOS COM PESSOAL",
		"DESPESAS COM PESSOAL",
		"REMUNERACAO",
	}},
	{tag: domain.TagCost, keywords: []string{
		"CUSTO",
		"MERCADORIA VENDIDA",
		"MERCADORIAS VENDIDAS",
		"PRODUTOS VENDIDOS",
		"MATERIA PRIMA",
		"INSUMO",
	}},
	{tag: domain.TagRevenue, keywords: []string{
		"RECEITA BRUTA",
		"RECEITA OPERACIONAL",
		"RECEITA DE VENDA",
		"RECEITAS DE VENDA",
		"RECEITA DE SERVICO",
		"RECEITAS DE SERVICO",
		"RECEITA COM VENDA",
		"VENDA DE MERCADORIA",
		"VENDA DE PRODUTO",
		"PRESTACAO DE SERVICO",
		"FATURAMENTO",
	}},
	{tag: domain.TagExpense, keywords: []string{
		"DESPESA",
		"ALUGUEL",
		"ENERGIA ELETRICA",
		"TELEFONE",
		"INTERNET",
		"MARKETING",
		"PUBLICIDADE",
		"FRETE",
		"MANUTENCAO",
		"DEPRECIACAO",
		"AMORTIZACAO",
		"HONORARIOS",
		"SOFTWARE",
		"VIAGEN",
	}},
}
