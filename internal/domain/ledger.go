// Package domain defines the core business entities for the tax simulator.
// These models are independent of external services and represent the
// canonical data structures used throughout the API and the engine.
package domain

// ============================================================
// Ledger — DRE line items and classification
// ============================================================

// Section identifies which statement a ledger line belongs to.
type Section string

const (
	SectionDRE          Section = "DRE"
	SectionBalanceSheet Section = "BALANCE_SHEET"
	SectionEBITDA       Section = "EBITDA"
)

// Tag is the semantic classification of a ledger line. Only the first
// nine tags feed the calculators; OTHER and IGNORE lines never reach
// any aggregate.
type Tag string

const (
	TagRevenue          Tag = "REVENUE"
	TagDeduction        Tag = "DEDUCTION"
	TagSalesTax         Tag = "SALES_TAX"
	TagIncomeTax        Tag = "INCOME_TAX"
	TagPayroll          Tag = "PAYROLL"
	TagCost             Tag = "COST"
	TagExpense          Tag = "EXPENSE"
	TagFinancialRevenue Tag = "FINANCIAL_REVENUE"
	TagFinancialExpense Tag = "FINANCIAL_EXPENSE"
	TagOther            Tag = "OTHER"
	TagIgnore           Tag = "IGNORE"
)

// LineKind distinguishes postable leaf accounts from subtotals.
// Invariant: only ANALYTICAL lines contribute to any aggregate.
type LineKind string

const (
	LineAnalytical LineKind = "ANALYTICAL"
	LineSynthetic  LineKind = "SYNTHETIC"
)

// Adjustment flags a line as a LALUR-style taxable-income adjustment
// for the Lucro Real calculation.
type Adjustment string

const (
	AdjustmentNone      Adjustment = ""
	AdjustmentAddition  Adjustment = "ADDITION"
	AdjustmentExclusion Adjustment = "EXCLUSION"
)

// LineItem is one ledger row from an imported or hand-edited DRE.
// Value keeps the ledger sign convention: the absolute value is the
// economic magnitude, the sign carries the statement presentation.
type LineItem struct {
	Description     string     `json:"description"`
	Value           float64    `json:"value"`
	AggregateRow    bool       `json:"isAggregateRow"`
	Section         Section    `json:"section"`
	Level           int        `json:"level"`
	Tag             Tag        `json:"tag"`
	Kind            LineKind   `json:"kind"`
	PISCOFINSCredit bool       `json:"pisCofinsCredit,omitempty"`
	CreditPct       *float64   `json:"creditPct,omitempty"` // 0-100, IVA dual
	Adjustment      Adjustment `json:"adjustment,omitempty"`
}

// FinancialSummary holds the aggregated inputs the regime calculators
// consume. Every field is the sum of absolute values of ANALYTICAL lines
// carrying the corresponding tag; CreditBase is non-nil only when at
// least one COST/EXPENSE line was explicitly flagged as PIS/COFINS
// credit eligible.
type FinancialSummary struct {
	Revenue          float64  `json:"revenue"`
	Deductions       float64  `json:"deductions"`
	SalesTaxes       float64  `json:"salesTaxes"`
	IncomeTaxes      float64  `json:"incomeTaxes"`
	Payroll          float64  `json:"payroll"`
	COGS             float64  `json:"cogs"`
	Expenses         float64  `json:"expenses"`
	FinancialRevenue float64  `json:"financialRevenue"`
	FinancialExpense float64  `json:"financialExpense"`
	CreditBase       *float64 `json:"creditBase,omitempty"`
}

// ============================================================
// Activity — business category and Simples annex routing
// ============================================================

// Activity is the company's business category. It decides the Simples
// annex, the ISS-versus-ICMS split and the Lucro Real credit base
// fallback.
type Activity string

const (
	ActivityComercio              Activity = "comercio"
	ActivityIndustria             Activity = "industria"
	ActivityServicos              Activity = "servicos"
	ActivityServicosProfissionais Activity = "servicos_profissionais"
	ActivityServicosQualificados  Activity = "servicos_qualificados"
)

// Valid reports whether the activity is one of the known categories.
func (a Activity) Valid() bool {
	switch a {
	case ActivityComercio, ActivityIndustria, ActivityServicos,
		ActivityServicosProfissionais, ActivityServicosQualificados:
		return true
	}
	return false
}

// IsService reports whether the activity pays ISS instead of ICMS.
func (a Activity) IsService() bool {
	switch a {
	case ActivityServicos, ActivityServicosProfissionais, ActivityServicosQualificados:
		return true
	}
	return false
}

// Label returns the user-facing name of the activity.
func (a Activity) Label() string {
	switch a {
	case ActivityComercio:
		return "Comércio"
	case ActivityIndustria:
		return "Indústria"
	case ActivityServicos:
		return "Serviços"
	case ActivityServicosProfissionais:
		return "Serviços profissionais"
	case ActivityServicosQualificados:
		return "Serviços qualificados (Fator R)"
	}
	return string(a)
}
