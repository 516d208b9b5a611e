package domain

import "time"

// ============================================================
// Simulation — regime results and comparison output
// ============================================================

// Regime identifies one of the simulated tax regimes.
type Regime string

const (
	RegimeSimples   Regime = "simples_nacional"
	RegimePresumido Regime = "lucro_presumido"
	RegimeReal      Regime = "lucro_real"
	RegimeReforma   Regime = "reforma_tributaria"
)

// TaxBreakdown groups the total tax into disjoint buckets.
// TotalTax on the owning result always equals the sum of the four.
type TaxBreakdown struct {
	SalesTax  float64 `json:"impostosSobreVendas"`
	IncomeTax float64 `json:"impostosSobreRenda"`
	Payroll   float64 `json:"impostosSobreFolha"`
	Charges   float64 `json:"encargos"`
}

// RegimeResult is the outcome of one regime calculation. Calculators
// always return a result: an inapplicable regime comes back with
// Blocked=true and zeroed amounts, never an error.
type RegimeResult struct {
	Regime        Regime             `json:"regime"`
	Label         string             `json:"label"`
	TotalTax      float64            `json:"totalTax"`
	EffectiveRate float64            `json:"effectiveRate"` // percent of revenue
	Breakdown     TaxBreakdown       `json:"breakdown"`
	Details       map[string]float64 `json:"details"`
	Notes         []string           `json:"notes,omitempty"`
	Blocked       bool               `json:"isBlocked"`
}

// ReformResult extends RegimeResult with the IVA dual audit figures.
type ReformResult struct {
	RegimeResult
	TotalCredits float64 `json:"totalCredits"`
	IBSDebit     float64 `json:"ibsDebit"`
	IBSCredit    float64 `json:"ibsCredit"`
	CBSDebit     float64 `json:"cbsDebit"`
	CBSCredit    float64 `json:"cbsCredit"`
}

// ComparisonResult is the full four-way comparison returned by a
// simulation run: the three current regimes, the cheapest one as
// baseline, and the reform projection built on top of it.
type ComparisonResult struct {
	Activity    Activity         `json:"activity"`
	Lines       []LineItem       `json:"lines,omitempty"`
	Summary     FinancialSummary `json:"summary"`
	Results     []RegimeResult   `json:"results"`
	Best        RegimeResult     `json:"best"`
	Reform      ReformResult     `json:"reform"`
	Alerts      []string         `json:"alerts,omitempty"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

// ============================================================
// Simulation API — request and persistence shapes
// ============================================================

// SimulationRequest is the body for POST /v1/simulations/run. Either
// Lines or Summary must be present; when both are given the explicit
// Summary wins and Lines only feed the per-line reform credits and
// LALUR adjustments. Nil rate blocks fall back to the documented
// defaults.
type SimulationRequest struct {
	Activity       Activity             `json:"activity"`
	Lines          []LineItem           `json:"lines,omitempty"`
	Summary        *FinancialSummary    `json:"summary,omitempty"`
	RatesPresumido *RateConfiguration   `json:"ratesPresumido,omitempty"`
	RatesReal      *RateConfiguration   `json:"ratesReal,omitempty"`
	Reform         *ReformConfiguration `json:"reform,omitempty"`
}

// SaveSimulationRequest is the body for POST /v1/simulations.
type SaveSimulationRequest struct {
	Name       string            `json:"name"`
	Simulation SimulationRequest `json:"simulation"`
}

// SavedSimulation is a named simulation persisted for a user.
type SavedSimulation struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Name      string            `json:"name"`
	Activity  Activity          `json:"activity"`
	Request   SimulationRequest `json:"request"`
	Result    *ComparisonResult `json:"result,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// SavePresetRequest is the body for POST /v1/rates/presets.
type SavePresetRequest struct {
	Name   string               `json:"name"`
	Rates  RateConfiguration    `json:"rates"`
	Reform *ReformConfiguration `json:"reform,omitempty"`
}

// RatePreset is a user-named pair of rate configurations.
type RatePreset struct {
	ID        string               `json:"id"`
	UserID    string               `json:"user_id"`
	Name      string               `json:"name"`
	Rates     RateConfiguration    `json:"rates"`
	Reform    *ReformConfiguration `json:"reform,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// RateDefaults is returned by GET /v1/rates/defaults.
type RateDefaults struct {
	Presumido RateConfiguration   `json:"presumido"`
	Real      RateConfiguration   `json:"real"`
	Reform    ReformConfiguration `json:"reform"`
}
