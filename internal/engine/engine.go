// Package engine implements the tax-simulation core: ledger
// classification and aggregation, the Simples Nacional bracket tables,
// the three current-regime calculators, the best-regime selector and
// the dual-VAT reform projection.
//
// Every function here is a pure transform of its inputs. No I/O, no
// logging, no shared state; all entry points are safe for concurrent
// use. Calculators always return a result record: an inapplicable
// regime comes back Blocked with zeroed amounts, never as an error.
package engine

import "math"

const (
	// SimplesCeiling is the annual gross revenue limit for the
	// Simples Nacional regime.
	SimplesCeiling = 4_800_000.0

	// IRPJSurtaxThreshold is the annual profit above which the IRPJ
	// surtax applies.
	IRPJSurtaxThreshold = 240_000.0

	// FactorRThreshold is the payroll-to-revenue ratio at which
	// qualified services move to the general services annex.
	FactorRThreshold = 0.28
)

// round2 rounds monetary amounts to two decimal places for output.
// Intermediate math always runs on the raw values.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
