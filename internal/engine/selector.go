package engine

import "github.com/boddenberg/pj-taxsim-go/internal/domain"

// SelectBest picks the cheapest applicable current-regime result to
// serve as the comparison baseline. Blocked results are skipped and
// ties keep the first result in input order. When everything is
// blocked the Lucro Real result wins: that regime carries no revenue
// ceiling, so it is always a legal fallback.
func SelectBest(results []domain.RegimeResult) domain.RegimeResult {
	var best *domain.RegimeResult
	for i := range results {
		r := &results[i]
		if r.Blocked {
			continue
		}
		if best == nil || r.TotalTax < best.TotalTax {
			best = r
		}
	}
	if best != nil {
		return *best
	}
	for i := range results {
		if results[i].Regime == domain.RegimeReal {
			return results[i]
		}
	}
	if len(results) > 0 {
		return results[0]
	}
	return domain.RegimeResult{}
}
