package engine_test

import (
	"math"
	"testing"

	"github.com/boddenberg/pj-taxsim-go/internal/engine"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func TestLookupBracket_UpperBoundIsInclusive(t *testing.T) {
	b := engine.LookupBracket(engine.AnnexI, 180_000)
	if b.Rate != 4.0 {
		t.Errorf("expected rate 4.0 for revenue exactly at the first limit, got %.2f", b.Rate)
	}

	b = engine.LookupBracket(engine.AnnexI, 180_000.01)
	if b.Rate != 7.3 {
		t.Errorf("expected rate 7.3 just above the first limit, got %.2f", b.Rate)
	}
}

func TestLookupBracket_BeyondCeilingFallsToLastBracket(t *testing.T) {
	b := engine.LookupBracket(engine.AnnexIII, engine.SimplesCeiling+1)
	if b.Rate != 33.0 {
		t.Errorf("expected last bracket rate 33.0, got %.2f", b.Rate)
	}
	if b.Deduction != 648_000 {
		t.Errorf("expected last bracket deduction 648000, got %.2f", b.Deduction)
	}
}

func TestBrackets_AllAnnexesOrderedUpToCeiling(t *testing.T) {
	for _, annex := range engine.Annexes() {
		table := engine.Brackets(annex)
		if len(table) != 6 {
			t.Fatalf("%s: expected 6 brackets, got %d", annex, len(table))
		}
		prev := 0.0
		for i, b := range table {
			if b.Limit <= prev {
				t.Errorf("%s: bracket %d limit %.2f not ascending", annex, i, b.Limit)
			}
			prev = b.Limit
		}
		if last := table[len(table)-1].Limit; last != engine.SimplesCeiling {
			t.Errorf("%s: expected last limit at the ceiling, got %.2f", annex, last)
		}
	}
}

func TestBrackets_ReturnsACopy(t *testing.T) {
	table := engine.Brackets(engine.AnnexI)
	table[0].Rate = 99

	again := engine.Brackets(engine.AnnexI)
	if again[0].Rate != 4.0 {
		t.Errorf("expected table to be immutable, got rate %.2f", again[0].Rate)
	}
}
