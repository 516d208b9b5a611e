package engine

import "fmt"

// Annex identifies one of the five Simples Nacional progressive tables.
type Annex int

const (
	AnnexI Annex = iota + 1
	AnnexII
	AnnexIII
	AnnexIV
	AnnexV
)

func (a Annex) String() string {
	switch a {
	case AnnexI:
		return "Anexo I"
	case AnnexII:
		return "Anexo II"
	case AnnexIII:
		return "Anexo III"
	case AnnexIV:
		return "Anexo IV"
	case AnnexV:
		return "Anexo V"
	}
	return fmt.Sprintf("Anexo(%d)", int(a))
}

// Bracket is one revenue band of an annex table. Rate is the nominal
// rate in percent; Deduction is the fixed amount subtracted from
// revenue times rate before dividing back by revenue.
type Bracket struct {
	Limit     float64 `json:"limite"`
	Rate      float64 `json:"aliquota"`
	Deduction float64 `json:"deducao"`
}

// annexTables holds the progressive tables in force since 2018. Upper
// limits are inclusive; the last band tops out at the regime ceiling.
var annexTables = map[Annex][]Bracket{
	AnnexI: {
		{Limit: 180_000, Rate: 4.0, Deduction: 0},
		{Limit: 360_000, Rate: 7.3, Deduction: 5_940},
		{Limit: 720_000, Rate: 9.5, Deduction: 13_860},
		{Limit: 1_800_000, Rate: 10.7, Deduction: 22_500},
		{Limit: 3_600_000, Rate: 14.3, Deduction: 87_300},
		{Limit: SimplesCeiling, Rate: 19.0, Deduction: 378_000},
	},
	AnnexII: {
		{Limit: 180_000, Rate: 4.5, Deduction: 0},
		{Limit: 360_000, Rate: 7.8, Deduction: 5_940},
		{Limit: 720_000, Rate: 10.0, Deduction: 13_860},
		{Limit: 1_800_000, Rate: 11.2, Deduction: 22_500},
		{Limit: 3_600_000, Rate: 14.7, Deduction: 85_500},
		{Limit: SimplesCeiling, Rate: 30.0, Deduction: 720_000},
	},
	AnnexIII: {
		{Limit: 180_000, Rate: 6.0, Deduction: 0},
		{Limit: 360_000, Rate: 11.2, Deduction: 9_360},
		{Limit: 720_000, Rate: 13.5, Deduction: 17_640},
		{Limit: 1_800_000, Rate: 16.0, Deduction: 35_640},
		{Limit: 3_600_000, Rate: 21.0, Deduction: 125_640},
		{Limit: SimplesCeiling, Rate: 33.0, Deduction: 648_000},
	},
	AnnexIV: {
		{Limit: 180_000, Rate: 4.5, Deduction: 0},
		{Limit: 360_000, Rate: 9.0, Deduction: 8_100},
		{Limit: 720_000, Rate: 10.2, Deduction: 12_420},
		{Limit: 1_800_000, Rate: 14.0, Deduction: 39_780},
		{Limit: 3_600_000, Rate: 22.0, Deduction: 183_780},
		{Limit: SimplesCeiling, Rate: 33.0, Deduction: 828_000},
	},
	AnnexV: {
		{Limit: 180_000, Rate: 15.5, Deduction: 0},
		{Limit: 360_000, Rate: 18.0, Deduction: 4_500},
		{Limit: 720_000, Rate: 19.5, Deduction: 9_900},
		{Limit: 1_800_000, Rate: 20.5, Deduction: 17_100},
		{Limit: 3_600_000, Rate: 23.0, Deduction: 62_100},
		{Limit: SimplesCeiling, Rate: 30.5, Deduction: 540_000},
	},
}

// Annexes returns the five annexes in table order.
func Annexes() []Annex {
	return []Annex{AnnexI, AnnexII, AnnexIII, AnnexIV, AnnexV}
}

// Brackets returns a copy of the bracket table for the annex.
func Brackets(a Annex) []Bracket {
	table := annexTables[a]
	out := make([]Bracket, len(table))
	copy(out, table)
	return out
}

// LookupBracket returns the band an annual revenue falls into. Band
// limits are inclusive, so revenue exactly at a limit stays in that
// band. Revenue beyond the last limit maps to the last band; callers
// enforce the regime ceiling separately.
func LookupBracket(a Annex, revenue float64) Bracket {
	table := annexTables[a]
	for _, b := range table {
		if revenue <= b.Limit {
			return b
		}
	}
	return table[len(table)-1]
}
