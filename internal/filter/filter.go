package filter

import "pumpScope/internal/model"

// Default thresholds for records worth enriching.
const (
	DefaultMinInitialBuy = 1000.0
	DefaultMinSolAmount  = 0.01
	DefaultMinMarketCap  = 30.0
)

// Thresholds classifies normalized records as of interest or routine.
type Thresholds struct {
	MinInitialBuy float64
	MinSolAmount  float64
	MinMarketCap  float64
}

// OfInterest reports whether the record clears every threshold. All three
// comparisons are inclusive and must hold.
func (t Thresholds) OfInterest(rec model.TokenRecord) bool {
	return rec.InitialBuy >= t.MinInitialBuy &&
		rec.SolAmount >= t.MinSolAmount &&
		rec.MarketCapSol >= t.MinMarketCap
}
