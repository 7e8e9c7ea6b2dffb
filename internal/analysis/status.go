package analysis

// Signal is the composite market judgement for one item at its latest
// observation.
type Signal string

const (
	SignalInsufficient   Signal = "insufficient data"
	SignalStrongBuy      Signal = "strong buy"
	SignalStrongSell     Signal = "strong sell"
	SignalBuyOpportunity Signal = "buy opportunity"
	SignalCaution        Signal = "caution"
	SignalOverheated     Signal = "overheated"
	SignalDepressed      Signal = "depressed"
	SignalNeutral        Signal = "neutral/hold"
)

// Periods for the point-in-time status summary.
const (
	rsiPeriod       = 14
	bollingerPeriod = 24
	bollingerWidth  = 2.0
	minObservations = 24
)

// Status is the point-in-time market summary for one item.
type Status struct {
	Signal      Signal   `json:"signal"`
	Price       float64  `json:"price"`
	Change      float64  `json:"change"`
	RSI         *float64 `json:"rsi,omitempty"`
	UpperBand   *float64 `json:"upper_band,omitempty"`
	MiddleBand  *float64 `json:"middle_band,omitempty"`
	LowerBand   *float64 `json:"lower_band,omitempty"`
	SampleCount int      `json:"sample_count"`
}

// ComputeStatus evaluates the composite signal for a chronologically
// ordered price series (gaps already removed). Fewer than 24 observations
// yields the distinct insufficient-data status, not a neutral one.
//
// Rule order matters: a band touch with a confirming RSI must win over the
// single-factor rules, and the 30/70 boundaries are inclusive.
func ComputeStatus(prices []float64) *Status {
	status := &Status{SampleCount: len(prices)}
	if len(prices) > 0 {
		status.Price = prices[len(prices)-1]
	}
	if len(prices) >= 2 {
		status.Change = prices[len(prices)-1] - prices[len(prices)-2]
	}
	if len(prices) < minObservations {
		status.Signal = SignalInsufficient
		return status
	}

	last := len(prices) - 1
	rsi := RSI(prices, rsiPeriod)[last]
	upper, middle, lower := Bollinger(prices, bollingerPeriod, bollingerWidth)
	up, mid, low := upper[last], middle[last], lower[last]

	status.RSI = &rsi
	status.UpperBand = &up
	status.MiddleBand = &mid
	status.LowerBand = &low

	price := status.Price
	switch {
	case price <= low && rsi <= 30:
		status.Signal = SignalStrongBuy
	case price >= up && rsi >= 70:
		status.Signal = SignalStrongSell
	case price <= low:
		status.Signal = SignalBuyOpportunity
	case price >= up:
		status.Signal = SignalCaution
	case rsi >= 70:
		status.Signal = SignalOverheated
	case rsi <= 30:
		status.Signal = SignalDepressed
	default:
		status.Signal = SignalNeutral
	}
	return status
}
