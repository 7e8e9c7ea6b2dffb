package analysis

import (
	"math"
)

// Warm-up slots of every series indicator hold NaN; the API layer renders
// those as nulls so charts simply start later.

// MA computes the simple moving average series.
func MA(prices []float64, period int) []float64 {
	result := make([]float64, len(prices))
	if period <= 0 {
		return result
	}
	for i := range prices {
		if i < period-1 {
			result[i] = math.NaN()
			continue
		}
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += prices[j]
		}
		result[i] = sum / float64(period)
	}
	return result
}

// EMA computes the exponential moving average series, seeded with the SMA
// of the first period values.
func EMA(prices []float64, period int) []float64 {
	result := make([]float64, len(prices))
	if period <= 0 || len(prices) < period {
		for i := range result {
			result[i] = math.NaN()
		}
		return result
	}

	multiplier := 2.0 / (float64(period) + 1)
	sum := 0.0
	for i := 0; i < period; i++ {
		result[i] = math.NaN()
		sum += prices[i]
	}
	result[period-1] = sum / float64(period)
	for i := period; i < len(prices); i++ {
		result[i] = prices[i]*multiplier + result[i-1]*(1-multiplier)
	}
	return result
}

// RSI computes the relative strength index series using simple rolling
// means of gains and losses over the trailing period deltas. When the
// rolling loss is zero the index saturates at 100 for positive gains and
// settles at 50 for a flat window.
func RSI(prices []float64, period int) []float64 {
	result := make([]float64, len(prices))
	if period <= 0 || len(prices) < period+1 {
		for i := range result {
			result[i] = math.NaN()
		}
		return result
	}

	gains := make([]float64, len(prices))
	losses := make([]float64, len(prices))
	for i := 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	for i := range prices {
		if i < period {
			result[i] = math.NaN()
			continue
		}
		sumGain, sumLoss := 0.0, 0.0
		for j := i - period + 1; j <= i; j++ {
			sumGain += gains[j]
			sumLoss += losses[j]
		}
		avgGain := sumGain / float64(period)
		avgLoss := sumLoss / float64(period)
		switch {
		case avgLoss == 0 && avgGain == 0:
			result[i] = 50
		case avgLoss == 0:
			result[i] = 100
		default:
			rs := avgGain / avgLoss
			result[i] = 100 - 100/(1+rs)
		}
	}
	return result
}

// Bollinger computes the reference band series: rolling mean ± width
// standard deviations.
func Bollinger(prices []float64, period int, width float64) (upper, middle, lower []float64) {
	upper = make([]float64, len(prices))
	middle = make([]float64, len(prices))
	lower = make([]float64, len(prices))
	if period <= 0 {
		return
	}

	sma := MA(prices, period)
	for i := range prices {
		if i < period-1 {
			upper[i] = math.NaN()
			middle[i] = math.NaN()
			lower[i] = math.NaN()
			continue
		}
		middle[i] = sma[i]
		sumSq := 0.0
		for j := i - period + 1; j <= i; j++ {
			diff := prices[j] - sma[i]
			sumSq += diff * diff
		}
		std := math.Sqrt(sumSq / float64(period))
		upper[i] = middle[i] + width*std
		lower[i] = middle[i] - width*std
	}
	return
}
