package indicators

// NeutralRSI is returned when the series is too short to compute RSI.
// A neutral reading keeps oversold entries suppressed on thin history.
const NeutralRSI = 50.0

// RSI computes the Wilder-smoothed Relative Strength Index over the
// full close series. rsi[i] is defined for i >= period; earlier slots
// are zero.
func RSI(closes []float64, period int) []float64 {
	rsi := make([]float64, len(closes))
	if len(closes) < period+1 {
		return rsi
	}

	gains := make([]float64, 0, len(closes)-1)
	losses := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains = append(gains, change)
			losses = append(losses, 0)
		} else {
			gains = append(gains, 0)
			losses = append(losses, -change)
		}
	}

	sumGain, sumLoss := 0.0, 0.0
	for i := 0; i < period; i++ {
		sumGain += gains[i]
		sumLoss += losses[i]
	}
	avgGain := sumGain / float64(period)
	avgLoss := sumLoss / float64(period)

	rsi[period] = rsiPoint(avgGain, avgLoss)

	// Wilder smoothing for the rest of the series.
	for i := period + 1; i < len(closes); i++ {
		avgGain = (avgGain*float64(period-1) + gains[i-1]) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + losses[i-1]) / float64(period)
		rsi[i] = rsiPoint(avgGain, avgLoss)
	}

	return rsi
}

// LatestRSI returns the most recent RSI value, or NeutralRSI when the
// series has fewer than period+1 points.
func LatestRSI(closes []float64, period int) float64 {
	if len(closes) < period+1 {
		return NeutralRSI
	}
	series := RSI(closes, period)
	return series[len(series)-1]
}

func rsiPoint(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}
