package indicators

// SMA computes the simple moving average. sma[i] is defined for
// i >= period-1; earlier slots are zero.
func SMA(data []float64, period int) []float64 {
	sma := make([]float64, len(data))
	if period <= 0 || len(data) < period {
		return sma
	}

	sum := 0.0
	for i, v := range data {
		sum += v
		if i >= period {
			sum -= data[i-period]
		}
		if i >= period-1 {
			sma[i] = sum / float64(period)
		}
	}
	return sma
}

// GoldenCross reports whether the fast SMA crossed above the slow SMA
// on the final bar of the series.
func GoldenCross(closes []float64, fastPeriod, slowPeriod int) bool {
	if len(closes) < slowPeriod+1 {
		return false
	}
	fast := SMA(closes, fastPeriod)
	slow := SMA(closes, slowPeriod)
	n := len(closes) - 1
	return fast[n-1] < slow[n-1] && fast[n] > slow[n]
}
