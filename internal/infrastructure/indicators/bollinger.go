package indicators

import "math"

type Bands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Bollinger computes Bollinger bands over the close series. Band values
// are defined for i >= period-1; earlier slots are zero.
func Bollinger(closes []float64, period int, multiplier float64) Bands {
	length := len(closes)
	b := Bands{
		Upper:  make([]float64, length),
		Middle: make([]float64, length),
		Lower:  make([]float64, length),
	}
	if period <= 1 || length < period {
		return b
	}

	for i := period - 1; i < length; i++ {
		sum := 0.0
		for j := 0; j < period; j++ {
			sum += closes[i-j]
		}
		ma := sum / float64(period)
		b.Middle[i] = ma

		sumSqDiff := 0.0
		for j := 0; j < period; j++ {
			diff := closes[i-j] - ma
			sumSqDiff += diff * diff
		}
		stdDev := math.Sqrt(sumSqDiff / float64(period))

		b.Upper[i] = ma + multiplier*stdDev
		b.Lower[i] = ma - multiplier*stdDev
	}

	return b
}

// AboveUpperBand reports whether the final close sits above the upper
// Bollinger band.
func AboveUpperBand(closes []float64, period int, multiplier float64) bool {
	if len(closes) < period {
		return false
	}
	b := Bollinger(closes, period, multiplier)
	n := len(closes) - 1
	return closes[n] > b.Upper[n]
}
