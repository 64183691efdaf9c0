package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSMA(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}

	sma := SMA(data, 3)

	assert.Zero(t, sma[0])
	assert.Zero(t, sma[1])
	assert.InDelta(t, 2.0, sma[2], 1e-9)
	assert.InDelta(t, 3.0, sma[3], 1e-9)
	assert.InDelta(t, 4.0, sma[4], 1e-9)
}

func TestSMAShortSeries(t *testing.T) {
	sma := SMA([]float64{1, 2}, 5)
	assert.Equal(t, []float64{0, 0}, sma)
}

func TestGoldenCross(t *testing.T) {
	// A dip pulls the fast average under the slow one, then a final
	// surge lifts it back over: a cross on the last bar.
	closes := make([]float64, 26)
	for i := range closes {
		closes[i] = 100
	}
	closes[24] = 90
	closes[25] = 160

	assert.True(t, GoldenCross(closes, 2, 25))
}

func TestGoldenCrossAbsent(t *testing.T) {
	closes := make([]float64, 26)
	for i := range closes {
		closes[i] = 100
	}
	assert.False(t, GoldenCross(closes, 2, 25))

	assert.False(t, GoldenCross([]float64{1, 2, 3}, 2, 25))
}
