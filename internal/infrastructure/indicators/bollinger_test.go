package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBollingerBandsOrdering(t *testing.T) {
	closes := []float64{10, 11, 9, 12, 10, 11, 13, 9, 10, 12}

	b := Bollinger(closes, 5, 2.0)

	for i := 4; i < len(closes); i++ {
		assert.Greater(t, b.Upper[i], b.Middle[i])
		assert.Less(t, b.Lower[i], b.Middle[i])
	}
}

func TestAboveUpperBand(t *testing.T) {
	// Stable series with a violent final bar clears the upper band.
	closes := []float64{10, 10.1, 9.9, 10, 10.1, 9.9, 10, 10.1, 9.9, 10,
		10.1, 9.9, 10, 10.1, 9.9, 10, 10.1, 9.9, 10, 15}
	assert.True(t, AboveUpperBand(closes, 20, 2.0))
}

func TestAboveUpperBandQuietSeries(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 10
	}
	assert.False(t, AboveUpperBand(closes, 20, 2.0))

	assert.False(t, AboveUpperBand([]float64{10, 11}, 20, 2.0))
}
