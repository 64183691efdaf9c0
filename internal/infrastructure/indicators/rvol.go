package indicators

// RelativeVolume returns the last volume divided by the average volume
// of the whole series. Zero average yields zero, not a division error.
func RelativeVolume(volumes []float64) float64 {
	if len(volumes) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range volumes {
		sum += v
	}
	avg := sum / float64(len(volumes))
	if avg <= 0 {
		return 0
	}
	return volumes[len(volumes)-1] / avg
}
