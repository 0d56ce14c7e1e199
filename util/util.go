package util

import (
	"math/rand"
)

// RandomRange returns a uniformly distributed value in [min, max).
func RandomRange(min float64, max float64) float64 {
	if max < min {
		min, max = max, min
	}
	return rand.Float64()*(max-min) + min
}

// Clamp01 limits v to the unit interval.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// GenerateLut samples fn at length evenly spaced points across [0, 1].
func GenerateLut(length int, fn func(float64) float64) []float64 {
	if length <= 0 {
		return nil
	}
	lut := make([]float64, length)
	if length == 1 {
		lut[0] = fn(0)
		return lut
	}
	increment := 1.0 / float64(length-1)
	for i := 0; i < length; i++ {
		lut[i] = fn(float64(i) * increment)
	}
	return lut
}
