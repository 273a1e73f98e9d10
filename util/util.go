package util

import (
	"github.com/fogleman/ease"
)

// GenerateLut builds a pulse that eases from 0 up to 1 and back down over
// length steps.
func GenerateLut(length int) []float64 {
	if length < 2 {
		return make([]float64, length)
	}

	half := length / 2
	increment := 1.0 / float64(half)
	lut := make([]float64, length)
	for i, j := 0, length-1; i < half; i, j = i+1, j-1 {
		value := ease.InOutQuad(float64(i) * increment)
		lut[i] = value
		lut[j] = value
	}
	if length%2 == 1 {
		lut[half] = 1
	}

	return lut
}
