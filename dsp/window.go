package dsp

import "math"

// HannWindow returns a Hann window of length n.
func HannWindow(n int) []float64 {
	w := make([]float64, n)
	if n < 2 {
		if n == 1 {
			w[0] = 1
		}
		return w
	}
	denom := float64(n - 1)
	for i := 0; i < n; i++ {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/denom)
	}
	return w
}

// ApplyWindow multiplies src by win element-wise into dst. dst may alias src.
func ApplyWindow(dst, src, win []float64) {
	for i := range src {
		dst[i] = src[i] * win[i]
	}
}
