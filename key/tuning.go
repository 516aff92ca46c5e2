package key

import "math"

// estimateTuningCents searches the +/-50 cent offset that best aligns the
// conditioned spectrum to the equal-tempered grid.
func estimateTuningCents(spec []float64, binHz float64) float64 {
	bestCents := 0
	bestScore := math.Inf(-1)

	for cents := -50; cents <= 50; cents++ {
		score := tuningScore(spec, binHz, float64(cents))
		if score > bestScore {
			bestScore = score
			bestCents = cents
		}
	}
	return float64(bestCents)
}

func tuningScore(spec []float64, binHz, cents float64) float64 {
	var score float64
	for k, m := range spec {
		if k == 0 {
			continue
		}
		f := float64(k) * binHz
		if f < 40 || f > 6000 {
			continue
		}
		midi := 69 + 12*math.Log2(f/440) + cents/100
		delta := midi - math.Round(midi)
		if delta < 0 {
			delta = -delta
		}
		weight := gaussianWeight(delta, 0.18)
		score += m * weight
	}
	return score
}

// gaussianWeight computes exp(-0.5*(x/sigma)^2) via the shared fast
// transcendental approximation the rest of the classifier uses.
func gaussianWeight(x, sigma float64) float64 {
	z := x / sigma
	return float64(fastExpF(float32(-0.5 * z * z)))
}
