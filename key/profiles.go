package key

import "math"

// krumhanslMajor and krumhanslMinor are the classical Krumhansl-Schmuckler
// tonal-hierarchy profiles, rooted at C.
var krumhanslMajor = [12]float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
var krumhanslMinor = [12]float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}

var krumhanslMajorNorm = profileNorm(krumhanslMajor)
var krumhanslMinorNorm = profileNorm(krumhanslMinor)

func profileNorm(p [12]float64) float64 {
	var sum float64
	for _, v := range p {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// classicalProbs scores the HPCP against every rotation of both profiles
// and softmaxes the 24 resulting scores.
func classicalProbs(hpcp []float64) []float64 {
	scores := make([]float64, 24)
	for r := 0; r < 12; r++ {
		var majorScore, minorScore float64
		for i := 0; i < 12; i++ {
			bin := (i + r) % 12
			majorScore += hpcp[bin] * krumhanslMajor[i]
			minorScore += hpcp[bin] * krumhanslMinor[i]
		}
		scores[2*r] = majorScore / krumhanslMajorNorm
		scores[2*r+1] = minorScore / krumhanslMinorNorm
	}
	return softmax24(scores)
}

func softmax24(scores []float64) []float64 {
	maxV := math.Inf(-1)
	for _, v := range scores {
		if v > maxV {
			maxV = v
		}
	}
	out := make([]float64, len(scores))
	var sum float64
	for i, v := range scores {
		e := float64(fastExpF(float32(v - maxV)))
		out[i] = e
		sum += e
	}
	if sum <= 0 || math.IsNaN(sum) {
		for i := range out {
			out[i] = 1.0 / float64(len(out))
		}
		return out
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
