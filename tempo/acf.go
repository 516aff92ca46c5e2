package tempo

import (
	"math"
	"sort"
)

// rawACF computes the normalized autocorrelation at an integer lag over the
// onset envelope x: sum(x_i * x_{i+lag}) / sqrt(sum x_i^2 * sum x_{i+lag}^2).
// It returns 0 outside the signal's support.
func rawACF(x []float64, lag int) float64 {
	if lag < 1 || lag >= len(x)-2 {
		return 0
	}
	n := len(x) - lag
	var num, sumA, sumB float64
	for i := 0; i < n; i++ {
		a := x[i]
		b := x[i+lag]
		num += a * b
		sumA += a * a
		sumB += b * b
	}
	denom := math.Sqrt(sumA * sumB)
	if denom <= 0 {
		return 0
	}
	return num / denom
}

// acfMap computes the normalized ACF over every integer lag in [minLag, maxLag].
func acfMap(x []float64, minLag, maxLag int) map[int]float64 {
	m := make(map[int]float64, maxLag-minLag+1)
	for lag := minLag; lag <= maxLag; lag++ {
		m[lag] = rawACF(x, lag)
	}
	return m
}

// lagBounds computes [minLag, maxLag] for an envelope of length n, clamped
// to the configured BPM range and to what the envelope can actually support.
func lagBounds(n, sampleRate, frameSize int, minBPM, maxBPM float64) (minLag, maxLag int, ok bool) {
	minLag = int(math.Round(60 * float64(sampleRate) / (float64(frameSize) * maxBPM)))
	if minLag < 2 {
		minLag = 2
	}
	maxLag = int(math.Round(60 * float64(sampleRate) / (float64(frameSize) * minBPM)))
	if maxLag > n-3 {
		maxLag = n - 3
	}
	return minLag, maxLag, maxLag >= minLag
}

// lagToBPM converts a (possibly fractional) lag in tempo frames to BPM.
func lagToBPM(lag float64, sampleRate, frameSize int) float64 {
	if lag <= 0 {
		return 0
	}
	secondsPerFrame := float64(frameSize) / float64(sampleRate)
	return 60 / (lag * secondsPerFrame)
}

// bpmToLag is the inverse of lagToBPM.
func bpmToLag(bpm float64, sampleRate, frameSize int) float64 {
	if bpm <= 0 {
		return 0
	}
	secondsPerFrame := float64(frameSize) / float64(sampleRate)
	return 60 / (bpm * secondsPerFrame)
}

// parabolicPeak applies parabolic interpolation over three samples centered
// on y1. It returns the fractional offset from the center (|offset| <= 0.5
// when refined) and the interpolated peak value. When the center sample is
// not a strict local maximum, or the vertex shift would exceed 0.5, it
// returns offset 0 and the unrefined center value.
func parabolicPeak(y0, y1, y2 float64) (offset, value float64) {
	if !(y1 > y0 && y1 > y2) {
		return 0, y1
	}
	denom := y0 - 2*y1 + y2
	if denom == 0 {
		return 0, y1
	}
	delta := 0.5 * (y0 - y2) / denom
	if math.Abs(delta) > 0.5 {
		return 0, y1
	}
	peak := y1 - 0.25*(y0-y2)*delta
	return delta, peak
}

// acfCandidate is a refined lag/BPM/score triple produced from the ACF map.
type acfCandidate struct {
	Lag   float64
	BPM   float64
	Score float64
}

// topCandidates picks the 6 lags with the highest raw ACF value from m,
// refines each with parabolic interpolation over its immediate neighborhood,
// converts to BPM, and adds the octave support score. n is the envelope
// length, which bounds the half/double lags used for support.
func topCandidates(env []float64, m map[int]float64, sampleRate, frameSize, n int) []acfCandidate {
	type kv struct {
		lag int
		val float64
	}
	kvs := make([]kv, 0, len(m))
	for lag, v := range m {
		kvs = append(kvs, kv{lag, v})
	}
	sort.Slice(kvs, func(i, j int) bool {
		if kvs[i].val != kvs[j].val {
			return kvs[i].val > kvs[j].val
		}
		return kvs[i].lag < kvs[j].lag
	})
	if len(kvs) > 6 {
		kvs = kvs[:6]
	}

	out := make([]acfCandidate, 0, len(kvs))
	for _, c := range kvs {
		y0 := rawACF(env, c.lag-1)
		y1 := m[c.lag]
		y2 := rawACF(env, c.lag+1)
		offset, peak := parabolicPeak(y0, y1, y2)
		refinedLag := float64(c.lag) + offset
		bpm := lagToBPM(refinedLag, sampleRate, frameSize)
		if bpm <= 0 {
			continue
		}

		score := peak
		halfLag := int(math.Round(float64(c.lag) / 2))
		if halfLag >= 1 && halfLag < n-2 {
			score += 0.7 * rawACF(env, halfLag)
		}
		doubleLag := int(math.Round(float64(c.lag) * 2))
		if doubleLag >= 1 && doubleLag < n-2 {
			score += 0.5 * rawACF(env, doubleLag)
		}

		out = append(out, acfCandidate{Lag: refinedLag, BPM: bpm, Score: score})
	}
	return out
}
