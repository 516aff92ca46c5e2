package tempo

// acfStrength samples ACF strength at the lag nearest the given bpm, using
// the same round-then-parabolic-refine neighborhood the candidate refiner
// uses.
func acfStrength(env []float64, bpm float64, sampleRate, frameSize int) float64 {
	if bpm <= 0 {
		return 0
	}
	lag := bpmToLag(bpm, sampleRate, frameSize)
	l := int(lag + 0.5)
	y0 := rawACF(env, l-1)
	y1 := rawACF(env, l)
	y2 := rawACF(env, l+1)
	_, peak := parabolicPeak(y0, y1, y2)
	return peak
}

// promoteHarmonic applies octave promotion/demotion to a winning BPM using
// the ACF map's strength at b, 2b, and b/2.
func promoteHarmonic(env []float64, bpm float64, sampleRate, frameSize int, minBPM, maxBPM float64) float64 {
	if bpm <= 0 {
		return bpm
	}
	strengthB := acfStrength(env, bpm, sampleRate, frameSize)

	if bpm < 88 {
		double := bpm * 2
		if double <= maxBPM {
			if acfStrength(env, double, sampleRate, frameSize) >= 0.75*strengthB {
				return double
			}
		}
	}
	if bpm > 150 {
		half := bpm * 0.5
		if half >= minBPM {
			if acfStrength(env, half, sampleRate, frameSize) >= 1.25*strengthB {
				return half
			}
		}
	}
	return bpm
}
