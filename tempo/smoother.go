package tempo

import (
	"math"

	"github.com/bdidthis/harmoniq-sub001/dsp"
)

// lockConfidenceThreshold is the fixed confidence gate for the unlocked ->
// locked transition. It is not exposed as a constructor parameter, unlike
// lockStability/unlockStability.
const lockConfidenceThreshold = 0.60

// smoother owns the adaptive EMA, the stability history ring, the
// lock/hysteresis state, and the deadbanded/quantized reporter.
type smoother struct {
	ema     float64
	emaInit bool
	history []float64 // bounded ring, oldest first

	isLocked bool

	lastReported      float64
	lastReportedValid bool
}

// updateEMA folds a new selected BPM into the adaptive EMA.
func (s *smoother) updateEMA(selected, alpha float64) {
	if !s.emaInit {
		s.ema = selected
		s.emaInit = true
		return
	}
	a := alpha
	if math.Abs(selected-s.ema) > 6 {
		a = math.Min(0.28, 1.8*alpha)
	}
	s.ema = dsp.FlushDenormals64((1-a)*s.ema + a*selected)
}

// pushHistory appends the current EMA to the bounded history ring.
func (s *smoother) pushHistory(historyLength int) {
	if historyLength < 1 {
		historyLength = 1
	}
	if len(s.history) >= historyLength {
		copy(s.history, s.history[1:])
		s.history[len(s.history)-1] = s.ema
		return
	}
	s.history = append(s.history, s.ema)
}

// stability computes exp(-18*cv) over the last up-to-16 history samples,
// clamped to [0,1]. Fewer than 6 samples yields 0 (insufficient evidence).
func (s *smoother) stability() float64 {
	n := len(s.history)
	if n > 16 {
		n = 16
	}
	if n < 6 {
		return 0
	}
	window := s.history[len(s.history)-n:]
	var mean float64
	for _, v := range window {
		mean += v
	}
	mean /= float64(n)
	if mean == 0 {
		return 0
	}
	var variance float64
	for _, v := range window {
		d := v - mean
		variance += d * d
	}
	variance /= float64(n)
	stddev := math.Sqrt(variance)
	cv := stddev / mean
	stab := math.Exp(-18 * cv)
	return clamp01(stab)
}

// updateLock applies the hysteresis lock transition.
func (s *smoother) updateLock(stab, confidence, lockStability, unlockStability float64) {
	if !s.isLocked {
		if stab >= lockStability && confidence >= lockConfidenceThreshold {
			s.isLocked = true
		}
	} else if stab < unlockStability {
		s.isLocked = false
	}
}

// report applies the deadband+quantization reporter and returns the BPM to
// surface to callers.
func (s *smoother) report(deadbandUnlocked, deadbandLocked, quantUnlocked, quantLocked float64) float64 {
	deadband := deadbandUnlocked
	quant := quantUnlocked
	if s.isLocked {
		deadband = deadbandLocked
		quant = quantLocked
	}

	candidate := math.Round(s.ema/quant) * quant

	if !s.lastReportedValid {
		s.lastReported = candidate
		s.lastReportedValid = true
		return s.lastReported
	}
	if math.Abs(candidate-s.lastReported) < deadband {
		return s.lastReported
	}
	s.lastReported = candidate
	return s.lastReported
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func (s *smoother) reset() {
	*s = smoother{}
}
