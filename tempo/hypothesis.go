package tempo

import "math"

// Hypothesis is a scored tempo candidate tracked across frames.
type Hypothesis struct {
	BPM   float64
	Score float64
}

// hypothesisTracker owns the triple H1/H2/H3 and the switch-debounce counter.
type hypothesisTracker struct {
	hyps          [3]Hypothesis
	switchCounter int
}

func familyMatch(a, b float64) bool {
	if a <= 0 || b <= 0 {
		return false
	}
	ratio := a / b
	if ratio < 1 {
		ratio = b / a
	}
	switch {
	case ratio > 0.98 && ratio < 1.02:
		return true
	case ratio > 1.95 && ratio < 2.05:
		return true
	case ratio > 2.90 && ratio < 3.10:
		return true
	default:
		return false
	}
}

// update decays existing hypothesis scores, folds in the frame's candidates,
// re-ranks, and applies the switch-debounce hysteresis.
func (t *hypothesisTracker) update(candidates []acfCandidate, decay, switchThreshold float64, switchHoldFrames int) {
	for i := range t.hyps {
		t.hyps[i].Score *= decay
	}

	for _, c := range candidates {
		matched := -1
		for i, h := range t.hyps {
			if h.BPM > 0 && familyMatch(c.BPM, h.BPM) {
				matched = i
				break
			}
		}
		if matched >= 0 {
			h := t.hyps[matched]
			denom := c.Score + h.Score
			if denom > 0 {
				h.BPM = (c.BPM*c.Score + h.BPM*h.Score) / denom
			}
			h.Score += 0.6 * c.Score
			t.hyps[matched] = h
			continue
		}

		weakest := 0
		for i := 1; i < len(t.hyps); i++ {
			if t.hyps[i].Score < t.hyps[weakest].Score {
				weakest = i
			}
		}
		t.hyps[weakest] = Hypothesis{BPM: c.BPM, Score: c.Score}
	}

	t.rerank()

	if t.hyps[0].Score > 0 && t.hyps[1].Score > switchThreshold*t.hyps[0].Score {
		t.switchCounter++
		if t.switchCounter >= switchHoldFrames {
			t.hyps[0], t.hyps[1] = t.hyps[1], t.hyps[0]
			t.switchCounter = 0
		}
	} else {
		t.switchCounter = 0
	}
}

func (t *hypothesisTracker) rerank() {
	h := t.hyps[:]
	for i := 1; i < len(h); i++ {
		for j := i; j > 0 && h[j].Score > h[j-1].Score; j-- {
			h[j], h[j-1] = h[j-1], h[j]
		}
	}
}

// winner returns the selected BPM and the clamped confidence derived from
// the three hypothesis scores. If H1 has no BPM yet, it falls back to the
// strongest of the current frame's raw candidates.
func (t *hypothesisTracker) winner(candidates []acfCandidate) (bpm, confidence float64) {
	total := t.hyps[0].Score + t.hyps[1].Score + t.hyps[2].Score
	if total > 0 {
		confidence = t.hyps[0].Score / total
	}
	confidence = math.Max(0, math.Min(1, confidence))

	bpm = t.hyps[0].BPM
	if bpm <= 0 && len(candidates) > 0 {
		best := candidates[0]
		for _, c := range candidates[1:] {
			if c.Score > best.Score {
				best = c
			}
		}
		bpm = best.BPM
	}
	return bpm, confidence
}

// reset clears hypothesis state to its initial empty condition.
func (t *hypothesisTracker) reset() {
	*t = hypothesisTracker{}
}
