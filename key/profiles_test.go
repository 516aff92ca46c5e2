package key

import (
	"math"
	"testing"
)

func TestClassicalProbsSumsToOne(t *testing.T) {
	hpcp := []float64{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	probs := classicalProbs(hpcp)
	if len(probs) != 24 {
		t.Fatalf("expected 24 scores, got %d", len(probs))
	}
	var sum float64
	for _, p := range probs {
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("expected softmaxed scores to sum to 1, got %v", sum)
	}
}

func TestClassicalProbsFavorsCMajorForCRootedChroma(t *testing.T) {
	// A chroma vector shaped exactly like the C major profile should score
	// highest at root 0 (C major, index 0) among all 24 rotations.
	hpcp := make([]float64, 12)
	copy(hpcp, krumhanslMajor[:])
	probs := classicalProbs(hpcp)

	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	if best != 0 {
		t.Fatalf("expected C major (index 0) to win for a C-major-shaped chroma, got index %d", best)
	}
}
