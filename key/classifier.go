package key

import (
	"github.com/bdidthis/harmoniq-sub001/genre"
	"github.com/bdidthis/harmoniq-sub001/model"
)

// classify runs the learned-model branch (smoothed upstream of this call),
// optionally blends in the classical Krumhansl-Schmuckler branch, and
// normalizes the combined 24-D distribution.
func classify(smoothedLearned []float64, hpcp []float64, cfg genre.ModelConfig) []float64 {
	if !cfg.UseClassical {
		return normalize24(smoothedLearned)
	}
	classical := classicalProbs(hpcp)
	combined := make([]float64, 24)
	for i := range combined {
		combined[i] = (1-cfg.ClassicalWeight)*smoothedLearned[i] + cfg.ClassicalWeight*classical[i]
	}
	return normalize24(combined)
}

func normalize24(p []float64) []float64 {
	var sum float64
	for _, v := range p {
		sum += v
	}
	if sum <= 0 {
		out := make([]float64, len(p))
		for i := range out {
			out[i] = 1.0 / float64(len(out))
		}
		return out
	}
	out := make([]float64, len(p))
	for i, v := range p {
		out[i] = v / sum
	}
	return out
}

// inferLearned runs the model adapter's branch, falling back to the
// uniform distribution when no adapter is configured.
func inferLearned(adapter model.Adapter, hpcp []float64, supportsTuning bool) ([]float64, *float64) {
	if adapter == nil {
		return model.UniformAdapter{}.Infer12ToKey(hpcp)
	}
	probs, tuning := adapter.Infer12ToKey(hpcp)
	if !supportsTuning {
		tuning = nil
	}
	return probs, tuning
}

// top1And3 returns the index of the winning label and the indices of up to
// 3 alternates sorted by descending probability.
func top1And3(probs []float64) (winnerIdx int, alternates []int) {
	type scored struct {
		idx int
		p   float64
	}
	scoredAll := make([]scored, len(probs))
	for i, p := range probs {
		scoredAll[i] = scored{i, p}
	}
	// simple selection sort for the top 3; len(probs) is always 24.
	for i := 0; i < len(scoredAll) && i < 3; i++ {
		best := i
		for j := i + 1; j < len(scoredAll); j++ {
			if scoredAll[j].p > scoredAll[best].p {
				best = j
			}
		}
		scoredAll[i], scoredAll[best] = scoredAll[best], scoredAll[i]
	}
	winnerIdx = scoredAll[0].idx
	n := 3
	if n > len(scoredAll) {
		n = len(scoredAll)
	}
	alternates = make([]int, n)
	for i := 0; i < n; i++ {
		alternates[i] = scoredAll[i].idx
	}
	return winnerIdx, alternates
}
