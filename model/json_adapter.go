package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/cwbudde/algo-approx"
)

// weightsFile is the on-disk schema for a JSONAdapter's weights: a single
// 12 -> 24 linear layer (softmaxed at inference time) and an optional
// 12 -> 1 tuning-regression head.
type weightsFile struct {
	// Weights is 24 rows of 12 coefficients each.
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`

	TuningWeights []float64 `json:"tuning_weights"`
	TuningBias    float64   `json:"tuning_bias"`
}

// JSONAdapter is a minimal learned-model stand-in: a linear 12->24 layer
// read from a JSON weights file, softmaxed on inference, with an optional
// linear tuning-regression head. It exists so the classifier's learned
// branch has something real to exercise in tests without depending on any
// particular neural-network runtime.
type JSONAdapter struct {
	weights [][]float64
	bias    []float64

	tuningWeights []float64
	tuningBias    float64
	hasTuning     bool
}

// NewJSONAdapter returns an adapter with no weights loaded; Load must be
// called before Infer12ToKey produces anything but the uniform fallback.
func NewJSONAdapter() *JSONAdapter {
	return &JSONAdapter{}
}

// Load reads and validates a weights file at path.
func (a *JSONAdapter) Load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f weightsFile
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	if len(f.Weights) != 24 {
		return fmt.Errorf("model: expected 24 weight rows, got %d", len(f.Weights))
	}
	for i, row := range f.Weights {
		if len(row) != 12 {
			return fmt.Errorf("model: weight row %d has %d columns, want 12", i, len(row))
		}
	}
	if len(f.Bias) != 0 && len(f.Bias) != 24 {
		return fmt.Errorf("model: expected 0 or 24 bias entries, got %d", len(f.Bias))
	}

	a.weights = f.Weights
	a.bias = f.Bias
	if len(a.bias) == 0 {
		a.bias = make([]float64, 24)
	}

	if len(f.TuningWeights) > 0 {
		if len(f.TuningWeights) != 12 {
			return fmt.Errorf("model: tuning_weights must have 12 entries, got %d", len(f.TuningWeights))
		}
		a.tuningWeights = f.TuningWeights
		a.tuningBias = f.TuningBias
		a.hasTuning = true
	}
	return nil
}

// Infer12ToKey runs the linear layer and softmaxes the result. A
// zero-sum/degenerate softmax falls back to uniform.
func (a *JSONAdapter) Infer12ToKey(chroma12 []float64) ([]float64, *float64) {
	if len(a.weights) != 24 {
		return UniformAdapter{}.Infer12ToKey(chroma12)
	}

	logits := make([]float64, 24)
	for i, row := range a.weights {
		var sum float64
		for j, w := range row {
			if j < len(chroma12) {
				sum += w * chroma12[j]
			}
		}
		logits[i] = sum + a.bias[i]
	}
	probs := softmax(logits)

	var tuning *float64
	if a.hasTuning {
		var sum float64
		for j, w := range a.tuningWeights {
			if j < len(chroma12) {
				sum += w * chroma12[j]
			}
		}
		cents := (sum + a.tuningBias) * 400
		tuning = &cents
	}
	return probs, tuning
}

func softmax(logits []float64) []float64 {
	out := make([]float64, len(logits))
	maxV := math.Inf(-1)
	for _, v := range logits {
		if v > maxV {
			maxV = v
		}
	}
	var sum float64
	for i, v := range logits {
		e := float64(approx.FastExp(float32(v - maxV)))
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
