package model

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestUniformAdapterReturnsUniformDistribution(t *testing.T) {
	var a UniformAdapter
	probs, tuning := a.Infer12ToKey(make([]float64, 12))
	if len(probs) != 24 {
		t.Fatalf("expected 24 probabilities, got %d", len(probs))
	}
	var sum float64
	for _, p := range probs {
		if p != 1.0/24.0 {
			t.Fatalf("expected every entry to equal 1/24, got %v", p)
		}
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("expected probabilities to sum to 1, got %v", sum)
	}
	if tuning != nil {
		t.Fatalf("expected no tuning estimate from the uniform adapter")
	}
}

func writeWeights(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestJSONAdapterInferBeforeLoadFallsBackToUniform(t *testing.T) {
	a := NewJSONAdapter()
	probs, _ := a.Infer12ToKey(make([]float64, 12))
	if probs[0] != 1.0/24.0 {
		t.Fatalf("expected uniform fallback before Load, got %v", probs[0])
	}
}

func TestJSONAdapterLoadRejectsMalformedShape(t *testing.T) {
	path := writeWeights(t, `{"weights":[[1,2,3]]}`)
	a := NewJSONAdapter()
	if err := a.Load(path); err == nil {
		t.Fatalf("expected an error for a weights file with too few rows")
	}
}

func TestJSONAdapterSoftmaxSumsToOne(t *testing.T) {
	rows := make([][]float64, 24)
	for i := range rows {
		row := make([]float64, 12)
		row[i%12] = 1.0
		rows[i] = row
	}
	body := `{"weights":` + mustJSON(t, rows) + `}`
	path := writeWeights(t, body)

	a := NewJSONAdapter()
	if err := a.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	chroma := make([]float64, 12)
	chroma[0] = 1.0
	probs, tuning := a.Infer12ToKey(chroma)
	if tuning != nil {
		t.Fatalf("expected no tuning output without a tuning head configured")
	}
	var sum float64
	for _, p := range probs {
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("expected softmax output to sum to 1, got %v", sum)
	}
}

func TestJSONAdapterTuningHeadScalesByFourHundred(t *testing.T) {
	rows := make([][]float64, 24)
	for i := range rows {
		rows[i] = make([]float64, 12)
	}
	tuningWeights := make([]float64, 12)
	tuningWeights[0] = 0.05 // 0.05 * 400 = 20 cents for a unit chroma[0]
	body := `{"weights":` + mustJSON(t, rows) + `,"tuning_weights":` + mustJSON(t, tuningWeights) + `}`
	path := writeWeights(t, body)

	a := NewJSONAdapter()
	if err := a.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	chroma := make([]float64, 12)
	chroma[0] = 1.0
	_, tuning := a.Infer12ToKey(chroma)
	if tuning == nil {
		t.Fatalf("expected a tuning estimate once tuning_weights are configured")
	}
	if math.Abs(*tuning-20) > 1e-9 {
		t.Fatalf("expected 20 cents, got %v", *tuning)
	}
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return string(b)
}
