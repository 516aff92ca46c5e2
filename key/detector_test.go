package key

import (
	"testing"

	"github.com/bdidthis/harmoniq-sub001/internal/fixture"
	"github.com/bdidthis/harmoniq-sub001/model"
)

func feedKeyBytes(t *testing.T, d *Detector, pcm []byte) {
	t.Helper()
	const chunk = 8192
	for off := 0; off < len(pcm); off += chunk {
		end := off + chunk
		if end > len(pcm) {
			end = len(pcm)
		}
		d.AddBytes(pcm[off:end], 1, false)
	}
}

func TestDetectorRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig(0)
	if _, err := New(cfg, nil); err != ErrInvalidSampleRate {
		t.Fatalf("expected ErrInvalidSampleRate, got %v", err)
	}

	cfg = DefaultConfig(48000)
	cfg.FFTSize = 1000
	if _, err := New(cfg, nil); err != ErrInvalidFFTSize {
		t.Fatalf("expected ErrInvalidFFTSize, got %v", err)
	}

	cfg = DefaultConfig(48000)
	cfg.MinHz, cfg.MaxHz = 5000, 50
	if _, err := New(cfg, nil); err != ErrInvalidHzRange {
		t.Fatalf("expected ErrInvalidHzRange, got %v", err)
	}
}

func TestDetectorStartsAtSentinel(t *testing.T) {
	d, err := New(DefaultConfig(48000), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if d.Label() != noLabel {
		t.Fatalf("expected sentinel label before any input, got %q", d.Label())
	}
	if d.Confidence() != 0 {
		t.Fatalf("expected zero confidence before any input")
	}
}

func TestDetectorHPCPDominatesOnPureA440(t *testing.T) {
	const sampleRate = 48000
	d, err := New(DefaultConfig(sampleRate), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pcm := fixture.ToneInt16(sampleRate, 440, 2, 0.8)
	feedKeyBytes(t, d, pcm)

	hpcp := d.HPCP()
	if hpcp[9] < 0.4 {
		t.Fatalf("expected HPCP bin 9 (A) to dominate for a pure A440 tone, got %v (full vector %v)", hpcp[9], hpcp)
	}
}

func TestDetectorClassicalBranchPicksAOrAMinorForA440(t *testing.T) {
	const sampleRate = 48000
	cfg := DefaultConfig(sampleRate)
	cfg.Model.UseClassical = true
	cfg.Model.ClassicalWeight = 1.0 // isolate the classical branch
	d, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pcm := fixture.ToneInt16(sampleRate, 440, 2, 0.8)
	feedKeyBytes(t, d, pcm)

	label := d.Label()
	if label != "A major" && label != "A minor" {
		t.Fatalf("expected A major or A minor for a pure A440 tone, got %q", label)
	}
}

func TestDetectorResetReturnsToSentinel(t *testing.T) {
	const sampleRate = 48000
	d, err := New(DefaultConfig(sampleRate), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pcm := fixture.ToneInt16(sampleRate, 440, 2, 0.8)
	feedKeyBytes(t, d, pcm)
	if d.Label() == noLabel {
		t.Fatalf("expected a latched label before reset")
	}

	d.Reset()
	if d.Label() != noLabel {
		t.Fatalf("expected sentinel label after reset, got %q", d.Label())
	}
	if d.Confidence() != 0 {
		t.Fatalf("expected zero confidence after reset")
	}
}

func TestDetectorBeatSyncProducesLabelForArpeggio(t *testing.T) {
	const sampleRate = 48000
	cfg := DefaultConfig(sampleRate)
	cfg.Model.UseClassical = true
	cfg.Model.ClassicalWeight = 1.0
	d, err := New(cfg, model.UniformAdapter{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	d.SetBeatBpm(120)

	// A C major arpeggio: C4, E4, G4.
	freqs := []float64{261.63, 329.63, 392.00}
	pcm := fixture.ArpeggioInt16(sampleRate, freqs, 120, 8, 0.8)
	feedKeyBytes(t, d, pcm)

	// The beat-sync branch bypasses the classical blend (it only exercises
	// the learned/uniform branch), so just assert it has produced a label
	// at all once a full beat has elapsed.
	if d.BeatLabel() == noLabel {
		t.Fatalf("expected a beat-synchronous label after 8s of a 120 BPM arpeggio")
	}
}

func TestDetectorSwitchGenreRebuildsSmootherAndChroma(t *testing.T) {
	d, err := New(DefaultConfig(48000), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	prevSmoother := d.sm
	prevChroma := d.chromaEx
	newCfg := d.cfg.Model
	newCfg.HPCPBins = 12
	d.SwitchGenre(newCfg)

	if d.sm == prevSmoother {
		t.Fatalf("expected SwitchGenre to rebuild the temporal smoother")
	}
	if d.chromaEx.hpcpBins == prevChroma.hpcpBins && prevChroma.hpcpBins != 12 {
		t.Fatalf("expected SwitchGenre to apply the new hpcpBins setting")
	}
}
