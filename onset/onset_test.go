package onset

import (
	"math"
	"testing"
)

func sineFrame(frameSize, sampleRate int, freqHz float64, phase float64) []float64 {
	frame := make([]float64, frameSize)
	for i := range frame {
		t := float64(i) / float64(sampleRate)
		frame[i] = math.Sin(2*math.Pi*freqHz*t + phase)
	}
	return frame
}

func TestNewRejectsInvalidFrameSize(t *testing.T) {
	cfg := DefaultConfig(48000)
	cfg.FrameSize = 1000 // not a power of two
	if _, err := New(cfg); err == nil {
		t.Fatalf("expected an error for a non-power-of-two frame size")
	}
}

func TestProcessGatesBelowEnergyFloor(t *testing.T) {
	cfg := DefaultConfig(48000)
	d, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	frame := sineFrame(cfg.FrameSize, cfg.SampleRate, 440, 0)
	_, gated := d.Process(frame, -90) // below MinEnergyDB of -65
	if !gated {
		t.Fatalf("expected frame below the energy floor to be gated")
	}
}

func TestProcessGatesUntilEnvelopeReachesMinimumLength(t *testing.T) {
	cfg := DefaultConfig(48000)
	d, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < minEnvelopeFrames-1; i++ {
		frame := sineFrame(cfg.FrameSize, cfg.SampleRate, 440, float64(i))
		_, gated := d.Process(frame, 0)
		if !gated {
			t.Fatalf("expected frame %d to stay gated before the envelope fills", i)
		}
	}
	frame := sineFrame(cfg.FrameSize, cfg.SampleRate, 440, float64(minEnvelopeFrames))
	_, gated := d.Process(frame, 0)
	if gated {
		t.Fatalf("expected gate to release once the envelope reaches minEnvelopeFrames")
	}
}

func TestWeightedFluxRespondsToChangingSpectrum(t *testing.T) {
	cfg := DefaultConfig(48000)
	d, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	silence := make([]float64, cfg.FrameSize)
	instantSilence, _ := d.Process(silence, 0)
	if instantSilence != 0 {
		t.Fatalf("expected zero flux against an all-zero previous spectrum transitioning to silence, got %v", instantSilence)
	}

	loud := sineFrame(cfg.FrameSize, cfg.SampleRate, 440, 0)
	instantLoud, _ := d.Process(loud, 0)
	if instantLoud <= 0 {
		t.Fatalf("expected positive flux when energy rises sharply, got %v", instantLoud)
	}
}

func TestEnvelopeRingBufferStaysBounded(t *testing.T) {
	cfg := DefaultConfig(48000)
	cfg.WindowSeconds = 1 // small window to keep the test fast
	d, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < d.FramesPerWindow()*3; i++ {
		frame := sineFrame(cfg.FrameSize, cfg.SampleRate, 440, float64(i))
		d.Process(frame, 0)
	}
	if len(d.Envelope()) != d.FramesPerWindow() {
		t.Fatalf("expected envelope length to saturate at FramesPerWindow, got %d want %d", len(d.Envelope()), d.FramesPerWindow())
	}
}

func TestResetClearsEnvelopeAndReGates(t *testing.T) {
	cfg := DefaultConfig(48000)
	d, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < minEnvelopeFrames+4; i++ {
		d.Process(sineFrame(cfg.FrameSize, cfg.SampleRate, 440, float64(i)), 0)
	}
	if len(d.Envelope()) == 0 {
		t.Fatalf("expected a non-empty envelope before reset")
	}

	d.Reset()
	if len(d.Envelope()) != 0 {
		t.Fatalf("expected envelope to be empty immediately after reset")
	}
	_, gated := d.Process(sineFrame(cfg.FrameSize, cfg.SampleRate, 440, 0), 0)
	if !gated {
		t.Fatalf("expected the detector to re-gate after reset")
	}
}

func TestBandWeightFavorsLowerBands(t *testing.T) {
	if bandWeight(120) <= bandWeight(3000) {
		t.Fatalf("expected kick/bass band weight to exceed an unweighted high band")
	}
	if bandWeight(500) <= bandWeight(3000) {
		t.Fatalf("expected mid band weight to exceed an unweighted high band")
	}
}
