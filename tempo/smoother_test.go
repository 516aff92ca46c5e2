package tempo

import "testing"

func TestSmootherEMAInitializesOnFirstEstimate(t *testing.T) {
	var s smoother
	s.updateEMA(120, 0.12)
	if s.ema != 120 {
		t.Fatalf("expected first estimate to initialize ema directly, got %v", s.ema)
	}
}

func TestSmootherEMAWidensAlphaOnLargeJump(t *testing.T) {
	var s smoother
	s.updateEMA(120, 0.12)
	s.updateEMA(130, 0.12) // jump of 10 > 6 triggers widened alpha
	// widened alpha = min(0.28, 1.8*0.12) = 0.216
	want := 0.784*120 + 0.216*130
	if diff := want - s.ema; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected widened-alpha ema %v, got %v", want, s.ema)
	}
}

func TestSmootherStabilityRequiresMinimumHistory(t *testing.T) {
	var s smoother
	for i := 0; i < 5; i++ {
		s.ema = 120
		s.pushHistory(36)
	}
	if got := s.stability(); got != 0 {
		t.Fatalf("expected 0 stability with fewer than 6 samples, got %v", got)
	}
}

func TestSmootherStabilityIsHighForConstantTempo(t *testing.T) {
	var s smoother
	for i := 0; i < 20; i++ {
		s.ema = 120
		s.pushHistory(36)
	}
	if got := s.stability(); got < 0.99 {
		t.Fatalf("expected near-1 stability for a constant series, got %v", got)
	}
}

func TestSmootherReportHonorsDeadband(t *testing.T) {
	var s smoother
	s.ema = 120
	first := s.report(0.04, 0.20, 0.02, 0.08)
	if first != 120 {
		t.Fatalf("expected first report to equal ema, got %v", first)
	}

	s.ema = 120.01 // within the unlocked deadband of 0.04
	second := s.report(0.04, 0.20, 0.02, 0.08)
	if second != first {
		t.Fatalf("expected small move within deadband to repeat last value, got %v", second)
	}
}

func TestLockHysteresisEnterAndExit(t *testing.T) {
	var s smoother
	s.updateLock(0.9, 0.9, 0.78, 0.62)
	if !s.isLocked {
		t.Fatalf("expected lock to engage above both thresholds")
	}
	s.updateLock(0.70, 0.9, 0.78, 0.62) // between unlock(0.62) and lock(0.78): stays locked
	if !s.isLocked {
		t.Fatalf("expected lock to persist in the hysteresis band")
	}
	s.updateLock(0.5, 0.9, 0.78, 0.62)
	if s.isLocked {
		t.Fatalf("expected lock to release below unlockStability")
	}
}
