package tempo

import "testing"

func TestAntiSnapFilterTriggersAfterFiveConsecutiveHits(t *testing.T) {
	var f antiSnapFilter
	var last float64
	for i := 0; i < 4; i++ {
		last = f.apply(83.5, 60, 190)
		if last != 83.5 {
			t.Fatalf("expected no correction before the run completes, got %v at iteration %d", last, i)
		}
	}
	last = f.apply(83.5, 60, 190)
	if last != 167.0 {
		t.Fatalf("expected correction to 167.0 on the fifth consecutive hit, got %v", last)
	}
}

func TestAntiSnapFilterFallsBackToHalfWhenDoubleExceedsMax(t *testing.T) {
	// 103.5 * 2 = 207 > maxBpm 190, so the correction must fall back to half
	// (51.75, which is still >= minBpm 50).
	var f antiSnapFilter
	var last float64
	for i := 0; i < 5; i++ {
		last = f.apply(103.5, 50, 190)
	}
	if last != 51.75 {
		t.Fatalf("expected fallback to 51.75, got %v", last)
	}
}

func TestAntiSnapFilterResetsRunOnMismatch(t *testing.T) {
	var f antiSnapFilter
	for i := 0; i < 4; i++ {
		f.apply(83.5, 60, 190)
	}
	f.apply(120, 60, 190) // breaks the run
	last := f.apply(83.5, 60, 190)
	if last != 83.5 {
		t.Fatalf("expected run to have reset, got premature correction %v", last)
	}
}
