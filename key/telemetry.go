package key

// Telemetry is a snapshot of the key detector's internal debug state (spec
// section 9, "Dynamic map-typed telemetry"), named fields replacing the
// source's free-form debug bag.
type Telemetry struct {
	FramesSeen      int
	TuningCentsUsed float64
	HPSSActive      bool
	LockCounter     int
	BeatAccumFrames int
}
