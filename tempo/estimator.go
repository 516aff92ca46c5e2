package tempo

import (
	"math"

	"github.com/bdidthis/harmoniq-sub001/dsp"
	"github.com/bdidthis/harmoniq-sub001/onset"
)

// Estimate is the tuple of public values an Estimator reports after each
// processed frame.
type Estimate struct {
	BPM        float64
	Stability  float64
	IsLocked   bool
	Confidence float64
}

// Estimator runs the full onset -> ACF -> harmonic promotion -> anti-snap ->
// EMA -> lock -> report pipeline on a stream of PCM bytes. It is single-
// threaded and cooperative: AddBytes must not be called concurrently with
// itself or with any getter.
type Estimator struct {
	cfg Config

	onsetDet *onset.Detector
	framer   *dsp.Framer

	hyps     hypothesisTracker
	antiSnap antiSnapFilter
	sm       smoother

	currentStability  float64
	currentConfidence float64

	telemetry Telemetry
}

// New constructs a tempo estimator. It rejects invalid configuration at
// construction: non-positive sample rate, a non-power-of-two frame size,
// or minBpm >= maxBpm.
func New(cfg Config) (*Estimator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	od, err := onset.New(cfg.onsetConfig())
	if err != nil {
		return nil, err
	}
	return &Estimator{
		cfg:      cfg,
		onsetDet: od,
		framer:   dsp.NewFramer(cfg.FrameSize, cfg.FrameSize),
		telemetry: Telemetry{
			FramesPerWin: od.FramesPerWindow(),
		},
	}, nil
}

// AddBytes decodes an interleaved little-endian PCM buffer (int16 or
// float32, any channel count), frames it into non-overlapping tempo frames,
// and drives the full pipeline for each completed frame.
func (e *Estimator) AddBytes(buf []byte, channels int, isFloat32 bool) {
	format := dsp.FormatInt16LE
	if isFloat32 {
		format = dsp.FormatFloat32LE
	}
	result := dsp.Normalize(buf, channels, format)
	for _, frame := range e.framer.Push(result.Samples) {
		var sumSquares float64
		for _, v := range frame {
			sumSquares += v * v
		}
		energyDB := dsp.RMSToDB(math.Sqrt(sumSquares / float64(len(frame))))
		e.processFrame(frame, energyDB)
	}
}

func (e *Estimator) processFrame(frame []float64, energyDB float64) {
	instant, gated := e.onsetDet.Process(frame, energyDB)
	_ = instant

	e.telemetry.EnvLen = len(e.onsetDet.Envelope())
	e.telemetry.EnergyDB = energyDB
	e.telemetry.Gated = gated
	if gated {
		return
	}

	env := e.onsetDet.Envelope()
	n := len(env)
	minLag, maxLag, ok := lagBounds(n, e.cfg.SampleRate, e.cfg.FrameSize, e.cfg.MinBPM, e.cfg.MaxBPM)
	if !ok {
		return
	}

	m := acfMap(env, minLag, maxLag)
	candidates := topCandidates(env, m, e.cfg.SampleRate, e.cfg.FrameSize, n)

	e.hyps.update(candidates, e.cfg.HypothesisDecay, e.cfg.SwitchThreshold, e.cfg.SwitchHoldFrames)
	selected, confidence := e.hyps.winner(candidates)
	e.currentConfidence = confidence
	e.telemetry.Hypotheses = e.hyps.hyps
	e.telemetry.SwitchCounter = e.hyps.switchCounter
	e.telemetry.Selected = selected

	if selected <= 0 {
		return
	}

	selected = promoteHarmonic(env, selected, e.cfg.SampleRate, e.cfg.FrameSize, e.cfg.MinBPM, e.cfg.MaxBPM)
	selected = e.antiSnap.apply(selected, e.cfg.MinBPM, e.cfg.MaxBPM)
	e.telemetry.AntiSnapRuns = e.antiSnap.runs

	e.sm.updateEMA(selected, e.cfg.EMAAlpha)
	e.sm.pushHistory(e.cfg.HistoryLength)

	stab := e.sm.stability()
	e.currentStability = stab
	e.sm.updateLock(stab, confidence, e.cfg.LockStability, e.cfg.UnlockStability)

	reported := e.sm.report(e.cfg.ReportDeadbandUnlocked, e.cfg.ReportDeadbandLocked, e.cfg.ReportQuantUnlocked, e.cfg.ReportQuantLocked)
	if reported < e.cfg.MinBPM {
		reported = e.cfg.MinBPM
	}
	if reported > e.cfg.MaxBPM {
		reported = e.cfg.MaxBPM
	}
	e.sm.lastReported = reported
}

// BPM returns the current reported tempo and whether one has been
// established yet.
func (e *Estimator) BPM() (float64, bool) {
	if !e.sm.lastReportedValid {
		return 0, false
	}
	return e.sm.lastReported, true
}

// Stability returns the current stability measure in [0,1].
func (e *Estimator) Stability() float64 { return e.currentStability }

// IsLocked reports whether the lock/hysteresis machine is currently locked.
func (e *Estimator) IsLocked() bool { return e.sm.isLocked }

// Confidence returns the current hypothesis-ratio confidence in [0,1].
func (e *Estimator) Confidence() float64 { return e.currentConfidence }

// Estimate returns the full reported tuple at once.
func (e *Estimator) Estimate() Estimate {
	bpm, _ := e.BPM()
	return Estimate{
		BPM:        bpm,
		Stability:  e.currentStability,
		IsLocked:   e.sm.isLocked,
		Confidence: e.currentConfidence,
	}
}

// Telemetry returns a snapshot of the estimator's internal debug state.
func (e *Estimator) Telemetry() Telemetry { return e.telemetry }

// Reset drops all buffers and state to their initial empty condition. It
// is safe to call between byte deliveries.
func (e *Estimator) Reset() {
	e.onsetDet.Reset()
	e.framer.Reset()
	e.hyps.reset()
	e.antiSnap.reset()
	e.sm.reset()
	e.currentStability = 0
	e.currentConfidence = 0
	e.telemetry = Telemetry{FramesPerWin: e.onsetDet.FramesPerWindow()}
}
