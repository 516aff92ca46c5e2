// Package key implements the windowed-FFT key detector: spectrum
// conditioning (whitening, harmonic enhancement, optional HPSS, bass
// suppression), tuning estimation, chroma/HPCP extraction, a hybrid
// learned+classical classifier, temporal smoothing, a display lock, and a
// beat-synchronous re-estimator.
package key

import (
	"github.com/bdidthis/harmoniq-sub001/dsp"
	"github.com/bdidthis/harmoniq-sub001/genre"
	"github.com/bdidthis/harmoniq-sub001/model"
)

// Detector runs the full key-estimation pipeline over a stream of PCM
// bytes. It is single-threaded and cooperative, matching the tempo
// Estimator's concurrency contract: callers must not call into a Detector
// concurrently with itself or with any getter.
type Detector struct {
	cfg Config

	fft    *dsp.FFTCore
	window []float64
	framer *dsp.Framer

	cond     conditioner
	chromaEx chromaExtractor
	sm       *smoother
	lock     *displayLock
	beat     *beatSync

	adapter model.Adapter

	hpcp     [12]float64
	hpcpInit bool

	lastModelCents float64

	scratch []complex128
	mag     []float64

	telemetry Telemetry
}

// New constructs a key detector for the given configuration and learned
// model adapter. A nil adapter falls back to model.UniformAdapter.
func New(cfg Config, adapter model.Adapter) (*Detector, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	fft, err := dsp.NewFFTCore(cfg.FFTSize)
	if err != nil {
		return nil, err
	}
	if adapter == nil {
		adapter = model.UniformAdapter{}
	}
	return &Detector{
		cfg:      cfg,
		fft:      fft,
		window:   dsp.HannWindow(cfg.FFTSize),
		framer:   dsp.NewFramer(cfg.FFTSize, cfg.Hop),
		chromaEx: chromaExtractor{hpcpBins: cfg.Model.HPCPBins},
		sm:       newSmoother(cfg.Model),
		lock:     newDisplayLock(),
		beat:     newBeatSync(),
		adapter:  adapter,
		scratch:  make([]complex128, fft.SpectrumLen()),
		mag:      make([]float64, cfg.FFTSize/2+1),
	}, nil
}

// AddBytes decodes an interleaved little-endian PCM buffer (int16 or
// float32, any channel count), frames it into overlapping key frames, and
// drives the full pipeline for each completed frame.
func (d *Detector) AddBytes(buf []byte, channels int, isFloat32 bool) {
	format := dsp.FormatInt16LE
	if isFloat32 {
		format = dsp.FormatFloat32LE
	}
	result := dsp.Normalize(buf, channels, format)
	for _, frame := range d.framer.Push(result.Samples) {
		d.processFrame(frame)
	}
}

func (d *Detector) processFrame(frame []float64) {
	windowed := make([]float64, len(frame))
	dsp.ApplyWindow(windowed, frame, d.window)

	if err := d.fft.Magnitudes(windowed, d.scratch, d.mag); err != nil {
		return
	}
	d.telemetry.FramesSeen++

	binHz := float64(d.cfg.SampleRate) / float64(d.cfg.FFTSize)

	whitened := whiten(d.mag, d.cfg.Model.WhiteningAlpha)
	enhanced := harmonicEnhance(whitened)

	d.telemetry.HPSSActive = d.cfg.Model.UseHPSS
	conditioned := enhanced
	if d.cfg.Model.UseHPSS {
		conditioned = d.cond.applyHPSS(enhanced)
	}
	conditioned = suppressBass(conditioned, binHz, d.cfg.Model.BassSuppression)

	cents := d.lastModelCents
	if !d.cfg.Model.SupportsTuningRegression {
		cents = estimateTuningCents(conditioned, binHz)
	}
	d.telemetry.TuningCentsUsed = cents

	chromaInst := d.chromaEx.extract(conditioned, binHz, d.cfg.MinHz, d.cfg.MaxHz, cents)
	chromaInst = normalizeChroma(chromaInst)

	if !d.hpcpInit {
		copy(d.hpcp[:], chromaInst)
		d.hpcpInit = true
	} else {
		for i := range d.hpcp {
			d.hpcp[i] = dsp.FlushDenormals64(0.8*d.hpcp[i] + 0.2*chromaInst[i])
		}
	}
	hpcpNorm := normalizeChroma(append([]float64(nil), d.hpcp[:]...))
	copy(d.hpcp[:], hpcpNorm)

	learnedProbs, modelTuning := inferLearned(d.adapter, hpcpNorm, d.cfg.Model.SupportsTuningRegression)
	if d.cfg.Model.SupportsTuningRegression && modelTuning != nil {
		d.lastModelCents = *modelTuning
	}
	smoothedLearned := d.sm.step(learnedProbs)

	combined := classify(smoothedLearned, hpcpNorm, d.cfg.Model)
	winnerIdx, altIdx := top1And3(combined)

	var tuning *float64
	if d.cfg.Model.SupportsTuningRegression {
		tuning = &d.lastModelCents
	} else {
		tuning = &cents
	}

	alternates := make([]string, len(altIdx))
	for i, idx := range altIdx {
		alternates[i] = Labels[idx]
	}

	d.lock.consider(Labels[winnerIdx], combined[winnerIdx], alternates, tuning, lockConfig{
		minConfidence: d.cfg.Model.MinConfidence,
		lockFrames:    d.cfg.Model.LockFrames,
	})
	d.telemetry.LockCounter = d.lock.lockCounter

	d.beat.advance(chromaInst, d.cfg.Hop, d.cfg.SampleRate, d.adapter)
	d.telemetry.BeatAccumFrames = d.beat.frames
}

// Label returns the display-stable top key label, or "--" if none has
// latched yet.
func (d *Detector) Label() string { return d.lock.display.Label }

// Confidence returns the display-stable classifier confidence.
func (d *Detector) Confidence() float64 { return d.lock.display.Confidence }

// TopAlternates returns the display-stable ranked alternates (up to 3).
func (d *Detector) TopAlternates() []string { return d.lock.display.Alternates }

// TuningOffset returns the display-stable tuning offset in cents, if any.
func (d *Detector) TuningOffset() (float64, bool) {
	return d.lock.display.TuningOffset, d.lock.display.TuningOffsetSet
}

// HPCP returns a copy of the current smoothed 12-D chroma vector.
func (d *Detector) HPCP() []float64 {
	out := make([]float64, 12)
	copy(out, d.hpcp[:])
	return out
}

// BeatLabel returns the most recent beat-synchronous key label.
func (d *Detector) BeatLabel() string { return d.beat.Label }

// BeatConfidence returns the most recent beat-synchronous confidence.
func (d *Detector) BeatConfidence() float64 { return d.beat.Confidence }

// SetBeatBpm installs an externally driven beat tempo for the
// beat-synchronous branch; bpm <= 0 disables it.
func (d *Detector) SetBeatBpm(bpm float64) { d.beat.setBPM(bpm) }

// SwitchGenre replaces the active genre model configuration, rebuilding the
// temporal smoother and chroma extractor so they reflect the new settings
// from the next frame on.
func (d *Detector) SwitchGenre(cfg genre.ModelConfig) {
	d.cfg.Model = cfg
	d.chromaEx = chromaExtractor{hpcpBins: cfg.HPCPBins}
	d.sm = newSmoother(cfg)
}

// Telemetry returns a snapshot of the detector's internal debug state.
func (d *Detector) Telemetry() Telemetry { return d.telemetry }

// Reset drops all buffers and state to their initial empty condition.
func (d *Detector) Reset() {
	d.framer.Reset()
	d.cond.reset()
	d.chromaEx.reset()
	d.sm.reset()
	d.lock.reset()
	d.beat.reset()
	d.hpcp = [12]float64{}
	d.hpcpInit = false
	d.lastModelCents = 0
	d.telemetry = Telemetry{}
}
