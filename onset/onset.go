// Package onset implements the spectral-flux onset envelope that feeds the
// ACF tempo tracker: a weighted, half-wave-rectified spectral difference
// between consecutive frames, adaptively thresholded by a running median.
package onset

import (
	"math"
	"sort"

	"github.com/bdidthis/harmoniq-sub001/dsp"
)

// Config holds onset-detector tuning knobs, mirroring the tempo estimator's
// constructor defaults.
type Config struct {
	SampleRate             int
	FrameSize              int
	WindowSeconds          float64
	OnsetSensitivity       float64
	MedianFilterSize       int
	AdaptiveThresholdRatio float64
	MinEnergyDB            float64
}

// DefaultConfig returns the documented defaults.
func DefaultConfig(sampleRate int) Config {
	return Config{
		SampleRate:             sampleRate,
		FrameSize:              1024,
		WindowSeconds:          12,
		OnsetSensitivity:       0.9,
		MedianFilterSize:       9,
		AdaptiveThresholdRatio: 1.7,
		MinEnergyDB:            -65,
	}
}

// rawRingCap is the fixed size of the adaptive-threshold median ring.
const rawRingCap = 120

// minEnvelopeFrames is the minimum onset envelope length before tempo
// estimation is allowed to run.
const minEnvelopeFrames = 48

// Detector computes one instantaneous onset strength per tempo frame and
// maintains the bounded onset envelope the ACF tracker reads from.
type Detector struct {
	cfg Config

	fft    *dsp.FFTCore
	window []float64

	prevMag []float64
	scratch []complex128
	mag     []float64

	rawRing []float64 // last up-to-120 raw onset values, for adaptive median
	envelope []float64
	framesPerWindow int
}

// New builds an onset detector for the given configuration.
func New(cfg Config) (*Detector, error) {
	fft, err := dsp.NewFFTCore(cfg.FrameSize)
	if err != nil {
		return nil, err
	}
	half := cfg.FrameSize / 2
	framesPerWindow := int(math.Round(cfg.WindowSeconds * float64(cfg.SampleRate) / float64(cfg.FrameSize)))
	if framesPerWindow < 32 {
		framesPerWindow = 32
	}
	return &Detector{
		cfg:             cfg,
		fft:             fft,
		window:          dsp.HannWindow(cfg.FrameSize),
		prevMag:         make([]float64, half+1),
		scratch:         make([]complex128, fft.SpectrumLen()),
		mag:             make([]float64, half+1),
		rawRing:         make([]float64, 0, rawRingCap),
		envelope:        make([]float64, 0, framesPerWindow),
		framesPerWindow: framesPerWindow,
	}, nil
}

// Process consumes one tempo frame (length FrameSize) and the frame's energy
// in dB, updates the onset envelope, and reports whether the current frame
// is gated (below the energy floor, or the envelope is still too short for
// tempo estimation to be meaningful).
func (d *Detector) Process(frame []float64, energyDB float64) (instant float64, gated bool) {
	windowed := make([]float64, len(frame))
	dsp.ApplyWindow(windowed, frame, d.window)

	if err := d.fft.Magnitudes(windowed, d.scratch, d.mag); err != nil {
		// Keep the envelope monotone in stream time even on a degenerate frame.
		instant = 0
	} else {
		instant = d.weightedFlux()
	}

	d.pushRaw(instant)
	threshold := d.adaptiveThreshold()
	post := instant - threshold
	if post < 0 {
		post = 0
	}
	post *= d.cfg.OnsetSensitivity

	d.pushEnvelope(post)

	gated = energyDB < d.cfg.MinEnergyDB || len(d.envelope) < minEnvelopeFrames
	return post, gated
}

func (d *Detector) weightedFlux() float64 {
	half := d.cfg.FrameSize / 2
	binHz := float64(d.cfg.SampleRate) / float64(d.cfg.FrameSize)
	var sum float64
	for k := 1; k <= half; k++ {
		diff := d.mag[k] - d.prevMag[k]
		if diff <= 0 {
			d.prevMag[k] = d.mag[k]
			continue
		}
		f := float64(k) * binHz
		weight := bandWeight(f)
		sum += diff * weight
		d.prevMag[k] = d.mag[k]
	}
	if half <= 0 {
		return 0
	}
	return sum / float64(half)
}

func bandWeight(f float64) float64 {
	switch {
	case f >= 60 && f <= 250:
		return 1.5
	case f >= 200 && f <= 900:
		return 1.2
	default:
		return 1.0
	}
}

func (d *Detector) pushRaw(v float64) {
	if len(d.rawRing) >= rawRingCap {
		copy(d.rawRing, d.rawRing[1:])
		d.rawRing[len(d.rawRing)-1] = v
		return
	}
	d.rawRing = append(d.rawRing, v)
}

func (d *Detector) adaptiveThreshold() float64 {
	if len(d.rawRing) < d.cfg.MedianFilterSize {
		return 0
	}
	sorted := append([]float64(nil), d.rawRing...)
	sort.Float64s(sorted)
	med := median(sorted)
	return med * d.cfg.AdaptiveThresholdRatio
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return 0.5 * (sorted[n/2-1] + sorted[n/2])
}

func (d *Detector) pushEnvelope(v float64) {
	if len(d.envelope) >= d.framesPerWindow {
		copy(d.envelope, d.envelope[1:])
		d.envelope[len(d.envelope)-1] = v
		return
	}
	d.envelope = append(d.envelope, v)
}

// Envelope returns the current onset envelope (oldest first). The returned
// slice is a live view; callers must not retain it across the next Process
// call.
func (d *Detector) Envelope() []float64 { return d.envelope }

// FramesPerWindow returns the configured envelope capacity.
func (d *Detector) FramesPerWindow() int { return d.framesPerWindow }

// Reset clears all detector state to its initial empty condition.
func (d *Detector) Reset() {
	for i := range d.prevMag {
		d.prevMag[i] = 0
	}
	d.rawRing = d.rawRing[:0]
	d.envelope = d.envelope[:0]
}
