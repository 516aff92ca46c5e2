// Package tempo implements the spectral-flux + autocorrelation tempo
// tracker: onset envelope, ACF peak picking with parabolic refinement,
// triple-hypothesis bookkeeping, harmonic promotion/demotion, anti-snap
// correction, adaptive EMA smoothing, and a hysteresis lock/reporter.
package tempo

import (
	"errors"

	"github.com/bdidthis/harmoniq-sub001/onset"
)

// Config holds the tempo estimator's constructor parameters.
type Config struct {
	SampleRate int

	FrameSize     int
	WindowSeconds float64

	EMAAlpha      float64
	HistoryLength int

	MinBPM float64
	MaxBPM float64

	// UseSpectralFlux is retained for API compatibility with the source;
	// spectral flux is the only implemented onset method.
	UseSpectralFlux bool

	OnsetSensitivity       float64
	MedianFilterSize       int
	AdaptiveThresholdRatio float64

	HypothesisDecay  float64
	SwitchThreshold  float64
	SwitchHoldFrames int

	LockStability   float64
	UnlockStability float64

	ReportDeadbandUnlocked float64
	ReportDeadbandLocked   float64
	ReportQuantUnlocked    float64
	ReportQuantLocked      float64

	MinEnergyDB float64
}

// DefaultConfig returns the documented defaults for a given sample rate.
func DefaultConfig(sampleRate int) Config {
	return Config{
		SampleRate:             sampleRate,
		FrameSize:              1024,
		WindowSeconds:          12,
		EMAAlpha:               0.12,
		HistoryLength:          36,
		MinBPM:                 60,
		MaxBPM:                 190,
		UseSpectralFlux:        true,
		OnsetSensitivity:       0.9,
		MedianFilterSize:       9,
		AdaptiveThresholdRatio: 1.7,
		HypothesisDecay:        0.97,
		SwitchThreshold:        1.35,
		SwitchHoldFrames:       4,
		LockStability:          0.78,
		UnlockStability:        0.62,
		ReportDeadbandUnlocked: 0.04,
		ReportDeadbandLocked:   0.20,
		ReportQuantUnlocked:    0.02,
		ReportQuantLocked:      0.08,
		MinEnergyDB:            -65,
	}
}

// ErrInvalidSampleRate is returned when sampleRate <= 0.
var ErrInvalidSampleRate = errors.New("tempo: sampleRate must be > 0")

// ErrInvalidBPMRange is returned when minBpm >= maxBpm.
var ErrInvalidBPMRange = errors.New("tempo: minBpm must be < maxBpm")

func (c Config) validate() error {
	if c.SampleRate <= 0 {
		return ErrInvalidSampleRate
	}
	if c.MinBPM >= c.MaxBPM {
		return ErrInvalidBPMRange
	}
	return nil
}

func (c Config) onsetConfig() onset.Config {
	return onset.Config{
		SampleRate:             c.SampleRate,
		FrameSize:              c.FrameSize,
		WindowSeconds:          c.WindowSeconds,
		OnsetSensitivity:       c.OnsetSensitivity,
		MedianFilterSize:       c.MedianFilterSize,
		AdaptiveThresholdRatio: c.AdaptiveThresholdRatio,
		MinEnergyDB:            c.MinEnergyDB,
	}
}
