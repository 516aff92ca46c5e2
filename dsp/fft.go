// Package dsp provides the shared ingest-path primitives used by both the
// tempo estimator and the key detector: PCM normalization, frame ringing,
// windowing, and the FFT core.
package dsp

import (
	"errors"
	"math"

	algofft "github.com/cwbudde/algo-fft"
)

// ErrInvalidFFTSize is returned when a non-power-of-two size is requested.
var ErrInvalidFFTSize = errors.New("dsp: fft size must be a power of two >= 2")

// FFTCore performs an in-place-feeling real FFT over fixed-size windows.
// It prefers algofft's fast plan and falls back to the safe generic plan.
type FFTCore struct {
	n    int
	fast *algofft.FastPlanReal64
	safe *algofft.PlanReal64
}

// NewFFTCore builds an FFT core for windows of size n. n must be a power of
// two; the constructor rejects anything else instead of silently rounding.
func NewFFTCore(n int) (*FFTCore, error) {
	if n < 2 || n&(n-1) != 0 {
		return nil, ErrInvalidFFTSize
	}

	c := &FFTCore{n: n}

	fast, err := algofft.NewFastPlanReal64(n)
	if err == nil {
		c.fast = fast
	} else if !errors.Is(err, algofft.ErrNotImplemented) {
		// Ignore fast-plan setup failure and rely on the safe plan.
	}

	safe, err := algofft.NewPlanReal64(n)
	if err != nil {
		if c.fast == nil {
			return nil, err
		}
	} else {
		c.safe = safe
	}

	return c, nil
}

// Size returns the configured frame length.
func (c *FFTCore) Size() int { return c.n }

// Forward writes n/2+1 complex bins for the given real, windowed frame into
// dst. dst must have length n/2+1.
func (c *FFTCore) Forward(dst []complex128, src []float64) error {
	if len(src) != c.n {
		return errors.New("dsp: fft input length mismatch")
	}
	if c.fast != nil {
		c.fast.Forward(dst, src)
		return nil
	}
	if c.safe != nil {
		return c.safe.Forward(dst, src)
	}
	return errors.New("dsp: no fft plan available")
}

// Magnitudes computes |X_k| for bins [1, n/2] of the windowed real frame
// src, including the Nyquist bin, and writes into mag (which must have
// length n/2+1). Non-finite bins are dropped to zero, matching the
// "numerical degeneracies" policy of the estimation pipeline.
func (c *FFTCore) Magnitudes(src []float64, scratch []complex128, mag []float64) error {
	if err := c.Forward(scratch, src); err != nil {
		return err
	}
	half := c.n / 2
	for k := 1; k <= half; k++ {
		re := real(scratch[k])
		im := imag(scratch[k])
		m := math.Hypot(re, im)
		if math.IsNaN(m) || math.IsInf(m, 0) {
			m = 0
		}
		mag[k] = m
	}
	return nil
}

// SpectrumLen returns the number of complex bins a forward transform
// produces (n/2+1).
func (c *FFTCore) SpectrumLen() int { return c.n/2 + 1 }
