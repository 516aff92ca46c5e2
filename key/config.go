package key

import (
	"errors"

	"github.com/bdidthis/harmoniq-sub001/genre"
)

// Config holds the key detector's constructor parameters.
type Config struct {
	SampleRate int

	FFTSize int
	Hop     int

	MinHz float64
	MaxHz float64

	Model genre.ModelConfig
}

// DefaultConfig returns the documented defaults for a given sample rate,
// using the package-default genre model configuration.
func DefaultConfig(sampleRate int) Config {
	return Config{
		SampleRate: sampleRate,
		FFTSize:    4096,
		Hop:        1024,
		MinHz:      50,
		MaxHz:      5000,
		Model:      genre.Default(),
	}
}

// ErrInvalidSampleRate is returned when sampleRate <= 0.
var ErrInvalidSampleRate = errors.New("key: sampleRate must be > 0")

// ErrInvalidFFTSize is returned when fftSize is not a power of two >= 2.
var ErrInvalidFFTSize = errors.New("key: fftSize must be a power of two >= 2")

// ErrInvalidHop is returned when hop <= 0.
var ErrInvalidHop = errors.New("key: hop must be > 0")

// ErrInvalidHzRange is returned when minHz >= maxHz.
var ErrInvalidHzRange = errors.New("key: minHz must be < maxHz")

func (c Config) validate() error {
	if c.SampleRate <= 0 {
		return ErrInvalidSampleRate
	}
	if c.FFTSize < 2 || c.FFTSize&(c.FFTSize-1) != 0 {
		return ErrInvalidFFTSize
	}
	if c.Hop <= 0 {
		return ErrInvalidHop
	}
	if c.MinHz >= c.MaxHz {
		return ErrInvalidHzRange
	}
	return nil
}
