package dsp

// Framer accumulates mono samples into a ring and emits fixed-size frames.
// With hop == frameSize it behaves as a non-overlapping framer (tempo path);
// with hop < frameSize it emits overlapping frames advancing by hop samples
// at a time (key path).
type Framer struct {
	frameSize int
	hop       int
	ring      []float64
}

// NewFramer creates a framer for frames of frameSize samples, advancing by
// hop samples between emissions. hop must be in [1, frameSize].
func NewFramer(frameSize, hop int) *Framer {
	if frameSize < 1 {
		frameSize = 1
	}
	if hop < 1 {
		hop = frameSize
	}
	if hop > frameSize {
		hop = frameSize
	}
	return &Framer{
		frameSize: frameSize,
		hop:       hop,
		ring:      make([]float64, 0, frameSize),
	}
}

// Push appends samples to the ring and returns zero or more newly completed
// frames, each an independent copy safe to retain.
func (f *Framer) Push(samples []float64) [][]float64 {
	f.ring = append(f.ring, samples...)
	var frames [][]float64
	for len(f.ring) >= f.frameSize {
		frame := make([]float64, f.frameSize)
		copy(frame, f.ring[:f.frameSize])
		frames = append(frames, frame)

		if f.hop >= f.frameSize {
			f.ring = f.ring[:0]
			continue
		}
		drop := f.hop
		remaining := len(f.ring) - drop
		copy(f.ring, f.ring[drop:])
		f.ring = f.ring[:remaining]
	}
	return frames
}

// Reset clears the ring to its initial empty state.
func (f *Framer) Reset() {
	f.ring = f.ring[:0]
}

// FrameSize returns the configured frame length.
func (f *Framer) FrameSize() int { return f.frameSize }
