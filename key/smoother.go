package key

import "github.com/bdidthis/harmoniq-sub001/genre"

// transitionMatrix is the 24x24 HMM transition weighting: a key stays put
// most of the time, with smaller weights toward the labels 3 and 9 places
// further on in Labels (mod 24), toward its parallel major/minor, and a
// residual toward everything else. Rows
// are weights, not exact probabilities; the forward step renormalizes
// after folding them in.
var transitionMatrix = buildTransitionMatrix()

func buildTransitionMatrix() [24][24]float64 {
	var t [24][24]float64
	for i := 0; i < 24; i++ {
		for j := 0; j < 24; j++ {
			switch {
			case i == j:
				t[i][j] = 0.7
			case j == (i+9)%24 || j == (i+3)%24:
				t[i][j] = 0.08
			case j == i^1: // toggle even/odd: parallel major/minor at the same root
				t[i][j] = 0.1
			default:
				t[i][j] = 0.01
			}
		}
	}
	return t
}

// dbnWindowSize is the default DBN belief-window width.
const dbnWindowSize = 10

// smoother applies the polymorphic temporal-smoothing variant selected by a
// genre configuration: identity, EMA, HMM forward-step, or a DBN
// exponentially-weighted belief window.
type smoother struct {
	kind     genre.SmoothingType
	strength float64

	emaPrev []float64 // EMA and HMM both need the previous smoothed vector

	belief [24][]float64 // DBN: per-label ring of up to dbnWindowSize observations, newest first
}

func newSmoother(cfg genre.ModelConfig) *smoother {
	return &smoother{kind: cfg.SmoothingType, strength: cfg.SmoothingStrength}
}

// step applies one smoothing update to a freshly classified 24-D
// distribution and returns the smoothed result.
func (s *smoother) step(p []float64) []float64 {
	switch s.kind {
	case genre.SmoothingEMA:
		return s.stepEMA(p)
	case genre.SmoothingHMM:
		return s.stepHMM(p)
	case genre.SmoothingDBN:
		return s.stepDBN(p)
	default:
		return p
	}
}

func (s *smoother) stepEMA(p []float64) []float64 {
	if s.emaPrev == nil {
		s.emaPrev = append([]float64(nil), p...)
		return s.emaPrev
	}
	out := make([]float64, len(p))
	for i := range p {
		out[i] = s.strength*s.emaPrev[i] + (1-s.strength)*p[i]
	}
	s.emaPrev = out
	return out
}

func (s *smoother) stepHMM(p []float64) []float64 {
	if s.emaPrev == nil {
		s.emaPrev = append([]float64(nil), p...)
		return s.emaPrev
	}
	q := make([]float64, len(p))
	for i := range p {
		var forward float64
		for j, prevJ := range s.emaPrev {
			forward += prevJ * transitionMatrix[j][i]
		}
		q[i] = p[i] * forward
	}
	q = normalize24(q)

	out := make([]float64, len(p))
	for i := range p {
		out[i] = (1-s.strength)*q[i] + s.strength*p[i]
	}
	s.emaPrev = out
	return out
}

func (s *smoother) stepDBN(p []float64) []float64 {
	for i, v := range p {
		ring := s.belief[i]
		if len(ring) >= dbnWindowSize {
			ring = ring[:dbnWindowSize-1]
		}
		ring = append([]float64{v}, ring...)
		s.belief[i] = ring
	}

	out := make([]float64, len(p))
	for i, ring := range s.belief {
		var weighted, weightSum float64
		for t, v := range ring {
			w := float64(fastExpF(float32(-0.5 * float64(t))))
			weighted += w * v
			weightSum += w
		}
		belief := 0.0
		if weightSum > 0 {
			belief = weighted / weightSum
		}
		out[i] = s.strength*belief + (1-s.strength)*p[i]
	}
	return out
}

func (s *smoother) reset() {
	s.emaPrev = nil
	for i := range s.belief {
		s.belief[i] = nil
	}
}
