// Package genre resolves the per-genre tuning knobs the key detector runs
// with: spectrum-conditioning strength, chroma resolution, smoothing type,
// and classifier blend weight, plus JSON overrides layered on top of a
// built-in default table.
package genre

// ModelConfig is the immutable tuning record the key detector consumes.
type ModelConfig struct {
	WhiteningAlpha           float64
	BassSuppression          float64
	HPCPBins                 int
	SmoothingType            SmoothingType
	SmoothingStrength        float64
	SupportsTuningRegression bool
	MinConfidence            float64
	LockFrames               int
	UseClassical             bool
	ClassicalWeight          float64
	UseHPSS                  bool
}

// SmoothingType names the temporal-smoothing strategy a genre config
// selects.
type SmoothingType int

const (
	SmoothingNone SmoothingType = iota
	SmoothingEMA
	SmoothingHMM
	SmoothingDBN
)

func (s SmoothingType) String() string {
	switch s {
	case SmoothingEMA:
		return "ema"
	case SmoothingHMM:
		return "hmm"
	case SmoothingDBN:
		return "dbn"
	default:
		return "none"
	}
}

func parseSmoothingType(s string) (SmoothingType, bool) {
	switch s {
	case "none":
		return SmoothingNone, true
	case "ema":
		return SmoothingEMA, true
	case "hmm":
		return SmoothingHMM, true
	case "dbn":
		return SmoothingDBN, true
	default:
		return SmoothingNone, false
	}
}

// Default returns the documented default genre configuration: hmm
// smoothing, 36-bin CQT chroma, classical blend enabled.
func Default() ModelConfig {
	return ModelConfig{
		WhiteningAlpha:           0.7,
		BassSuppression:          120,
		HPCPBins:                 36,
		SmoothingType:            SmoothingHMM,
		SmoothingStrength:        0.5,
		SupportsTuningRegression: false,
		MinConfidence:            0.6,
		LockFrames:               3,
		UseClassical:             true,
		ClassicalWeight:          0.3,
		UseHPSS:                  false,
	}
}
