package genre

import (
	"encoding/json"
	"os"
)

// Registry resolves a (genre, subgenre) pair to a ModelConfig, falling back
// from an unknown subgenre to the genre's base entry, and from an unknown
// genre to the package default. Callers
// construct and pass it explicitly rather than reaching for a package-level
// singleton.
type Registry struct {
	def     ModelConfig
	entries map[string]map[string]ModelConfig
}

// NewRegistry builds a registry seeded with the built-in genre table: a
// handful of representative genres whose defaults diverge meaningfully from
// Default(), enough to exercise every field the key detector reads.
func NewRegistry() *Registry {
	r := &Registry{
		def:     Default(),
		entries: make(map[string]map[string]ModelConfig),
	}
	r.set("classical", "", ModelConfig{
		WhiteningAlpha: 0.5, BassSuppression: 80, HPCPBins: 72,
		SmoothingType: SmoothingDBN, SmoothingStrength: 0.6,
		SupportsTuningRegression: true, MinConfidence: 0.55, LockFrames: 4,
		UseClassical: true, ClassicalWeight: 0.45, UseHPSS: true,
	})
	r.set("electronic", "", ModelConfig{
		WhiteningAlpha: 0.8, BassSuppression: 160, HPCPBins: 12,
		SmoothingType: SmoothingEMA, SmoothingStrength: 0.4,
		SupportsTuningRegression: false, MinConfidence: 0.65, LockFrames: 2,
		UseClassical: false, ClassicalWeight: 0, UseHPSS: false,
	})
	r.set("electronic", "house", ModelConfig{
		WhiteningAlpha: 0.85, BassSuppression: 200, HPCPBins: 12,
		SmoothingType: SmoothingEMA, SmoothingStrength: 0.35,
		SupportsTuningRegression: false, MinConfidence: 0.65, LockFrames: 2,
		UseClassical: false, ClassicalWeight: 0, UseHPSS: false,
	})
	r.set("rock", "", Default())
	return r
}

func (r *Registry) set(genreName, subgenre string, cfg ModelConfig) {
	m, ok := r.entries[genreName]
	if !ok {
		m = make(map[string]ModelConfig)
		r.entries[genreName] = m
	}
	m[subgenre] = cfg
}

// Resolve returns the configuration for the given genre/subgenre, falling
// back from subgenre -> genre's "" entry -> package default.
func (r *Registry) Resolve(genreName, subgenre string) ModelConfig {
	if m, ok := r.entries[genreName]; ok {
		if cfg, ok := m[subgenre]; ok {
			return cfg
		}
		if cfg, ok := m[""]; ok {
			return cfg
		}
	}
	return r.def
}

// overrideFile is the JSON schema for a genre-override resource: a flat map
// of "genre" or "genre/subgenre" keys to partial field overlays, in the
// style of preset.File's pointer-field overlay.
type overrideFile struct {
	Genres map[string]overrideEntry `json:"genres"`
}

type overrideEntry struct {
	WhiteningAlpha           *float64 `json:"whitening_alpha"`
	BassSuppression          *float64 `json:"bass_suppression"`
	HPCPBins                 *int     `json:"hpcp_bins"`
	SmoothingType            *string  `json:"smoothing_type"`
	SmoothingStrength        *float64 `json:"smoothing_strength"`
	SupportsTuningRegression *bool    `json:"supports_tuning_regression"`
	MinConfidence            *float64 `json:"min_confidence"`
	LockFrames               *int     `json:"lock_frames"`
	UseClassical             *bool    `json:"use_classical"`
	ClassicalWeight          *float64 `json:"classical_weight"`
	UseHPSS                  *bool    `json:"use_hpss"`
}

// LoadOverrides reads a JSON overrides resource and applies each entry on
// top of whatever Resolve currently returns for that genre/subgenre (the
// registered entry, else the genre's base entry, else the package default).
// Unknown smoothing-type names are skipped
// silently, leaving the prior value in place.
func (r *Registry) LoadOverrides(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f overrideFile
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	for key, entry := range f.Genres {
		genreName, subgenre := splitGenreKey(key)
		base := r.Resolve(genreName, subgenre)
		r.set(genreName, subgenre, applyOverride(base, entry))
	}
	return nil
}

func splitGenreKey(key string) (genreName, subgenre string) {
	for i := 0; i < len(key); i++ {
		if key[i] == '/' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}

func applyOverride(base ModelConfig, f overrideEntry) ModelConfig {
	if f.WhiteningAlpha != nil {
		base.WhiteningAlpha = *f.WhiteningAlpha
	}
	if f.BassSuppression != nil {
		base.BassSuppression = *f.BassSuppression
	}
	if f.HPCPBins != nil {
		base.HPCPBins = *f.HPCPBins
	}
	if f.SmoothingType != nil {
		if st, ok := parseSmoothingType(*f.SmoothingType); ok {
			base.SmoothingType = st
		}
	}
	if f.SmoothingStrength != nil {
		base.SmoothingStrength = *f.SmoothingStrength
	}
	if f.SupportsTuningRegression != nil {
		base.SupportsTuningRegression = *f.SupportsTuningRegression
	}
	if f.MinConfidence != nil {
		base.MinConfidence = *f.MinConfidence
	}
	if f.LockFrames != nil {
		base.LockFrames = *f.LockFrames
	}
	if f.UseClassical != nil {
		base.UseClassical = *f.UseClassical
	}
	if f.ClassicalWeight != nil {
		base.ClassicalWeight = *f.ClassicalWeight
	}
	if f.UseHPSS != nil {
		base.UseHPSS = *f.UseHPSS
	}
	return base
}
