package genre

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveFallsBackToDefaultForUnknownGenre(t *testing.T) {
	r := NewRegistry()
	cfg := r.Resolve("polka", "")
	if cfg != Default() {
		t.Fatalf("expected unknown genre to resolve to package default")
	}
}

func TestResolveFallsBackFromSubgenreToGenre(t *testing.T) {
	r := NewRegistry()
	cfg := r.Resolve("electronic", "techno") // registered genre, unknown subgenre
	want := r.Resolve("electronic", "")
	if cfg != want {
		t.Fatalf("expected unknown subgenre to fall back to the genre's base config")
	}
}

func TestResolveSubgenreOverridesGenre(t *testing.T) {
	r := NewRegistry()
	house := r.Resolve("electronic", "house")
	base := r.Resolve("electronic", "")
	if house.BassSuppression == base.BassSuppression {
		t.Fatalf("expected house subgenre to diverge from the electronic base")
	}
}

func TestLoadOverridesAppliesPartialFieldsOnTopOfExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.json")
	body := `{"genres":{"rock":{"classical_weight":0.9,"smoothing_type":"dbn"}}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	r := NewRegistry()
	before := r.Resolve("rock", "")
	if err := r.LoadOverrides(path); err != nil {
		t.Fatalf("LoadOverrides: %v", err)
	}
	after := r.Resolve("rock", "")

	if after.ClassicalWeight != 0.9 {
		t.Fatalf("expected classical_weight override to apply, got %v", after.ClassicalWeight)
	}
	if after.SmoothingType != SmoothingDBN {
		t.Fatalf("expected smoothing_type override to apply, got %v", after.SmoothingType)
	}
	if after.WhiteningAlpha != before.WhiteningAlpha {
		t.Fatalf("expected untouched fields to remain at their prior value")
	}
}

func TestLoadOverridesSkipsUnknownSmoothingTypeSilently(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.json")
	body := `{"genres":{"classical":{"smoothing_type":"markov-chain-v9"}}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	r := NewRegistry()
	before := r.Resolve("classical", "")
	if err := r.LoadOverrides(path); err != nil {
		t.Fatalf("LoadOverrides: %v", err)
	}
	after := r.Resolve("classical", "")
	if after.SmoothingType != before.SmoothingType {
		t.Fatalf("expected unknown smoothing type to be ignored, got %v", after.SmoothingType)
	}
}

func TestSplitGenreKey(t *testing.T) {
	g, s := splitGenreKey("electronic/house")
	if g != "electronic" || s != "house" {
		t.Fatalf("got genre=%q subgenre=%q", g, s)
	}
	g, s = splitGenreKey("rock")
	if g != "rock" || s != "" {
		t.Fatalf("got genre=%q subgenre=%q", g, s)
	}
}
