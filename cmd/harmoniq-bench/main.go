// Command harmoniq-bench batch-scores a directory of WAV fixtures against
// filename-encoded expected BPM (e.g. "groove_120bpm.wav") for manual
// regression spot-checks. It is a developer smoke tool, not a
// ground-truth scoring product feature.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/bdidthis/harmoniq-sub001/internal/audioio"
	"github.com/bdidthis/harmoniq-sub001/tempo"
)

var bpmPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)bpm`)

// Score is one fixture's comparison between its filename-encoded expected
// BPM and the tempo estimator's final reported BPM.
type Score struct {
	File        string  `json:"file"`
	ExpectedBPM float64 `json:"expected_bpm"`
	ReportedBPM float64 `json:"reported_bpm"`
	Reported    bool    `json:"reported"`
	AbsErrorBPM float64 `json:"abs_error_bpm"`
	Locked      bool    `json:"locked"`
}

func main() {
	dir := flag.String("dir", "", "Directory of WAV fixtures (required)")
	sampleRate := flag.Int("sample-rate", 48000, "Analysis sample rate in Hz")
	jsonOut := flag.Bool("json", false, "Print results as JSON")
	flag.Parse()

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "Error: -dir is required")
		flag.Usage()
		os.Exit(2)
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", *dir, err)
		os.Exit(1)
	}

	var scores []Score
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".wav" {
			continue
		}
		match := bpmPattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		expected, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}

		path := filepath.Join(*dir, entry.Name())
		score, err := scoreFixture(path, expected, *sampleRate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error scoring %q: %v\n", path, err)
			continue
		}
		scores = append(scores, score)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(scores); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
			os.Exit(1)
		}
		return
	}

	for _, s := range scores {
		reportedStr := "--"
		if s.Reported {
			reportedStr = fmt.Sprintf("%.1f", s.ReportedBPM)
		}
		fmt.Printf("%-40s expected=%-6.1f reported=%-6s err=%-6.1f locked=%v\n",
			s.File, s.ExpectedBPM, reportedStr, s.AbsErrorBPM, s.Locked)
	}
}

func scoreFixture(path string, expectedBPM float64, sampleRate int) (Score, error) {
	samples, nativeRate, err := audioio.ReadMono(path)
	if err != nil {
		return Score{}, err
	}
	samples, err = audioio.ResampleIfNeeded(samples, nativeRate, sampleRate)
	if err != nil {
		return Score{}, err
	}

	est, err := tempo.New(tempo.DefaultConfig(sampleRate))
	if err != nil {
		return Score{}, err
	}
	est.AddBytes(audioio.EncodeFloat32LE(samples), 1, true)

	bpm, ok := est.BPM()
	score := Score{
		File:        filepath.Base(path),
		ExpectedBPM: expectedBPM,
		ReportedBPM: bpm,
		Reported:    ok,
		Locked:      est.IsLocked(),
	}
	if ok {
		score.AbsErrorBPM = math.Abs(bpm - expectedBPM)
	}
	return score, nil
}
