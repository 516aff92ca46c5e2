// Command harmoniq-analyze decodes a WAV file, streams it through the
// tempo estimator and key detector, and prints periodic reports. It is a
// development/smoke-test front end for the core analyzers.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bdidthis/harmoniq-sub001/internal/audioio"
	"github.com/bdidthis/harmoniq-sub001/key"
	"github.com/bdidthis/harmoniq-sub001/tempo"
)

func main() {
	input := flag.String("input", "", "Input WAV file path (required)")
	sampleRate := flag.Int("sample-rate", 48000, "Analysis sample rate in Hz; the input is resampled to this rate")
	reportEvery := flag.Float64("report-every", 1.0, "Seconds of audio between printed reports")
	beatBpm := flag.Float64("beat-bpm", 0, "Optional fixed beat BPM to drive the key detector's beat-synchronous branch")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Error: -input is required")
		flag.Usage()
		os.Exit(2)
	}

	samples, nativeRate, err := audioio.ReadMono(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", *input, err)
		os.Exit(1)
	}
	samples, err = audioio.ResampleIfNeeded(samples, nativeRate, *sampleRate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resampling %q from %d Hz to %d Hz: %v\n", *input, nativeRate, *sampleRate, err)
		os.Exit(1)
	}

	tempoEst, err := tempo.New(tempo.DefaultConfig(*sampleRate))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error constructing tempo estimator: %v\n", err)
		os.Exit(1)
	}
	keyDet, err := key.New(key.DefaultConfig(*sampleRate), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error constructing key detector: %v\n", err)
		os.Exit(1)
	}
	if *beatBpm > 0 {
		keyDet.SetBeatBpm(*beatBpm)
	}

	fmt.Printf("Analyzing %q: %d samples at %d Hz (native %d Hz)\n", *input, len(samples), *sampleRate, nativeRate)

	chunkFrames := int(*reportEvery * float64(*sampleRate))
	if chunkFrames < 1 {
		chunkFrames = *sampleRate
	}

	for off := 0; off < len(samples); off += chunkFrames {
		end := off + chunkFrames
		if end > len(samples) {
			end = len(samples)
		}
		buf := audioio.EncodeFloat32LE(samples[off:end])
		tempoEst.AddBytes(buf, 1, true)
		keyDet.AddBytes(buf, 1, true)

		t := float64(end) / float64(*sampleRate)
		bpm, haveBPM := tempoEst.BPM()
		bpmStr := "--"
		if haveBPM {
			bpmStr = fmt.Sprintf("%.1f", bpm)
		}
		fmt.Printf("t=%6.2fs  bpm=%-6s locked=%-5v  key=%-10s conf=%.2f  beat=%s\n",
			t, bpmStr, tempoEst.IsLocked(), keyDet.Label(), keyDet.Confidence(), keyDet.BeatLabel())
	}
}
