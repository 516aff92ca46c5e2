// Package fixture generates small synthetic PCM signals (metronome click
// trains, pure tones, arpeggios) for exercising the tempo and key pipelines
// in tests without needing real recordings.
package fixture

import (
	"encoding/binary"
	"math"
)

// ToneInt16 renders a pure sine tone as mono little-endian int16 PCM.
func ToneInt16(sampleRate int, freqHz, durationSec, amplitude float64) []byte {
	n := int(float64(sampleRate) * durationSec)
	buf := make([]byte, n*2)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)
		v := amplitude * math.Sin(2*math.Pi*freqHz*t)
		putInt16(buf[i*2:], v)
	}
	return buf
}

// MetronomeInt16 renders a click train at the given BPM: short sine bursts
// of clickMs duration at freqHz, amplitude amplitude, separated by silence.
func MetronomeInt16(sampleRate int, bpm, durationSec, clickMs, freqHz, amplitude float64) []byte {
	n := int(float64(sampleRate) * durationSec)
	buf := make([]byte, n*2)
	if bpm <= 0 {
		return buf
	}
	period := 60.0 / bpm
	clickSamples := int(clickMs / 1000 * float64(sampleRate))

	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)
		beatPhase := math.Mod(t, period)
		beatSample := int(beatPhase * float64(sampleRate))
		if beatSample < clickSamples {
			env := 1.0
			if clickSamples > 1 {
				env = 1.0 - float64(beatSample)/float64(clickSamples)
			}
			v := amplitude * env * math.Sin(2*math.Pi*freqHz*t)
			putInt16(buf[i*2:], v)
		}
	}
	return buf
}

// ArpeggioInt16 renders a repeating ascending arpeggio over freqsHz, one
// note per beat subdivision, at the given BPM.
func ArpeggioInt16(sampleRate int, freqsHz []float64, bpm, durationSec, amplitude float64) []byte {
	n := int(float64(sampleRate) * durationSec)
	buf := make([]byte, n*2)
	if bpm <= 0 || len(freqsHz) == 0 {
		return buf
	}
	noteDur := 60.0 / bpm / float64(len(freqsHz))

	var phase float64
	var lastFreq = -1.0
	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)
		idx := int(math.Mod(t, noteDur*float64(len(freqsHz))) / noteDur)
		if idx >= len(freqsHz) {
			idx = len(freqsHz) - 1
		}
		f := freqsHz[idx]
		if f != lastFreq {
			phase = 0
			lastFreq = f
		}
		v := amplitude * math.Sin(phase)
		phase += 2 * math.Pi * f / float64(sampleRate)
		putInt16(buf[i*2:], v)
	}
	return buf
}

func putInt16(b []byte, v float64) {
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	binary.LittleEndian.PutUint16(b, uint16(int16(v*32767)))
}
