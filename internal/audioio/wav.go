// Package audioio decodes WAV files to mono float64 PCM and resamples them
// to an analyzer's configured sample rate. It exists only behind the cmd/
// front-ends: the core analyzers never parse WAV headers themselves.
package audioio

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	dspresample "github.com/cwbudde/algo-dsp/dsp/resample"
	"github.com/cwbudde/wav"
)

// ReadMono decodes a WAV file at path into mono float64 samples in [-1,1],
// averaging channels, alongside the file's native sample rate.
func ReadMono(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("audioio: invalid wav file: %s", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, err
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, 0, fmt.Errorf("audioio: invalid wav buffer: %s", path)
	}

	ch := buf.Format.NumChannels
	frames := len(buf.Data) / ch
	out := make([]float64, frames)
	peak := 1 << (uint(buf.SourceBitDepth) - 1)
	if buf.SourceBitDepth == 0 {
		peak = 1 << 15
	}
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < ch; c++ {
			sum += float64(buf.Data[i*ch+c])
		}
		out[i] = (sum / float64(ch)) / float64(peak)
	}
	return out, buf.Format.SampleRate, nil
}

// ResampleIfNeeded resamples in from fromRate to toRate, passing it through
// unchanged when the rates already match.
func ResampleIfNeeded(in []float64, fromRate, toRate int) ([]float64, error) {
	if fromRate == toRate {
		return in, nil
	}
	r, err := dspresample.NewForRates(
		float64(fromRate),
		float64(toRate),
		dspresample.WithQuality(dspresample.QualityBest),
	)
	if err != nil {
		return nil, err
	}
	return r.Process(in), nil
}

// EncodeFloat32LE packs mono float64 samples into little-endian float32 PCM
// bytes, the format both analyzers' AddBytes accepts.
func EncodeFloat32LE(samples []float64) []byte {
	buf := make([]byte, len(samples)*4)
	for i, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		bits := math.Float32bits(float32(v))
		binary.LittleEndian.PutUint32(buf[i*4:], bits)
	}
	return buf
}
