package dsp

import dspcore "github.com/cwbudde/algo-dsp/dsp/core"

// FlushDenormals64 flushes a float64 denormal to zero, delegating to
// dspcore.FlushDenormals. Tempo's BPM EMA and key's HPCP EMA call this after
// every update.
func FlushDenormals64(x float64) float64 {
	return dspcore.FlushDenormals(x)
}
