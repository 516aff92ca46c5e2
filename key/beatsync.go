package key

import "github.com/bdidthis/harmoniq-sub001/model"

// beatSync accumulates instantaneous chroma across one beat and runs the
// learned-model branch on the flushed sum, bypassing smoothing and the
// display lock by design: a beat-synchronous re-estimate is meant to react
// immediately to the new beat, not lag behind the temporal smoother.
type beatSync struct {
	bpm      float64
	accum    [12]float64
	beatT    float64
	hasBeat  bool
	frames   int

	Label      string
	Confidence float64
}

func newBeatSync() *beatSync {
	return &beatSync{Label: noLabel}
}

// setBPM installs an externally driven beat tempo; bpm <= 0 disables the
// beat-synchronous branch entirely.
func (b *beatSync) setBPM(bpm float64) {
	b.bpm = bpm
	b.hasBeat = bpm > 0
}

// advance folds one frame's instantaneous chroma into the running sum and
// flushes + re-infers whenever a full beat period has elapsed.
func (b *beatSync) advance(chromaInst []float64, hop, sampleRate int, adapter model.Adapter) {
	if !b.hasBeat {
		return
	}
	for i := 0; i < 12 && i < len(chromaInst); i++ {
		b.accum[i] += chromaInst[i]
	}
	b.frames++
	b.beatT += float64(hop) / float64(sampleRate)

	period := 60.0 / b.bpm
	if b.beatT < period {
		return
	}

	normalized := normalizeChroma(b.accum[:])
	probs, _ := inferLearned(adapter, normalized, false)
	idx, _ := top1And3(probs)
	b.Label = Labels[idx]
	b.Confidence = probs[idx]

	b.accum = [12]float64{}
	b.frames = 0
	b.beatT -= period
}

func (b *beatSync) reset() {
	b.bpm = 0
	b.hasBeat = false
	b.accum = [12]float64{}
	b.beatT = 0
	b.frames = 0
	b.Label = noLabel
	b.Confidence = 0
}
