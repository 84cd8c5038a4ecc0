package loudness

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"mixprep/internal/audio"
)

// Result describes one normalization.
type Result struct {
	// Measured is the input's integrated loudness in LUFS, -Inf when silent.
	Measured float64
	// Gain is the linear factor applied to every sample.
	Gain float64
	// Skipped is set when the input was too quiet to measure and passed
	// through unchanged.
	Skipped bool
}

// Normalize rescales sig so its integrated loudness equals target LUFS. Input
// whose loudness cannot be measured (silent or near-silent, -Inf LUFS) is
// returned unchanged with Result.Skipped set instead of being multiplied by an
// infinite gain.
func Normalize(sig audio.Signal, target float64) (audio.Signal, Result) {
	measured := NewMeter(sig.SampleRate).Integrated(sig.Samples)
	if math.IsInf(measured, 0) || math.IsNaN(measured) {
		return sig.Clone(), Result{Measured: measured, Gain: 1, Skipped: true}
	}
	gain := math.Pow(10, (target-measured)/20)
	out := sig.Clone()
	floats.Scale(gain, out.Samples)
	return out, Result{Measured: measured, Gain: gain}
}

// Measure returns the integrated loudness of sig in LUFS.
func Measure(sig audio.Signal) float64 {
	return NewMeter(sig.SampleRate).Integrated(sig.Samples)
}
