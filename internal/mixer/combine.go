package mixer

import (
	"gonum.org/v1/gonum/floats"

	"mixprep/internal/audio"
)

// Combine averages signals sample by sample. Shorter signals are padded with
// trailing silence up to the longest one; nothing is truncated. The result
// takes the first signal's sample rate and is not peak limited, so correlated
// stems can still exceed full scale.
func Combine(signals []audio.Signal) audio.Signal {
	if len(signals) == 0 {
		return audio.Signal{}
	}
	length := 0
	for _, sig := range signals {
		length = max(length, sig.Len())
	}
	sum := make([]float64, length)
	for _, sig := range signals {
		floats.Add(sum[:sig.Len()], sig.Samples)
	}
	floats.Scale(1/float64(len(signals)), sum)
	return audio.Signal{Samples: sum, SampleRate: signals[0].SampleRate}
}
