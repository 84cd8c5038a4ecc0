package audio

import "time"

// Signal is a mono sequence of floating-point samples at a fixed rate. Samples
// are nominally in [-1, 1].
type Signal struct {
	Samples    []float64
	SampleRate int
}

// Len returns the number of samples.
func (s Signal) Len() int { return len(s.Samples) }

// Duration returns the signal length in time.
func (s Signal) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(s.Samples)) / float64(s.SampleRate) * float64(time.Second))
}

// Clone returns a deep copy of the signal.
func (s Signal) Clone() Signal {
	out := make([]float64, len(s.Samples))
	copy(out, s.Samples)
	return Signal{Samples: out, SampleRate: s.SampleRate}
}
