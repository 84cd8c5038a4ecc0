package testsupport

import (
	"math"
	"testing"

	"mixprep/internal/audio"
)

// Sine builds a mono sine wave.
func Sine(freq float64, rate int, seconds, amp float64) audio.Signal {
	n := int(math.Round(float64(rate) * seconds))
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return audio.Signal{Samples: samples, SampleRate: rate}
}

// WriteWAV encodes sig as 16-bit PCM at path.
func WriteWAV(t testing.TB, path string, sig audio.Signal) {
	t.Helper()

	if err := audio.Write(path, sig); err != nil {
		t.Fatalf("write wav %s: %v", path, err)
	}
}
