package audio

import "math"

// sincZeroCrossings is the one-sided kernel width in zero crossings of the
// low-pass sinc.
const sincZeroCrossings = 16

// Resample converts samples from one rate to another with a Hann-windowed
// sinc interpolator. The output holds ceil(len*to/from) samples. When
// downsampling the kernel cutoff drops to the target Nyquist frequency.
func Resample(samples []float64, from, to int) []float64 {
	if from <= 0 || to <= 0 || from == to || len(samples) == 0 {
		out := make([]float64, len(samples))
		copy(out, samples)
		return out
	}

	ratio := float64(to) / float64(from)
	outLen := int(math.Ceil(float64(len(samples)) * ratio))
	cutoff := math.Min(1, ratio)
	halfWidth := sincZeroCrossings / cutoff
	last := len(samples) - 1

	out := make([]float64, outLen)
	for i := range out {
		center := float64(i) / ratio
		lo := max(int(math.Ceil(center-halfWidth)), 0)
		hi := min(int(math.Floor(center+halfWidth)), last)
		var sum float64
		for j := lo; j <= hi; j++ {
			x := float64(j) - center
			sum += samples[j] * cutoff * sinc(cutoff*x) * hann(x/halfWidth)
		}
		out[i] = sum
	}
	return out
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// hann is a Hann window over [-1, 1].
func hann(x float64) float64 {
	if x <= -1 || x >= 1 {
		return 0
	}
	return 0.5 + 0.5*math.Cos(math.Pi*x)
}
