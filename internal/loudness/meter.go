package loudness

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// DefaultTargetLUFS is the integrated loudness every stem is normalized to.
	DefaultTargetLUFS = -23.0

	blockSeconds   = 0.400
	blockOverlap   = 0.75
	absoluteGate   = -70.0
	relativeGateLU = -10.0
	loudnessOffset = -0.691
)

// Meter measures integrated loudness following ITU-R BS.1770-4 for mono input.
type Meter struct {
	rate  int
	shelf biquad
	pass  biquad
}

// NewMeter builds a meter whose K-weighting filters are designed for rate.
func NewMeter(rate int) *Meter {
	r := float64(rate)
	return &Meter{rate: rate, shelf: highShelf(r), pass: highPass(r)}
}

// Integrated returns the gated integrated loudness of samples in LUFS. It
// returns -Inf when no block passes the absolute gate, which is the case for
// silent and near-silent input. Input shorter than one gating block is
// measured as a single block.
func (m *Meter) Integrated(samples []float64) float64 {
	if len(samples) == 0 || m.rate <= 0 {
		return math.Inf(-1)
	}
	weighted := m.pass.apply(m.shelf.apply(samples))

	powers := blockPowers(weighted, m.rate)
	if len(powers) == 0 {
		return math.Inf(-1)
	}

	gated := gate(powers, absoluteGate)
	if len(gated) == 0 {
		return math.Inf(-1)
	}
	relative := blockLoudness(floats.Sum(gated)/float64(len(gated))) + relativeGateLU
	threshold := math.Max(relative, absoluteGate)

	gated = gateAbove(powers, threshold)
	if len(gated) == 0 {
		return math.Inf(-1)
	}
	return blockLoudness(floats.Sum(gated) / float64(len(gated)))
}

// blockPowers returns the mean square of each 400 ms block, stepped by 100 ms.
func blockPowers(weighted []float64, rate int) []float64 {
	blockLen := int(blockSeconds * float64(rate))
	if blockLen <= 0 {
		return nil
	}
	if len(weighted) < blockLen {
		return []float64{floats.Dot(weighted, weighted) / float64(len(weighted))}
	}
	step := int(blockSeconds * (1 - blockOverlap) * float64(rate))
	if step <= 0 {
		step = 1
	}
	powers := make([]float64, 0, (len(weighted)-blockLen)/step+1)
	for start := 0; start+blockLen <= len(weighted); start += step {
		block := weighted[start : start+blockLen]
		powers = append(powers, floats.Dot(block, block)/float64(blockLen))
	}
	return powers
}

// gate keeps blocks whose loudness is at least threshold.
func gate(powers []float64, threshold float64) []float64 {
	out := make([]float64, 0, len(powers))
	for _, p := range powers {
		if blockLoudness(p) >= threshold {
			out = append(out, p)
		}
	}
	return out
}

// gateAbove keeps blocks whose loudness is strictly above threshold.
func gateAbove(powers []float64, threshold float64) []float64 {
	out := make([]float64, 0, len(powers))
	for _, p := range powers {
		if blockLoudness(p) > threshold {
			out = append(out, p)
		}
	}
	return out
}

func blockLoudness(power float64) float64 {
	if power <= 0 {
		return math.Inf(-1)
	}
	return loudnessOffset + 10*math.Log10(power)
}
