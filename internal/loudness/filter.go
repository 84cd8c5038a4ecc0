package loudness

import "math"

// biquad is a direct form I second-order IIR section with a0 normalized to 1.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// highShelf is the BS.1770 pre-filter modelling the acoustic effect of the
// head, designed for an arbitrary sample rate.
func highShelf(rate float64) biquad {
	const (
		gainDB = 4.0
		q      = 1 / math.Sqrt2
		fc     = 1500.0
	)
	a := math.Pow(10, gainDB/40)
	w0 := 2 * math.Pi * fc / rate
	alpha := math.Sin(w0) / (2 * q)
	cosw := math.Cos(w0)
	sqrtA := math.Sqrt(a)

	b0 := a * ((a + 1) + (a-1)*cosw + 2*sqrtA*alpha)
	b1 := -2 * a * ((a - 1) + (a+1)*cosw)
	b2 := a * ((a + 1) + (a-1)*cosw - 2*sqrtA*alpha)
	a0 := (a + 1) - (a-1)*cosw + 2*sqrtA*alpha
	a1 := 2 * ((a - 1) - (a+1)*cosw)
	a2 := (a + 1) - (a-1)*cosw - 2*sqrtA*alpha
	return biquad{b0: b0 / a0, b1: b1 / a0, b2: b2 / a0, a1: a1 / a0, a2: a2 / a0}
}

// highPass is the BS.1770 RLB weighting curve.
func highPass(rate float64) biquad {
	const (
		q  = 0.5
		fc = 38.0
	)
	w0 := 2 * math.Pi * fc / rate
	alpha := math.Sin(w0) / (2 * q)
	cosw := math.Cos(w0)

	b0 := (1 + cosw) / 2
	b1 := -(1 + cosw)
	b2 := (1 + cosw) / 2
	a0 := 1 + alpha
	a1 := -2 * cosw
	a2 := 1 - alpha
	return biquad{b0: b0 / a0, b1: b1 / a0, b2: b2 / a0, a1: a1 / a0, a2: a2 / a0}
}

func (f biquad) apply(in []float64) []float64 {
	out := make([]float64, len(in))
	var x1, x2, y1, y2 float64
	for i, x := range in {
		y := f.b0*x + f.b1*x1 + f.b2*x2 - f.a1*y1 - f.a2*y2
		out[i] = y
		x2, x1 = x1, x
		y2, y1 = y1, y
	}
	return out
}
