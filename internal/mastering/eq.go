package mastering

import "math"

// EQ stage constants.
const (
	// highpassCutoffHz removes sub-sonic content on every run.
	highpassCutoffHz = 30.0

	// Standard-mode presence boost: band-passed signal summed back in.
	presenceLowHz  = 8000.0
	presenceHighHz = 16000.0
	presenceGain   = 0.1

	// Reference-mode high-frequency matching.
	hfBoostLowHz  = 6000.0
	hfBoostHighHz = 16000.0
	hfRatioBoost  = 1.2 // Above: reference is brighter, boost highs
	hfRatioDull   = 0.8 // Below: reference is duller, low-pass the signal
	hfBoostMax    = 0.2
	hfBoostScale  = 0.1
	dullLowpassHz = 8000.0

	// Reference-mode low-frequency matching.
	lfBoostLowHz  = 80.0
	lfBoostHighHz = 300.0
	lfRatioBoost  = 1.2
	lfBoostMax    = 0.15
	lfBoostScale  = 0.1

	// butterworthQ gives a maximally flat 2nd-order passband.
	butterworthQ = 0.7071

	// ratioEpsilon guards band-energy ratios against division by zero.
	ratioEpsilon = 1e-10

	// nyquistGuard caps filter corner frequencies below Nyquist so
	// coefficient design stays stable at low sample rates.
	nyquistGuard = 0.45
)

// biquad holds normalised 2nd-order IIR coefficients.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// filter runs the biquad over signal in direct form I and returns a new
// slice. State starts at zero, matching a causal one-shot filter pass.
func (f *biquad) filter(signal []float64) []float64 {
	out := make([]float64, len(signal))
	var x1, x2, y1, y2 float64
	for i, x := range signal {
		y := f.b0*x + f.b1*x1 + f.b2*x2 - f.a1*y1 - f.a2*y2
		out[i] = y
		x2, x1 = x1, x
		y2, y1 = y1, y
	}
	return out
}

// clampCorner limits a corner frequency to the stable design range for the
// given sample rate.
func clampCorner(freq float64, sampleRate int) float64 {
	limit := nyquistGuard * float64(sampleRate)
	if freq > limit {
		return limit
	}
	return freq
}

// newHighpass designs a 2nd-order Butterworth-response high-pass filter.
func newHighpass(freq float64, sampleRate int) *biquad {
	omega := 2.0 * math.Pi * clampCorner(freq, sampleRate) / float64(sampleRate)
	sn, cs := math.Sin(omega), math.Cos(omega)
	alpha := sn / (2.0 * butterworthQ)
	norm := 1.0 / (1.0 + alpha)

	return &biquad{
		b0: norm * (1.0 + cs) / 2.0,
		b1: -norm * (1.0 + cs),
		b2: norm * (1.0 + cs) / 2.0,
		a1: -2.0 * cs * norm,
		a2: (1.0 - alpha) * norm,
	}
}

// newLowpass designs a 2nd-order Butterworth-response low-pass filter.
func newLowpass(freq float64, sampleRate int) *biquad {
	omega := 2.0 * math.Pi * clampCorner(freq, sampleRate) / float64(sampleRate)
	sn, cs := math.Sin(omega), math.Cos(omega)
	alpha := sn / (2.0 * butterworthQ)
	norm := 1.0 / (1.0 + alpha)

	return &biquad{
		b0: norm * (1.0 - cs) / 2.0,
		b1: norm * (1.0 - cs),
		b2: norm * (1.0 - cs) / 2.0,
		a1: -2.0 * cs * norm,
		a2: (1.0 - alpha) * norm,
	}
}

// newBandpass designs a 2nd-order band-pass filter for the band [low, high].
// Centre frequency is the geometric mean of the edges; Q follows from the
// bandwidth, giving unity gain at the centre.
func newBandpass(low, high float64, sampleRate int) *biquad {
	low = clampCorner(low, sampleRate)
	high = clampCorner(high, sampleRate)
	centre := math.Sqrt(low * high)
	q := centre / (high - low)

	omega := 2.0 * math.Pi * centre / float64(sampleRate)
	sn, cs := math.Sin(omega), math.Cos(omega)
	alpha := sn / (2.0 * q)
	norm := 1.0 / (1.0 + alpha)

	return &biquad{
		b0: alpha * norm,
		b1: 0,
		b2: -alpha * norm,
		a1: -2.0 * cs * norm,
		a2: (1.0 - alpha) * norm,
	}
}

// ApplyEQ shapes the frequency content of one channel. The 30 Hz high-pass
// always runs. Without a profile a gentle presence boost is summed in;
// with a profile the signal's band energies are compared against the
// reference and the matching boost (or, for a much duller reference, a
// destructive low-pass) is applied.
func ApplyEQ(signal []float64, sampleRate int, profile *ReferenceProfile) []float64 {
	out := newHighpass(highpassCutoffHz, sampleRate).filter(signal)

	if profile == nil {
		presence := newBandpass(presenceLowHz, presenceHighHz, sampleRate).filter(out)
		for i := range out {
			out[i] += presence[i] * presenceGain
		}
		return out
	}

	current := spectralProfile(out, sampleRate)

	hfRatio := profile.HighFreqEnergy / (current.highEnergy + ratioEpsilon)
	switch {
	case hfRatio > hfRatioBoost:
		// Reference is brighter: additive boost scaled by the gap.
		gain := math.Min(hfBoostMax, (hfRatio-1.0)*hfBoostScale)
		boost := newBandpass(hfBoostLowHz, hfBoostHighHz, sampleRate).filter(out)
		for i := range out {
			out[i] += boost[i] * gain
		}
	case hfRatio < hfRatioDull:
		// Reference is much duller: the low-pass replaces the signal
		// rather than summing in like the boost branches.
		out = newLowpass(dullLowpassHz, sampleRate).filter(out)
	}

	lfRatio := profile.LowFreqEnergy / (current.lowEnergy + ratioEpsilon)
	if lfRatio > lfRatioBoost {
		gain := math.Min(lfBoostMax, (lfRatio-1.0)*lfBoostScale)
		boost := newBandpass(lfBoostLowHz, lfBoostHighHz, sampleRate).filter(out)
		for i := range out {
			out[i] += boost[i] * gain
		}
	}

	return out
}
