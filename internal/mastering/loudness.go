package mastering

import "math"

// Loudness constants.
const (
	// lufsOffset converts the RMS log measure to the LUFS approximation
	// used throughout the chain. This is not a k-weighted, gated meter;
	// downstream gain maths depends on this exact estimate.
	lufsOffset = 0.691

	// clipGuardPeak is the post-normalisation peak ceiling. Independent
	// of, and applied before, the limiter stage.
	clipGuardPeak = 0.95

	// silenceEpsilon keeps the reference analyzer's loudness estimate
	// finite on silence. The standalone estimator below deliberately
	// omits it; see estimateLUFSGuarded.
	silenceEpsilon = 1e-10
)

// rms returns the root-mean-square level of the signal, 0 for an empty one.
func rms(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	var sum float64
	for _, s := range signal {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(signal)))
}

// peak returns the largest absolute sample value.
func peak(signal []float64) float64 {
	var p float64
	for _, s := range signal {
		if a := math.Abs(s); a > p {
			p = a
		}
	}
	return p
}

// EstimateLUFS approximates the integrated loudness of a signal as
// 20*log10(rms) - 0.691. Silence yields -Inf; callers that cannot handle
// that must short-circuit before calling (see Normalize).
func EstimateLUFS(signal []float64) float64 {
	return 20.0*math.Log10(rms(signal)) - lufsOffset
}

// estimateLUFSGuarded is the reference-analyzer variant: an epsilon keeps
// the log finite on silence. Kept separate from EstimateLUFS because the
// two estimates intentionally differ for near-silent input and unifying
// them would shift derived targets.
func estimateLUFSGuarded(signal []float64) float64 {
	return 20.0*math.Log10(rms(signal)+silenceEpsilon) - lufsOffset
}

// Normalize scales the signal to the target loudness and guards the
// result against clipping: if the scaled peak exceeds 0.95 the whole
// buffer is rescaled so the peak lands exactly there. A zero-RMS signal
// is returned unchanged since its gain would be infinite.
func Normalize(signal []float64, targetLUFS float64) []float64 {
	level := rms(signal)
	if level == 0 {
		return append([]float64(nil), signal...)
	}

	gainDB := targetLUFS - (20.0*math.Log10(level) - lufsOffset)
	gain := DbToLinear(gainDB)

	out := make([]float64, len(signal))
	for i, s := range signal {
		out[i] = s * gain
	}

	if p := peak(out); p > clipGuardPeak {
		rescale := clipGuardPeak / p
		for i := range out {
			out[i] *= rescale
		}
	}
	return out
}

// NormalizePeak scales the signal so its absolute peak is exactly 0.95.
// Silence is returned unchanged. Exposed for callers that want peak
// alignment without loudness targeting.
func NormalizePeak(signal []float64) []float64 {
	p := peak(signal)
	if p == 0 {
		return append([]float64(nil), signal...)
	}
	gain := clipGuardPeak / p
	out := make([]float64, len(signal))
	for i, s := range signal {
		out[i] = s * gain
	}
	return out
}
