package mastering

import "math"

// Profile-derived compression threshold bounds. Lower dynamic range in the
// reference means a higher threshold (less headroom before reduction).
const (
	profileThresholdBase  = 0.9
	profileThresholdScale = 40.0 // Full dynamic-range clamp span in dB
	profileThresholdMin   = 0.3
	profileThresholdMax   = 0.8
)

// ApplyCompression reduces dynamic range above a linear threshold with a
// static per-sample gain curve: no attack, no release, no inter-sample
// state. When a profile is supplied its compression ratio is used and the
// threshold is derived from its dynamic range.
func ApplyCompression(signal []float64, threshold, ratio float64, profile *ReferenceProfile) []float64 {
	if profile != nil {
		ratio = profile.CompressionRatio
		threshold = clamp(
			profileThresholdBase-profile.DynamicRange/profileThresholdScale,
			profileThresholdMin, profileThresholdMax)
	}

	out := make([]float64, len(signal))
	for i, s := range signal {
		mag := math.Abs(s)
		if mag <= threshold {
			out[i] = s
			continue
		}
		reduced := threshold + (mag-threshold)/ratio
		out[i] = math.Copysign(reduced, s)
	}
	return out
}

// ApplyLimiter hard-clamps every sample to [-ceiling, ceiling]. Stateless
// and idempotent; fast transients simply clip.
func ApplyLimiter(signal []float64, ceiling float64) []float64 {
	out := make([]float64, len(signal))
	for i, s := range signal {
		out[i] = clamp(s, -ceiling, ceiling)
	}
	return out
}
