// Package mastering implements the audio mastering engine: the per-stage
// processing chain (EQ, compression, loudness normalisation, limiting) and
// the reference-track analyzer that derives chain parameters from a
// reference recording.
package mastering

import "math"

// Mode identifies where a run's loudness and dynamics targets came from.
type Mode string

// Mastering modes. A run uses exactly one: targets never mix sources.
const (
	ModeStandard  Mode = "standard"        // Fixed Config targets
	ModeReference Mode = "reference-based" // Targets derived from a reference track
)

// Processing defaults. These mirror the behaviour of the chain on typical
// music content and are only overridden per run, never mutated in place.
const (
	// DefaultTargetLUFS is the streaming-platform loudness target.
	DefaultTargetLUFS = -14.0

	// DefaultCompressionThreshold is the linear level above which the
	// compressor reduces gain.
	DefaultCompressionThreshold = 0.7

	// DefaultCompressionRatio is the gain reduction slope above threshold.
	DefaultCompressionRatio = 3.0

	// DefaultLimiterCeiling is the hard peak clamp applied as the final stage.
	DefaultLimiterCeiling = 0.95

	// DefaultSampleRate is the engine's processing rate. Input at any other
	// rate is resampled before the chain runs.
	DefaultSampleRate = 44100
)

// Config holds the parameters for one mastering run. Immutable once the
// run starts; reference mode substitutes profile-derived values at each
// stage without writing them back here.
type Config struct {
	TargetLUFS           float64 // Loudness target for normalisation (LUFS)
	CompressionThreshold float64 // Linear threshold in (0, 1]
	CompressionRatio     float64 // Ratio >= 1.0
	LimiterCeiling       float64 // Linear ceiling in (0, 1]
	SampleRate           int     // Engine processing rate (Hz)
}

// DefaultConfig returns the standard mastering configuration.
func DefaultConfig() *Config {
	return &Config{
		TargetLUFS:           DefaultTargetLUFS,
		CompressionThreshold: DefaultCompressionThreshold,
		CompressionRatio:     DefaultCompressionRatio,
		LimiterCeiling:       DefaultLimiterCeiling,
		SampleRate:           DefaultSampleRate,
	}
}

// DbToLinear converts a decibel value to linear amplitude.
func DbToLinear(db float64) float64 {
	return math.Pow(10, db/20.0)
}

// LinearToDb converts linear amplitude to decibels.
// Inverse of DbToLinear.
func LinearToDb(linear float64) float64 {
	if linear <= 0 {
		return -120.0 // Practical floor for audio
	}
	return 20.0 * math.Log10(linear)
}

// clamp restricts val to the range [min, max]
func clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// sanitizeFloat returns defaultVal if val is NaN or Inf
func sanitizeFloat(val, defaultVal float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return defaultVal
	}
	return val
}
