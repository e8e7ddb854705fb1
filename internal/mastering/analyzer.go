package mastering

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"

	"github.com/linuxmatters/trackmaster/internal/audio"
)

// Analysis constants.
const (
	// Short-time Fourier analysis framing.
	stftWindowSize = 2048
	stftHopSize    = 512

	// rolloffEnergyShare is the cumulative-magnitude fraction defining
	// the spectral rolloff frequency.
	rolloffEnergyShare = 0.85

	// Band-energy split points.
	lowBandHz  = 500.0
	highBandHz = 5000.0

	// Dynamic range: percentile spread of the rectified signal, in dB.
	drLowPercentile  = 0.10
	drHighPercentile = 0.95
	drMaxDB          = 40.0

	// Compression ratio derivation from the crest factor (peak/RMS).
	// A less compressed source (high crest) maps to a low target ratio.
	crestRatioNumerator  = 15.0
	compressionRatioMin  = 1.0
	compressionRatioMax  = 10.0
	compressionRatioDflt = 3.0 // Fallback for silent references
)

// ReferenceProfile captures the mastering-relevant characteristics of a
// reference track. Computed once per run, read-only afterwards.
type ReferenceProfile struct {
	TargetLUFS       float64 `json:"target_lufs"`       // Loudness to master towards
	DynamicRange     float64 `json:"dynamic_range"`     // dB, clamped [0, 40]
	PeakLevel        float64 `json:"peak_level"`        // Linear, [0, 1]
	SpectralCentroid float64 `json:"spectral_centroid"` // Hz, brightness
	SpectralRolloff  float64 `json:"spectral_rolloff"`  // Hz, 85% energy point
	HighFreqEnergy   float64 `json:"high_freq_energy"`  // Mean magnitude > 5 kHz
	LowFreqEnergy    float64 `json:"low_freq_energy"`   // Mean magnitude < 500 Hz
	CompressionRatio float64 `json:"compression_ratio"` // Clamped [1, 10]
}

// AnalyzeReference derives a mastering profile from a reference buffer.
// Multi-channel input is down-mixed to mono (mean across channels) first.
func AnalyzeReference(buf *audio.Buffer) (*ReferenceProfile, error) {
	if err := validateBuffer(buf); err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}

	mono := buf.MonoMix()
	stats := spectralProfile(mono, buf.SampleRate)

	profile := &ReferenceProfile{
		TargetLUFS:       estimateLUFSGuarded(mono),
		DynamicRange:     dynamicRange(mono),
		PeakLevel:        peak(mono),
		SpectralCentroid: stats.centroid,
		SpectralRolloff:  stats.rolloff,
		HighFreqEnergy:   stats.highEnergy,
		LowFreqEnergy:    stats.lowEnergy,
		CompressionRatio: deriveCompressionRatio(mono),
	}

	// Every profile field feeds downstream gain maths and must be finite.
	profile.SpectralCentroid = sanitizeFloat(profile.SpectralCentroid, 0)
	profile.SpectralRolloff = sanitizeFloat(profile.SpectralRolloff, 0)

	return profile, nil
}

// dynamicRange measures the dB spread between the loud (p95) and quiet
// (p10) percentiles of the rectified signal. A coarse crest-over-time
// proxy, not a loudness-range measurement.
func dynamicRange(signal []float64) float64 {
	rectified := make([]float64, len(signal))
	for i, s := range signal {
		rectified[i] = math.Abs(s)
	}
	sort.Float64s(rectified)

	loud := stat.Quantile(drHighPercentile, stat.Empirical, rectified, nil)
	quiet := stat.Quantile(drLowPercentile, stat.Empirical, rectified, nil)

	spread := 20.0 * math.Log10((loud+silenceEpsilon)/(quiet+silenceEpsilon))
	return clamp(spread, 0, drMaxDB)
}

// deriveCompressionRatio maps the signal's crest factor to a target
// compression ratio, clamped to [1, 10]. Silent signals fall back to the
// default ratio.
func deriveCompressionRatio(signal []float64) float64 {
	level := rms(signal)
	if level == 0 {
		return compressionRatioDflt
	}
	crest := peak(signal) / level
	return clamp(crestRatioNumerator/crest, compressionRatioMin, compressionRatioMax)
}

// spectralStats holds the frame-averaged spectrum statistics shared by the
// analyzer and the reference-mode EQ comparison.
type spectralStats struct {
	centroid   float64
	rolloff    float64
	lowEnergy  float64
	highEnergy float64
}

// spectralAccumulator averages spectral statistics across STFT frames,
// following the same accumulate-then-divide pattern as the band sums.
type spectralAccumulator struct {
	centroidSum float64
	rolloffSum  float64
	lowSum      float64
	highSum     float64
	frames      int
}

// spectralProfile computes frame-averaged centroid, rolloff, and band
// energies over a Hann-windowed STFT. Signals shorter than one window are
// analysed as a single zero-padded frame.
func spectralProfile(signal []float64, sampleRate int) spectralStats {
	win := window.Hann(stftWindowSize)
	fft := fourier.NewFFT(stftWindowSize)
	freqRes := float64(sampleRate) / float64(stftWindowSize)

	// Bin counts per band are fixed by the sample rate, so count once.
	bins := stftWindowSize/2 + 1
	var lowBins, highBins int
	for k := 0; k < bins; k++ {
		freq := float64(k) * freqRes
		if freq < lowBandHz {
			lowBins++
		} else if freq > highBandHz {
			highBins++
		}
	}

	var acc spectralAccumulator
	frame := make([]float64, stftWindowSize)
	mags := make([]float64, bins)

	analyzeFrame := func(src []float64) {
		for i := range frame {
			if i < len(src) {
				frame[i] = src[i] * win[i]
			} else {
				frame[i] = 0
			}
		}
		coeffs := fft.Coefficients(nil, frame)

		var magSum, weightedSum float64
		for k, c := range coeffs {
			m := cmplx.Abs(c)
			mags[k] = m
			magSum += m
			freq := float64(k) * freqRes
			weightedSum += freq * m
			if freq < lowBandHz {
				acc.lowSum += m
			} else if freq > highBandHz {
				acc.highSum += m
			}
		}

		if magSum > 0 {
			acc.centroidSum += weightedSum / magSum

			target := rolloffEnergyShare * magSum
			var cumulative float64
			for k, m := range mags {
				cumulative += m
				if cumulative >= target {
					acc.rolloffSum += float64(k) * freqRes
					break
				}
			}
		}
		acc.frames++
	}

	if len(signal) < stftWindowSize {
		analyzeFrame(signal)
	} else {
		for start := 0; start+stftWindowSize <= len(signal); start += stftHopSize {
			analyzeFrame(signal[start : start+stftWindowSize])
		}
	}

	n := float64(acc.frames)
	stats := spectralStats{
		centroid: acc.centroidSum / n,
		rolloff:  acc.rolloffSum / n,
	}
	if lowBins > 0 {
		stats.lowEnergy = acc.lowSum / (float64(lowBins) * n)
	}
	if highBins > 0 {
		stats.highEnergy = acc.highSum / (float64(highBins) * n)
	}
	return stats
}
