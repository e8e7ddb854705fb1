package mastering

import (
	"fmt"
	"math"

	"github.com/linuxmatters/trackmaster/internal/audio"
)

// Stage names reported through ProgressFunc.
const (
	StageAnalyze   = "analyze"
	StageEQ        = "eq"
	StageCompress  = "compress"
	StageNormalize = "normalize"
	StageLimit     = "limit"
)

// channelStages is the per-channel stage count, used for progress fractions.
const channelStages = 4

// ProgressFunc receives stage-level progress updates from a run.
// channel is -1 for stages that are not per-channel (reference analysis).
type ProgressFunc func(stage string, channel, channels int, progress float64)

// Result is the outcome of one mastering run.
type Result struct {
	Buffer     *audio.Buffer     // Freshly allocated output
	Mode       Mode              // standard or reference-based
	Profile    *ReferenceProfile // nil in standard mode
	InputLUFS  float64           // Estimated loudness before processing
	OutputLUFS float64           // Estimated loudness after processing
}

// Master runs the full chain over a decoded buffer: optional reference
// analysis, channel topology normalisation, resampling to the engine rate,
// then EQ -> compression -> normalisation -> limiting independently per
// channel. The input buffer is never mutated or aliased by the output.
//
// With a reference, the derived profile's loudness target replaces the
// configured one and the compression parameters come from the profile; the
// two target sources never mix within a run.
func Master(signal *audio.Buffer, cfg *Config, reference *audio.Buffer, progress ProgressFunc) (*Result, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := validateBuffer(signal); err != nil {
		return nil, err
	}

	report := func(stage string, channel, channels int, p float64) {
		if progress != nil {
			progress(stage, channel, channels, p)
		}
	}

	var profile *ReferenceProfile
	mode := ModeStandard
	if reference != nil {
		report(StageAnalyze, -1, 0, 0.0)
		ref := reference
		if ref.SampleRate != signal.SampleRate {
			resampled, err := audio.Resample(ref, signal.SampleRate)
			if err != nil {
				return nil, fmt.Errorf("reference resample: %w", err)
			}
			ref = resampled
		}
		p, err := AnalyzeReference(ref)
		if err != nil {
			return nil, err
		}
		profile = p
		mode = ModeReference
		report(StageAnalyze, -1, 0, 1.0)
	}

	work := normalizeTopology(signal)
	if work.SampleRate != cfg.SampleRate {
		resampled, err := audio.Resample(work, cfg.SampleRate)
		if err != nil {
			return nil, fmt.Errorf("input resample: %w", err)
		}
		work = resampled
	}

	targetLUFS := cfg.TargetLUFS
	if profile != nil {
		targetLUFS = profile.TargetLUFS
	}

	inputLUFS := EstimateLUFS(work.MonoMix())

	channels := work.Channels()
	out := &audio.Buffer{
		Data:       make([][]float64, channels),
		SampleRate: work.SampleRate,
	}

	// Channels are processed independently and identically: no linked
	// gain detection, left and right may receive different reduction.
	for ch, channel := range work.Data {
		step := float64(ch * channelStages)
		total := float64(channels * channelStages)

		report(StageEQ, ch, channels, step/total)
		processed := ApplyEQ(channel, work.SampleRate, profile)
		if err := checkFinite(processed, StageEQ); err != nil {
			return nil, err
		}

		report(StageCompress, ch, channels, (step+1)/total)
		processed = ApplyCompression(processed, cfg.CompressionThreshold, cfg.CompressionRatio, profile)
		if err := checkFinite(processed, StageCompress); err != nil {
			return nil, err
		}

		report(StageNormalize, ch, channels, (step+2)/total)
		processed = Normalize(processed, targetLUFS)
		if err := checkFinite(processed, StageNormalize); err != nil {
			return nil, err
		}

		report(StageLimit, ch, channels, (step+3)/total)
		processed = ApplyLimiter(processed, cfg.LimiterCeiling)
		if err := checkFinite(processed, StageLimit); err != nil {
			return nil, err
		}

		out.Data[ch] = processed
	}
	report(StageLimit, channels-1, channels, 1.0)

	return &Result{
		Buffer:     out,
		Mode:       mode,
		Profile:    profile,
		InputLUFS:  inputLUFS,
		OutputLUFS: EstimateLUFS(out.MonoMix()),
	}, nil
}

// validateBuffer rejects buffers the chain cannot process: nil or empty,
// ragged channel rows, bad sample rates, or non-finite samples.
func validateBuffer(buf *audio.Buffer) error {
	if buf == nil || buf.Channels() == 0 || buf.Samples() == 0 {
		return fmt.Errorf("empty buffer: %w", ErrInvalidInput)
	}
	if buf.SampleRate <= 0 {
		return fmt.Errorf("sample rate %d: %w", buf.SampleRate, ErrInvalidInput)
	}
	if !buf.IsRectangular() {
		return fmt.Errorf("channel rows differ in length: %w", ErrInvalidInput)
	}
	if !buf.IsFinite() {
		return fmt.Errorf("non-finite samples: %w", ErrInvalidInput)
	}
	return nil
}

// normalizeTopology truncates buffers with more than two channels to the
// first two. A single-row buffer is already mono in this model, so no
// squeeze step is needed. The returned buffer may share rows with the
// input; stages only read from it.
func normalizeTopology(buf *audio.Buffer) *audio.Buffer {
	if buf.Channels() <= 2 {
		return buf
	}
	return &audio.Buffer{Data: buf.Data[:2], SampleRate: buf.SampleRate}
}

// checkFinite aborts the run if a stage produced NaN or Inf samples.
func checkFinite(signal []float64, stage string) error {
	for _, s := range signal {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return fmt.Errorf("%s stage produced non-finite samples: %w", stage, ErrNumericOverflow)
		}
	}
	return nil
}
