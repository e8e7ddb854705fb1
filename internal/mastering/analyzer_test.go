package mastering

import (
	"errors"
	"math"
	"testing"
)

func TestAnalyzeReferenceSine(t *testing.T) {
	buf := makeBuffer(makeSine(440, 0.3, 2.0, testSampleRate))
	profile, err := AnalyzeReference(buf)
	if err != nil {
		t.Fatalf("AnalyzeReference failed: %v", err)
	}

	// rms = 0.3/sqrt(2), guarded estimate within rounding of the raw one.
	wantLUFS := 20.0*math.Log10(0.3/math.Sqrt2) - 0.691
	if math.Abs(profile.TargetLUFS-wantLUFS) > 0.2 {
		t.Errorf("TargetLUFS = %v, want %v ± 0.2", profile.TargetLUFS, wantLUFS)
	}

	if math.Abs(profile.PeakLevel-0.3) > 0.01 {
		t.Errorf("PeakLevel = %v, want ~0.3", profile.PeakLevel)
	}

	// Sine crest factor is sqrt(2), so 15/1.414 clamps to the maximum.
	if profile.CompressionRatio != 10.0 {
		t.Errorf("CompressionRatio = %v, want 10.0", profile.CompressionRatio)
	}

	// A 440 Hz tone concentrates energy well below the band split.
	if profile.SpectralCentroid < 200 || profile.SpectralCentroid > 2500 {
		t.Errorf("SpectralCentroid = %v Hz, want a low-frequency value", profile.SpectralCentroid)
	}
	if profile.SpectralRolloff > 3000 {
		t.Errorf("SpectralRolloff = %v Hz, want below 3000 for a 440 Hz tone", profile.SpectralRolloff)
	}
	if profile.LowFreqEnergy <= profile.HighFreqEnergy {
		t.Errorf("LowFreqEnergy %v should exceed HighFreqEnergy %v for a 440 Hz tone",
			profile.LowFreqEnergy, profile.HighFreqEnergy)
	}
}

func TestAnalyzeReferenceBrightSignal(t *testing.T) {
	buf := makeBuffer(makeSine(9000, 0.3, 1.0, testSampleRate))
	profile, err := AnalyzeReference(buf)
	if err != nil {
		t.Fatalf("AnalyzeReference failed: %v", err)
	}

	if profile.HighFreqEnergy <= profile.LowFreqEnergy {
		t.Errorf("HighFreqEnergy %v should exceed LowFreqEnergy %v for a 9 kHz tone",
			profile.HighFreqEnergy, profile.LowFreqEnergy)
	}
	if profile.SpectralCentroid < 5000 {
		t.Errorf("SpectralCentroid = %v Hz, want above 5000 for a 9 kHz tone", profile.SpectralCentroid)
	}
}

func TestAnalyzeReferenceSilence(t *testing.T) {
	buf := makeBuffer(makeSilence(testSampleRate))
	profile, err := AnalyzeReference(buf)
	if err != nil {
		t.Fatalf("AnalyzeReference failed: %v", err)
	}

	if profile.CompressionRatio != 3.0 {
		t.Errorf("CompressionRatio = %v, want fallback 3.0 for silence", profile.CompressionRatio)
	}
	if profile.DynamicRange != 0 {
		t.Errorf("DynamicRange = %v, want 0 for silence", profile.DynamicRange)
	}
	if profile.PeakLevel != 0 {
		t.Errorf("PeakLevel = %v, want 0", profile.PeakLevel)
	}
	if math.IsInf(profile.TargetLUFS, 0) || math.IsNaN(profile.TargetLUFS) {
		t.Errorf("TargetLUFS = %v, want finite (epsilon-guarded estimate)", profile.TargetLUFS)
	}
}

func TestAnalyzeReferenceClamps(t *testing.T) {
	tests := []struct {
		name   string
		signal []float64
	}{
		{name: "white noise", signal: makeNoise(0.5, 2 * testSampleRate)},
		{name: "quiet noise", signal: makeNoise(0.001, testSampleRate)},
		{name: "sine", signal: makeSine(1000, 0.8, 1.0, testSampleRate)},
		{name: "impulsive", signal: append(makeSilence(testSampleRate), makeSine(440, 0.9, 0.01, testSampleRate)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := AnalyzeReference(makeBuffer(tt.signal))
			if err != nil {
				t.Fatalf("AnalyzeReference failed: %v", err)
			}
			if profile.DynamicRange < 0 || profile.DynamicRange > 40 {
				t.Errorf("DynamicRange = %v, want within [0, 40]", profile.DynamicRange)
			}
			if profile.CompressionRatio < 1 || profile.CompressionRatio > 10 {
				t.Errorf("CompressionRatio = %v, want within [1, 10]", profile.CompressionRatio)
			}
		})
	}
}

func TestAnalyzeReferenceStereoDownmix(t *testing.T) {
	// Opposite-phase channels cancel in the mono mix, so the profile sees
	// silence even though each channel is loud.
	left := makeSine(440, 0.5, 1.0, testSampleRate)
	right := make([]float64, len(left))
	for i, s := range left {
		right[i] = -s
	}

	profile, err := AnalyzeReference(makeBuffer(left, right))
	if err != nil {
		t.Fatalf("AnalyzeReference failed: %v", err)
	}
	if profile.PeakLevel > 1e-12 {
		t.Errorf("PeakLevel = %v, want ~0 after cancelling downmix", profile.PeakLevel)
	}
	if profile.CompressionRatio != 3.0 {
		t.Errorf("CompressionRatio = %v, want silence fallback 3.0", profile.CompressionRatio)
	}
}

func TestAnalyzeReferenceInvalidInput(t *testing.T) {
	cases := []struct {
		name string
		run  func() error
	}{
		{
			name: "empty buffer",
			run: func() error {
				_, err := AnalyzeReference(makeBuffer())
				return err
			},
		},
		{
			name: "non-finite samples",
			run: func() error {
				_, err := AnalyzeReference(makeBuffer([]float64{0.1, math.NaN(), 0.2}))
				return err
			},
		},
		{
			name: "ragged channels",
			run: func() error {
				_, err := AnalyzeReference(makeBuffer([]float64{0.1, 0.2}, []float64{0.1}))
				return err
			},
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("got error %v, want ErrInvalidInput", err)
			}
		})
	}
}
