package mastering

import (
	"errors"
	"math"
	"testing"

	"github.com/linuxmatters/trackmaster/internal/audio"
)

func TestMasterStandardSine(t *testing.T) {
	buf := makeBuffer(makeSine(440, 0.3, 2.0, testSampleRate))
	cfg := DefaultConfig()
	cfg.TargetLUFS = -16.0

	result, err := Master(buf, cfg, nil, nil)
	if err != nil {
		t.Fatalf("Master failed: %v", err)
	}

	if result.Mode != ModeStandard {
		t.Errorf("Mode = %q, want %q", result.Mode, ModeStandard)
	}
	if result.Profile != nil {
		t.Error("Profile should be nil in standard mode")
	}
	out := result.Buffer
	if out.Channels() != 1 || out.Samples() != buf.Samples() {
		t.Fatalf("output shape %dx%d, want 1x%d", out.Channels(), out.Samples(), buf.Samples())
	}
	if p := maxAbs(out.Data[0]); p > 0.95 {
		t.Errorf("output peak %v exceeds 0.95", p)
	}
	if got := EstimateLUFS(out.Data[0]); math.Abs(got-(-16.0)) > 1.0 {
		t.Errorf("output loudness %v, want -16 ± 1", got)
	}
}

func TestMasterSelfReference(t *testing.T) {
	signal := makeSine(440, 0.3, 2.0, testSampleRate)
	buf := makeBuffer(signal)
	ref := makeBuffer(append([]float64(nil), signal...))

	wantProfile, err := AnalyzeReference(ref)
	if err != nil {
		t.Fatalf("AnalyzeReference failed: %v", err)
	}

	result, err := Master(buf, DefaultConfig(), ref, nil)
	if err != nil {
		t.Fatalf("Master failed: %v", err)
	}

	if result.Mode != ModeReference {
		t.Errorf("Mode = %q, want %q", result.Mode, ModeReference)
	}
	if result.Profile == nil {
		t.Fatal("Profile missing in reference mode")
	}
	if result.Profile.TargetLUFS != wantProfile.TargetLUFS {
		t.Errorf("derived TargetLUFS = %v, want %v", result.Profile.TargetLUFS, wantProfile.TargetLUFS)
	}

	got := EstimateLUFS(result.Buffer.Data[0])
	if math.Abs(got-wantProfile.TargetLUFS) > 2.0 {
		t.Errorf("output loudness %v, want %v ± 2", got, wantProfile.TargetLUFS)
	}
}

func TestMasterAllZeroBuffer(t *testing.T) {
	buf := makeBuffer(makeSilence(testSampleRate))

	result, err := Master(buf, DefaultConfig(), nil, nil)
	if err != nil {
		t.Fatalf("Master failed on silence: %v", err)
	}

	out := result.Buffer
	if out.Samples() != testSampleRate {
		t.Fatalf("output length %d, want %d", out.Samples(), testSampleRate)
	}
	for i, s := range out.Data[0] {
		if s != 0 {
			t.Fatalf("sample %d = %v, want 0", i, s)
		}
	}
}

func TestMasterStereoChannelsIndependent(t *testing.T) {
	loud := makeSine(440, 0.5, 1.0, testSampleRate)
	silent := makeSilence(len(loud))

	result, err := Master(makeBuffer(loud, silent), DefaultConfig(), nil, nil)
	if err != nil {
		t.Fatalf("Master failed: %v", err)
	}

	out := result.Buffer
	if out.Channels() != 2 {
		t.Fatalf("output channels = %d, want 2", out.Channels())
	}
	// The silent channel short-circuits normalisation and stays silent.
	for i, s := range out.Data[1] {
		if s != 0 {
			t.Fatalf("silent channel sample %d = %v, want 0", i, s)
		}
	}
	if p := maxAbs(out.Data[0]); p == 0 || p > 0.95 {
		t.Errorf("loud channel peak = %v, want within (0, 0.95]", p)
	}
}

func TestMasterTruncatesExtraChannels(t *testing.T) {
	ch := makeSine(440, 0.3, 0.5, testSampleRate)
	buf := makeBuffer(ch, append([]float64(nil), ch...), append([]float64(nil), ch...))

	result, err := Master(buf, DefaultConfig(), nil, nil)
	if err != nil {
		t.Fatalf("Master failed: %v", err)
	}
	if result.Buffer.Channels() != 2 {
		t.Errorf("output channels = %d, want 2 after truncation", result.Buffer.Channels())
	}
	if buf.Channels() != 3 {
		t.Error("input buffer was mutated")
	}
}

func TestMasterInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		buf  *audio.Buffer
	}{
		{name: "nil buffer", buf: nil},
		{name: "no channels", buf: makeBuffer()},
		{name: "empty channel", buf: makeBuffer([]float64{})},
		{name: "non-finite samples", buf: makeBuffer([]float64{0.1, math.Inf(1)})},
		{name: "ragged channels", buf: makeBuffer([]float64{0.1, 0.2}, []float64{0.1})},
		{
			name: "zero sample rate",
			buf:  &audio.Buffer{Data: [][]float64{{0.1, 0.2}}, SampleRate: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Master(tt.buf, DefaultConfig(), nil, nil)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("got error %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestMasterNumericOverflowFatal(t *testing.T) {
	buf := makeBuffer(makeSine(440, 0.3, 0.5, testSampleRate))
	cfg := DefaultConfig()
	// An absurd target makes the normaliser gain overflow to +Inf and the
	// clip-guard rescale turn the samples into NaN.
	cfg.TargetLUFS = 7000

	result, err := Master(buf, cfg, nil, nil)
	if !errors.Is(err, ErrNumericOverflow) {
		t.Fatalf("got error %v, want ErrNumericOverflow", err)
	}
	if result != nil {
		t.Error("overflow must abort the run without a result")
	}
}

func TestMasterDoesNotAliasInput(t *testing.T) {
	signal := makeSine(440, 0.3, 0.5, testSampleRate)
	original := append([]float64(nil), signal...)
	buf := makeBuffer(signal)

	result, err := Master(buf, DefaultConfig(), nil, nil)
	if err != nil {
		t.Fatalf("Master failed: %v", err)
	}

	for i := range signal {
		if signal[i] != original[i] {
			t.Fatal("input buffer was mutated")
		}
	}
	result.Buffer.Data[0][0] = 42
	if signal[0] == 42 {
		t.Error("output aliases input storage")
	}
}

func TestMasterReportsProgress(t *testing.T) {
	buf := makeBuffer(makeSine(440, 0.3, 0.5, testSampleRate))
	var stages []string
	progress := func(stage string, channel, channels int, p float64) {
		stages = append(stages, stage)
		if p < 0 || p > 1 {
			t.Errorf("progress %v out of range for stage %s", p, stage)
		}
	}

	if _, err := Master(buf, DefaultConfig(), nil, progress); err != nil {
		t.Fatalf("Master failed: %v", err)
	}

	want := map[string]bool{StageEQ: false, StageCompress: false, StageNormalize: false, StageLimit: false}
	for _, s := range stages {
		if _, ok := want[s]; ok {
			want[s] = true
		}
	}
	for stage, seen := range want {
		if !seen {
			t.Errorf("stage %q never reported", stage)
		}
	}
}

func TestMasterNilConfigUsesDefaults(t *testing.T) {
	buf := makeBuffer(makeSine(440, 0.3, 1.0, testSampleRate))
	result, err := Master(buf, nil, nil, nil)
	if err != nil {
		t.Fatalf("Master failed: %v", err)
	}
	if got := EstimateLUFS(result.Buffer.Data[0]); math.Abs(got-DefaultTargetLUFS) > 1.0 {
		t.Errorf("output loudness %v, want default target %v ± 1", got, DefaultTargetLUFS)
	}
}
