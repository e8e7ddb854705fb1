package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/linuxmatters/trackmaster/internal/mastering"
)

func TestGenerateReportStandardMode(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "track-mastered.wav")

	start := time.Now().Add(-3 * time.Second)
	data := ReportData{
		InputPath:    "/music/track.wav",
		OutputPath:   outputPath,
		StartTime:    start,
		EndTime:      time.Now(),
		Mode:         mastering.ModeStandard,
		TargetLUFS:   -14.0,
		InputLUFS:    -20.5,
		OutputLUFS:   -14.1,
		InputPeak:    0.5,
		OutputPeak:   0.95,
		SampleRate:   44100,
		Channels:     2,
		DurationSecs: 180.0,
	}

	if err := GenerateReport(data); err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	logPath := filepath.Join(dir, "track-mastered.log")
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	report := string(content)

	for _, want := range []string{
		"Trackmaster Mastering Report",
		"track.wav",
		"Mode:   standard",
		"Target: -14.0 LUFS",
		"Loudness Measurements",
		"-20.5",
		"-14.1",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
	if strings.Contains(report, "Reference Profile") {
		t.Error("standard mode report should not include a reference profile section")
	}
}

func TestGenerateReportReferenceMode(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "track-mastered.wav")

	data := ReportData{
		InputPath:  "/music/track.wav",
		OutputPath: outputPath,
		StartTime:  time.Now(),
		EndTime:    time.Now(),
		Mode:       mastering.ModeReference,
		TargetLUFS: -12.3,
		InputLUFS:  -18.0,
		OutputLUFS: -12.5,
		InputPeak:  0.4,
		OutputPeak: 0.9,
		Profile: &mastering.ReferenceProfile{
			TargetLUFS:       -12.3,
			DynamicRange:     9.5,
			PeakLevel:        0.98,
			SpectralCentroid: 2200,
			SpectralRolloff:  8400,
			HighFreqEnergy:   0.02,
			LowFreqEnergy:    0.3,
			CompressionRatio: 6.1,
		},
		SampleRate:   44100,
		Channels:     2,
		DurationSecs: 200.0,
	}

	if err := GenerateReport(data); err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dir, "track-mastered.log"))
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	report := string(content)

	for _, want := range []string{
		"Mode:   reference-based",
		"(derived from reference)",
		"Reference Profile",
		"Dynamic Range",
		"Spectral Centroid",
		"Compression Ratio",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestInterpretDynamicRange(t *testing.T) {
	tests := []struct {
		name string
		db   float64
		want string
	}{
		{name: "brickwalled", db: 2.0, want: "heavily limited, brickwalled"},
		{name: "loudness war", db: 6.0, want: "compressed, loudness-first master"},
		{name: "typical", db: 12.0, want: "moderate dynamics, typical pop/rock"},
		{name: "dynamic", db: 20.0, want: "dynamic, expressive material"},
		{name: "very dynamic", db: 30.0, want: "very dynamic, minimal compression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := interpretDynamicRange(tt.db); got != tt.want {
				t.Errorf("interpretDynamicRange(%v) = %q, want %q", tt.db, got, tt.want)
			}
		})
	}
}

func TestInterpretBandBalance(t *testing.T) {
	if got := interpretBandBalance(0, 0); got != "no measurable energy" {
		t.Errorf("silence balance = %q", got)
	}
	if got := interpretBandBalance(0.3, 0.01); got != "strongly bass-weighted" {
		t.Errorf("bass-heavy balance = %q", got)
	}
	if got := interpretBandBalance(0.01, 0.3); got != "treble-forward, unusual for a master" {
		t.Errorf("treble-heavy balance = %q", got)
	}
}
