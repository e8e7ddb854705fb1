// Package logging handles generation of mastering reports for processed audio files.
// This file provides console display for analysis-only mode.

package logging

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/linuxmatters/trackmaster/internal/mastering"
)

// DisplayProfile outputs reference analysis results to the console.
// Used by --analyze mode for rapid inspection without mastering.
func DisplayProfile(w io.Writer, inputPath string, sampleRate, channels int, durationSecs float64, p *mastering.ReferenceProfile) {
	// Header
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintf(w, "ANALYSIS: %s\n", filepath.Base(inputPath))
	fmt.Fprintln(w, strings.Repeat("=", 70))

	// File info
	fmt.Fprintf(w, "Duration:    %s\n", formatDurationHMS(durationSecs))
	fmt.Fprintf(w, "Sample Rate: %d Hz\n", sampleRate)
	fmt.Fprintf(w, "Channels:    %s\n", channelName(channels))
	fmt.Fprintln(w)

	// Loudness section
	writeAnalysisSection(w, "LOUDNESS")
	fmt.Fprintf(w, "  Integrated:     %s LUFS\n", formatMetricLUFS(p.TargetLUFS, 1))
	fmt.Fprintf(w, "  Sample Peak:    %s dBFS\n", formatMetricPeak(p.PeakLevel, 1))
	fmt.Fprintln(w)

	// Dynamics section
	writeAnalysisSection(w, "DYNAMICS")
	fmt.Fprintf(w, "  Dynamic Range:  %s dB (%s)\n",
		formatMetric(p.DynamicRange, 1), interpretDynamicRange(p.DynamicRange))
	fmt.Fprintf(w, "  Compression:    %s:1 (%s)\n",
		formatMetric(p.CompressionRatio, 1), interpretCompressionRatio(p.CompressionRatio))
	fmt.Fprintln(w)

	// Spectrum section
	writeAnalysisSection(w, "SPECTRUM")
	fmt.Fprintf(w, "  Centroid:       %s Hz (%s)\n",
		formatMetric(p.SpectralCentroid, 0), interpretCentroid(p.SpectralCentroid))
	fmt.Fprintf(w, "  Rolloff:        %s Hz (%s)\n",
		formatMetric(p.SpectralRolloff, 0), interpretRolloff(p.SpectralRolloff))
	fmt.Fprintf(w, "  Low Band:       %s (mean magnitude below 500 Hz)\n",
		formatMetric(p.LowFreqEnergy, 4))
	fmt.Fprintf(w, "  High Band:      %s (mean magnitude above 5000 Hz)\n",
		formatMetric(p.HighFreqEnergy, 4))
	fmt.Fprintf(w, "  Balance:        %s\n", interpretBandBalance(p.LowFreqEnergy, p.HighFreqEnergy))
	fmt.Fprintln(w)
}

// writeAnalysisSection writes a section header for analysis output.
func writeAnalysisSection(w io.Writer, title string) {
	fmt.Fprintln(w, title)
}

// formatDurationHMS formats duration as "Xh Ym Zs" or "Ym Zs" or "Z.Xs".
func formatDurationHMS(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}

	totalSeconds := int(seconds)
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	}
	return fmt.Sprintf("%dm %ds", minutes, secs)
}
