// Package logging handles generation of mastering reports for processed audio files

package logging

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/linuxmatters/trackmaster/internal/mastering"
)

// ============================================================================
// Spectral Characteristic Interpretation Functions
// ============================================================================
// These functions interpret spectral measurements and return human-readable
// descriptions of programme material characteristics.

// interpretCentroid describes spectral "brightness" based on centre of gravity.
// Reference: Grey & Gordon (1978) JASA; Peeters (2003) CUIDADO; librosa.
//
// Centroid is the "centre of gravity" of the spectrum - where spectral energy is concentrated.
//
// Reference values for mixed music:
// - Bass-heavy electronic/hip-hop: 500-1500 Hz
// - Balanced rock/pop masters: 1500-3500 Hz
// - Bright acoustic/cymbal-heavy mixes: 3500 Hz and above
func interpretCentroid(hz float64) string {
	switch {
	case hz < 500:
		return "very dark, bass-heavy"
	case hz < 1500:
		return "warm, low-mid weighted"
	case hz < 2500:
		return "balanced tonal weight"
	case hz < 4000:
		return "present, forward mix"
	case hz < 6000:
		return "bright, crisp top end"
	default:
		return "very bright, potentially harsh"
	}
}

// interpretRolloff describes effective bandwidth via 85% energy threshold.
// Returns Hz below which 85% of spectral energy resides.
// Reference: Peeters (2003) CUIDADO; librosa spectral_rolloff.
func interpretRolloff(hz float64) string {
	switch {
	case hz < 2000:
		return "dark, muffled, heavy filtering"
	case hz < 4000:
		return "warm, controlled high frequencies"
	case hz < 7000:
		return "balanced brightness"
	case hz < 11000:
		return "bright, airy, open top end"
	default:
		return "very bright, extended highs"
	}
}

// interpretDynamicRange describes the spread between quiet and loud passages.
// Derived from the 95th/10th percentile envelope ratio, capped at 40 dB.
//
// Modern loudness-war masters sit below 8 dB; dynamic acoustic and classical
// material commonly exceeds 15 dB.
func interpretDynamicRange(db float64) string {
	switch {
	case db < 4:
		return "heavily limited, brickwalled"
	case db < 8:
		return "compressed, loudness-first master"
	case db < 15:
		return "moderate dynamics, typical pop/rock"
	case db < 25:
		return "dynamic, expressive material"
	default:
		return "very dynamic, minimal compression"
	}
}

// interpretCompressionRatio describes the crest-derived compression estimate.
// The estimate is 15 divided by the peak-to-RMS ratio, clamped to [1, 10].
// High values mean the reference has little headroom above its average level.
func interpretCompressionRatio(ratio float64) string {
	switch {
	case ratio < 2:
		return "open, uncompressed"
	case ratio < 4:
		return "lightly compressed"
	case ratio < 7:
		return "firmly compressed"
	default:
		return "dense, heavily limited"
	}
}

// interpretBandBalance describes the relationship between low-band and
// high-band mean spectral magnitude.
func interpretBandBalance(lowEnergy, highEnergy float64) string {
	if lowEnergy <= 0 && highEnergy <= 0 {
		return "no measurable energy"
	}
	if highEnergy <= 0 {
		return "all energy below 500 Hz"
	}
	ratio := lowEnergy / highEnergy
	switch {
	case ratio > 20:
		return "strongly bass-weighted"
	case ratio > 5:
		return "bass-forward balance"
	case ratio > 1:
		return "conventional tilt toward lows"
	default:
		return "treble-forward, unusual for a master"
	}
}

// =============================================================================
// Report Section Formatting Helpers
// =============================================================================

// writeSection writes a section header with title and dashed underline.
// The underline length matches the title length.
func writeSection(f *os.File, title string) {
	fmt.Fprintln(f, title)
	fmt.Fprintln(f, strings.Repeat("-", len(title)))
}

// ReportData contains all the information needed to generate a mastering report
type ReportData struct {
	InputPath    string
	OutputPath   string
	StartTime    time.Time
	EndTime      time.Time
	Mode         mastering.Mode
	TargetLUFS   float64                     // Loudness target the engine aimed for
	InputLUFS    float64                     // Estimated loudness before mastering
	OutputLUFS   float64                     // Estimated loudness after mastering
	InputPeak    float64                     // Linear peak before mastering
	OutputPeak   float64                     // Linear peak after mastering
	Profile      *mastering.ReferenceProfile // Present in reference-based mode
	SampleRate   int
	Channels     int
	DurationSecs float64 // Duration in seconds
}

// GenerateReport creates a mastering report and saves it alongside the output
// file. The report filename will be <output>.log
//
// Report structure:
// 1. Header - file info and timestamp
// 2. Mastering Summary - mode, target, timing
// 3. Loudness Measurements - two-column table (Input/Mastered)
// 4. Reference Profile - analysis of the reference track (reference mode only)
func GenerateReport(data ReportData) error {
	logPath := strings.TrimSuffix(data.OutputPath, filepath.Ext(data.OutputPath)) + ".log"

	f, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer f.Close()

	writeReportHeader(f, data)
	writeMasteringSummary(f, data)
	writeLoudnessTable(f, data)
	if data.Profile != nil {
		writeReferenceProfile(f, data.Profile)
	}

	return nil
}

// writeReportHeader outputs the report header with file info and timestamp.
func writeReportHeader(f *os.File, data ReportData) {
	fmt.Fprintln(f, "Trackmaster Mastering Report")
	fmt.Fprintln(f, "============================")
	fmt.Fprintf(f, "File: %s\n", filepath.Base(data.InputPath))
	fmt.Fprintf(f, "Output: %s\n", filepath.Base(data.OutputPath))
	fmt.Fprintf(f, "Processed: %s\n", data.EndTime.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(f, "Duration: %s\n", formatDuration(time.Duration(data.DurationSecs*float64(time.Second))))
	fmt.Fprintf(f, "Format: %d Hz %s\n", data.SampleRate, channelName(data.Channels))
	fmt.Fprintln(f, "")
}

// writeMasteringSummary outputs the mode, loudness target, and wall time.
func writeMasteringSummary(f *os.File, data ReportData) {
	writeSection(f, "Mastering Summary")

	fmt.Fprintf(f, "Mode:   %s\n", data.Mode)
	fmt.Fprintf(f, "Target: %.1f LUFS", data.TargetLUFS)
	if data.Profile != nil {
		fmt.Fprint(f, " (derived from reference)")
	}
	fmt.Fprintln(f, "")

	totalTime := data.EndTime.Sub(data.StartTime)
	fmt.Fprintf(f, "Total:  %s", formatDuration(totalTime))
	if data.DurationSecs > 0 && totalTime > 0 {
		audioDuration := time.Duration(data.DurationSecs * float64(time.Second))
		rtf := float64(audioDuration) / float64(totalTime)
		fmt.Fprintf(f, " (%.0fx real-time)", rtf)
	}
	fmt.Fprintln(f, "")
	fmt.Fprintln(f, "")
}

// writeLoudnessTable outputs a two-column comparison table for loudness
// metrics before and after mastering.
func writeLoudnessTable(f *os.File, data ReportData) {
	writeSection(f, "Loudness Measurements")

	table := NewMetricTable()

	gainInterp := ""
	if !math.IsInf(data.InputLUFS, 0) && !math.IsInf(data.OutputLUFS, 0) {
		delta := data.OutputLUFS - data.InputLUFS
		gainInterp = fmt.Sprintf("gain %s dB", formatMetricSigned(delta, 1))
	}

	table.AddRow("Integrated Loudness",
		[]string{
			formatMetricLUFS(data.InputLUFS, 1),
			formatMetricLUFS(data.OutputLUFS, 1),
		},
		"LUFS", gainInterp)

	table.AddRow("Sample Peak",
		[]string{
			formatMetricPeak(data.InputPeak, 1),
			formatMetricPeak(data.OutputPeak, 1),
		},
		"dBFS", "")

	fmt.Fprint(f, table.String())
	fmt.Fprintln(f, "")
}

// writeReferenceProfile outputs the reference track analysis used to derive
// the mastering parameters.
func writeReferenceProfile(f *os.File, p *mastering.ReferenceProfile) {
	writeSection(f, "Reference Profile")

	fmt.Fprintf(f, "Target Loudness:   %s LUFS\n", formatMetricLUFS(p.TargetLUFS, 1))
	fmt.Fprintf(f, "Dynamic Range:     %s dB (%s)\n",
		formatMetric(p.DynamicRange, 1), interpretDynamicRange(p.DynamicRange))
	fmt.Fprintf(f, "Peak Level:        %s dBFS\n", formatMetricPeak(p.PeakLevel, 1))
	fmt.Fprintf(f, "Compression Ratio: %s:1 (%s)\n",
		formatMetric(p.CompressionRatio, 1), interpretCompressionRatio(p.CompressionRatio))
	fmt.Fprintf(f, "Spectral Centroid: %s Hz (%s)\n",
		formatMetric(p.SpectralCentroid, 0), interpretCentroid(p.SpectralCentroid))
	fmt.Fprintf(f, "Spectral Rolloff:  %s Hz (%s)\n",
		formatMetric(p.SpectralRolloff, 0), interpretRolloff(p.SpectralRolloff))
	fmt.Fprintf(f, "Band Balance:      low %s, high %s (%s)\n",
		formatMetric(p.LowFreqEnergy, 4), formatMetric(p.HighFreqEnergy, 4),
		interpretBandBalance(p.LowFreqEnergy, p.HighFreqEnergy))
	fmt.Fprintln(f, "")
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60

	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}

// channelName returns a human-readable channel name
func channelName(channels int) string {
	switch channels {
	case 1:
		return "mono"
	case 2:
		return "stereo"
	default:
		return fmt.Sprintf("%d channels", channels)
	}
}
