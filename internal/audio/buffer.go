// Package audio provides the sample buffer model plus WAV and resampling
// collaborators for the mastering engine.
package audio

import "math"

// Buffer holds decoded multi-channel audio as one row of float64 samples
// per channel, nominally in [-1.0, 1.0], with its sample rate in Hz.
// All rows have the same length. The mastering pipeline never aliases a
// Buffer it was given: processed output is always freshly allocated.
type Buffer struct {
	Data       [][]float64
	SampleRate int
}

// NewBuffer allocates a zeroed buffer with the given shape.
func NewBuffer(channels, samples, sampleRate int) *Buffer {
	data := make([][]float64, channels)
	for ch := range data {
		data[ch] = make([]float64, samples)
	}
	return &Buffer{Data: data, SampleRate: sampleRate}
}

// Channels returns the number of channels.
func (b *Buffer) Channels() int {
	return len(b.Data)
}

// Samples returns the per-channel sample count (0 for an empty buffer).
func (b *Buffer) Samples() int {
	if len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Samples()) / float64(b.SampleRate)
}

// Clone returns a deep copy that shares no sample storage with b.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{
		Data:       make([][]float64, len(b.Data)),
		SampleRate: b.SampleRate,
	}
	for ch, row := range b.Data {
		out.Data[ch] = append([]float64(nil), row...)
	}
	return out
}

// MonoMix returns the mean across channels as a single mono track.
// A mono buffer is copied rather than aliased.
func (b *Buffer) MonoMix() []float64 {
	if len(b.Data) == 1 {
		return append([]float64(nil), b.Data[0]...)
	}
	n := b.Samples()
	mono := make([]float64, n)
	for _, row := range b.Data {
		for i, s := range row {
			mono[i] += s
		}
	}
	scale := 1.0 / float64(len(b.Data))
	for i := range mono {
		mono[i] *= scale
	}
	return mono
}

// IsRectangular reports whether every channel row has the same length.
func (b *Buffer) IsRectangular() bool {
	if len(b.Data) == 0 {
		return true
	}
	n := len(b.Data[0])
	for _, row := range b.Data[1:] {
		if len(row) != n {
			return false
		}
	}
	return true
}

// IsFinite reports whether every sample is a finite value.
func (b *Buffer) IsFinite() bool {
	for _, row := range b.Data {
		for _, s := range row {
			if math.IsNaN(s) || math.IsInf(s, 0) {
				return false
			}
		}
	}
	return true
}
