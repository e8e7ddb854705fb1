package audio

import (
	"fmt"

	"github.com/zeozeozeo/gomplerate"
)

// Resample converts a buffer to the target sample rate, one channel at a
// time so channel rows stay independent. Returns the input untouched when
// the rate already matches.
func Resample(buf *Buffer, targetRate int) (*Buffer, error) {
	if buf.SampleRate == targetRate {
		return buf, nil
	}
	if targetRate <= 0 {
		return nil, fmt.Errorf("invalid target sample rate %d", targetRate)
	}

	out := &Buffer{
		Data:       make([][]float64, buf.Channels()),
		SampleRate: targetRate,
	}
	for ch, row := range buf.Data {
		r, err := gomplerate.NewResampler(1, buf.SampleRate, targetRate)
		if err != nil {
			return nil, fmt.Errorf("failed to create resampler %d -> %d Hz: %w",
				buf.SampleRate, targetRate, err)
		}
		out.Data[ch] = r.ResampleFloat64(row)
	}

	// Output rows must stay rectangular; trim to the shortest row in case
	// the resampler rounds edge frames differently per channel.
	minLen := -1
	for _, row := range out.Data {
		if minLen < 0 || len(row) < minLen {
			minLen = len(row)
		}
	}
	for ch := range out.Data {
		out.Data[ch] = out.Data[ch][:minLen]
	}
	return out, nil
}
