package audio

import (
	"fmt"
	"math"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DefaultBitDepth is the PCM bit depth used when encoding output files.
const DefaultBitDepth = 16

// ReadWAV decodes a PCM WAV file into a float64 Buffer.
// Samples are scaled to [-1.0, 1.0] based on the source bit depth.
func ReadWAV(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%s is not a valid WAV file", path)
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	channels := pcm.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("%s reports %d channels", path, channels)
	}
	frames := len(pcm.Data) / channels

	// Scale factor for the source bit depth (16-bit: 32768).
	scale := math.Pow(2, float64(dec.BitDepth-1))

	buf := NewBuffer(channels, frames, pcm.Format.SampleRate)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			buf.Data[ch][i] = float64(pcm.Data[i*channels+ch]) / scale
		}
	}
	return buf, nil
}

// WriteWAV encodes a Buffer to a PCM WAV file at the given bit depth.
// Samples outside [-1.0, 1.0] are clipped rather than wrapped.
func WriteWAV(path string, buf *Buffer, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	channels := buf.Channels()
	frames := buf.Samples()
	scale := math.Pow(2, float64(bitDepth-1))
	maxVal := scale - 1

	pcm := &gaudio.IntBuffer{
		Format: &gaudio.Format{
			NumChannels: channels,
			SampleRate:  buf.SampleRate,
		},
		SourceBitDepth: bitDepth,
		Data:           make([]int, frames*channels),
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			s := buf.Data[ch][i] * scale
			if s > maxVal {
				s = maxVal
			} else if s < -scale {
				s = -scale
			}
			pcm.Data[i*channels+ch] = int(s)
		}
	}

	enc := wav.NewEncoder(f, buf.SampleRate, bitDepth, channels, 1)
	if err := enc.Write(pcm); err != nil {
		enc.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalise %s: %w", path, err)
	}
	return nil
}
