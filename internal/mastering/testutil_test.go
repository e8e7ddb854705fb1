package mastering

import (
	"math"

	"github.com/linuxmatters/trackmaster/internal/audio"
)

const testSampleRate = 44100

// makeSine generates a sine wave at the given frequency and linear amplitude.
func makeSine(freq, amplitude, seconds float64, sampleRate int) []float64 {
	n := int(seconds * float64(sampleRate))
	signal := make([]float64, n)
	for i := range signal {
		t := float64(i) / float64(sampleRate)
		signal[i] = amplitude * math.Sin(2.0*math.Pi*freq*t)
	}
	return signal
}

// makeSilence generates an all-zero signal of n samples.
func makeSilence(n int) []float64 {
	return make([]float64, n)
}

// makeNoise generates deterministic white noise at the given amplitude
// using a simple LCG, avoiding math/rand seeding.
func makeNoise(amplitude float64, n int) []float64 {
	signal := make([]float64, n)
	state := uint32(12345)
	for i := range signal {
		state = state*1664525 + 1013904223
		signal[i] = amplitude * ((float64(state)/float64(0xFFFFFFFF))*2.0 - 1.0)
	}
	return signal
}

// makeBuffer wraps channel slices in a Buffer at the test sample rate.
func makeBuffer(channels ...[]float64) *audio.Buffer {
	return &audio.Buffer{Data: channels, SampleRate: testSampleRate}
}

// maxAbs returns the largest absolute sample value.
func maxAbs(signal []float64) float64 {
	var m float64
	for _, s := range signal {
		if a := math.Abs(s); a > m {
			m = a
		}
	}
	return m
}

// rmsOf is a test-local RMS helper so tests do not depend on unexported
// production helpers staying in place.
func rmsOf(signal []float64) float64 {
	var sum float64
	for _, s := range signal {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(signal)))
}
