// Package audio synthesizes the short "pop" played for each like.
//
// The waveform is generated in code so the viewer ships without sound assets.
// Both the Ebitengine player (16-bit PCM stream) and the terminal host
// (float samples for beep) are fed from the same generator.
package audio

import (
	"fmt"
	"io"
	"math"
	"time"
)

const (
	// DefaultSampleRate matches Ebitengine's usual audio context rate.
	DefaultSampleRate = 48000

	// DefaultPopDuration is short enough to overlap cleanly during bursts.
	DefaultPopDuration = 90 * time.Millisecond

	popStartFreq = 1400.0 // Hz at the attack
	popEndFreq   = 520.0  // Hz at the tail
	popDecay     = 38.0   // envelope decay rate (1/s)
	popAttack    = 0.004  // seconds of linear fade-in
	popGain      = 0.8
)

// PopSamples returns mono samples in [-1, 1] for a single pop.
// The pitch sweeps down exponentially while the amplitude decays.
func PopSamples(sampleRate int, d time.Duration) []float64 {
	if sampleRate <= 0 || d <= 0 {
		return nil
	}
	n := int(float64(sampleRate) * d.Seconds())
	out := make([]float64, n)

	total := d.Seconds()
	phase := 0.0
	for i := range out {
		t := float64(i) / float64(sampleRate)
		freq := popStartFreq * math.Pow(popEndFreq/popStartFreq, t/total)
		phase += 2 * math.Pi * freq / float64(sampleRate)

		env := math.Exp(-popDecay * t)
		if t < popAttack {
			env *= t / popAttack
		}
		out[i] = popGain * env * math.Sin(phase)
	}
	return out
}

// PCMStream is an in-memory 16-bit little-endian stereo stream.
// It satisfies io.ReadSeeker plus Length, as Ebitengine's audio.Player expects.
type PCMStream struct {
	data       []byte
	sampleRate int
	offset     int64
}

// NewPCMStream encodes mono float samples as interleaved 16-bit stereo.
func NewPCMStream(samples []float64, sampleRate int) *PCMStream {
	data := make([]byte, len(samples)*4)
	for i, s := range samples {
		v := int16(math.Round(clampSample(s) * math.MaxInt16))
		// 左右声道相同
		data[i*4] = byte(v)
		data[i*4+1] = byte(v >> 8)
		data[i*4+2] = byte(v)
		data[i*4+3] = byte(v >> 8)
	}
	return &PCMStream{data: data, sampleRate: sampleRate}
}

// NewPopStream is a shortcut for a default-length pop at sampleRate.
func NewPopStream(sampleRate int) *PCMStream {
	return NewPCMStream(PopSamples(sampleRate, DefaultPopDuration), sampleRate)
}

// Read reads PCM data into p.
func (s *PCMStream) Read(p []byte) (n int, err error) {
	if s.offset >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n = copy(p, s.data[s.offset:])
	s.offset += int64(n)
	return n, nil
}

// Seek sets the offset for the next Read.
func (s *PCMStream) Seek(offset int64, whence int) (int64, error) {
	var newOffset int64

	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = s.offset + offset
	case io.SeekEnd:
		newOffset = int64(len(s.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}

	if newOffset < 0 {
		return 0, fmt.Errorf("negative position: %d", newOffset)
	}

	s.offset = newOffset
	return newOffset, nil
}

// Length returns the total length of the stream in bytes.
func (s *PCMStream) Length() int64 {
	return int64(len(s.data))
}

// Bytes returns the encoded PCM data. The slice must not be modified.
func (s *PCMStream) Bytes() []byte {
	return s.data
}

// SampleRate returns the sample rate in Hz.
func (s *PCMStream) SampleRate() int {
	return s.sampleRate
}

func clampSample(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
