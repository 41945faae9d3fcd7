package termhost

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	likeaudio "github.com/decker502/likefx/internal/audio"
)

const soundSampleRate = beep.SampleRate(likeaudio.DefaultSampleRate)

// Sound plays the like cue.
type Sound interface {
	PlayPop()
}

// SpeakerSound plays pops through the system speaker via beep.
type SpeakerSound struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	samples     []float64
	volume      float64 // beep 音量，0 为原始音量，单位为 2 的幂
	initialized bool
}

// NewSpeakerSound creates the sound player. volume is linear in [0, 1].
func NewSpeakerSound(volume float64) *SpeakerSound {
	return &SpeakerSound{
		mixer:   &beep.Mixer{},
		samples: likeaudio.PopSamples(int(soundSampleRate), likeaudio.DefaultPopDuration),
		volume:  linearToBeepVolume(volume),
	}
}

// Initialize opens the speaker. Failure is not fatal; the host runs silent.
func (s *SpeakerSound) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(soundSampleRate, soundSampleRate.N(time.Second/10)); err != nil {
		return err
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// PlayPop mixes one pop into the output.
func (s *SpeakerSound) PlayPop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	streamer := &effects.Volume{
		Streamer: newPopStreamer(s.samples),
		Base:     2,
		Volume:   s.volume,
		Silent:   s.volume <= silentVolume,
	}
	speaker.Lock()
	s.mixer.Add(streamer)
	speaker.Unlock()
}

// Cleanup stops all pops.
func (s *SpeakerSound) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	s.initialized = false
}

// popStreamer streams a precomputed mono buffer to both channels.
type popStreamer struct {
	samples []float64
	pos     int
}

func newPopStreamer(samples []float64) *popStreamer {
	return &popStreamer{samples: samples}
}

func (p *popStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if p.pos >= len(p.samples) {
		return 0, false
	}
	for i := range samples {
		if p.pos >= len(p.samples) {
			break
		}
		v := p.samples[p.pos]
		samples[i][0] = v
		samples[i][1] = v
		p.pos++
		n++
	}
	return n, true
}

func (p *popStreamer) Err() error { return nil }

// silentVolume 低于此值视为静音
const silentVolume = -9.9

// linearToBeepVolume 把 [0,1] 的线性音量换算为 beep 以 2 为底的对数音量
func linearToBeepVolume(v float64) float64 {
	if v <= 0 {
		return silentVolume - 0.1
	}
	if v >= 1 {
		return 0
	}
	return math.Max(math.Log2(v), silentVolume)
}
