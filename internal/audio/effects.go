package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Streamer synthesis for the sound effects. Everything is generated on the
// fly per trigger; there are no sample assets and nothing is cached.

type waveShape int

const (
	waveSine waveShape = iota
	waveSquare
	waveSaw
	waveNoise
)

// oscillator streams a fixed-frequency tone of the given shape for a fixed
// number of samples, then reports drained.
type oscillator struct {
	freq     float64
	wave     waveShape
	phase    float64
	total    int
	position int
	noise    int64 // LCG state for waveNoise
}

func newOscillator(freq float64, d time.Duration, wave waveShape) *oscillator {
	return &oscillator{freq: freq, wave: wave, total: sampleRate.N(d), noise: 1}
}

func (o *oscillator) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if o.position >= o.total {
			return i, i > 0
		}
		v := o.sample()
		samples[i][0] = v
		samples[i][1] = v
		o.phase += o.freq / float64(sampleRate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

func (o *oscillator) sample() float64 {
	switch o.wave {
	case waveSine:
		return math.Sin(2 * math.Pi * o.phase)
	case waveSquare:
		if o.phase < 0.5 {
			return 1
		}
		return -1
	case waveSaw:
		return 2 * (o.phase - 0.5)
	case waveNoise:
		o.noise = (o.noise*1103515245 + 12345) & 0x7fffffff
		return float64(o.noise)/float64(0x7fffffff)*2 - 1
	default:
		return 0
	}
}

// sweep is an oscillator whose frequency glides linearly between two
// endpoints across its whole duration.
type sweep struct {
	from     float64
	to       float64
	wave     waveShape
	phase    float64
	total    int
	position int
}

func newSweep(from, to float64, d time.Duration, wave waveShape) *sweep {
	return &sweep{from: from, to: to, wave: wave, total: sampleRate.N(d)}
}

func (s *sweep) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if s.position >= s.total {
			return i, i > 0
		}
		t := float64(s.position) / float64(s.total)
		freq := s.from + (s.to-s.from)*t
		var v float64
		switch s.wave {
		case waveSquare:
			if s.phase < 0.5 {
				v = 1
			} else {
				v = -1
			}
		case waveSaw:
			v = 2 * (s.phase - 0.5)
		default:
			v = math.Sin(2 * math.Pi * s.phase)
		}
		samples[i][0] = v
		samples[i][1] = v
		s.phase += freq / float64(sampleRate)
		s.phase -= math.Floor(s.phase)
		s.position++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// envelope applies a linear attack and release to the wrapped streamer so
// one-shots start and stop without clicks.
type envelope struct {
	wrapped  beep.Streamer
	attack   int
	release  int
	total    int
	position int
}

func newEnvelope(wrapped beep.Streamer, d, attack, release time.Duration) *envelope {
	return &envelope{
		wrapped: wrapped,
		attack:  sampleRate.N(attack),
		release: sampleRate.N(release),
		total:   sampleRate.N(d),
	}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.wrapped.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 1.0
		if e.attack > 0 && e.position < e.attack {
			gain = float64(e.position) / float64(e.attack)
		}
		if rem := e.total - e.position; e.release > 0 && rem < e.release {
			g := float64(rem) / float64(e.release)
			if g < gain {
				gain = g
			}
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.wrapped.Err() }

// gain scales a streamer to vol in [0,1] using a log2 volume curve.
func gain(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// note is the building block of every effect: one enveloped oscillator.
func note(freq float64, d time.Duration, wave waveShape, vol float64) beep.Streamer {
	return gain(newEnvelope(newOscillator(freq, d, wave), d, 4*time.Millisecond, d/3), vol)
}
