package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

// collect drains a streamer through a small buffer, the way the speaker
// would, and returns every sample.
func collect(t *testing.T, s beep.Streamer) [][2]float64 {
	t.Helper()
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
		if n == 0 {
			t.Fatal("streamer returned n=0 with ok=true")
		}
	}
}

func checkBounded(t *testing.T, samples [][2]float64, limit float64) {
	t.Helper()
	for i, s := range samples {
		if math.Abs(s[0]) > limit || math.Abs(s[1]) > limit {
			t.Fatalf("sample %d out of range: %v (limit %.2f)", i, s, limit)
		}
	}
}

func zeroCrossings(samples [][2]float64) int {
	n := 0
	for i := 1; i < len(samples); i++ {
		if (samples[i-1][0] < 0) != (samples[i][0] < 0) {
			n++
		}
	}
	return n
}

func TestOscillatorDurationAndBounds(t *testing.T) {
	for _, wave := range []waveShape{waveSine, waveSquare, waveSaw, waveNoise} {
		osc := newOscillator(440, 50*time.Millisecond, wave)
		samples := collect(t, osc)
		if want := sampleRate.N(50 * time.Millisecond); len(samples) != want {
			t.Errorf("wave %d streamed %d samples, want %d", wave, len(samples), want)
		}
		checkBounded(t, samples, 1.0)
	}
}

func TestOscillatorSquareIsTwoLevel(t *testing.T) {
	osc := newOscillator(200, 20*time.Millisecond, waveSquare)
	for i, s := range collect(t, osc) {
		if s[0] != 1 && s[0] != -1 {
			t.Fatalf("square sample %d = %v, want exactly +/-1", i, s[0])
		}
	}
}

func TestOscillatorStereoAndDrain(t *testing.T) {
	osc := newOscillator(440, 10*time.Millisecond, waveSine)
	samples := collect(t, osc)
	for i, s := range samples {
		if s[0] != s[1] {
			t.Fatalf("sample %d has mismatched channels: L=%v R=%v", i, s[0], s[1])
		}
	}

	// Drained streamers stay drained.
	buf := make([][2]float64, 16)
	if n, ok := osc.Stream(buf); n != 0 || ok {
		t.Errorf("drained oscillator returned n=%d ok=%v", n, ok)
	}
}

func TestSweepGlidesDownward(t *testing.T) {
	sw := newSweep(400, 100, 50*time.Millisecond, waveSine)
	samples := collect(t, sw)
	if want := sampleRate.N(50 * time.Millisecond); len(samples) != want {
		t.Fatalf("sweep streamed %d samples, want %d", len(samples), want)
	}
	checkBounded(t, samples, 1.0)

	half := len(samples) / 2
	first := zeroCrossings(samples[:half])
	second := zeroCrossings(samples[half:])
	if first <= second {
		t.Errorf("sweep should slow down: %d crossings then %d", first, second)
	}
}

func TestEnvelopeShapesAttackAndRelease(t *testing.T) {
	d := 50 * time.Millisecond
	// A square carrier keeps |sample| equal to the envelope gain.
	env := newEnvelope(newOscillator(200, d, waveSquare), d, 10*time.Millisecond, 10*time.Millisecond)
	samples := collect(t, env)

	if math.Abs(samples[0][0]) > 0.01 {
		t.Errorf("attack does not start from silence: %v", samples[0][0])
	}
	mid := samples[len(samples)/2][0]
	if math.Abs(mid) < 0.99 {
		t.Errorf("sustain not at full level: %v", mid)
	}
	tail := samples[len(samples)-2][0]
	if math.Abs(tail) > 0.01 {
		t.Errorf("release does not end near silence: %v", tail)
	}
}

func TestNoteVolumeScales(t *testing.T) {
	d := 30 * time.Millisecond
	loud := collect(t, note(440, d, waveSquare, 1.0))
	quiet := collect(t, note(440, d, waveSquare, 0.25))
	if len(loud) != len(quiet) {
		t.Fatalf("volume changed the note length: %d vs %d", len(loud), len(quiet))
	}

	peak := func(samples [][2]float64) float64 {
		p := 0.0
		for _, s := range samples {
			if a := math.Abs(s[0]); a > p {
				p = a
			}
		}
		return p
	}
	lp, qp := peak(loud), peak(quiet)
	if qp > lp*0.3 || qp < lp*0.2 {
		t.Errorf("quarter volume peak %v vs full %v, want about a quarter", qp, lp)
	}
}

func TestGainZeroIsSilent(t *testing.T) {
	samples := collect(t, gain(newOscillator(440, 10*time.Millisecond, waveSine), 0))
	for i, s := range samples {
		if s[0] != 0 || s[1] != 0 {
			t.Fatalf("sample %d not silent at zero volume: %v", i, s)
		}
	}
}
