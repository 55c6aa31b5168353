// Package audio synthesises the game's sound effects at runtime and mixes
// them into a single speaker channel. No asset files are involved.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(48000)
	bufferSize = 100 * time.Millisecond
)

// Effect volumes, 0..1. Tuned by ear.
const (
	volEat      = 0.35
	volPowerUp  = 0.40
	volLevelUp  = 0.35
	volGameOver = 0.45
)

// Manager owns the speaker and the mixer every effect plays through. The
// zero value is usable but silent: Play methods are no-ops until Init
// succeeds, and while muted. Safe for concurrent use.
type Manager struct {
	mu          sync.Mutex
	mixer       beep.Mixer
	initialized bool
	muted       bool
}

func NewManager() *Manager {
	return &Manager{}
}

// Init opens the speaker and starts the mixer. Calling it again is a
// no-op. On machines without an audio device it returns the speaker error
// and the manager stays silent.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(bufferSize)); err != nil {
		return err
	}
	speaker.Play(&m.mixer)
	m.initialized = true
	return nil
}

// SetMuted silences future one-shots. Sounds already mixed play out.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	m.muted = muted
	m.mu.Unlock()
}

func (m *Manager) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

// play hands a one-shot to the live mixer. The speaker goroutine streams
// from the mixer concurrently, so the add happens under the speaker lock.
func (m *Manager) play(s beep.Streamer) {
	m.mu.Lock()
	ok := m.initialized && !m.muted
	m.mu.Unlock()
	if !ok {
		return
	}
	speaker.Lock()
	m.mixer.Add(s)
	speaker.Unlock()
}

// PlayEat is the food blip: one short square note.
func (m *Manager) PlayEat() {
	m.play(note(660, 70*time.Millisecond, waveSquare, volEat))
}

// PlayPowerUp is a rising two-note sine chirp.
func (m *Manager) PlayPowerUp() {
	m.play(beep.Seq(
		note(880, 90*time.Millisecond, waveSine, volPowerUp),
		note(1318.51, 130*time.Millisecond, waveSine, volPowerUp),
	))
}

// PlayLevelUp is a three-note square arpeggio (C5 E5 G5).
func (m *Manager) PlayLevelUp() {
	m.play(beep.Seq(
		note(523.25, 80*time.Millisecond, waveSquare, volLevelUp),
		note(659.25, 80*time.Millisecond, waveSquare, volLevelUp),
		note(783.99, 150*time.Millisecond, waveSquare, volLevelUp),
	))
}

// PlayGameOver is a long descending saw sweep.
func (m *Manager) PlayGameOver() {
	d := 600 * time.Millisecond
	m.play(gain(newEnvelope(newSweep(320, 60, d, waveSaw), d, 5*time.Millisecond, 250*time.Millisecond), volGameOver))
}
