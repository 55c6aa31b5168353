package game

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
)

// engineTPS is Ebitengine's fixed update rate. Simulation pacing is a
// fractional accumulator on top of it: speed/engineTPS per update, so the
// snake advances speed cells per second regardless of how that divides 60.
const engineTPS = 60

// noticeDuration is how long a transient HUD notice stays up, in updates.
const noticeDuration = 180

// Sounds is the audio surface the front end triggers. A nil Sounds plays
// nothing.
type Sounds interface {
	PlayEat()
	PlayPowerUp()
	PlayLevelUp()
	PlayGameOver()
	SetMuted(bool)
	Muted() bool
}

// EbitenGame adapts a State to ebiten.Game: keyboard in, pixels and sound
// out. All simulation semantics stay in State; this layer only paces,
// routes input and renders.
type EbitenGame struct {
	state     *State
	cfg       Config
	sounds    Sounds
	writeCard func(path string, snap Snapshot) error

	paused      bool
	stepAccum   float64
	prevKeys    map[ebiten.Key]bool
	eventCursor int // absolute event log index, for sound triggers

	worldBuf  *ebiten.Image
	hudBuf    *ebiten.Image
	bannerBuf *ebiten.Image

	notice      string
	noticeTicks int
}

// NewEbitenGame wraps st for the desktop front end. sounds and writeCard
// may be nil: the game then runs silent, or with the share card key dead.
func NewEbitenGame(st *State, cfg Config, sounds Sounds, writeCard func(string, Snapshot) error) *EbitenGame {
	return &EbitenGame{
		state:       st,
		cfg:         cfg,
		sounds:      sounds,
		writeCard:   writeCard,
		prevKeys:    make(map[ebiten.Key]bool),
		eventCursor: st.Events().Len(),
		worldBuf:    ebiten.NewImage(cfg.ScreenWidth, cfg.ScreenHeight),
		hudBuf:      ebiten.NewImage(cfg.ScreenWidth/hudScale, cfg.ScreenHeight/hudScale),
		bannerBuf:   ebiten.NewImage(bannerBufW, bannerBufH),
	}
}

func (g *EbitenGame) Update() error {
	g.handleInput()
	if g.noticeTicks > 0 {
		g.noticeTicks--
	}
	if g.paused || g.state.Over() {
		return nil
	}

	g.stepAccum += float64(g.state.Speed()) / engineTPS
	for g.stepAccum >= 1 {
		g.stepAccum--
		g.state.Step()
		if g.state.Over() {
			break
		}
	}
	g.fireSounds()
	return nil
}

// fireSounds plays one-shots for events appended since the last update.
// The cursor is absolute, so event log trimming never replays old sounds.
func (g *EbitenGame) fireSounds() {
	log := g.state.Events()
	if g.sounds == nil {
		g.eventCursor = log.Len()
		return
	}
	for _, e := range log.Since(g.eventCursor) {
		switch {
		case e.Category == "food" && e.Key == "eaten":
			g.sounds.PlayEat()
		case e.Category == "powerup" && e.Key == "collected":
			g.sounds.PlayPowerUp()
		case e.Category == "score" && e.Key == "level_up":
			g.sounds.PlayLevelUp()
		case e.Category == "game" && e.Key == "over":
			g.sounds.PlayGameOver()
		}
	}
	g.eventCursor = log.Len()
}

func (g *EbitenGame) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !g.prevKeys[k]
	}

	// Heading keys are level-triggered; repeat requests are idempotent and
	// the engine rejects reversals itself.
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		g.state.SetHeading(HeadingUp)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		g.state.SetHeading(HeadingDown)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		g.state.SetHeading(HeadingLeft)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		g.state.SetHeading(HeadingRight)
	}

	// Space restarts a finished game.
	if pressed(ebiten.KeySpace) && g.state.Over() {
		g.state.Reset()
		g.stepAccum = 0
		g.eventCursor = g.state.Events().Len()
	}

	if pressed(ebiten.KeyP) {
		g.paused = !g.paused
	}

	if pressed(ebiten.KeyM) && g.sounds != nil {
		g.sounds.SetMuted(!g.sounds.Muted())
	}

	if pressed(ebiten.KeyR) {
		if err := clipboard.WriteAll(g.state.RunReport()); err != nil {
			g.flash("report copy failed: " + err.Error())
		} else {
			g.flash("report copied to clipboard")
		}
	}

	if pressed(ebiten.KeyF2) && g.writeCard != nil {
		path := fmt.Sprintf("sindi-%d-t%d.png", g.state.Seed(), g.state.Tick())
		if err := g.writeCard(path, g.state.Snapshot()); err != nil {
			g.flash("share card failed: " + err.Error())
		} else {
			g.flash("share card saved: " + path)
		}
	}

	g.prevKeys = currentKeys
}

// flash shows msg in the HUD for a few seconds.
func (g *EbitenGame) flash(msg string) {
	g.notice = msg
	g.noticeTicks = noticeDuration
}

func (g *EbitenGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.ScreenWidth, g.cfg.ScreenHeight
}
