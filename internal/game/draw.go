package game

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// hudScale is the integer upscale applied to HUD text; the HUD is drawn
// into a half-size buffer and blitted at 2x so the bitmap font stays crisp.
const hudScale = 2

// Banner buffer, two debug-text lines. Wide enough for the restart hint.
const (
	bannerBufW = 320
	bannerBufH = 32
	glyphW     = 6  // debug text advance
	glyphH     = 16 // debug text line height
)

// Board palette. Power-up colours index by kind.
var (
	colBackground  = color.RGBA{R: 12, G: 16, B: 12, A: 255}
	colGridLine    = color.RGBA{R: 26, G: 34, B: 26, A: 255}
	colObstacle    = color.RGBA{R: 112, G: 112, B: 118, A: 255}
	colObstacleRim = color.RGBA{R: 70, G: 70, B: 76, A: 255}
	colFood        = color.RGBA{R: 222, G: 48, B: 36, A: 255}
	colSnakeBody   = color.RGBA{R: 44, G: 186, B: 62, A: 255}
	colSnakeHead   = color.RGBA{R: 96, G: 240, B: 112, A: 255}
	colSnakeFlash  = color.RGBA{R: 238, G: 250, B: 238, A: 255}
	colHUDPanel    = color.RGBA{R: 0, G: 0, B: 0, A: 170}
	colOverlay     = color.RGBA{R: 0, G: 0, B: 0, A: 160}
	colBannerText  = color.RGBA{R: 230, G: 60, B: 48, A: 255}
	colHintText    = color.RGBA{R: 220, G: 220, B: 220, A: 255}
)

var powerUpColors = [powerUpKindCount]color.RGBA{
	PowerUpSpeed:      {R: 248, G: 208, B: 48, A: 255},
	PowerUpInvincible: {R: 54, G: 214, B: 228, A: 255},
	PowerUpBonusScore: {R: 226, G: 70, B: 216, A: 255},
}

func (g *EbitenGame) Draw(screen *ebiten.Image) {
	g.worldBuf.Clear()
	g.drawBoard(g.worldBuf)
	screen.DrawImage(g.worldBuf, nil)

	g.drawHUD(screen)
	if g.state.Over() {
		g.drawGameOver(screen)
	}
}

func (g *EbitenGame) drawBoard(dst *ebiten.Image) {
	cs := float32(g.cfg.CellSize)
	w := float32(g.cfg.ScreenWidth)
	h := float32(g.cfg.ScreenHeight)

	vector.FillRect(dst, 0, 0, w, h, colBackground, false)

	// Faint cell grid.
	for x := 1; x < g.state.GridWidth(); x++ {
		fx := float32(x) * cs
		vector.StrokeLine(dst, fx, 0, fx, h, 1, colGridLine, false)
	}
	for y := 1; y < g.state.GridHeight(); y++ {
		fy := float32(y) * cs
		vector.StrokeLine(dst, 0, fy, w, fy, 1, colGridLine, false)
	}

	for _, o := range g.state.Obstacles() {
		fx, fy := float32(o.X)*cs, float32(o.Y)*cs
		vector.FillRect(dst, fx+1, fy+1, cs-2, cs-2, colObstacle, false)
		vector.StrokeRect(dst, fx+1, fy+1, cs-2, cs-2, 2, colObstacleRim, false)
	}

	f := g.state.Food()
	vector.FillRect(dst, float32(f.X)*cs+1, float32(f.Y)*cs+1, cs-2, cs-2, colFood, false)

	// Power-ups render as discs so they read differently from food.
	for _, p := range g.state.PowerUps() {
		cx := float32(p.Cell.X)*cs + cs/2
		cy := float32(p.Cell.Y)*cs + cs/2
		vector.FillCircle(dst, cx, cy, cs/2-2, powerUpColors[p.Kind], false)
	}

	// Snake, head last so it wins any overlap. While invincible the whole
	// body flashes on a four-tick cadence.
	flash := g.state.Invincible() && (g.state.Tick()/4)%2 == 0
	snake := g.state.Snake()
	for i := len(snake) - 1; i >= 0; i-- {
		c := snake[i]
		fill := colSnakeBody
		if i == 0 {
			fill = colSnakeHead
		}
		if flash {
			fill = colSnakeFlash
		}
		vector.FillRect(dst, float32(c.X)*cs+1, float32(c.Y)*cs+1, cs-2, cs-2, fill, false)
	}
}

func (g *EbitenGame) drawHUD(screen *ebiten.Image) {
	lines := []string{
		fmt.Sprintf("SCORE %d   HI %d", g.state.Score(), g.state.HighScore()),
		fmt.Sprintf("LEVEL %d   SPEED %d", g.state.Level(), g.state.Speed()),
	}
	if g.state.Invincible() {
		lines = append(lines, fmt.Sprintf("INVINCIBLE %d", g.state.InvincibleTicks()))
	}
	var flags []string
	if g.paused {
		flags = append(flags, "PAUSED")
	}
	if g.sounds != nil && g.sounds.Muted() {
		flags = append(flags, "MUTED")
	}
	if len(flags) > 0 {
		lines = append(lines, strings.Join(flags, "  "))
	}
	if g.noticeTicks > 0 {
		lines = append(lines, g.notice)
	}

	const pad = 4
	const lineH = 16
	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}

	g.hudBuf.Clear()
	panelW := float32(maxLen*6 + pad*2)
	panelH := float32(len(lines)*lineH + pad*2)
	vector.FillRect(g.hudBuf, 0, 0, panelW, panelH, colHUDPanel, false)
	for i, l := range lines {
		ebitenutil.DebugPrintAt(g.hudBuf, l, pad, pad+i*lineH)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(hudScale, hudScale)
	screen.DrawImage(g.hudBuf, op)
}

func (g *EbitenGame) drawGameOver(screen *ebiten.Image) {
	w := float32(g.cfg.ScreenWidth)
	h := float32(g.cfg.ScreenHeight)
	vector.FillRect(screen, 0, 0, w, h, colOverlay, false)

	// Both lines render small and white into one buffer, then blit off
	// sub-rectangles at different scales with a colour tint.
	headline := "GAME OVER"
	hint := fmt.Sprintf("score %d   press SPACE to restart", g.state.Score())

	g.bannerBuf.Clear()
	ebitenutil.DebugPrintAt(g.bannerBuf, headline, 0, 0)
	ebitenutil.DebugPrintAt(g.bannerBuf, hint, 0, glyphH)

	headW := len(headline) * glyphW
	hintW := len(hint) * glyphW

	headImg := g.bannerBuf.SubImage(image.Rect(0, 0, headW, glyphH)).(*ebiten.Image)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(4, 4)
	op.GeoM.Translate(float64(g.cfg.ScreenWidth-headW*4)/2, float64(g.cfg.ScreenHeight)*0.38)
	op.ColorScale.ScaleWithColor(colBannerText)
	screen.DrawImage(headImg, op)

	hintImg := g.bannerBuf.SubImage(image.Rect(0, glyphH, hintW, 2*glyphH)).(*ebiten.Image)
	op = &ebiten.DrawImageOptions{}
	op.GeoM.Scale(2, 2)
	op.GeoM.Translate(float64(g.cfg.ScreenWidth-hintW*2)/2, float64(g.cfg.ScreenHeight)*0.38+70)
	op.ColorScale.ScaleWithColor(colHintText)
	screen.DrawImage(hintImg, op)
}
