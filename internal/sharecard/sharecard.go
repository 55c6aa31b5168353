// Package sharecard renders a run as a shareable PNG: the final board, a
// stats caption and a QR code identifying the run so it can be replayed.
package sharecard

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font/basicfont"

	"github.com/redxchap93/sindi/internal/game"
)

// Card geometry at native resolution; Write upscales by upscale at the end.
const (
	cardCell = 12 // board pixels per grid cell
	margin   = 12
	headerH  = 56
	qrSize   = 96
	upscale  = 2
)

// Board palette, matching the desktop renderer's colours.
var (
	colCardBG    = color.RGBA{R: 13, G: 15, B: 13, A: 255}
	colHeaderBG  = color.RGBA{R: 26, G: 36, B: 26, A: 255}
	colTitle     = color.RGBA{R: 96, G: 240, B: 112, A: 255}
	colCaption   = color.RGBA{R: 225, G: 225, B: 225, A: 255}
	colBoardBG   = color.RGBA{R: 12, G: 16, B: 12, A: 255}
	colObstacle  = color.RGBA{R: 112, G: 112, B: 118, A: 255}
	colFood      = color.RGBA{R: 222, G: 48, B: 36, A: 255}
	colSnakeBody = color.RGBA{R: 44, G: 186, B: 62, A: 255}
	colSnakeHead = color.RGBA{R: 96, G: 240, B: 112, A: 255}
)

var powerUpColors = map[game.PowerUpKind]color.RGBA{
	game.PowerUpSpeed:      {R: 248, G: 208, B: 48, A: 255},
	game.PowerUpInvincible: {R: 54, G: 214, B: 228, A: 255},
	game.PowerUpBonusScore: {R: 226, G: 70, B: 216, A: 255},
}

// Payload is the machine-readable run descriptor embedded in the QR code.
// cmd/headless-report -seed replays the run it names.
func Payload(snap game.Snapshot) string {
	return fmt.Sprintf("sindi:v1;seed=%d;grid=%dx%d;score=%d;ticks=%d",
		snap.Seed, snap.GridW, snap.GridH, snap.Score, snap.Ticks)
}

// Render draws the card at native resolution.
func Render(snap game.Snapshot) (image.Image, error) {
	boardW := snap.GridW * cardCell
	boardH := snap.GridH * cardCell
	w := boardW + 2*margin
	boardY := headerH + margin
	footerY := boardY + boardH + margin
	h := footerY + qrSize + margin

	dc := gg.NewContext(w, h)
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(colCardBG)
	dc.Clear()

	// Header strip: title and the run caption.
	dc.SetColor(colHeaderBG)
	dc.DrawRectangle(0, 0, float64(w), headerH)
	dc.Fill()
	dc.SetColor(colTitle)
	dc.DrawString("SINDI", margin, 24)
	dc.SetColor(colCaption)
	caption := fmt.Sprintf("score %d   high %d   level %d   ticks %d", snap.Score, snap.HighScore, snap.Level, snap.Ticks)
	dc.DrawString(caption, margin, 42)

	// Board.
	ox, oy := float64(margin), float64(boardY)
	dc.SetColor(colBoardBG)
	dc.DrawRectangle(ox, oy, float64(boardW), float64(boardH))
	dc.Fill()
	cell := func(c game.Cell, col color.RGBA) {
		dc.SetColor(col)
		dc.DrawRectangle(ox+float64(c.X*cardCell)+1, oy+float64(c.Y*cardCell)+1, cardCell-2, cardCell-2)
		dc.Fill()
	}
	for _, o := range snap.Obstacles {
		cell(o, colObstacle)
	}
	cell(snap.Food, colFood)
	for _, p := range snap.PowerUps {
		cell(p.Cell, powerUpColors[p.Kind])
	}
	for i := len(snap.Snake) - 1; i >= 0; i-- {
		col := colSnakeBody
		if i == 0 {
			col = colSnakeHead
		}
		cell(snap.Snake[i], col)
	}

	// Footer: replay hint on the left, QR code on the right.
	dc.SetColor(colCaption)
	dc.DrawString("scan to replay this run", margin, float64(footerY)+28)
	dc.DrawString(fmt.Sprintf("seed %d", snap.Seed), margin, float64(footerY)+46)

	qr, err := qrcode.New(Payload(snap), qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("share card qr: %w", err)
	}
	dc.DrawImage(qr.Image(qrSize), w-margin-qrSize, footerY)

	return dc.Image(), nil
}

// Write renders snap and saves it to path, upscaled with a nearest
// neighbour filter so the cells stay crisp. The format follows the file
// extension; callers use .png.
func Write(path string, snap game.Snapshot) error {
	img, err := Render(snap)
	if err != nil {
		return err
	}
	big := imaging.Resize(img, img.Bounds().Dx()*upscale, img.Bounds().Dy()*upscale, imaging.NearestNeighbor)
	if err := imaging.Save(big, path); err != nil {
		return fmt.Errorf("share card save: %w", err)
	}
	return nil
}
