package renderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/session"
)

var (
	BackgroundColor = color.RGBA{20, 20, 20, 255}
	GridColor       = color.RGBA{35, 35, 35, 255}
	HeadColor       = color.RGBA{120, 230, 120, 255}
	TailColor       = color.RGBA{30, 110, 30, 255}
	FoodColor       = color.RGBA{220, 60, 60, 255}
	HUDColor        = color.White
)

// HUDHeight is the strip above the board reserved for text
const HUDHeight = 40

type BoardRenderer struct {
	defaultFont font.Face
}

// NewBoardRenderer returns a renderer ready to use.
func NewBoardRenderer(f font.Face) *BoardRenderer {
	return &BoardRenderer{defaultFont: f}
}

// Draw renders the board and HUD of frame on screen.
func (br *BoardRenderer) Draw(screen *ebiten.Image, frame session.Frame) {
	screen.Fill(BackgroundColor)
	if frame.CellSize <= 0 {
		return
	}

	// Grid lines
	for off := 0; off <= frame.BoardSize; off += frame.CellSize {
		vector.StrokeLine(screen, float32(off), HUDHeight, float32(off), float32(HUDHeight+frame.BoardSize), 1, GridColor, false)
		vector.StrokeLine(screen, 0, float32(HUDHeight+off), float32(frame.BoardSize), float32(HUDHeight+off), 1, GridColor, false)
	}

	fillCell(screen, CellRect(frame.Food, frame.CellSize), FoodColor)
	for i := len(frame.Snake) - 1; i >= 0; i-- {
		fillCell(screen, CellRect(frame.Snake[i], frame.CellSize), SegmentColor(i, len(frame.Snake)))
	}

	if br.defaultFont != nil {
		for i, line := range HUDLines(frame) {
			text.Draw(screen, line, br.defaultFont, 5, 15+i*16, HUDColor)
		}
	}
}

// CellRect returns the screen rectangle of the cell at p, leaving a one
// pixel gap so segments stay distinguishable.
func CellRect(p core.Position, cellSize int) image.Rectangle {
	y := p.Y + HUDHeight
	return image.Rect(p.X+1, y+1, p.X+cellSize-1, y+cellSize-1)
}

// SegmentColor fades from the head colour to the tail colour
func SegmentColor(i, n int) color.RGBA {
	if n <= 1 {
		return HeadColor
	}
	t := float64(i) / float64(n-1)
	lerp := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
	}
	return color.RGBA{
		R: lerp(HeadColor.R, TailColor.R),
		G: lerp(HeadColor.G, TailColor.G),
		B: lerp(HeadColor.B, TailColor.B),
		A: 255,
	}
}

// HUDLines returns the status text drawn above the board
func HUDLines(f session.Frame) []string {
	return []string{
		fmt.Sprintf("Episode %d  Score %d  Best %d", f.Episode, f.Score, f.BestScore),
		fmt.Sprintf("Tick %d  eps %.3f  states %d", f.Tick, f.Epsilon, f.States),
	}
}

func fillCell(screen *ebiten.Image, r image.Rectangle, c color.Color) {
	vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), c, false)
}
