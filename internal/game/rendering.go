package game

import (
	"strconv"
	"strings"

	"github.com/logrusorgru/aurora"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
)

// This file contains the terminal rendering of the board.

const (
	EmptySymbol = "·"
	HeadSymbol  = "@"
	BodySymbol  = "o"
	FoodSymbol  = "*"
)

// Board returns a string representation of the board. With colors disabled
// the output is plain text, which keeps it stable for tests and log files.
func (w *World) Board(colors bool) string {
	au := aurora.NewAurora(colors)
	perAxis := w.cfg.BoardSize / w.cfg.CellSize

	body := make(map[core.Position]bool, len(w.snake))
	for _, s := range w.snake[1:] {
		body[s] = true
	}

	var sb strings.Builder
	sb.Grow((perAxis*2 + 8) * (perAxis + 3))

	// Header row
	sb.WriteString("   ")
	for col := 0; col < perAxis; col++ {
		sb.WriteString(strconv.Itoa(col % 10))
		sb.WriteString(" ")
	}
	sb.WriteString("\n")

	for row := 0; row < perAxis; row++ {
		if row < 10 {
			sb.WriteString(" ")
		}
		sb.WriteString(strconv.Itoa(row))
		sb.WriteString(" ")
		for col := 0; col < perAxis; col++ {
			p := core.Position{X: col * w.cfg.CellSize, Y: row * w.cfg.CellSize}
			switch {
			case p == w.snake[0]:
				sb.WriteString(au.Bold(au.Green(HeadSymbol)).String())
			case body[p]:
				sb.WriteString(au.Green(BodySymbol).String())
			case p == w.food:
				sb.WriteString(au.Red(FoodSymbol).String())
			default:
				sb.WriteString(au.Gray(12, EmptySymbol).String())
			}
			sb.WriteString(" ")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(au.Cyan("score=").String())
	sb.WriteString(strconv.Itoa(w.score))
	sb.WriteString(" length=")
	sb.WriteString(strconv.Itoa(len(w.snake)))
	sb.WriteString(" heading=")
	sb.WriteString(w.direction.String())
	sb.WriteString("\n")

	return sb.String()
}
