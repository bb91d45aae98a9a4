package renderer

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/session"
)

func TestCellRect(t *testing.T) {
	r := CellRect(core.Position{X: 160, Y: 60}, 20)
	assert.Equal(t, image.Rect(161, 101, 179, 119), r)
	assert.Equal(t, 18, r.Dx())
}

func TestSegmentColor(t *testing.T) {
	assert.Equal(t, HeadColor, SegmentColor(0, 1))
	assert.Equal(t, HeadColor, SegmentColor(0, 5))
	assert.Equal(t, TailColor, SegmentColor(4, 5))

	mid := SegmentColor(1, 3)
	assert.Equal(t, uint8(75), mid.R)
	assert.Equal(t, uint8(170), mid.G)
}

func TestHUDLines(t *testing.T) {
	lines := HUDLines(session.Frame{Episode: 3, Score: 2, BestScore: 5, Tick: 40, Epsilon: 0.5, States: 12})
	assert.Equal(t, []string{
		"Episode 3  Score 2  Best 5",
		"Tick 40  eps 0.500  states 12",
	}, lines)
}
