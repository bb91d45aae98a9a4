package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
)

// CreateTestWorld creates the classic 400x400/20px world with a seeded RNG:
// snake [(160,160)] heading RIGHT, food at (60,60).
func CreateTestWorld(t *testing.T, seed int64) *game.World {
	t.Helper()
	cfg := game.DefaultWorldConfig()
	cfg.Rng = NewTestRNG(seed)
	w, err := game.NewWorld(cfg)
	require.NoError(t, err)
	return w
}

// CreateSmallWorld creates a size x size cell board with 1px cells, the
// snake spawned at (0,0) heading RIGHT.
func CreateSmallWorld(t *testing.T, size int, seed int64) *game.World {
	t.Helper()
	cfg := game.WorldConfig{
		BoardSize:      size,
		CellSize:       1,
		Spawn:          core.Position{X: 0, Y: 0},
		InitialFood:    core.Position{X: size - 1, Y: size - 1},
		StartDirection: core.Right,
		Rng:            NewTestRNG(seed),
		Logger:         NopLogger(),
	}
	w, err := game.NewWorld(cfg)
	require.NoError(t, err)
	return w
}

// GrowSnake drives the world along the given actions, placing food in
// front of the head before every move so that each step eats.
func GrowSnake(t *testing.T, w *game.World, actions ...core.Action) {
	t.Helper()
	for _, a := range actions {
		next := w.Head().Move(a, w.CellSize())
		require.NoError(t, w.PlaceFood(next))
		tr := w.Step(a)
		require.False(t, tr.Collided, "unexpected collision growing snake towards %s", next)
		require.True(t, tr.AteFood)
	}
}
