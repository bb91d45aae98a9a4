package experience

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
)

func newTestWorld(t *testing.T, spawn core.Position) *game.World {
	t.Helper()
	cfg := game.DefaultWorldConfig()
	cfg.Spawn = spawn
	w, err := game.NewWorld(cfg)
	require.NoError(t, err)
	return w
}

func TestReward_Scenarios(t *testing.T) {
	model := NewRewardModel(DefaultRewardConfig())

	tests := []struct {
		name     string
		t        game.Transition
		expected float64
	}{
		{"Food", game.Transition{Head: core.Position{X: 60, Y: 60}, AteFood: true}, 10},
		{"OutOfBounds", game.Transition{Head: core.Position{X: 400, Y: 160}, Collided: true}, -10},
		{"Step", game.Transition{Head: core.Position{X: 180, Y: 160}}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, model.Reward(tt.t))
		})
	}
}

func TestScore_SimulatesBeforeCommit(t *testing.T) {
	model := NewRewardModel(DefaultRewardConfig())
	w := newTestWorld(t, core.Position{X: 380, Y: 160})

	tr, reward := model.Score(w, core.Right)
	assert.Equal(t, -10.0, reward)
	assert.True(t, tr.Collided)
	assert.Equal(t, core.Position{X: 400, Y: 160}, tr.Head)
	assert.Equal(t, core.Position{X: 380, Y: 160}, w.Head(), "scoring must not move the snake")

	require.NoError(t, w.PlaceFood(core.Position{X: 380, Y: 140}))
	_, reward = model.Score(w, core.Up)
	assert.Equal(t, 10.0, reward)

	_, reward = model.Score(w, core.Down)
	assert.Equal(t, -1.0, reward)
}

func TestLookahead(t *testing.T) {
	model := NewRewardModel(DefaultRewardConfig())
	w := newTestWorld(t, core.Position{X: 0, Y: 0})
	require.NoError(t, w.PlaceFood(core.Position{X: 20, Y: 0}))

	rewards := model.Lookahead(w)
	assert.Equal(t, [core.NumActions]float64{-10, -1, -10, 10}, rewards)
}

func TestRewardConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultRewardConfig().Validate())

	cfg := DefaultRewardConfig()
	cfg.Step = math.NaN()
	assert.Error(t, cfg.Validate())

	cfg = DefaultRewardConfig()
	cfg.Food = math.Inf(1)
	assert.Error(t, cfg.Validate())
}

func TestReward_CustomConfig(t *testing.T) {
	model := NewRewardModel(RewardConfig{Food: 1, Collision: -5, Step: -0.1})
	assert.Equal(t, 1.0, model.Reward(game.Transition{AteFood: true}))
	assert.Equal(t, -5.0, model.Reward(game.Transition{Collided: true}))
	assert.InDelta(t, -0.1, model.Reward(game.Transition{}), 1e-9)
}
