package experience

import (
	"fmt"
	"math"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
)

// RewardConfig holds configurable reward values
type RewardConfig struct {
	Food      float64 // head reaches the food cell
	Collision float64 // head leaves the board or hits the body
	Step      float64 // any other move
}

// DefaultRewardConfig returns the default reward configuration
func DefaultRewardConfig() RewardConfig {
	return RewardConfig{
		Food:      10,
		Collision: -10,
		Step:      -1,
	}
}

// Validate rejects non-finite reward values
func (c RewardConfig) Validate() error {
	for name, v := range map[string]float64{"food": c.Food, "collision": c.Collision, "step": c.Step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("reward %s must be finite, got %v", name, v)
		}
	}
	return nil
}

// RewardModel scores transitions. Rewards are always computed from a
// simulated candidate move before it is committed to the world.
type RewardModel struct {
	config RewardConfig
}

// NewRewardModel creates a reward model with the given configuration
func NewRewardModel(config RewardConfig) *RewardModel {
	return &RewardModel{config: config}
}

// Config returns the reward configuration
func (m *RewardModel) Config() RewardConfig {
	return m.config
}

// Reward maps a candidate transition to a scalar
func (m *RewardModel) Reward(t game.Transition) float64 {
	switch {
	case t.Collided:
		return m.config.Collision
	case t.AteFood:
		return m.config.Food
	default:
		return m.config.Step
	}
}

// Score simulates action a on w and scores the candidate state without
// mutating the world.
func (m *RewardModel) Score(w *game.World, a core.Action) (game.Transition, float64) {
	t := w.Simulate(a)
	return t, m.Reward(t)
}

// Lookahead returns the reward of every action from the current state, in
// action priority order.
func (m *RewardModel) Lookahead(w *game.World) [core.NumActions]float64 {
	var out [core.NumActions]float64
	for _, a := range core.Actions {
		out[a] = m.Reward(w.Simulate(a))
	}
	return out
}
