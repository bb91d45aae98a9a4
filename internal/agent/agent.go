package agent

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
)

// RandSource is the randomness the agent draws from. *rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
	Intn(n int) int
}

// Params holds the learning hyperparameters
type Params struct {
	LearningRate float64 // α
	Discount     float64 // γ
	Epsilon      float64 // initial exploration rate
	EpsilonMin   float64
	EpsilonDecay float64
}

// DefaultParams returns the default hyperparameters
func DefaultParams() Params {
	return Params{
		LearningRate: 0.1,
		Discount:     0.9,
		Epsilon:      1.0,
		EpsilonMin:   0.1,
		EpsilonDecay: 0.995,
	}
}

// Validate checks that every parameter lies in its valid range
func (p Params) Validate() error {
	if p.LearningRate <= 0 || p.LearningRate > 1 {
		return fmt.Errorf("learning rate must be in (0, 1], got %v", p.LearningRate)
	}
	if p.Discount < 0 || p.Discount > 1 {
		return fmt.Errorf("discount must be in [0, 1], got %v", p.Discount)
	}
	if p.Epsilon < 0 || p.Epsilon > 1 {
		return fmt.Errorf("epsilon must be in [0, 1], got %v", p.Epsilon)
	}
	if p.EpsilonMin < 0 || p.EpsilonMin > 1 {
		return fmt.Errorf("epsilon min must be in [0, 1], got %v", p.EpsilonMin)
	}
	if p.EpsilonDecay <= 0 || p.EpsilonDecay > 1 {
		return fmt.Errorf("epsilon decay must be in (0, 1], got %v", p.EpsilonDecay)
	}
	return nil
}

// Agent is an epsilon-greedy tabular Q-learner. Epsilon is process-lifetime
// state: it only ever decays and is never reset between episodes.
type Agent struct {
	mu      sync.Mutex
	table   *QTable
	rng     RandSource
	epsilon float64
	params  Params
	logger  zerolog.Logger
}

// New creates an agent with a fresh Q-table
func New(params Params, rng RandSource, logger zerolog.Logger) (*Agent, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return NewWithTable(params, NewQTable(params.LearningRate, params.Discount), rng, logger)
}

// NewWithTable creates an agent that learns into an existing, possibly
// shared, Q-table. α and γ come from the table.
func NewWithTable(params Params, table *QTable, rng RandSource, logger zerolog.Logger) (*Agent, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("agent requires a random source")
	}
	return &Agent{
		table:   table,
		rng:     rng,
		epsilon: params.Epsilon,
		params:  params,
		logger:  logger.With().Str("component", "agent").Logger(),
	}, nil
}

// ChooseAction picks an action for key: with probability ε a uniformly
// random one of the four, otherwise the table's best action.
func (a *Agent) ChooseAction(key core.StateKey) core.Action {
	a.mu.Lock()
	explore := a.rng.Float64() < a.epsilon
	var random core.Action
	if explore {
		random = core.Actions[a.rng.Intn(core.NumActions)]
	}
	a.mu.Unlock()

	if explore {
		return random
	}
	return a.table.BestAction(key)
}

// Learn applies the Q-learning update for one transition. Terminal
// transitions have no successor value.
func (a *Agent) Learn(key core.StateKey, action core.Action, reward float64, next core.StateKey, terminal bool) float64 {
	maxNext := 0.0
	if !terminal {
		maxNext = a.table.MaxValue(next)
	}
	v := a.table.Update(key, action, reward, maxNext)

	a.logger.Trace().
		Str("state", key.String()).
		Str("action", action.String()).
		Float64("reward", reward).
		Float64("q", v).
		Msg("Q-value updated")
	return v
}

// DecayExploration multiplies ε by the decay factor while it is above the
// floor, never letting it drop below the floor.
func (a *Agent) DecayExploration() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.epsilon > a.params.EpsilonMin {
		a.epsilon *= a.params.EpsilonDecay
		if a.epsilon < a.params.EpsilonMin {
			a.epsilon = a.params.EpsilonMin
		}
	}
}

// Epsilon returns the current exploration rate
func (a *Agent) Epsilon() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.epsilon
}

// SetEpsilon forces the exploration rate, e.g. to watch a trained policy
func (a *Agent) SetEpsilon(e float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.epsilon = e
}

// Table returns the agent's Q-table
func (a *Agent) Table() *QTable { return a.table }

// Params returns the agent's hyperparameters
func (a *Agent) Params() Params { return a.params }
