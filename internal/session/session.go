// Package session owns one running snake game: the world, the learning
// agent, the reward model and the event stream that ties them together.
package session

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/agent"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/experience"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/events"
)

// Options configures a new session
type Options struct {
	World   game.WorldConfig
	Agent   agent.Params
	Rewards experience.RewardConfig

	// Table, when set, is shared with other sessions (parallel training).
	Table *agent.QTable
	// AgentRand drives exploration. Defaults to the world's RNG.
	AgentRand agent.RandSource
	// Bus receives session events. A private bus is created when nil.
	Bus *events.EventBus
	// HistorySize is the capacity of the recent-experience buffer.
	HistorySize int
	Logger      zerolog.Logger
}

// DefaultOptions returns the classic board with default hyperparameters
func DefaultOptions() Options {
	return Options{
		World:       game.DefaultWorldConfig(),
		Agent:       agent.DefaultParams(),
		Rewards:     experience.DefaultRewardConfig(),
		HistorySize: 1000,
		Logger:      zerolog.Nop(),
	}
}

// TickResult describes what happened during one tick
type TickResult struct {
	Tick       int
	Episode    int
	Action     core.Action
	Overridden bool
	Head       core.Position
	Reward     float64
	AteFood    bool
	Terminal   bool
	Won        bool
	// Score is the episode score after the tick; on a terminal tick it is
	// the score the episode ended with, before the reset.
	Score int
}

// EpisodeSummary is handed to episode observers when an episode ends
type EpisodeSummary struct {
	SessionID string
	Episode   int
	Score     int
	Length    int
	Ticks     int
	Won       bool
	Truncated bool
	Epsilon   float64
	Duration  time.Duration
}

// Frame is a render-ready copy of the session state
type Frame struct {
	SessionID string
	Snake     []core.Position
	Food      core.Position
	Direction core.Action
	Score     int
	BestScore int
	Episode   int
	Tick      int
	Epsilon   float64
	BoardSize int
	CellSize  int
	States    int
}

// Session aggregates everything one game needs. Ticks are serialized.
type Session struct {
	mu sync.Mutex

	id      string
	world   *game.World
	agent   *agent.Agent
	rewards *experience.RewardModel
	bus     *events.EventBus
	history *experience.Buffer
	logger  zerolog.Logger

	episode      int
	tick         int
	episodeTicks int
	episodeStart time.Time
	bestScore    int
	pending      *core.Action
	closed       bool

	observers []func(EpisodeSummary)
}

// New creates a session and starts its first episode
func New(opts Options) (*Session, error) {
	if opts.World.Rng == nil {
		opts.World.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.AgentRand == nil {
		opts.AgentRand = opts.World.Rng
	}
	if err := opts.Rewards.Validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	logger := opts.Logger.With().Str("session_id", id).Logger()
	opts.World.Logger = logger

	world, err := game.NewWorld(opts.World)
	if err != nil {
		return nil, fmt.Errorf("create world: %w", err)
	}

	var ag *agent.Agent
	if opts.Table != nil {
		ag, err = agent.NewWithTable(opts.Agent, opts.Table, opts.AgentRand, logger)
	} else {
		ag, err = agent.New(opts.Agent, opts.AgentRand, logger)
	}
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	bus := opts.Bus
	if bus == nil {
		bus = events.NewEventBus(logger)
	}

	s := &Session{
		id:           id,
		world:        world,
		agent:        ag,
		rewards:      experience.NewRewardModel(opts.Rewards),
		bus:          bus,
		history:      experience.NewBuffer(opts.HistorySize, logger),
		logger:       logger.With().Str("component", "session").Logger(),
		episode:      1,
		episodeStart: time.Now(),
	}

	s.logger.Info().
		Str("head", world.Head().String()).
		Str("food", world.Food().String()).
		Float64("epsilon", ag.Epsilon()).
		Msg("Session created")
	bus.Publish(events.NewEpisodeStartedEvent(id, s.episode, world.Head(), world.Food()))
	return s, nil
}

// Tick advances the game by one step: choose, veto, score, commit, learn,
// decay and, on a terminal step, reset the world for the next episode.
func (s *Session) Tick() (TickResult, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return TickResult{}, core.ErrSessionClosed
	}
	res, published, summary := s.tickLocked()
	observers := s.observers
	s.mu.Unlock()

	// Handlers may call back into the session, so publish unlocked
	for _, e := range published {
		s.bus.Publish(e)
	}
	if summary != nil {
		for _, fn := range observers {
			fn(*summary)
		}
	}
	return res, nil
}

func (s *Session) tickLocked() (TickResult, []events.Event, *EpisodeSummary) {
	s.tick++
	s.episodeTicks++

	key := s.world.Key()
	var requested core.Action
	overridden := s.pending != nil
	if overridden {
		requested = *s.pending
		s.pending = nil
	} else {
		requested = s.agent.ChooseAction(key)
	}
	action := core.Resolve(s.world.Direction(), requested)

	_, reward := s.rewards.Score(s.world, action)
	t := s.world.Step(action)
	next := s.world.Key()
	terminal := t.Terminal()

	s.agent.Learn(key, action, reward, next, terminal)
	s.agent.DecayExploration()
	epsilon := s.agent.Epsilon()

	s.history.Add(experience.Experience{
		Episode:  s.episode,
		Tick:     s.episodeTicks,
		State:    key,
		Action:   action,
		Reward:   reward,
		Next:     next,
		Terminal: terminal,
	})

	score := s.world.Score()
	res := TickResult{
		Tick:       s.tick,
		Episode:    s.episode,
		Action:     action,
		Overridden: overridden,
		Head:       t.Head,
		Reward:     reward,
		AteFood:    t.AteFood,
		Terminal:   terminal,
		Won:        t.Won,
		Score:      score,
	}

	published := make([]events.Event, 0, 4)
	if overridden {
		published = append(published, events.NewOverrideAppliedEvent(s.id, s.tick, requested, action))
	}
	if t.AteFood {
		published = append(published, events.NewFoodEatenEvent(s.id, s.episode, s.episodeTicks, t.Head, score, s.world.Len()))
	}
	published = append(published, events.NewTickCompletedEvent(s.id, s.tick, action, reward, epsilon, terminal))

	if !terminal {
		return res, published, nil
	}

	summary := s.endEpisodeLocked(t.Won, false)
	published = append(published,
		events.NewEpisodeEndedEvent(s.id, summary.Episode, summary.Score, summary.Length, summary.Ticks, summary.Won, summary.Epsilon, summary.Duration),
		events.NewEpisodeStartedEvent(s.id, s.episode, s.world.Head(), s.world.Food()),
	)
	return res, published, &summary
}

// endEpisodeLocked captures the finished episode and resets the world.
// The Q-table and ε are left untouched.
func (s *Session) endEpisodeLocked(won, truncated bool) EpisodeSummary {
	summary := EpisodeSummary{
		SessionID: s.id,
		Episode:   s.episode,
		Score:     s.world.Score(),
		Length:    s.world.Len(),
		Ticks:     s.episodeTicks,
		Won:       won,
		Truncated: truncated,
		Epsilon:   s.agent.Epsilon(),
		Duration:  time.Since(s.episodeStart),
	}
	if summary.Score > s.bestScore {
		s.bestScore = summary.Score
	}

	s.logger.Debug().
		Int("episode", summary.Episode).
		Int("score", summary.Score).
		Int("ticks", summary.Ticks).
		Bool("won", won).
		Bool("truncated", truncated).
		Float64("epsilon", summary.Epsilon).
		Msg("Episode ended")

	s.world.Reset()
	s.episode++
	s.episodeTicks = 0
	s.episodeStart = time.Now()
	s.pending = nil
	return summary
}

// Truncate ends the current episode without a terminal update, e.g. when a
// trainer caps episode length. Observers are notified as for a normal end.
func (s *Session) Truncate() (EpisodeSummary, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return EpisodeSummary{}, core.ErrSessionClosed
	}
	summary := s.endEpisodeLocked(false, true)
	observers := s.observers
	head, food, episode := s.world.Head(), s.world.Food(), s.episode
	s.mu.Unlock()

	s.bus.Publish(events.NewEpisodeEndedEvent(s.id, summary.Episode, summary.Score, summary.Length, summary.Ticks, false, summary.Epsilon, summary.Duration))
	s.bus.Publish(events.NewEpisodeStartedEvent(s.id, episode, head, food))
	for _, fn := range observers {
		fn(summary)
	}
	return summary, nil
}

// Override queues a human-chosen action for the next tick. It replaces the
// agent's choice once and is still subject to the reverse-direction veto.
func (s *Session) Override(a core.Action) error {
	if !a.Valid() {
		return fmt.Errorf("%w: %d", core.ErrInvalidAction, int(a))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.ErrSessionClosed
	}
	s.pending = &a
	return nil
}

// OnEpisodeEnd registers an observer called after every finished episode
func (s *Session) OnEpisodeEnd(fn func(EpisodeSummary)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Snapshot returns a copy of the state for rendering
func (s *Session) Snapshot() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Frame{
		SessionID: s.id,
		Snake:     s.world.Snake(),
		Food:      s.world.Food(),
		Direction: s.world.Direction(),
		Score:     s.world.Score(),
		BestScore: s.bestScore,
		Episode:   s.episode,
		Tick:      s.tick,
		Epsilon:   s.agent.Epsilon(),
		BoardSize: s.world.BoardSize(),
		CellSize:  s.world.CellSize(),
		States:    s.agent.Table().Len(),
	}
}

// Board renders the world as text, optionally with ANSI colors
func (s *Session) Board(colors bool) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.Board(colors)
}

// Close stops the session; further ticks return ErrSessionClosed
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		s.logger.Info().Int("episodes", s.episode-1).Int("best_score", s.bestScore).Msg("Session closed")
	}
}

// ID returns the session's unique identifier
func (s *Session) ID() string { return s.id }

// Agent returns the learning agent
func (s *Session) Agent() *agent.Agent { return s.agent }

// Bus returns the session's event bus
func (s *Session) Bus() *events.EventBus { return s.bus }

// History returns the recent-experience buffer
func (s *Session) History() *experience.Buffer { return s.history }

// World exposes the environment. Callers must not mutate it concurrently
// with Tick.
func (s *Session) World() *game.World { return s.world }
