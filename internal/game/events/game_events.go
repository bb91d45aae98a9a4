package events

import (
	"time"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
)

// Event type constants
const (
	TypeEpisodeStarted  = "episode.started"
	TypeEpisodeEnded    = "episode.ended"
	TypeFoodEaten       = "food.eaten"
	TypeTickCompleted   = "tick.completed"
	TypeOverrideApplied = "override.applied"
)

// EpisodeStartedEvent is published when a new episode begins
type EpisodeStartedEvent struct {
	BaseEvent
	Episode int
	Head    core.Position
	Food    core.Position
}

// NewEpisodeStartedEvent creates a new EpisodeStartedEvent
func NewEpisodeStartedEvent(sessionID string, episode int, head, food core.Position) *EpisodeStartedEvent {
	return &EpisodeStartedEvent{
		BaseEvent: newBase(TypeEpisodeStarted, sessionID),
		Episode:   episode,
		Head:      head,
		Food:      food,
	}
}

// EpisodeEndedEvent is published on a terminal tick, before the reset
type EpisodeEndedEvent struct {
	BaseEvent
	Episode  int
	Score    int
	Length   int
	Ticks    int
	Won      bool
	Epsilon  float64
	Duration time.Duration
}

// NewEpisodeEndedEvent creates a new EpisodeEndedEvent
func NewEpisodeEndedEvent(sessionID string, episode, score, length, ticks int, won bool, epsilon float64, duration time.Duration) *EpisodeEndedEvent {
	return &EpisodeEndedEvent{
		BaseEvent: newBase(TypeEpisodeEnded, sessionID),
		Episode:   episode,
		Score:     score,
		Length:    length,
		Ticks:     ticks,
		Won:       won,
		Epsilon:   epsilon,
		Duration:  duration,
	}
}

// FoodEatenEvent is published when the head reaches the food
type FoodEatenEvent struct {
	BaseEvent
	Episode  int
	Tick     int
	Position core.Position
	Score    int
	Length   int
}

// NewFoodEatenEvent creates a new FoodEatenEvent
func NewFoodEatenEvent(sessionID string, episode, tick int, pos core.Position, score, length int) *FoodEatenEvent {
	return &FoodEatenEvent{
		BaseEvent: newBase(TypeFoodEaten, sessionID),
		Episode:   episode,
		Tick:      tick,
		Position:  pos,
		Score:     score,
		Length:    length,
	}
}

// TickCompletedEvent is published after every tick
type TickCompletedEvent struct {
	BaseEvent
	Tick     int
	Action   core.Action
	Reward   float64
	Epsilon  float64
	Terminal bool
}

// NewTickCompletedEvent creates a new TickCompletedEvent
func NewTickCompletedEvent(sessionID string, tick int, action core.Action, reward, epsilon float64, terminal bool) *TickCompletedEvent {
	return &TickCompletedEvent{
		BaseEvent: newBase(TypeTickCompleted, sessionID),
		Tick:      tick,
		Action:    action,
		Reward:    reward,
		Epsilon:   epsilon,
		Terminal:  terminal,
	}
}

// OverrideAppliedEvent is published when a manual action replaces the
// agent's choice
type OverrideAppliedEvent struct {
	BaseEvent
	Tick      int
	Requested core.Action
	Applied   core.Action
}

// NewOverrideAppliedEvent creates a new OverrideAppliedEvent
func NewOverrideAppliedEvent(sessionID string, tick int, requested, applied core.Action) *OverrideAppliedEvent {
	return &OverrideAppliedEvent{
		BaseEvent: newBase(TypeOverrideApplied, sessionID),
		Tick:      tick,
		Requested: requested,
		Applied:   applied,
	}
}
