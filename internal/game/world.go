package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
)

// maxFoodSamples bounds rejection sampling before falling back to a scan
// of the free cells.
const maxFoodSamples = 64

// WorldConfig describes the board and starting layout of an episode
type WorldConfig struct {
	BoardSize      int
	CellSize       int
	Spawn          core.Position
	InitialFood    core.Position
	StartDirection core.Action
	Rng            *rand.Rand
	Logger         zerolog.Logger
}

// DefaultWorldConfig returns the classic 400x400 board with 20px cells
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		BoardSize:      400,
		CellSize:       20,
		Spawn:          core.Position{X: 160, Y: 160},
		InitialFood:    core.Position{X: 60, Y: 60},
		StartDirection: core.Right,
		Logger:         zerolog.Nop(),
	}
}

// Validate checks the board geometry
func (c WorldConfig) Validate() error {
	if c.CellSize <= 0 || c.BoardSize <= 0 {
		return fmt.Errorf("%w: board %d, cell %d", core.ErrInvalidBoard, c.BoardSize, c.CellSize)
	}
	if c.BoardSize%c.CellSize != 0 {
		return fmt.Errorf("%w: board size %d is not a multiple of cell size %d", core.ErrInvalidBoard, c.BoardSize, c.CellSize)
	}
	if c.BoardSize/c.CellSize < 2 {
		return fmt.Errorf("%w: board must be at least 2 cells wide", core.ErrInvalidBoard)
	}
	if !c.Spawn.InBounds(c.BoardSize) || !c.Spawn.Aligned(c.CellSize) {
		return fmt.Errorf("%w: spawn %s", core.ErrInvalidBoard, c.Spawn)
	}
	if !c.StartDirection.Valid() {
		return fmt.Errorf("%w: start direction %d", core.ErrInvalidAction, int(c.StartDirection))
	}
	return nil
}

// Transition is the outcome of moving the head one cell
type Transition struct {
	From     core.Position
	Head     core.Position
	Action   core.Action
	AteFood  bool
	Collided bool
	// Won is set when the snake fills the board after eating.
	Won bool
}

// Terminal reports whether the transition ends the episode
func (t Transition) Terminal() bool {
	return t.Collided || t.Won
}

// World is the snake environment. It never resets itself; the driver does.
type World struct {
	cfg    WorldConfig
	rng    *rand.Rand
	logger zerolog.Logger

	snake     []core.Position // head first
	food      core.Position
	direction core.Action
	score     int
}

// NewWorld creates a world with a single-segment snake at the spawn cell
func NewWorld(cfg WorldConfig) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := cfg.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	w := &World{
		cfg:       cfg,
		rng:       rng,
		logger:    cfg.Logger.With().Str("component", "world").Logger(),
		snake:     []core.Position{cfg.Spawn},
		direction: cfg.StartDirection,
	}

	food := cfg.InitialFood
	if !food.InBounds(cfg.BoardSize) || !food.Aligned(cfg.CellSize) || w.occupied(food) {
		var err error
		if food, err = w.GenerateFood(); err != nil {
			return nil, err
		}
	}
	w.food = food
	return w, nil
}

// Simulate computes the transition for an action without committing it.
// The collision check runs against the full current body, tail included.
func (w *World) Simulate(a core.Action) Transition {
	head := w.snake[0]
	next := head.Move(a, w.cfg.CellSize)
	return Transition{
		From:     head,
		Head:     next,
		Action:   a,
		AteFood:  next == w.food,
		Collided: !next.InBounds(w.cfg.BoardSize) || w.occupied(next),
	}
}

// Step commits an action. A collided step leaves the world untouched.
func (w *World) Step(a core.Action) Transition {
	t := w.Simulate(a.MustValid())
	if t.Collided {
		w.logger.Debug().
			Str("head", t.Head.String()).
			Int("length", len(w.snake)).
			Msg("Snake collided")
		return t
	}

	w.direction = a
	w.snake = append(w.snake, core.Position{})
	copy(w.snake[1:], w.snake[:len(w.snake)-1])
	w.snake[0] = t.Head

	if !t.AteFood {
		w.snake = w.snake[:len(w.snake)-1]
		return t
	}

	w.score++
	food, err := w.GenerateFood()
	if err != nil {
		// Board is full: the episode is won and food stays under the head.
		w.logger.Info().Int("length", len(w.snake)).Msg("Snake filled the board")
		t.Won = true
		return t
	}
	w.food = food
	return t
}

// GenerateFood draws a uniformly random grid-aligned free cell, resampling
// on conflict with the snake. It returns ErrBoardFull when no cell is free.
func (w *World) GenerateFood() (core.Position, error) {
	cells := w.Cells()
	if len(w.snake) >= cells {
		return core.Position{}, core.ErrBoardFull
	}

	perAxis := w.cfg.BoardSize / w.cfg.CellSize
	for i := 0; i < maxFoodSamples; i++ {
		p := core.Position{
			X: w.rng.Intn(perAxis) * w.cfg.CellSize,
			Y: w.rng.Intn(perAxis) * w.cfg.CellSize,
		}
		if !w.occupied(p) {
			return p, nil
		}
	}

	// Nearly full board: pick uniformly among the remaining free cells
	free := make([]core.Position, 0, cells-len(w.snake))
	for row := 0; row < perAxis; row++ {
		for col := 0; col < perAxis; col++ {
			p := core.Position{X: col * w.cfg.CellSize, Y: row * w.cfg.CellSize}
			if !w.occupied(p) {
				free = append(free, p)
			}
		}
	}
	if len(free) == 0 {
		return core.Position{}, core.ErrBoardFull
	}
	return free[w.rng.Intn(len(free))], nil
}

// Reset starts a new episode: fresh snake at the spawn cell, new food,
// start heading and zero score.
func (w *World) Reset() {
	w.snake = w.snake[:0]
	w.snake = append(w.snake, w.cfg.Spawn)
	w.direction = w.cfg.StartDirection
	w.score = 0

	food, err := w.GenerateFood()
	if err != nil {
		// Validate guarantees at least four cells
		panic(fmt.Sprintf("reset world: %v", err))
	}
	w.food = food
}

// PlaceFood moves the food to p. Used to script scenarios.
func (w *World) PlaceFood(p core.Position) error {
	if !p.InBounds(w.cfg.BoardSize) || !p.Aligned(w.cfg.CellSize) {
		return fmt.Errorf("%w: food %s", core.ErrOutOfBounds, p)
	}
	if w.occupied(p) {
		return fmt.Errorf("food %s overlaps the snake", p)
	}
	w.food = p
	return nil
}

// Contains reports whether p is one of the snake's segments
func (w *World) Contains(p core.Position) bool {
	return w.occupied(p)
}

func (w *World) occupied(p core.Position) bool {
	for _, s := range w.snake {
		if s == p {
			return true
		}
	}
	return false
}

// Public accessors
func (w *World) Head() core.Position { return w.snake[0] }
func (w *World) Food() core.Position { return w.food }
func (w *World) Direction() core.Action { return w.direction }
func (w *World) Score() int { return w.score }
func (w *World) Len() int { return len(w.snake) }
func (w *World) BoardSize() int { return w.cfg.BoardSize }
func (w *World) CellSize() int { return w.cfg.CellSize }
func (w *World) Config() WorldConfig { return w.cfg }

// Key returns the Q-table key for the current head and heading
func (w *World) Key() core.StateKey { return core.KeyOf(w.snake[0], w.direction) }

// Cells returns the number of cells on the board
func (w *World) Cells() int {
	perAxis := w.cfg.BoardSize / w.cfg.CellSize
	return perAxis * perAxis
}

// Snake returns a copy of the body, head first
func (w *World) Snake() []core.Position {
	out := make([]core.Position, len(w.snake))
	copy(out, w.snake)
	return out
}
