package game_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/testutil"
)

func TestNewWorld_InitialLayout(t *testing.T) {
	w := testutil.CreateTestWorld(t, 1)

	assert.Equal(t, []core.Position{{X: 160, Y: 160}}, w.Snake())
	assert.Equal(t, core.Position{X: 60, Y: 60}, w.Food())
	assert.Equal(t, core.Right, w.Direction())
	assert.Equal(t, 0, w.Score())
	assert.Equal(t, 400, w.Cells())
	assert.Equal(t, core.StateKey{X: 160, Y: 160, Dir: core.Right}, w.Key())
}

func TestNewWorld_InvalidGeometry(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *game.WorldConfig)
	}{
		{"ZeroCell", func(c *game.WorldConfig) { c.CellSize = 0 }},
		{"NotMultiple", func(c *game.WorldConfig) { c.BoardSize = 410 }},
		{"SingleCell", func(c *game.WorldConfig) { c.BoardSize = 20 }},
		{"SpawnOutside", func(c *game.WorldConfig) { c.Spawn = core.Position{X: 400, Y: 0} }},
		{"SpawnUnaligned", func(c *game.WorldConfig) { c.Spawn = core.Position{X: 5, Y: 0} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := game.DefaultWorldConfig()
			tt.mutate(&cfg)
			_, err := game.NewWorld(cfg)
			assert.ErrorIs(t, err, core.ErrInvalidBoard)
		})
	}
}

func TestNewWorld_InitialFoodOnSnakeIsRegenerated(t *testing.T) {
	cfg := game.DefaultWorldConfig()
	cfg.InitialFood = cfg.Spawn
	cfg.Rng = testutil.NewTestRNG(3)
	w, err := game.NewWorld(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, cfg.Spawn, w.Food())
}

func TestWorld_StepMovesHead(t *testing.T) {
	w := testutil.CreateTestWorld(t, 1)

	tr := w.Step(core.Right)
	assert.False(t, tr.Collided)
	assert.False(t, tr.AteFood)
	assert.Equal(t, core.Position{X: 180, Y: 160}, tr.Head)
	assert.Equal(t, core.Position{X: 160, Y: 160}, tr.From)
	assert.Equal(t, 1, w.Len())

	w.Step(core.Up)
	assert.Equal(t, core.Position{X: 180, Y: 140}, w.Head())
	assert.Equal(t, core.Up, w.Direction())
}

func TestWorld_SimulateDoesNotMutate(t *testing.T) {
	w := testutil.CreateTestWorld(t, 1)
	before := w.Snake()

	tr := w.Simulate(core.Down)
	assert.Equal(t, core.Position{X: 160, Y: 180}, tr.Head)
	assert.Equal(t, before, w.Snake())
	assert.Equal(t, core.Right, w.Direction())
}

func TestWorld_EatingGrowsByOne(t *testing.T) {
	w := testutil.CreateTestWorld(t, 1)
	require.NoError(t, w.PlaceFood(core.Position{X: 180, Y: 160}))

	tr := w.Step(core.Right)
	assert.True(t, tr.AteFood)
	assert.Equal(t, 2, w.Len())
	assert.Equal(t, 1, w.Score())
	assert.Equal(t, []core.Position{{X: 180, Y: 160}, {X: 160, Y: 160}}, w.Snake())
	assert.False(t, w.Contains(w.Food()), "food must be generated off the snake")

	// Non-eating step keeps the length
	w.Step(core.Down)
	assert.Equal(t, 2, w.Len())
	assert.Equal(t, []core.Position{{X: 180, Y: 180}, {X: 180, Y: 160}}, w.Snake())
}

func TestWorld_LengthInvariant(t *testing.T) {
	w := testutil.CreateTestWorld(t, 42)
	rng := testutil.NewTestRNG(7)

	for i := 0; i < 500; i++ {
		before := w.Len()
		tr := w.Step(core.Actions[rng.Intn(core.NumActions)])
		switch {
		case tr.Collided:
			assert.Equal(t, before, w.Len())
			w.Reset()
		case tr.AteFood:
			assert.Equal(t, before+1, w.Len())
		default:
			assert.Equal(t, before, w.Len())
		}
	}
}

func TestWorld_WallCollision(t *testing.T) {
	tests := []struct {
		name    string
		spawn   core.Position
		action  core.Action
		outside core.Position
	}{
		{"LeftWall", core.Position{X: 0, Y: 160}, core.Left, core.Position{X: -20, Y: 160}},
		{"RightWall", core.Position{X: 380, Y: 160}, core.Right, core.Position{X: 400, Y: 160}},
		{"TopWall", core.Position{X: 160, Y: 0}, core.Up, core.Position{X: 160, Y: -20}},
		{"BottomWall", core.Position{X: 160, Y: 380}, core.Down, core.Position{X: 160, Y: 400}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := game.DefaultWorldConfig()
			cfg.Spawn = tt.spawn
			cfg.Rng = testutil.NewTestRNG(1)
			w, err := game.NewWorld(cfg)
			require.NoError(t, err)

			tr := w.Step(tt.action)
			assert.True(t, tr.Collided)
			assert.True(t, tr.Terminal())
			assert.Equal(t, tt.outside, tr.Head)
			assert.Equal(t, tt.spawn, w.Head(), "collided step must not move the snake")
		})
	}
}

func TestWorld_SelfCollision(t *testing.T) {
	w := testutil.CreateTestWorld(t, 1)
	// Length 5 snake: head (180,180) with its body directly above
	testutil.GrowSnake(t, w, core.Right, core.Right, core.Down, core.Left)
	require.Equal(t, 5, w.Len())

	tr := w.Simulate(core.Up)
	assert.True(t, tr.Collided)
	assert.True(t, w.Contains(tr.Head))
}

func TestWorld_TailCellCountsAsCollision(t *testing.T) {
	w := testutil.CreateTestWorld(t, 1)
	// Square of four: moving into the current tail cell is terminal
	testutil.GrowSnake(t, w, core.Right, core.Down, core.Left)
	snake := w.Snake()
	require.Len(t, snake, 4)
	tail := snake[len(snake)-1]

	tr := w.Simulate(core.Up)
	assert.Equal(t, tail, tr.Head)
	assert.True(t, tr.Collided)
}

func TestWorld_GenerateFoodAvoidsSnake(t *testing.T) {
	w := testutil.CreateSmallWorld(t, 3, 5)
	testutil.GrowSnake(t, w, core.Right, core.Right, core.Down, core.Left, core.Left, core.Down)
	require.Equal(t, 7, w.Len())

	for i := 0; i < 50; i++ {
		p, err := w.GenerateFood()
		require.NoError(t, err)
		assert.False(t, w.Contains(p))
		assert.True(t, p.InBounds(3))
	}
}

func TestWorld_FillingBoardWins(t *testing.T) {
	w := testutil.CreateSmallWorld(t, 2, 1)
	testutil.GrowSnake(t, w, core.Right, core.Down)
	require.Equal(t, 3, w.Len())

	next := w.Head().Move(core.Left, 1)
	require.NoError(t, w.PlaceFood(next))
	tr := w.Step(core.Left)
	assert.True(t, tr.AteFood)
	assert.True(t, tr.Won)
	assert.True(t, tr.Terminal())
	assert.Equal(t, 4, w.Len())

	_, err := w.GenerateFood()
	assert.ErrorIs(t, err, core.ErrBoardFull)
}

func TestWorld_Reset(t *testing.T) {
	w := testutil.CreateTestWorld(t, 9)
	testutil.GrowSnake(t, w, core.Up, core.Up)
	require.Equal(t, 2, w.Score())

	w.Reset()
	assert.Equal(t, []core.Position{{X: 160, Y: 160}}, w.Snake())
	assert.Equal(t, core.Right, w.Direction())
	assert.Equal(t, 0, w.Score())
	assert.False(t, w.Contains(w.Food()))
	assert.True(t, w.Food().Aligned(20))
}

func TestWorld_PlaceFoodRejectsInvalid(t *testing.T) {
	w := testutil.CreateTestWorld(t, 1)
	assert.ErrorIs(t, w.PlaceFood(core.Position{X: 400, Y: 0}), core.ErrOutOfBounds)
	assert.Error(t, w.PlaceFood(core.Position{X: 160, Y: 160}))
}

func TestWorld_StepInvalidActionPanics(t *testing.T) {
	w := testutil.CreateTestWorld(t, 1)
	testutil.AssertPanic(t, func() { w.Step(core.Action(12)) })
}

func TestWorld_Board(t *testing.T) {
	w := testutil.CreateSmallWorld(t, 3, 1)
	out := w.Board(false)

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, " 0 @ · · ", lines[1])
	assert.Equal(t, " 2 · · * ", lines[3])
	assert.Contains(t, out, "score=0 length=1 heading=RIGHT")
}
