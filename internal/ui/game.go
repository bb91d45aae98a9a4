package ui

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"golang.org/x/image/font/basicfont"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/session"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/ui/input"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/ui/renderer"
)

// Game is the Ebitengine front end. The session is ticked by a
// session.Loop elsewhere; Game only draws the frames the loop hands it and
// forwards arrow keys as overrides.
type Game struct {
	session       *session.Session
	input         *input.Handler
	boardRenderer *renderer.BoardRenderer
	logger        zerolog.Logger

	width, height int

	mu    sync.Mutex
	frame session.Frame

	greedy       bool
	savedEpsilon float64
}

// NewGame creates the window-side view of s
func NewGame(s *session.Session, width, height int, logger zerolog.Logger) *Game {
	return &Game{
		session:       s,
		input:         input.NewHandler(),
		boardRenderer: renderer.NewBoardRenderer(basicfont.Face7x13),
		logger:        logger.With().Str("component", "ui").Logger(),
		width:         width,
		height:        height,
		frame:         s.Snapshot(),
	}
}

// Render implements session.RenderSink
func (g *Game) Render(f session.Frame) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.frame = f
	return nil
}

// Update handles input once per frame.
func (g *Game) Update() error {
	if g.input.QuitRequested() {
		return ebiten.Termination
	}

	if g.input.GreedyToggled() {
		g.toggleGreedy()
	}

	if a, ok := g.input.Update(); ok {
		if err := g.session.Override(a); err != nil {
			g.logger.Warn().Err(err).Msg("Override rejected")
		}
	}
	return nil
}

// toggleGreedy switches between watching the learned policy (ε = 0) and
// the exploration rate the agent had before.
func (g *Game) toggleGreedy() {
	ag := g.session.Agent()
	if g.greedy {
		ag.SetEpsilon(g.savedEpsilon)
	} else {
		g.savedEpsilon = ag.Epsilon()
		ag.SetEpsilon(0)
	}
	g.greedy = !g.greedy
	g.logger.Info().Bool("greedy", g.greedy).Float64("epsilon", ag.Epsilon()).Msg("Exploration toggled")
}

// Draw renders the game screen.
func (g *Game) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	frame := g.frame
	g.mu.Unlock()

	g.boardRenderer.Draw(screen, frame)
}

// Layout defines the Ebitengine screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.width, g.height
}
