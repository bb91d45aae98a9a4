package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
)

var keyActions = map[ebiten.Key]core.Action{
	ebiten.KeyArrowUp:    core.Up,
	ebiten.KeyArrowDown:  core.Down,
	ebiten.KeyArrowLeft:  core.Left,
	ebiten.KeyArrowRight: core.Right,
	ebiten.KeyW:          core.Up,
	ebiten.KeyS:          core.Down,
	ebiten.KeyA:          core.Left,
	ebiten.KeyD:          core.Right,
}

// KeyAction maps a single key to a heading
func KeyAction(k ebiten.Key) (core.Action, bool) {
	a, ok := keyActions[k]
	return a, ok
}

// ActionForKeys returns the heading of the last direction key in keys
func ActionForKeys(keys []ebiten.Key) (core.Action, bool) {
	for i := len(keys) - 1; i >= 0; i-- {
		if a, ok := KeyAction(keys[i]); ok {
			return a, true
		}
	}
	return 0, false
}

// Handler polls the keyboard once per frame
type Handler struct {
	keys []ebiten.Key
}

func NewHandler() *Handler {
	return &Handler{keys: make([]ebiten.Key, 0, 8)}
}

// Update returns the direction pressed this frame, if any
func (h *Handler) Update() (core.Action, bool) {
	h.keys = inpututil.AppendJustPressedKeys(h.keys[:0])
	return ActionForKeys(h.keys)
}

// QuitRequested reports whether Escape was pressed this frame
func (h *Handler) QuitRequested() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}

// GreedyToggled reports whether G was pressed this frame
func (h *Handler) GreedyToggled() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyG)
}
