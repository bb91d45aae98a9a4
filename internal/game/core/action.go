package core

import (
	"fmt"
	"strings"
)

// Action is one of the four movement directions. The declaration order is
// also the tie-break priority used when picking a best action.
type Action int

const (
	Up Action = iota
	Down
	Left
	Right
)

// NumActions is the size of the action set
const NumActions = 4

// Actions lists every action in priority order
var Actions = [NumActions]Action{Up, Down, Left, Right}

var actionNames = [NumActions]string{"UP", "DOWN", "LEFT", "RIGHT"}

// unit offsets; Y grows downwards
var actionVectors = [NumActions]Position{
	Up:    {X: 0, Y: -1},
	Down:  {X: 0, Y: 1},
	Left:  {X: -1, Y: 0},
	Right: {X: 1, Y: 0},
}

// Valid reports whether a is one of the four actions
func (a Action) Valid() bool {
	return a >= Up && a <= Right
}

// MustValid panics on an action outside the enumeration.
func (a Action) MustValid() Action {
	if !a.Valid() {
		panic(fmt.Sprintf("%v: %d", ErrInvalidAction, int(a)))
	}
	return a
}

// Vector returns the unit offset of the action
func (a Action) Vector() Position {
	return actionVectors[a.MustValid()]
}

// Opposite returns the reverse direction (UP/DOWN, LEFT/RIGHT)
func (a Action) Opposite() Action {
	switch a.MustValid() {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

func (a Action) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction converts a label such as "up" or "RIGHT" into an Action
func ParseAction(s string) (Action, error) {
	label := strings.ToUpper(strings.TrimSpace(s))
	for i, name := range actionNames {
		if name == label {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAction, s)
}

// Resolve applies the opposite-direction veto: a request to reverse onto
// the body is ignored and the current heading is kept.
func Resolve(current, requested Action) Action {
	requested.MustValid()
	if requested == current.Opposite() {
		return current
	}
	return requested
}
