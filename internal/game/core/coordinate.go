package core

import "fmt"

// Position is a grid-aligned pixel coordinate on the board
type Position struct {
	X, Y int
}

// NewPosition creates a new position with the given x and y values
func NewPosition(x, y int) Position {
	return Position{X: x, Y: y}
}

// InBounds reports whether the position lies in [0, boardSize) on both axes
func (p Position) InBounds(boardSize int) bool {
	return p.X >= 0 && p.X < boardSize && p.Y >= 0 && p.Y < boardSize
}

// Aligned reports whether both axes are multiples of the cell size
func (p Position) Aligned(cellSize int) bool {
	return cellSize > 0 && p.X%cellSize == 0 && p.Y%cellSize == 0
}

// Add returns a new position that is the sum of this position and another
func (p Position) Add(other Position) Position {
	return Position{
		X: p.X + other.X,
		Y: p.Y + other.Y,
	}
}

// Move returns the position one cell away in the direction of the action
func (p Position) Move(a Action, cellSize int) Position {
	v := a.Vector()
	return p.Add(Position{X: v.X * cellSize, Y: v.Y * cellSize})
}

// DistanceTo calculates the Manhattan distance to another position
func (p Position) DistanceTo(other Position) int {
	dx := p.X - other.X
	dy := p.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Cell converts a pixel position to its column and row
func (p Position) Cell(cellSize int) (col, row int) {
	return p.X / cellSize, p.Y / cellSize
}

// String returns a string representation of the position
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// StateKey indexes the Q-table: head position plus current heading.
type StateKey struct {
	X, Y int
	Dir  Action
}

// KeyOf builds the state key for a head position and heading
func KeyOf(head Position, dir Action) StateKey {
	return StateKey{X: head.X, Y: head.Y, Dir: dir}
}

// Head returns the head position encoded in the key
func (k StateKey) Head() Position {
	return Position{X: k.X, Y: k.Y}
}

func (k StateKey) String() string {
	return fmt.Sprintf("(%d,%d,%s)", k.X, k.Y, k.Dir)
}
