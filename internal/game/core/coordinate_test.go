package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPosition(t *testing.T) {
	p := NewPosition(160, 40)
	assert.Equal(t, 160, p.X)
	assert.Equal(t, 40, p.Y)
}

func TestPosition_Move(t *testing.T) {
	start := Position{X: 160, Y: 160}
	tests := []struct {
		name     string
		action   Action
		expected Position
	}{
		{"Up", Up, Position{160, 140}},
		{"Down", Down, Position{160, 180}},
		{"Left", Left, Position{140, 160}},
		{"Right", Right, Position{180, 160}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, start.Move(tt.action, 20))
		})
	}
}

func TestPosition_InBounds(t *testing.T) {
	tests := []struct {
		name     string
		pos      Position
		expected bool
	}{
		{"Origin", Position{0, 0}, true},
		{"LastCell", Position{380, 380}, true},
		{"LeftOfBoard", Position{-20, 160}, false},
		{"RightOfBoard", Position{400, 160}, false},
		{"AboveBoard", Position{160, -20}, false},
		{"BelowBoard", Position{160, 400}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.pos.InBounds(400))
		})
	}
}

func TestPosition_Aligned(t *testing.T) {
	assert.True(t, Position{60, 60}.Aligned(20))
	assert.False(t, Position{61, 60}.Aligned(20))
	assert.False(t, Position{60, 60}.Aligned(0))
}

func TestPosition_DistanceTo(t *testing.T) {
	assert.Equal(t, 200, Position{160, 160}.DistanceTo(Position{60, 60}))
	assert.Equal(t, 0, Position{20, 20}.DistanceTo(Position{20, 20}))
}

func TestPosition_Cell(t *testing.T) {
	col, row := Position{160, 60}.Cell(20)
	assert.Equal(t, 8, col)
	assert.Equal(t, 3, row)
}

func TestStateKey(t *testing.T) {
	head := Position{X: 160, Y: 160}
	k := KeyOf(head, Right)

	assert.Equal(t, StateKey{X: 160, Y: 160, Dir: Right}, k)
	assert.Equal(t, head, k.Head())
	assert.Equal(t, "(160,160,RIGHT)", k.String())

	// Same cell, different heading must not alias
	assert.NotEqual(t, k, KeyOf(head, Up))

	m := map[StateKey]int{k: 1}
	assert.Equal(t, 1, m[StateKey{X: 160, Y: 160, Dir: Right}])
}
