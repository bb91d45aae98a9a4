package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAction_Opposite(t *testing.T) {
	assert.Equal(t, Down, Up.Opposite())
	assert.Equal(t, Up, Down.Opposite())
	assert.Equal(t, Right, Left.Opposite())
	assert.Equal(t, Left, Right.Opposite())
}

func TestAction_PriorityOrder(t *testing.T) {
	assert.Equal(t, [NumActions]Action{Up, Down, Left, Right}, Actions)
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "UP", Up.String())
	assert.Equal(t, "RIGHT", Right.String())
	assert.Equal(t, "Action(7)", Action(7).String())
}

func TestAction_InvalidPanics(t *testing.T) {
	assert.False(t, Action(-1).Valid())
	assert.False(t, Action(4).Valid())
	assert.Panics(t, func() { Action(4).Vector() })
	assert.Panics(t, func() { Action(-1).Opposite() })
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		input    string
		expected Action
	}{
		{"UP", Up},
		{"down", Down},
		{" Left ", Left},
		{"right", Right},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			a, err := ParseAction(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, a)
		})
	}

	_, err := ParseAction("diagonal")
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		current   Action
		requested Action
		expected  Action
	}{
		{"ReverseVetoed", Right, Left, Right},
		{"UpReverseVetoed", Up, Down, Up},
		{"TurnAllowed", Right, Up, Up},
		{"SameDirection", Left, Left, Left},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Resolve(tt.current, tt.requested))
		})
	}

	assert.Panics(t, func() { Resolve(Up, Action(9)) })
}
