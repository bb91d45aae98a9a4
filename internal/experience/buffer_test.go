package experience

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
)

func createTestExperience(tick int) Experience {
	return Experience{
		Tick:   tick,
		State:  core.StateKey{X: tick * 20, Y: 160, Dir: core.Right},
		Action: core.Right,
		Reward: -1,
		Next:   core.StateKey{X: (tick + 1) * 20, Y: 160, Dir: core.Right},
	}
}

func TestBuffer_Basic(t *testing.T) {
	buffer := NewBuffer(10, zerolog.Nop())

	assert.Equal(t, 0, buffer.Size())
	assert.Equal(t, 10, buffer.Capacity())

	_, ok := buffer.Last()
	assert.False(t, ok)

	buffer.Add(createTestExperience(1))
	buffer.Add(createTestExperience(2))

	assert.Equal(t, 2, buffer.Size())
	last, ok := buffer.Last()
	require.True(t, ok)
	assert.Equal(t, 2, last.Tick)
}

func TestBuffer_OverwritesOldest(t *testing.T) {
	buffer := NewBuffer(3, zerolog.Nop())

	for i := 1; i <= 5; i++ {
		buffer.Add(createTestExperience(i))
	}

	assert.Equal(t, 3, buffer.Size())
	recent := buffer.Recent(10)
	require.Len(t, recent, 3)
	assert.Equal(t, 5, recent[0].Tick)
	assert.Equal(t, 4, recent[1].Tick)
	assert.Equal(t, 3, recent[2].Tick)

	stats := buffer.GetStats()
	assert.Equal(t, int64(5), stats.TotalAdded)
	assert.Equal(t, int64(2), stats.TotalDropped)
}

func TestBuffer_DefaultCapacity(t *testing.T) {
	buffer := NewBuffer(0, zerolog.Nop())
	assert.Equal(t, 1000, buffer.Capacity())
}

func TestBuffer_Clear(t *testing.T) {
	buffer := NewBuffer(4, zerolog.Nop())
	buffer.Add(createTestExperience(1))
	buffer.Clear()

	assert.Equal(t, 0, buffer.Size())
	assert.Empty(t, buffer.Recent(4))
}

func TestBuffer_ConcurrentAdd(t *testing.T) {
	buffer := NewBuffer(50, zerolog.Nop())

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				buffer.Add(createTestExperience(i))
			}
		}()
	}
	wg.Wait()

	stats := buffer.GetStats()
	assert.Equal(t, int64(400), stats.TotalAdded)
	assert.Equal(t, 50, stats.Size)
}
