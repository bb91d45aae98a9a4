package experience

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
)

// Experience is one (s, a, r, s', done) transition observed by the agent
type Experience struct {
	Episode  int
	Tick     int
	State    core.StateKey
	Action   core.Action
	Reward   float64
	Next     core.StateKey
	Terminal bool
}

// Buffer is a thread-safe circular buffer of recent experiences. When full
// the oldest experience is overwritten.
type Buffer struct {
	mu       sync.RWMutex
	buffer   []Experience
	capacity int
	size     int
	head     int // Write position

	totalAdded   int64
	totalDropped int64

	logger zerolog.Logger
}

// NewBuffer creates a new experience buffer with the specified capacity
func NewBuffer(capacity int, logger zerolog.Logger) *Buffer {
	if capacity <= 0 {
		capacity = 1000 // Default capacity
	}

	return &Buffer{
		buffer:   make([]Experience, capacity),
		capacity: capacity,
		logger:   logger.With().Str("component", "experience_buffer").Logger(),
	}
}

// Add adds an experience to the buffer
func (b *Buffer) Add(exp Experience) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.size >= b.capacity {
		b.totalDropped++
	} else {
		b.size++
	}

	b.buffer[b.head] = exp
	b.head = (b.head + 1) % b.capacity
	b.totalAdded++
}

// Recent returns up to n experiences, newest first
func (b *Buffer) Recent(n int) []Experience {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if n > b.size {
		n = b.size
	}
	out := make([]Experience, 0, n)
	for i := 1; i <= n; i++ {
		idx := (b.head - i + b.capacity) % b.capacity
		out = append(out, b.buffer[idx])
	}
	return out
}

// Last returns the newest experience, if any
func (b *Buffer) Last() (Experience, bool) {
	recent := b.Recent(1)
	if len(recent) == 0 {
		return Experience{}, false
	}
	return recent[0], true
}

// Size returns the current number of experiences in the buffer
func (b *Buffer) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// Capacity returns the maximum capacity of the buffer
func (b *Buffer) Capacity() int {
	return b.capacity
}

// Clear removes all experiences from the buffer
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.size = 0
	b.head = 0
	b.logger.Debug().Msg("Buffer cleared")
}

// BufferStats contains buffer statistics
type BufferStats struct {
	Size         int   `json:"size"`
	Capacity     int   `json:"capacity"`
	TotalAdded   int64 `json:"total_added"`
	TotalDropped int64 `json:"total_dropped"`
}

// GetStats returns current buffer statistics
func (b *Buffer) GetStats() BufferStats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return BufferStats{
		Size:         b.size,
		Capacity:     b.capacity,
		TotalAdded:   b.totalAdded,
		TotalDropped: b.totalDropped,
	}
}
