package agent

import (
	"sync"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
)

// Row holds the value of each action for one state, indexed by core.Action
type Row [core.NumActions]float64

// QTable is a sparse table of action values. Rows are created lazily with
// all four values at zero and are never deleted. A single lock serializes
// every read-modify-write, so one table may be shared by parallel trainers.
type QTable struct {
	mu           sync.RWMutex
	rows         map[core.StateKey]*Row
	learningRate float64
	discount     float64
}

// NewQTable creates an empty table with the given learning rate and discount
func NewQTable(learningRate, discount float64) *QTable {
	return &QTable{
		rows:         make(map[core.StateKey]*Row),
		learningRate: learningRate,
		discount:     discount,
	}
}

// row returns the row for key, materializing it on first access. Callers
// must hold the write lock.
func (q *QTable) row(key core.StateKey) *Row {
	r, ok := q.rows[key]
	if !ok {
		r = &Row{}
		q.rows[key] = r
	}
	return r
}

// Get returns Q(key, a), creating the row if it does not exist
func (q *QTable) Get(key core.StateKey, a core.Action) float64 {
	a.MustValid()
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.row(key)[a]
}

// Set overwrites Q(key, a)
func (q *QTable) Set(key core.StateKey, a core.Action, value float64) {
	a.MustValid()
	q.mu.Lock()
	defer q.mu.Unlock()
	q.row(key)[a] = value
}

// BestAction returns the action with the highest value for key. Ties go to
// the earliest action in UP, DOWN, LEFT, RIGHT order.
func (q *QTable) BestAction(key core.StateKey) core.Action {
	q.mu.Lock()
	defer q.mu.Unlock()
	best, _ := argmax(q.row(key))
	return best
}

// MaxValue returns the highest action value for key
func (q *QTable) MaxValue(key core.StateKey) float64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, v := argmax(q.row(key))
	return v
}

// Update applies the one-step Q-learning rule
//
//	Q[key][a] += α * (reward + γ * maxNext − Q[key][a])
//
// and returns the new value.
func (q *QTable) Update(key core.StateKey, a core.Action, reward, maxNext float64) float64 {
	a.MustValid()
	q.mu.Lock()
	defer q.mu.Unlock()

	r := q.row(key)
	r[a] += q.learningRate * (reward + q.discount*maxNext - r[a])
	return r[a]
}

// Row returns a copy of the row for key without materializing it
func (q *QTable) Row(key core.StateKey) (Row, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	r, ok := q.rows[key]
	if !ok {
		return Row{}, false
	}
	return *r, true
}

// Len returns the number of materialized rows
func (q *QTable) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.rows)
}

// Snapshot returns a deep copy of the table
func (q *QTable) Snapshot() map[core.StateKey]Row {
	q.mu.RLock()
	defer q.mu.RUnlock()

	out := make(map[core.StateKey]Row, len(q.rows))
	for k, r := range q.rows {
		out[k] = *r
	}
	return out
}

// LearningRate returns α
func (q *QTable) LearningRate() float64 { return q.learningRate }

// Discount returns γ
func (q *QTable) Discount() float64 { return q.discount }

func argmax(r *Row) (core.Action, float64) {
	best := core.Up
	for _, a := range core.Actions[1:] {
		if r[a] > r[best] {
			best = a
		}
	}
	return best, r[best]
}
