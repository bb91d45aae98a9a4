package testutil

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
)

// NewTestRNG creates a deterministic random number generator for tests
func NewTestRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NopLogger returns a no-op logger for tests
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// AssertPanic asserts that the given function panics
func AssertPanic(t *testing.T, f func(), msgAndArgs ...interface{}) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic but none occurred: %v", msgAndArgs)
		}
	}()
	f()
}

// ScriptedRand is a RandSource that replays fixed values, for driving
// epsilon-greedy branches deterministically.
type ScriptedRand struct {
	Floats []float64
	Ints   []int
}

// Float64 returns the next scripted float, or 0.99 once exhausted
func (s *ScriptedRand) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0.99
	}
	f := s.Floats[0]
	s.Floats = s.Floats[1:]
	return f
}

// Intn returns the next scripted int modulo n, or 0 once exhausted
func (s *ScriptedRand) Intn(n int) int {
	if len(s.Ints) == 0 {
		return 0
	}
	i := s.Ints[0]
	s.Ints = s.Ints[1:]
	return i % n
}
