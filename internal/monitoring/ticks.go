package monitoring

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// TickMonitor tracks how long game ticks take relative to the loop interval
type TickMonitor struct {
	mu            sync.RWMutex
	budget        time.Duration
	count         int64
	overruns      int64
	total         time.Duration
	last          time.Duration
	peak          time.Duration
	lastAlert     time.Time
	alertCooldown time.Duration
	logger        zerolog.Logger
}

// NewTickMonitor creates a monitor that warns when a tick exceeds budget
func NewTickMonitor(budget time.Duration, logger zerolog.Logger) *TickMonitor {
	return &TickMonitor{
		budget:        budget,
		alertCooldown: 5 * time.Second,
		logger:        logger.With().Str("component", "tick_monitor").Logger(),
	}
}

// SetBudget changes the per-tick budget, e.g. after a config reload
func (tm *TickMonitor) SetBudget(budget time.Duration) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.budget = budget
}

// SetAlertCooldown sets the minimum time between overrun warnings
func (tm *TickMonitor) SetAlertCooldown(d time.Duration) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.alertCooldown = d
}

// Observe records one tick duration
func (tm *TickMonitor) Observe(d time.Duration) {
	tm.mu.Lock()
	tm.count++
	tm.total += d
	tm.last = d
	if d > tm.peak {
		tm.peak = d
	}

	overrun := tm.budget > 0 && d > tm.budget
	shouldAlert := false
	if overrun {
		tm.overruns++
		shouldAlert = time.Since(tm.lastAlert) > tm.alertCooldown
		if shouldAlert {
			tm.lastAlert = time.Now()
		}
	}
	budget := tm.budget
	overruns := tm.overruns
	tm.mu.Unlock()

	if shouldAlert {
		tm.logger.Warn().
			Dur("duration", d).
			Dur("budget", budget).
			Int64("overruns", overruns).
			Msg("Tick overran loop interval")
	}
}

// Track times f and records its duration
func (tm *TickMonitor) Track(f func()) {
	start := time.Now()
	f()
	tm.Observe(time.Since(start))
}

// GetMetrics returns current tick metrics
func (tm *TickMonitor) GetMetrics() TickMetrics {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	m := TickMetrics{
		Count:    tm.count,
		Overruns: tm.overruns,
		Last:     tm.last,
		Peak:     tm.peak,
		Budget:   tm.budget,
	}
	if tm.count > 0 {
		m.Mean = tm.total / time.Duration(tm.count)
	}
	return m
}

// TickMetrics contains tick timing statistics
type TickMetrics struct {
	Count    int64         `json:"count"`
	Overruns int64         `json:"overruns"`
	Mean     time.Duration `json:"mean"`
	Last     time.Duration `json:"last"`
	Peak     time.Duration `json:"peak"`
	Budget   time.Duration `json:"budget"`
}
