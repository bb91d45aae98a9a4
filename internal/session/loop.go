package session

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/monitoring"
)

// RenderSink receives a frame after every tick
type RenderSink interface {
	Render(Frame) error
}

// RenderFunc adapts a function to RenderSink
type RenderFunc func(Frame) error

// Render implements RenderSink
func (f RenderFunc) Render(fr Frame) error { return f(fr) }

// Loop drives a session at a fixed interval
type Loop struct {
	session  *Session
	sinks    []RenderSink
	interval atomic.Int64
	changed  chan struct{}
	monitor  *monitoring.TickMonitor
	logger   zerolog.Logger
}

// NewLoop creates a loop ticking s every interval
func NewLoop(s *Session, interval time.Duration, sinks ...RenderSink) *Loop {
	l := &Loop{
		session: s,
		sinks:   sinks,
		changed: make(chan struct{}, 1),
		logger:  s.logger.With().Str("component", "loop").Logger(),
	}
	l.interval.Store(int64(interval))
	l.monitor = monitoring.NewTickMonitor(interval, s.logger)
	return l
}

// SetInterval changes the tick interval of a running loop
func (l *Loop) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	l.interval.Store(int64(d))
	l.monitor.SetBudget(d)
	select {
	case l.changed <- struct{}{}:
	default:
	}
}

// Interval returns the current tick interval
func (l *Loop) Interval() time.Duration {
	return time.Duration(l.interval.Load())
}

// Monitor returns the loop's tick timing monitor
func (l *Loop) Monitor() *monitoring.TickMonitor { return l.monitor }

// Run ticks the session until ctx is done or the session is closed
func (l *Loop) Run(ctx context.Context) error {
	l.render(l.session.Snapshot())

	ticker := time.NewTicker(l.Interval())
	defer ticker.Stop()

	l.logger.Info().Dur("interval", l.Interval()).Msg("Game loop started")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info().Msg("Game loop stopped")
			return ctx.Err()
		case <-l.changed:
			ticker.Reset(l.Interval())
			l.logger.Info().Dur("interval", l.Interval()).Msg("Tick interval changed")
		case <-ticker.C:
			if _, err := l.Step(); err != nil {
				if errors.Is(err, core.ErrSessionClosed) {
					l.logger.Info().Msg("Session closed, game loop exiting")
				}
				return err
			}
		}
	}
}

// Step runs one tick and renders the result
func (l *Loop) Step() (TickResult, error) {
	var (
		res TickResult
		err error
	)
	l.monitor.Track(func() { res, err = l.session.Tick() })
	if err != nil {
		return res, err
	}
	l.render(l.session.Snapshot())
	return res, nil
}

func (l *Loop) render(f Frame) {
	for _, sink := range l.sinks {
		if err := sink.Render(f); err != nil {
			l.logger.Warn().Err(err).Msg("Render sink failed")
		}
	}
}
