// Package trainer runs headless Q-learning across parallel workers that
// share one Q-table.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/agent"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/session"
)

// Config controls a training run
type Config struct {
	Episodes int
	Workers  int
	// MaxTicks caps episode length; longer episodes are truncated.
	MaxTicks int
	// Seed makes runs reproducible per worker. Zero seeds from the clock.
	Seed int64
	// Session is the template for every worker's session. Its RNG, table
	// and agent random source are replaced per worker.
	Session session.Options
	// OnEpisode, if set, is called after each finished episode. It may be
	// called concurrently from several workers.
	OnEpisode func(EpisodeRecord)
	Logger    zerolog.Logger
}

// Validate checks the run settings
func (c Config) Validate() error {
	if c.Episodes <= 0 {
		return fmt.Errorf("episodes must be positive, got %d", c.Episodes)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.MaxTicks <= 0 {
		return fmt.Errorf("max ticks must be positive, got %d", c.MaxTicks)
	}
	return c.Session.Agent.Validate()
}

// EpisodeRecord is one finished episode tagged with its run-wide index
type EpisodeRecord struct {
	Index  int
	Worker int
	session.EpisodeSummary
}

// Trainer owns the shared Q-table of a run
type Trainer struct {
	cfg    Config
	table  *agent.QTable
	logger zerolog.Logger
}

// New creates a trainer with a fresh shared table
func New(cfg Config) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Workers > cfg.Episodes {
		cfg.Workers = cfg.Episodes
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return &Trainer{
		cfg:    cfg,
		table:  agent.NewQTable(cfg.Session.Agent.LearningRate, cfg.Session.Agent.Discount),
		logger: cfg.Logger.With().Str("component", "trainer").Logger(),
	}, nil
}

// Table returns the shared Q-table
func (t *Trainer) Table() *agent.QTable { return t.table }

// Run trains until every episode is done or ctx is cancelled. On
// cancellation the episodes finished so far are returned with ctx's error.
func (t *Trainer) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	var (
		claimed atomic.Int64
		mu      sync.Mutex
		records = make([]EpisodeRecord, 0, t.cfg.Episodes)
	)

	t.logger.Info().
		Int("episodes", t.cfg.Episodes).
		Int("workers", t.cfg.Workers).
		Int("max_ticks", t.cfg.MaxTicks).
		Int64("seed", t.cfg.Seed).
		Msg("Training started")

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < t.cfg.Workers; w++ {
		worker := w
		g.Go(func() error {
			opts := t.cfg.Session
			opts.World.Rng = rand.New(rand.NewSource(t.cfg.Seed + int64(worker)))
			opts.AgentRand = nil
			opts.Table = t.table
			opts.Logger = t.logger.With().Int("worker", worker).Logger()

			s, err := session.New(opts)
			if err != nil {
				return fmt.Errorf("worker %d: %w", worker, err)
			}
			defer s.Close()

			var last session.EpisodeSummary
			s.OnEpisodeEnd(func(sum session.EpisodeSummary) { last = sum })

			for {
				idx := int(claimed.Add(1))
				if idx > t.cfg.Episodes {
					return nil
				}
				if err := t.runEpisode(gctx, s); err != nil {
					return err
				}

				rec := EpisodeRecord{Index: idx, Worker: worker, EpisodeSummary: last}
				mu.Lock()
				records = append(records, rec)
				mu.Unlock()
				if t.cfg.OnEpisode != nil {
					t.cfg.OnEpisode(rec)
				}
			}
		})
	}

	err := g.Wait()

	sort.Slice(records, func(i, j int) bool { return records[i].Index < records[j].Index })
	report := newReport(records, t.table.Len(), t.cfg.Workers, time.Since(start))

	ev := t.logger.Info()
	if err != nil {
		ev = t.logger.Warn().Err(err)
	}
	ev.Int("episodes", len(report.Episodes)).
		Int("states", report.StateCount).
		Int("best_score", report.BestScore).
		Float64("mean_score", report.MeanScore).
		Dur("duration", report.Duration).
		Msg("Training finished")
	return report, err
}

// runEpisode ticks s until the episode ends or hits the tick cap
func (t *Trainer) runEpisode(ctx context.Context, s *session.Session) error {
	for ticks := 1; ; ticks++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := s.Tick()
		if err != nil {
			return err
		}
		if res.Terminal {
			return nil
		}
		if ticks >= t.cfg.MaxTicks {
			_, err := s.Truncate()
			return err
		}
	}
}

// IsCancelled reports whether err came from a cancelled or expired context
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
