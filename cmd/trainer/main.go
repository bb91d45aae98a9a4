// Command trainer runs headless parallel training and writes a chart of
// the learning curve.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/config"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/grpc/healthserver"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/logging"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/trainer"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	episodes := flag.Int("episodes", -1, "Episodes to train (-1 to use config default)")
	workers := flag.Int("workers", -1, "Parallel workers (-1 to use config default)")
	seed := flag.Int64("seed", 0, "Base RNG seed (0 to use config default)")
	report := flag.String("report", "", "Write an HTML chart to this path (empty to use config default)")
	healthAddr := flag.String("health-addr", "", "Serve gRPC health checks on this address (empty to use config default)")
	dumpConfig := flag.Bool("dump-config", false, "Print the effective config as YAML and exit")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()

	if *dumpConfig {
		out, err := cfg.YAML()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to render config")
		}
		os.Stdout.Write(out)
		return
	}

	// Use config defaults if not overridden by flags
	if *episodes == -1 {
		*episodes = cfg.Trainer.Episodes
	}
	if *workers == -1 {
		*workers = cfg.Trainer.Workers
	}
	if *seed == 0 {
		*seed = cfg.Trainer.Seed
	}
	if *report == "" {
		*report = cfg.Trainer.ReportPath
	}
	if *healthAddr == "" {
		*healthAddr = cfg.Trainer.HealthAddr
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	opts, err := cfg.SessionOptions(log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid session options")
	}
	// Per-tick history is not needed headless
	opts.HistorySize = 1

	tr, err := trainer.New(trainer.Config{
		Episodes: *episodes,
		Workers:  *workers,
		MaxTicks: cfg.Trainer.MaxTicks,
		Seed:     *seed,
		Session:  opts,
		OnEpisode: func(rec trainer.EpisodeRecord) {
			if rec.Index%100 == 0 {
				log.Info().
					Int("episode", rec.Index).
					Int("score", rec.Score).
					Float64("epsilon", rec.Epsilon).
					Msg("Training progress")
			}
		},
		Logger: log.Logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create trainer")
	}

	var health *healthserver.Server
	if *healthAddr != "" {
		health, err = healthserver.New(*healthAddr, log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to start health server")
		}
		go func() {
			if err := health.Serve(); err != nil {
				log.Error().Err(err).Msg("Health server failed")
			}
		}()
		health.SetServing(true)
		defer health.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := tr.Run(ctx)
	if health != nil {
		health.SetServing(false)
	}
	if err != nil && !trainer.IsCancelled(err) {
		log.Fatal().Err(err).Msg("Training failed")
	}

	if *report != "" {
		if err := writeReport(*report, result); err != nil {
			log.Error().Err(err).Str("path", *report).Msg("Failed to write report")
		} else {
			log.Info().Str("path", *report).Msg("Report written")
		}
	}
}

func writeReport(path string, r *trainer.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := trainer.WriteChart(r, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
