// Command game runs the self-playing snake in the terminal, printing the
// board after every tick.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/config"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/events"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/logging"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/session"
)

// clearScreen moves the cursor home and clears the terminal
const clearScreen = "\033[H\033[2J"

func main() {
	configPath := flag.String("config", "", "Path to config file")
	ticks := flag.Int("ticks", 0, "Stop after this many ticks (0 runs until interrupted)")
	noColor := flag.Bool("no-color", false, "Disable ANSI colors")
	watch := flag.Bool("watch", true, "Reload the tick interval when the config file changes")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()

	// Logs go to stderr so they don't interleave with the board on stdout
	logging.SetupWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	opts, err := cfg.SessionOptions(log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid session options")
	}
	s, err := session.New(opts)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create session")
	}
	defer s.Close()

	episodeLogger := subscribers.NewLoggerSubscriber("episode-logger", log.Logger, cfg.Logging.EventLevel())
	episodeLogger.SetEventFilter([]string{events.TypeEpisodeEnded})
	s.Bus().Subscribe(episodeLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sink := session.RenderFunc(func(f session.Frame) error {
		fmt.Print(clearScreen)
		fmt.Print(s.Board(!*noColor))
		fmt.Printf("episode=%d best=%d epsilon=%.3f states=%d\n", f.Episode, f.BestScore, f.Epsilon, f.States)
		if *ticks > 0 && f.Tick >= *ticks {
			stop()
		}
		return nil
	})
	loop := session.NewLoop(s, cfg.TickInterval(), sink)

	if *watch && config.ConfigFilePath() != "" {
		config.WatchConfig(func(c *config.Config) {
			loop.SetInterval(c.TickInterval())
		}, func(err error) {
			log.Warn().Err(err).Msg("Ignoring invalid config change")
		})
	}

	start := time.Now()
	if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("Game loop failed")
	}

	f := s.Snapshot()
	m := loop.Monitor().GetMetrics()
	log.Info().
		Int("ticks", f.Tick).
		Int("episodes", f.Episode-1).
		Int("best_score", f.BestScore).
		Dur("mean_tick", m.Mean).
		Int64("overruns", m.Overruns).
		Dur("elapsed", time.Since(start)).
		Msg("Game finished")
}
