// Command snake opens a window where the agent plays and learns while the
// arrow keys can steer it.
package main

import (
	"context"
	"errors"
	"flag"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/config"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/events"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/logging"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/session"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	opts, err := cfg.SessionOptions(log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid session options")
	}
	s, err := session.New(opts)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create session")
	}
	defer s.Close()

	eventLogger := subscribers.NewLoggerSubscriber("event-logger", log.Logger, cfg.Logging.EventLevel())
	eventLogger.SetEventFilter([]string{events.TypeEpisodeEnded, events.TypeFoodEaten})
	s.Bus().Subscribe(eventLogger)

	game := ui.NewGame(s, cfg.UI.Window.Width, cfg.UI.Window.Height, log.Logger)
	loop := session.NewLoop(s, cfg.TickInterval(), game)

	if config.ConfigFilePath() != "" {
		config.WatchConfig(func(c *config.Config) {
			loop.SetInterval(c.TickInterval())
		}, func(err error) {
			log.Warn().Err(err).Msg("Ignoring invalid config change")
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("Game loop stopped")
		}
	}()

	ebiten.SetWindowSize(cfg.UI.Window.Width, cfg.UI.Window.Height)
	ebiten.SetWindowTitle(cfg.UI.Window.Title)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal().Err(err).Msg("UI exited with error")
	}
}
