package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/agent"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/experience"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/logging"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/session"
)

// Config holds all configuration for the application
type Config struct {
	Board   BoardConfig   `mapstructure:"board" yaml:"board"`
	Agent   AgentConfig   `mapstructure:"agent" yaml:"agent"`
	Rewards RewardsConfig `mapstructure:"rewards" yaml:"rewards"`
	Loop    LoopConfig    `mapstructure:"loop" yaml:"loop"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	UI      UIConfig      `mapstructure:"ui" yaml:"ui"`
	Trainer TrainerConfig `mapstructure:"trainer" yaml:"trainer"`
}

// BoardConfig holds the grid geometry and starting layout
type BoardConfig struct {
	Size           int    `mapstructure:"size" yaml:"size"`
	CellSize       int    `mapstructure:"cell_size" yaml:"cell_size"`
	SpawnX         int    `mapstructure:"spawn_x" yaml:"spawn_x"`
	SpawnY         int    `mapstructure:"spawn_y" yaml:"spawn_y"`
	FoodX          int    `mapstructure:"food_x" yaml:"food_x"`
	FoodY          int    `mapstructure:"food_y" yaml:"food_y"`
	StartDirection string `mapstructure:"start_direction" yaml:"start_direction"`
}

// AgentConfig holds the learning hyperparameters
type AgentConfig struct {
	LearningRate float64 `mapstructure:"learning_rate" yaml:"learning_rate"`
	Discount     float64 `mapstructure:"discount" yaml:"discount"`
	Epsilon      float64 `mapstructure:"epsilon" yaml:"epsilon"`
	EpsilonMin   float64 `mapstructure:"epsilon_min" yaml:"epsilon_min"`
	EpsilonDecay float64 `mapstructure:"epsilon_decay" yaml:"epsilon_decay"`
}

// RewardsConfig holds the reward values
type RewardsConfig struct {
	Food      float64 `mapstructure:"food" yaml:"food"`
	Collision float64 `mapstructure:"collision" yaml:"collision"`
	Step      float64 `mapstructure:"step" yaml:"step"`
}

// LoopConfig holds game loop settings
type LoopConfig struct {
	TickIntervalMs int `mapstructure:"tick_interval_ms" yaml:"tick_interval_ms"`
	HistorySize    int `mapstructure:"history_size" yaml:"history_size"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	// Events is the level session events are logged at
	Events string `mapstructure:"events" yaml:"events"`
}

// EventLevel returns the level for session event logs
func (l LoggingConfig) EventLevel() zerolog.Level {
	return logging.ParseLevel(l.Events)
}

// UIConfig holds window settings
type UIConfig struct {
	Window WindowConfig `mapstructure:"window" yaml:"window"`
}

// WindowConfig holds window settings
type WindowConfig struct {
	Width  int    `mapstructure:"width" yaml:"width"`
	Height int    `mapstructure:"height" yaml:"height"`
	Title  string `mapstructure:"title" yaml:"title"`
}

// TrainerConfig holds headless training settings
type TrainerConfig struct {
	Episodes   int    `mapstructure:"episodes" yaml:"episodes"`
	Workers    int    `mapstructure:"workers" yaml:"workers"`
	MaxTicks   int    `mapstructure:"max_ticks" yaml:"max_ticks"`
	Seed       int64  `mapstructure:"seed" yaml:"seed"`
	ReportPath string `mapstructure:"report_path" yaml:"report_path"`
	HealthAddr string `mapstructure:"health_addr" yaml:"health_addr"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Board defaults
	v.SetDefault("board.size", 400)
	v.SetDefault("board.cell_size", 20)
	v.SetDefault("board.spawn_x", 160)
	v.SetDefault("board.spawn_y", 160)
	v.SetDefault("board.food_x", 60)
	v.SetDefault("board.food_y", 60)
	v.SetDefault("board.start_direction", "RIGHT")

	// Agent defaults
	v.SetDefault("agent.learning_rate", 0.1)
	v.SetDefault("agent.discount", 0.9)
	v.SetDefault("agent.epsilon", 1.0)
	v.SetDefault("agent.epsilon_min", 0.1)
	v.SetDefault("agent.epsilon_decay", 0.995)

	// Reward defaults
	v.SetDefault("rewards.food", 10.0)
	v.SetDefault("rewards.collision", -10.0)
	v.SetDefault("rewards.step", -1.0)

	// Loop defaults
	v.SetDefault("loop.tick_interval_ms", 100)
	v.SetDefault("loop.history_size", 1000)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.events", "info")

	// UI defaults
	v.SetDefault("ui.window.width", 400)
	v.SetDefault("ui.window.height", 440)
	v.SetDefault("ui.window.title", "Snake RL")

	// Trainer defaults
	v.SetDefault("trainer.episodes", 500)
	v.SetDefault("trainer.workers", 4)
	v.SetDefault("trainer.max_ticks", 2000)
	v.SetDefault("trainer.seed", 0)
	v.SetDefault("trainer.report_path", "")
	v.SetDefault("trainer.health_addr", "")
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/snake-rl")
	}

	v.SetEnvPrefix("SNAKERL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing explicit file falls back to defaults as well
		if configPath == "" && !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	next := &Config{}
	if err := v.Unmarshal(next); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(next); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	cfg = next
	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	_ = v.Unmarshal(cfg)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. onChange receives
// the reloaded config only when it still validates; otherwise onError is
// called and the previous config stays in effect.
func WatchConfig(onChange func(*Config), onError func(error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		err := v.Unmarshal(next)
		if err == nil {
			err = Validate(next)
		}
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reload %s: %w", e.Name, err))
			}
			return
		}
		cfg = next
		if onChange != nil {
			onChange(next)
		}
	})
	v.WatchConfig()
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if _, err := c.WorldConfig(); err != nil {
		return err
	}
	if err := c.AgentParams().Validate(); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.RewardConfig().Validate(); err != nil {
		return fmt.Errorf("rewards: %w", err)
	}
	if c.Loop.TickIntervalMs <= 0 {
		return fmt.Errorf("loop.tick_interval_ms must be positive")
	}
	if c.Loop.HistorySize < 0 {
		return fmt.Errorf("loop.history_size must be non-negative")
	}
	if c.UI.Window.Width <= 0 || c.UI.Window.Height <= 0 {
		return fmt.Errorf("ui.window dimensions must be positive")
	}
	if c.Trainer.Episodes <= 0 {
		return fmt.Errorf("trainer.episodes must be positive")
	}
	if c.Trainer.Workers <= 0 {
		return fmt.Errorf("trainer.workers must be positive")
	}
	if c.Trainer.MaxTicks <= 0 {
		return fmt.Errorf("trainer.max_ticks must be positive")
	}
	return nil
}

// WorldConfig converts the board section into a validated world config.
// Rng and Logger are left for the caller to inject.
func (c *Config) WorldConfig() (game.WorldConfig, error) {
	dir, err := core.ParseAction(c.Board.StartDirection)
	if err != nil {
		return game.WorldConfig{}, fmt.Errorf("board.start_direction: %w", err)
	}
	wc := game.DefaultWorldConfig()
	wc.BoardSize = c.Board.Size
	wc.CellSize = c.Board.CellSize
	wc.Spawn = core.NewPosition(c.Board.SpawnX, c.Board.SpawnY)
	wc.InitialFood = core.NewPosition(c.Board.FoodX, c.Board.FoodY)
	wc.StartDirection = dir
	if err := wc.Validate(); err != nil {
		return game.WorldConfig{}, fmt.Errorf("board: %w", err)
	}
	return wc, nil
}

// AgentParams returns the agent hyperparameters
func (c *Config) AgentParams() agent.Params {
	return agent.Params{
		LearningRate: c.Agent.LearningRate,
		Discount:     c.Agent.Discount,
		Epsilon:      c.Agent.Epsilon,
		EpsilonMin:   c.Agent.EpsilonMin,
		EpsilonDecay: c.Agent.EpsilonDecay,
	}
}

// RewardConfig returns the reward values
func (c *Config) RewardConfig() experience.RewardConfig {
	return experience.RewardConfig{
		Food:      c.Rewards.Food,
		Collision: c.Rewards.Collision,
		Step:      c.Rewards.Step,
	}
}

// SessionOptions assembles the options for a new session. The world RNG is
// left nil so every session seeds its own.
func (c *Config) SessionOptions(logger zerolog.Logger) (session.Options, error) {
	wc, err := c.WorldConfig()
	if err != nil {
		return session.Options{}, err
	}
	return session.Options{
		World:       wc,
		Agent:       c.AgentParams(),
		Rewards:     c.RewardConfig(),
		HistorySize: c.Loop.HistorySize,
		Logger:      logger,
	}, nil
}

// TickInterval returns the loop interval as a duration
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Loop.TickIntervalMs) * time.Millisecond
}

// YAML renders the effective configuration
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
