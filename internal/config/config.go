package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CARDFORGE_LOGGING_LEVEL.
const EnvPrefix = "CARDFORGE"

// Config is the server configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Replay  ReplayConfig  `mapstructure:"replay"`
}

// ServerConfig holds network settings.
type ServerConfig struct {
	WebSocket WebSocketConfig `mapstructure:"websocket"`
}

// WebSocketConfig configures the match websocket endpoint.
type WebSocketConfig struct {
	Address        string        `mapstructure:"address"`
	Path           string        `mapstructure:"path"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
	SendBuffer     int           `mapstructure:"send_buffer"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// LoggingConfig selects the log level and encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EngineConfig holds the match limits.
type EngineConfig struct {
	HandCap              int    `mapstructure:"hand_cap"`
	BoardCap             int    `mapstructure:"board_cap"`
	MaxMana              int    `mapstructure:"max_mana"`
	StartingHealth       int    `mapstructure:"starting_health"`
	StrictInvariants     bool   `mapstructure:"strict_invariants"`
	RNGSeed              uint64 `mapstructure:"rng_seed"`
	MaxTriggerIterations int    `mapstructure:"max_trigger_iterations"`
	DiscoverOptions      int    `mapstructure:"discover_options"`
	AdaptOptions         int    `mapstructure:"adapt_options"`
}

// Catalog sources.
const (
	CatalogSourceFile     = "file"
	CatalogSourcePostgres = "postgres"
)

// CatalogConfig says where card definitions are loaded from.
type CatalogConfig struct {
	Source      string `mapstructure:"source"`
	Path        string `mapstructure:"path"`
	DatabaseURL string `mapstructure:"database_url"`
	Table       string `mapstructure:"table"`
}

// ReplayConfig enables recording of finished matches.
type ReplayConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Directory string `mapstructure:"directory"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.websocket.address", ":8080")
	v.SetDefault("server.websocket.path", "/ws")
	v.SetDefault("server.websocket.read_timeout", 60*time.Second)
	v.SetDefault("server.websocket.write_timeout", 10*time.Second)
	v.SetDefault("server.websocket.ping_interval", 30*time.Second)
	v.SetDefault("server.websocket.max_message_size", 64*1024)
	v.SetDefault("server.websocket.send_buffer", 32)
	v.SetDefault("server.websocket.allowed_origins", []string{})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("engine.hand_cap", 10)
	v.SetDefault("engine.board_cap", 7)
	v.SetDefault("engine.max_mana", 10)
	v.SetDefault("engine.starting_health", 30)
	v.SetDefault("engine.strict_invariants", false)
	v.SetDefault("engine.rng_seed", 0)
	v.SetDefault("engine.max_trigger_iterations", 1000)
	v.SetDefault("engine.discover_options", 3)
	v.SetDefault("engine.adapt_options", 3)

	v.SetDefault("catalog.source", CatalogSourceFile)
	v.SetDefault("catalog.path", "cards/cards.yaml")
	v.SetDefault("catalog.database_url", "")
	v.SetDefault("catalog.table", "card_definitions")

	v.SetDefault("replay.enabled", false)
	v.SetDefault("replay.directory", "replays")
}

// Load reads the YAML file at path, applies CARDFORGE_ environment
// overrides and validates the result. A missing file at path falls back to
// the defaults; an empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var problems []string
	if c.Server.WebSocket.Address == "" {
		problems = append(problems, "server.websocket.address is required")
	}
	if c.Server.WebSocket.MaxMessageSize <= 0 {
		problems = append(problems, "server.websocket.max_message_size must be positive")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level %q is not one of debug, info, warn or error", c.Logging.Level))
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		problems = append(problems, fmt.Sprintf("logging.format %q must be json or console", c.Logging.Format))
	}

	e := c.Engine
	if e.HandCap <= 0 || e.BoardCap <= 0 || e.MaxMana <= 0 || e.StartingHealth <= 0 {
		problems = append(problems, "engine caps and starting_health must be positive")
	}
	if e.MaxTriggerIterations <= 0 {
		problems = append(problems, "engine.max_trigger_iterations must be positive")
	}
	if e.DiscoverOptions <= 0 || e.AdaptOptions <= 0 {
		problems = append(problems, "engine option counts must be positive")
	}

	switch c.Catalog.Source {
	case CatalogSourceFile:
		if c.Catalog.Path == "" {
			problems = append(problems, "catalog.path is required for the file source")
		}
	case CatalogSourcePostgres:
		if c.Catalog.DatabaseURL == "" {
			problems = append(problems, "catalog.database_url is required for the postgres source")
		}
		if c.Catalog.Table == "" {
			problems = append(problems, "catalog.table is required for the postgres source")
		}
	default:
		problems = append(problems, fmt.Sprintf("catalog.source %q must be file or postgres", c.Catalog.Source))
	}

	if c.Replay.Enabled && c.Replay.Directory == "" {
		problems = append(problems, "replay.directory is required when replays are enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
