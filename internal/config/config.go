package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"ctchen222/minimax-tic-tac-toe/internal/validator"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel  string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTP      HTTP      `yaml:"http"`
	Redis     Redis     `yaml:"redis"`
	SQLite    SQLite    `yaml:"sqlite"`
	Auth      Auth      `yaml:"auth"`
	Game      Game      `yaml:"game"`
	Telemetry Telemetry `yaml:"telemetry"`
}

type HTTP struct {
	Addr            string        `yaml:"addr" env:"HTTP_ADDR" env-default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown-timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type Redis struct {
	Addr     string        `yaml:"addr" env:"REDIS_CONNSTRING" env-default:"localhost:6379"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	GameTTL  time.Duration `yaml:"game-ttl" env:"REDIS_GAME_TTL" env-default:"24h"`
}

type SQLite struct {
	Path string `yaml:"path" env:"SQLITE_PATH" env-default:"./master.db"`
}

type Auth struct {
	JWTSecret string        `yaml:"jwt-secret" env:"JWT_SECRET" env-default:"my_super_secret_key"`
	TokenTTL  time.Duration `yaml:"token-ttl" env:"JWT_TOKEN_TTL" env-default:"72h"`
}

type Game struct {
	// ThinkDelay is how long the bot waits before replying to a human move.
	ThinkDelay      time.Duration `yaml:"think-delay" env:"GAME_THINK_DELAY" env-default:"400ms"`
	FirstPlayer     string        `yaml:"first-player" env:"GAME_FIRST_PLAYER" env-default:"human" validate:"first_player"`
	ReconnectGrace  time.Duration `yaml:"reconnect-grace" env:"GAME_RECONNECT_GRACE" env-default:"60s"`
	HeartbeatPeriod time.Duration `yaml:"heartbeat-period" env:"GAME_HEARTBEAT_PERIOD" env-default:"10s"`
}

type Telemetry struct {
	// OTLPEndpoint is the collector's gRPC address; empty exports traces to stdout only.
	OTLPEndpoint   string `yaml:"otlp-endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName    string `yaml:"service-name" env:"OTEL_SERVICE_NAME" env-default:"tic-tac-toe"`
	ServiceVersion string `yaml:"service-version" env:"SERVICE_VERSION" env-default:"v0.1.0"`
}

// Load reads the YAML file at path when it exists and overlays environment
// variables, then validates the result.
func Load(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := validator.GetValidator().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func read(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				return nil, fmt.Errorf("unable to load config file: %w", err)
			}
			return cfg, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("unable to stat config file: %w", err)
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("unable to load config from environment: %w", err)
	}
	return cfg, nil
}

// MustLoad is Load that panics on failure.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}
