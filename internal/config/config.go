package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server ServerConfig
	Seed   SeedConfig
	Board  BoardConfig
	Redis  RedisConfig
	Log    LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// SeedConfig selects the initial task collection.
type SeedConfig struct {
	File string // empty = embedded demo board
	Demo bool   // false with no File = empty board
}

// BoardConfig holds board view settings.
type BoardConfig struct {
	UpcomingLimit int
}

// RedisConfig holds the optional Redis event broker settings.
// An empty Addr keeps board events in-process.
type RedisConfig struct {
	Addr          string
	Password      string //nolint:gosec // G117: Redis connection config
	DB            int
	ChannelPrefix string
}

// LogConfig holds zerolog settings.
type LogConfig struct {
	Level  string
	Format string
}

// Enabled reports whether a Redis broker is configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// Load reads configuration from environment variables. When the file named
// by TASKBOARD_DOTENV (default ".env") exists it is loaded first; variables
// already set in the environment win.
func Load() (*Config, error) {
	if err := loadDotenv(getEnv("TASKBOARD_DOTENV", ".env")); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("TASKBOARD_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("TASKBOARD_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rps, err := getEnvFloat("TASKBOARD_RATE_LIMIT_RPS", 50)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	burst, err := getEnvInt("TASKBOARD_RATE_LIMIT_BURST", 100)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	seedDemo, err := getEnvBool("TASKBOARD_SEED_DEMO", true)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	upcoming, err := getEnvInt("TASKBOARD_UPCOMING_LIMIT", 5)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("TASKBOARD_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:           getEnv("TASKBOARD_SERVER_ADDR", ":8080"),
			ReadTimeout:    readTimeout,
			WriteTimeout:   writeTimeout,
			CORSOrigins:    getEnvList("TASKBOARD_CORS_ORIGINS", []string{"http://localhost:5173"}),
			RateLimitRPS:   rps,
			RateLimitBurst: burst,
		},
		Seed: SeedConfig{
			File: getEnv("TASKBOARD_SEED_FILE", ""),
			Demo: seedDemo,
		},
		Board: BoardConfig{
			UpcomingLimit: upcoming,
		},
		Redis: RedisConfig{
			Addr:          getEnv("TASKBOARD_REDIS_ADDR", ""),
			Password:      getEnv("TASKBOARD_REDIS_PASSWORD", ""),
			DB:            redisDB,
			ChannelPrefix: getEnv("TASKBOARD_REDIS_CHANNEL_PREFIX", "taskboard"),
		},
		Log: LogConfig{
			Level:  getEnv("TASKBOARD_LOG_LEVEL", "info"),
			Format: getEnv("TASKBOARD_LOG_FORMAT", "json"),
		},
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	if c.Server.Addr == "" {
		return errors.New("TASKBOARD_SERVER_ADDR must not be empty")
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("TASKBOARD_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("TASKBOARD_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Server.RateLimitRPS <= 0 {
		return fmt.Errorf("TASKBOARD_RATE_LIMIT_RPS must be positive, got %g", c.Server.RateLimitRPS)
	}
	if c.Server.RateLimitBurst < 1 {
		return fmt.Errorf("TASKBOARD_RATE_LIMIT_BURST must be >= 1, got %d", c.Server.RateLimitBurst)
	}
	if c.Board.UpcomingLimit < 1 {
		return fmt.Errorf("TASKBOARD_UPCOMING_LIMIT must be >= 1, got %d", c.Board.UpcomingLimit)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("TASKBOARD_REDIS_DB must be >= 0, got %d", c.Redis.DB)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("TASKBOARD_LOG_FORMAT must be json or text, got %q", c.Log.Format)
	}

	return nil
}

func loadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as float: %w", key, v, err)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
