// Package config loads yt-harvest settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/yt-harvest/pkg/client"
	"github.com/Sternrassler/yt-harvest/pkg/logging"
	"github.com/Sternrassler/yt-harvest/pkg/normalize"
	"github.com/Sternrassler/yt-harvest/pkg/quota"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// DefaultEnvFile is read by Load when present.
const DefaultEnvFile = ".env"

// Config holds all runtime settings.
type Config struct {
	APIKey      string
	BaseURL     string
	MaxResults  int
	UserAgent   string
	HTTPTimeout time.Duration
	DailyQuota  int64

	// RedisURL is a redis:// URL or a host:port address. Empty disables
	// caching and quota accounting.
	RedisURL string

	Port      string
	LogLevel  string
	LogPretty bool

	// Location is the zone timestamps are rendered in.
	Location *time.Location

	// ShortsMax is the longest duration still classified as a short.
	ShortsMax time.Duration
}

// Load reads DefaultEnvFile if it exists, then the environment.
// Variables already set in the environment win over the file.
func Load() (Config, error) {
	return LoadFile(DefaultEnvFile)
}

// LoadFile reads path if it exists, then the environment.
func LoadFile(path string) (Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables.
func FromEnv() (Config, error) {
	cfg := Config{
		APIKey:    os.Getenv("YOUTUBE_API_KEY"),
		BaseURL:   getEnv("YOUTUBE_BASE_URL", client.DefaultBaseURL),
		UserAgent: getEnv("USER_AGENT", "yt-harvest/0.1.0"),
		RedisURL:  os.Getenv("REDIS_URL"),
		Port:      getEnv("PORT", "8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.MaxResults, err = getInt("YOUTUBE_MAX_RESULTS", client.MaxPageSize); err != nil {
		return Config{}, err
	}
	if cfg.DailyQuota, err = getInt64("YT_DAILY_QUOTA", quota.DefaultDailyLimit); err != nil {
		return Config{}, err
	}
	if cfg.LogPretty, err = getBool("LOG_PRETTY", false); err != nil {
		return Config{}, err
	}
	if cfg.HTTPTimeout, err = getDuration("HTTP_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}

	seconds, err := getInt("YT_SHORTS_MAX_SECONDS", int(normalize.DefaultShortsMaxLength/time.Second))
	if err != nil {
		return Config{}, err
	}
	cfg.ShortsMax = time.Duration(seconds) * time.Second

	zone := getEnv("YT_TIMEZONE", "UTC")
	if cfg.Location, err = time.LoadLocation(zone); err != nil {
		return Config{}, fmt.Errorf("YT_TIMEZONE: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that have no usable default.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("YOUTUBE_API_KEY: %w", client.ErrAPIKeyRequired)
	}
	if c.MaxResults < 1 || c.MaxResults > client.MaxPageSize {
		return fmt.Errorf("YOUTUBE_MAX_RESULTS: %w", client.ErrInvalidMaxResults)
	}
	if c.ShortsMax <= 0 {
		return fmt.Errorf("YT_SHORTS_MAX_SECONDS must be positive")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

// Redis connects to RedisURL. It returns nil when RedisURL is empty.
func (c Config) Redis() (*redis.Client, error) {
	if c.RedisURL == "" {
		return nil, nil
	}
	if strings.Contains(c.RedisURL, "://") {
		opts, err := redis.ParseURL(c.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("REDIS_URL: %w", err)
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{Addr: c.RedisURL}), nil
}

// Client returns the API client configuration for redisClient (may be nil).
func (c Config) Client(redisClient *redis.Client) client.Config {
	cfg := client.DefaultConfig(c.APIKey)
	cfg.BaseURL = c.BaseURL
	cfg.UserAgent = c.UserAgent
	cfg.Timeout = c.HTTPTimeout
	cfg.MaxResults = c.MaxResults
	cfg.DailyQuota = c.DailyQuota
	cfg.Redis = redisClient
	return cfg
}

// Logging returns the logger configuration.
func (c Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevel(strings.ToLower(c.LogLevel))
	cfg.Pretty = c.LogPretty
	return cfg
}

// NormalizerOptions returns the transforms configured by YT_TIMEZONE and
// YT_SHORTS_MAX_SECONDS.
func (c Config) NormalizerOptions() []normalize.Option {
	return []normalize.Option{
		normalize.WithTimeTransformer(normalize.TimeFormat{
			Layout:   normalize.DefaultTimeLayout,
			Location: c.Location,
		}),
		normalize.WithDurationClassifier(normalize.ShortsClassifier{MaxLength: c.ShortsMax}),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
