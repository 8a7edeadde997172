package shared

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
)

const envPrefix = "STAYIN_"

type Config struct {
	AppEnv      string `koanf:"app_env"`
	LogLevel    string `koanf:"log_level"`
	HTTPAddr    string `koanf:"http_addr"`
	MetricsAddr string `koanf:"metrics_addr"`
	MySQLDSN    string `koanf:"mysql_dsn"`
	RedisAddr   string `koanf:"redis_addr"`
	RedisPass   string `koanf:"redis_password"`
	RedisDB     int    `koanf:"redis_db"`
	CacheTTLSec int    `koanf:"cache_ttl_seconds"`

	FeedBase    string `koanf:"feed_base_url"`
	FeedKey     string `koanf:"feed_key"`
	FeedRPS     int    `koanf:"feed_rps"`
	SeedWorkers int    `koanf:"seed_workers"`

	FlashHideMS     int     `koanf:"flash_hide_ms"`
	FlashFadeMS     int     `koanf:"flash_fade_ms"`
	RevealThreshold float64 `koanf:"reveal_threshold"`
	Collation       string  `koanf:"collation"`

	AdminToken       string `koanf:"admin_token"`
	LiveEventsPerSec int    `koanf:"live_events_per_second"`
}

func Default() Config {
	return Config{
		AppEnv:           "prod",
		LogLevel:         "info",
		HTTPAddr:         ":8080",
		MetricsAddr:      ":9100",
		MySQLDSN:         "root:root@tcp(localhost:3306)/stayin?parseTime=true&charset=utf8mb4,utf8&loc=UTC",
		RedisAddr:        "localhost:6379",
		CacheTTLSec:      900,
		FeedRPS:          5,
		SeedWorkers:      8,
		FlashHideMS:      2500,
		FlashFadeMS:      400,
		RevealThreshold:  0.12,
		Collation:        "en",
		LiveEventsPerSec: 20,
	}
}

// Load reads STAYIN_CONFIG (default stayin.yml) when it exists, then
// overlays STAYIN_* environment variables.
func Load() (Config, error) {
	path := os.Getenv(envPrefix + "CONFIG")
	if path == "" {
		path = "stayin.yml"
	}
	return LoadFile(path)
}

func LoadFile(path string) (Config, error) {
	k := koanf.New(".")
	c := Default()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// STAYIN_HTTP_ADDR -> http_addr, etc.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", &c); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	if c.AdminToken == "" {
		log.Warn().Msg("admin_token is empty; catalog writes are disabled")
	}
	return c, nil
}

func (c Config) Validate() error {
	switch {
	case c.HTTPAddr == "":
		return fmt.Errorf("http_addr is required")
	case c.CacheTTLSec < 0:
		return fmt.Errorf("cache_ttl_seconds must be non-negative")
	case c.FlashHideMS < 0 || c.FlashFadeMS < 0:
		return fmt.Errorf("flash timings must be non-negative")
	case c.RevealThreshold < 0 || c.RevealThreshold > 1:
		return fmt.Errorf("reveal_threshold must be within [0,1], got %v", c.RevealThreshold)
	case c.SeedWorkers < 0:
		return fmt.Errorf("seed_workers must be non-negative")
	}
	return nil
}

func (c Config) CacheTTL() time.Duration  { return time.Duration(c.CacheTTLSec) * time.Second }
func (c Config) FlashHide() time.Duration { return time.Duration(c.FlashHideMS) * time.Millisecond }
func (c Config) FlashFade() time.Duration { return time.Duration(c.FlashFadeMS) * time.Millisecond }
