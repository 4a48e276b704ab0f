package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv          string        `yaml:"app_env"`
	HTTPAddr        string        `yaml:"http_addr"`
	MetricsAddr     string        `yaml:"metrics_addr"`
	BackendBase     string        `yaml:"backend_base_url"`
	BackendTimeout  time.Duration `yaml:"backend_timeout"`
	BackendRPS      int           `yaml:"backend_rps"`
	BackendRetries  int           `yaml:"backend_retries"`
	SuggestDebounce time.Duration `yaml:"suggest_debounce"`
	RedisAddr       string        `yaml:"redis_addr"`
	RedisPass       string        `yaml:"redis_password"`
	RedisDB         int           `yaml:"redis_db"`
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	MySQLDSN        string        `yaml:"mysql_dsn"`
	PrefetchWorkers int           `yaml:"prefetch_workers"`
}

// Load reads the environment. A .env file in the working directory is loaded
// first when present; variables already set win.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not read .env")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric setting")
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ""),
		BackendBase:     env("BACKEND_BASE_URL", "http://localhost:8000"),
		BackendTimeout:  time.Duration(atoi("BACKEND_TIMEOUT_SECONDS", 20)) * time.Second,
		BackendRPS:      atoi("BACKEND_RPS", 10),
		BackendRetries:  atoi("BACKEND_RETRIES", 0),
		SuggestDebounce: time.Duration(atoi("SUGGEST_DEBOUNCE_MS", 500)) * time.Millisecond,
		RedisAddr:       env("REDIS_ADDR", ""),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		MySQLDSN:        env("MYSQL_DSN", ""),
		PrefetchWorkers: atoi("PREFETCH_WORKERS", 4),
	}
	if c.RedisAddr == "" {
		log.Debug().Msg("REDIS_ADDR is empty, caching disabled")
	}
	return c
}

// LoadFile overlays the YAML file at path on c. Keys missing from the file
// keep their current value.
func (c Config) LoadFile(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	out := c
	if err := yaml.Unmarshal(b, &out); err != nil {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	return out, nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
