package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

type Config struct {
	ServerAddr string
	LogLevel   string

	JWTSecret     []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	StoreDriver string
	SQLiteDSN   string
	Seed        bool

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	accessTTL, err := EnvDurationDefault("ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	refreshTTL, err := EnvDurationDefault("REFRESH_TOKEN_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerAddr: EnvDefault("SERVER_ADDR", ":8000"),
		LogLevel:   EnvDefault("LOG_LEVEL", "info"),

		JWTSecret:     []byte(os.Getenv("JWT_SECRET")),
		RefreshSecret: []byte(os.Getenv("JWT_REFRESH_SECRET")),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,

		StoreDriver: strings.ToLower(EnvDefault("STORE_DRIVER", StoreMemory)),
		SQLiteDSN:   EnvDefault("SQLITE_DSN", ":memory:"),
		Seed:        EnvBoolDefault("SEED", true),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "books"),
	}

	if len(cfg.RefreshSecret) == 0 {
		cfg.RefreshSecret = cfg.JWTSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.JWTSecret) == 0 {
		return errors.New("missing required env JWT_SECRET")
	}
	if c.AccessTTL < time.Second {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be at least 1s, got %s", c.AccessTTL)
	}
	if c.RefreshTTL < c.AccessTTL {
		return fmt.Errorf("REFRESH_TOKEN_TTL (%s) must not be shorter than ACCESS_TOKEN_TTL (%s)", c.RefreshTTL, c.AccessTTL)
	}
	switch c.StoreDriver {
	case StoreMemory, StoreSQLite:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func EnvDurationDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
