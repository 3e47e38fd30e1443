package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string
	TLSCert     string
	TLSKey      string
	DatabaseURL string
	TokenKey    string
	RateLimit   float64
	RateBurst   int
	StaticDir   string
	LogLevel    string
}

// Load reads .env files (a missing file is fine) and then the environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		Addr:        env("ADDR", ":8080"),
		TLSCert:     os.Getenv("TLS_CERT"),
		TLSKey:      os.Getenv("TLS_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		TokenKey:    os.Getenv("TOKEN_KEY"),
		StaticDir:   env("STATIC_DIR", "./static/main"),
		LogLevel:    env("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.RateLimit, err = strconv.ParseFloat(env("RATE_LIMIT", "5"), 64); err != nil || cfg.RateLimit <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT must be a positive number")
	}
	if cfg.RateBurst, err = strconv.Atoi(env("RATE_BURST", "10")); err != nil || cfg.RateBurst <= 0 {
		return Config{}, fmt.Errorf("RATE_BURST must be a positive integer")
	}
	if (cfg.TLSCert == "") != (cfg.TLSKey == "") {
		return Config{}, fmt.Errorf("TLS_CERT and TLS_KEY must be set together")
	}
	if cfg.DatabaseURL != "" && cfg.TokenKey == "" {
		return Config{}, fmt.Errorf("TOKEN_KEY environment variable is not set")
	}
	return cfg, nil
}

func (c Config) TLS() bool {
	return c.TLSCert != ""
}

// Accounts reports whether auth and saved calculations are enabled.
func (c Config) Accounts() bool {
	return c.DatabaseURL != ""
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
