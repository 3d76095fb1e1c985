// Package config reads runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvFloat parses a float variable. It returns nil when the variable is unset or empty.
func GetEnvFloat(key string) (*float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &v, nil
}

// GetEnvUint parses an unsigned integer variable. It returns nil when the variable is unset or empty.
func GetEnvUint(key string) (*uint64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &v, nil
}

// Config is the runtime configuration shared by the commands.
type Config struct {
	Preset      string
	Gravity     *float64 // nil keeps the preset's value
	Restitution *float64
	Timestep    *float64
	Integrator  string
	Seed        *uint64 // nil seeds from the clock

	LogLevel string

	SSHHost    string
	SSHPort    string
	SSHHostKey string
}

// Load reads .env, if present, and then the process environment.
// Variables already set in the environment win over .env.
func Load() (*Config, error) {
	if err := loadDotenv(); err != nil {
		return nil, err
	}
	return FromEnv()
}

// loadDotenv loads the given files, .env by default. Missing files are
// skipped; unreadable or malformed ones are errors.
func loadDotenv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Preset:     GetEnv("GAME_PRESET", "balldrop"),
		Integrator: GetEnv("GAME_INTEGRATOR", ""),
		LogLevel:   GetEnv("LOG_LEVEL", "info"),
		SSHHost:    GetEnv("SSH_HOST", "::"),
		SSHPort:    GetEnv("SSH_PORT", "2222"),
		SSHHostKey: GetEnv("SSH_HOST_KEY", "/app/keys/host_key"),
	}

	var err error
	if cfg.Gravity, err = GetEnvFloat("GAME_GRAVITY"); err != nil {
		return nil, err
	}
	if cfg.Restitution, err = GetEnvFloat("GAME_RESTITUTION"); err != nil {
		return nil, err
	}
	if cfg.Timestep, err = GetEnvFloat("GAME_TIMESTEP"); err != nil {
		return nil, err
	}
	if cfg.Seed, err = GetEnvUint("GAME_SEED"); err != nil {
		return nil, err
	}
	return cfg, nil
}
