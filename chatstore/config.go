package chatstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/tailored-agentic-units/chatstore/history"
	"github.com/tailored-agentic-units/chatstore/memory"
)

// Environment variables read by ApplyEnv.
const (
	EnvBackend  = "CHATSTORE_BACKEND"
	EnvPath     = "CHATSTORE_PATH"
	EnvQuota    = "CHATSTORE_QUOTA"
	EnvKey      = "CHATSTORE_KEY"
	EnvLimit    = "CHATSTORE_LIMIT"
	EnvObserver = "CHATSTORE_OBSERVER"
)

const defaultObserver = "slog"

// Config holds initialization parameters for every subsystem. Each section
// delegates to that subsystem's own Config.
type Config struct {
	History  history.Config `json:"history"`
	Memory   memory.Config  `json:"memory"`
	Observer string         `json:"observer,omitempty"` // registered observer name
}

// DefaultConfig returns the "chat" slot over an in-process store, logged
// through slog.
func DefaultConfig() Config {
	return Config{
		History:  history.DefaultConfig(),
		Memory:   memory.DefaultConfig(),
		Observer: defaultObserver,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	c.History.Merge(&source.History)
	c.Memory.Merge(&source.Memory)

	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// LoadConfig reads a JSON config file, merges it with defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}

// ApplyEnv overrides c from the process environment.
func (c *Config) ApplyEnv() error {
	return c.applyLookup(os.LookupEnv)
}

// ApplyEnvFile overrides c from a dotenv file layered under the process
// environment: a variable set in both places takes the process value. A
// missing file is not an error.
func (c *Config) ApplyEnvFile(filename string) error {
	vals, err := godotenv.Read(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c.ApplyEnv()
		}
		return fmt.Errorf("failed to read env file: %w", err)
	}

	return c.applyLookup(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vals[key]
		return v, ok
	})
}

func (c *Config) applyLookup(lookup func(string) (string, bool)) error {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	quota, err := parseOptionalInt64(EnvQuota, get(EnvQuota))
	if err != nil {
		return err
	}
	limit, err := parseOptionalInt64(EnvLimit, get(EnvLimit))
	if err != nil {
		return err
	}

	c.Merge(&Config{
		History: history.Config{
			Key:   get(EnvKey),
			Limit: int(limit),
		},
		Memory: memory.Config{
			Backend: get(EnvBackend),
			Path:    get(EnvPath),
			Quota:   quota,
		},
		Observer: get(EnvObserver),
	})
	return nil
}

func parseOptionalInt64(key, raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	if val < 0 {
		return 0, fmt.Errorf("invalid %s value %q: must not be negative", key, raw)
	}
	return val, nil
}
