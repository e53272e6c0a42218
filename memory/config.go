package memory

import (
	"errors"
	"fmt"
)

// Storage backends selectable through Config.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
)

// Config holds store initialization parameters.
type Config struct {
	Backend string `json:"backend,omitempty"` // "memory" (default) or "file".
	Path    string `json:"path,omitempty"`    // FileStore root directory; required for "file".
	Quota   int64  `json:"quota,omitempty"`   // Total capacity in bytes; 0 is unbounded.
}

// DefaultConfig returns the default store configuration: an unbounded
// in-process store.
func DefaultConfig() Config {
	return Config{Backend: BackendMemory}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Backend != "" {
		c.Backend = source.Backend
	}
	if source.Path != "" {
		c.Path = source.Path
	}
	if source.Quota > 0 {
		c.Quota = source.Quota
	}
}

// NewStore creates a Store from configuration, wrapped with a quota when one
// is set.
func NewStore(cfg *Config) (Store, error) {
	var store Store

	switch cfg.Backend {
	case "", BackendMemory:
		store = NewMapStore()
	case BackendFile:
		if cfg.Path == "" {
			return nil, errors.New("file backend requires a path")
		}
		store = NewFileStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Backend)
	}

	return WithQuota(store, cfg.Quota), nil
}
