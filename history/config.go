package history

// Config holds history slot parameters.
type Config struct {
	Key   string `json:"key,omitempty"`
	Limit int    `json:"limit,omitempty"` // UTF-16 code units
}

// DefaultConfig returns the "chat" slot with the 5 MiB limit.
func DefaultConfig() Config {
	return Config{Key: DefaultKey, Limit: DefaultLimit}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Key != "" {
		c.Key = source.Key
	}
	if source.Limit > 0 {
		c.Limit = source.Limit
	}
}

// Options converts the config into History options.
func (c *Config) Options() []Option {
	var opts []Option
	if c.Key != "" {
		opts = append(opts, WithKey(c.Key))
	}
	if c.Limit > 0 {
		opts = append(opts, WithLimit(c.Limit))
	}
	return opts
}
