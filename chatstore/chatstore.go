// Package chatstore assembles a chat history runtime from configuration:
// the storage backend, the history slot over it, and the observer that
// logs its operations.
//
//	cfg := chatstore.DefaultConfig()
//	rt, err := chatstore.New(&cfg)
//	err = rt.History().Save(ctx, msgs)
package chatstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tailored-agentic-units/chatstore/delay"
	"github.com/tailored-agentic-units/chatstore/history"
	"github.com/tailored-agentic-units/chatstore/memory"
	"github.com/tailored-agentic-units/chatstore/observability"
)

// EventWait is emitted when Runtime.Wait finishes.
const EventWait observability.EventType = "runtime.wait"

// Option configures a Runtime after config-driven initialization.
// Overrides replace config-created defaults.
type Option func(*Runtime)

// WithStore overrides the config-created store.
func WithStore(s memory.Store) Option {
	return func(r *Runtime) { r.store = s }
}

// WithObserver overrides the config-selected observer.
func WithObserver(o observability.Observer) Option {
	return func(r *Runtime) { r.observer = o }
}

// WithLogger logs through logger instead of the registered observer.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) { r.observer = observability.NewSlogObserver(logger) }
}

// WithSleeper overrides the wall-clock sleeper used by Wait.
func WithSleeper(s delay.Sleeper) Option {
	return func(r *Runtime) { r.sleeper = s }
}

// Runtime owns the subsystems built from a Config.
type Runtime struct {
	store    memory.Store
	observer observability.Observer
	sleeper  delay.Sleeper
	history  *history.History
}

// New creates a Runtime from configuration. Options are applied after the
// config-created subsystems exist and before the history is bound to them.
func New(cfg *Config, opts ...Option) (*Runtime, error) {
	store, err := memory.NewStore(&cfg.Memory)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	name := cfg.Observer
	if name == "" {
		name = defaultObserver
	}
	observer, err := observability.GetObserver(name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	r := &Runtime{
		store:    store,
		observer: observer,
		sleeper:  delay.Real{},
	}

	for _, opt := range opts {
		opt(r)
	}

	histOpts := append(cfg.History.Options(), history.WithObserver(r.observer))
	r.history = history.New(r.store, histOpts...)

	return r, nil
}

// History returns the configured history slot.
func (r *Runtime) History() *history.History {
	return r.history
}

// Store returns the backing store.
func (r *Runtime) Store() memory.Store {
	return r.store
}

// Wait suspends the caller for d using the runtime's sleeper.
func (r *Runtime) Wait(ctx context.Context, d time.Duration) error {
	start := time.Now()
	err := r.sleeper.Sleep(ctx, d)

	level := observability.LevelVerbose
	data := map[string]any{
		"requested": d.String(),
		"elapsed":   time.Since(start).String(),
	}
	if err != nil {
		level = observability.LevelWarning
		data["error"] = err.Error()
	}
	r.observer.OnEvent(ctx, observability.NewEvent(EventWait, level, "chatstore.Wait", data))

	return err
}
