package observability

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// NoOpObserver discards all events.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(context.Context, Event) {}

// SlogObserver writes events to a slog.Logger. Data keys become top-level
// attributes next to "source".
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver creates a SlogObserver. A nil logger means slog.Default(),
// resolved at emit time so later calls to slog.SetDefault take effect.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) OnEvent(ctx context.Context, event Event) {
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	attrs := make([]slog.Attr, 0, len(event.Data)+1)
	attrs = append(attrs, slog.String("source", event.Source))
	for k, v := range event.Data {
		attrs = append(attrs, slog.Any(k, v))
	}

	logger.LogAttrs(ctx, event.Level.SlogLevel(), string(event.Type), attrs...)
}

// MultiObserver fans out events to multiple observers.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver creates a MultiObserver over the non-nil observers.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	filtered := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		if obs != nil {
			filtered = append(filtered, obs)
		}
	}
	return &MultiObserver{observers: filtered}
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}

// Recorder keeps every event it receives. Safe for concurrent use.
type Recorder struct {
	events []Event
	mu     sync.Mutex
}

func (r *Recorder) OnEvent(_ context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events in arrival order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Types returns the recorded event types in arrival order.
func (r *Recorder) Types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()

	types := make([]EventType, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}
