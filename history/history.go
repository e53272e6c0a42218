// Package history persists a conversation as a single JSON slot in a
// memory.Store.
//
// Save rejects histories whose encoded form is longer than the limit,
// measured in UTF-16 code units rather than bytes, and leaves the slot as it
// was. Load fails with ErrDecode when the slot has never been written; the
// error also matches memory.ErrKeyNotFound for callers that want to treat
// that case as an empty history.
//
//	h := history.New(memory.NewMapStore())
//	err := h.Save(ctx, []chat.Message{chat.NewMessage(chat.RoleUser, "hi")})
//	msgs, err := h.Load(ctx)
package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/tailored-agentic-units/chatstore/chat"
	"github.com/tailored-agentic-units/chatstore/memory"
	"github.com/tailored-agentic-units/chatstore/observability"
)

// History reads and writes one slot. It holds no mutable state; concurrent
// Saves race and the last write wins.
type History struct {
	store    memory.Store
	key      string
	limit    int
	observer observability.Observer
}

// Option configures a History.
type Option func(*History)

// WithKey stores the history under key instead of DefaultKey.
func WithKey(key string) Option {
	return func(h *History) { h.key = key }
}

// WithLimit sets the largest accepted encoded length in UTF-16 code units.
func WithLimit(units int) Option {
	return func(h *History) { h.limit = units }
}

// WithObserver routes operation events to obs.
func WithObserver(obs observability.Observer) Option {
	return func(h *History) { h.observer = obs }
}

// New creates a History over store.
func New(store memory.Store, opts ...Option) *History {
	h := &History{
		store:    store,
		key:      DefaultKey,
		limit:    DefaultLimit,
		observer: observability.NoOpObserver{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Key returns the slot name.
func (h *History) Key() string { return h.key }

// Limit returns the size limit in UTF-16 code units.
func (h *History) Limit() int { return h.limit }

// Save validates and encodes msgs and overwrites the slot. An invalid
// history returns ErrInvalid and an oversized one a *SizeError; in both cases
// the slot keeps its previous value.
func (h *History) Save(ctx context.Context, msgs []chat.Message) error {
	if err := chat.Validate(msgs); err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrInvalid, h.key, err)
		h.fail(ctx, "save", err)
		return err
	}

	data, err := Encode(msgs)
	if err != nil {
		err = fmt.Errorf("%w: encode: %w", ErrStorage, err)
		h.fail(ctx, "save", err)
		return err
	}

	units := Units(string(data))
	if units > h.limit {
		err := &SizeError{Units: units, Limit: h.limit}
		h.emit(ctx, EventSaveRejected, observability.LevelWarning, map[string]any{
			"key":   h.key,
			"units": units,
			"limit": h.limit,
		})
		return err
	}

	if err := h.store.Save(ctx, memory.Entry{Key: h.key, Value: data}); err != nil {
		err = fmt.Errorf("%w: %w", ErrStorage, err)
		h.fail(ctx, "save", err)
		return err
	}

	h.emit(ctx, EventSave, observability.LevelInfo, map[string]any{
		"key":      h.key,
		"messages": len(msgs),
		"units":    units,
	})
	return nil
}

// Load reads and decodes the slot.
func (h *History) Load(ctx context.Context) ([]chat.Message, error) {
	data, err := h.read(ctx)
	if err != nil {
		h.fail(ctx, "load", err)
		return nil, err
	}

	msgs, err := Decode(data)
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrDecode, h.key, err)
		h.fail(ctx, "load", err)
		return nil, err
	}

	if err := chat.Validate(msgs); err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrInvalid, h.key, err)
		h.fail(ctx, "load", err)
		return nil, err
	}

	h.emit(ctx, EventLoad, observability.LevelVerbose, map[string]any{
		"key":      h.key,
		"messages": len(msgs),
	})
	return msgs, nil
}

// Append loads the slot, adds msgs, and saves the result. An absent slot is
// treated as an empty history here.
func (h *History) Append(ctx context.Context, msgs ...chat.Message) error {
	existing, err := h.Load(ctx)
	if err != nil && !errors.Is(err, memory.ErrKeyNotFound) {
		return err
	}
	return h.Save(ctx, append(existing, msgs...))
}

// Clear deletes the slot. Clearing an absent slot is not an error.
func (h *History) Clear(ctx context.Context) error {
	if err := h.store.Delete(ctx, h.key); err != nil {
		err = fmt.Errorf("%w: %w", ErrStorage, err)
		h.fail(ctx, "clear", err)
		return err
	}
	h.emit(ctx, EventClear, observability.LevelInfo, map[string]any{"key": h.key})
	return nil
}

// read returns the raw slot text. A missing slot is a decode failure: there
// is no text to decode.
func (h *History) read(ctx context.Context) ([]byte, error) {
	entries, err := h.store.Load(ctx, h.key)
	if err != nil {
		if errors.Is(err, memory.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %w: %s", ErrDecode, memory.ErrKeyNotFound, h.key)
	}
	return entries[0].Value, nil
}

func (h *History) emit(ctx context.Context, typ observability.EventType, level observability.Level, data map[string]any) {
	h.observer.OnEvent(ctx, observability.NewEvent(typ, level, eventSource, data))
}

func (h *History) fail(ctx context.Context, op string, err error) {
	h.emit(ctx, EventError, observability.LevelError, map[string]any{
		"key":   h.key,
		"op":    op,
		"error": err.Error(),
	})
}
