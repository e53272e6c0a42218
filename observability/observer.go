// Package observability carries structured events from chat history
// operations to logging sinks. Level values align with OpenTelemetry
// SeverityNumbers so events translate to OTel log records without mapping
// tables.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level represents event severity aligned with OTel SeverityNumber ranges.
type Level int

const (
	LevelVerbose Level = 5  // OTel DEBUG (5-8)
	LevelInfo    Level = 9  // OTel INFO (9-12)
	LevelWarning Level = 13 // OTel WARN (13-16)
	LevelError   Level = 17 // OTel ERROR (17-20)
)

// String returns the OTel severity text for the level.
func (l Level) String() string {
	switch {
	case l <= 4:
		return "TRACE"
	case l <= 8:
		return "DEBUG"
	case l <= 12:
		return "INFO"
	case l <= 16:
		return "WARN"
	case l <= 20:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// SlogLevel maps this level to the corresponding slog.Level.
func (l Level) SlogLevel() slog.Level {
	switch {
	case l <= 8:
		return slog.LevelDebug
	case l <= 12:
		return slog.LevelInfo
	case l <= 16:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// EventType names an event, e.g. "history.save".
type EventType string

// Event is emitted by an operation. Type becomes the log message, Source the
// emitting component, and Data the attributes.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// NewEvent stamps an event with the current time.
func NewEvent(typ EventType, level Level, source string, data map[string]any) Event {
	return Event{
		Type:      typ,
		Level:     level,
		Timestamp: time.Now(),
		Source:    source,
		Data:      data,
	}
}

// Observer receives events for logging, tracing, or metrics. Implementations
// must not block the caller for long; OnEvent runs inline.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}
