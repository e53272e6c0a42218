package history

import "github.com/tailored-agentic-units/chatstore/observability"

// History event types.
const (
	EventSave         observability.EventType = "history.save"
	EventSaveRejected observability.EventType = "history.save.rejected"
	EventLoad         observability.EventType = "history.load"
	EventClear        observability.EventType = "history.clear"
	EventError        observability.EventType = "history.error"
)

const eventSource = "history"
