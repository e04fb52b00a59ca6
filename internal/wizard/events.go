package wizard

import "regdraft/internal/pubsub"

// Event types published on the manager's broker.
const (
	EventSaveScheduled  pubsub.EventType = "save-scheduled"
	EventSaveStarted    pubsub.EventType = "save-started"
	EventSaveCompleted  pubsub.EventType = "save-completed"
	EventSaveFailed     pubsub.EventType = "save-failed"
	EventValidityChange pubsub.EventType = "validity-changed"
	EventSubmitted      pubsub.EventType = "submitted"
	EventSubmitFailed   pubsub.EventType = "submit-failed"
)

// Event is the payload carried on the manager's broker.
type Event struct {
	// Page is the 1-indexed page the event concerns, 0 when global.
	Page int
	// Valid carries the aggregate validity for validity-changed events.
	Valid bool
	// Err carries the failure text for save-failed/submit-failed events.
	Err string
}
