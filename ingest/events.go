package ingest

import "github.com/poiesic/searchidx/core"

// EventType identifies what happened to a domain record.
type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// Event describes a single change to a domain record. Fields carries the
// type-specific attributes (a note's body and tags, a task's description
// and project, an event's location and attendees) as flat string pairs;
// the indexer decides which of them become searchable.
type Event struct {
	Type        EventType
	Source      core.SourceType
	ID          string
	Title       string
	Fields      map[string]string
	TimestampMs int64
}

// Handler consumes events. Handlers are invoked sequentially on the
// source's delivery goroutine, so events for the same record are applied
// in publication order.
type Handler func(Event)

// EventSource delivers domain change events to a subscriber.
type EventSource interface {
	// Subscribe registers the handler and starts delivery. The returned
	// subscription detaches the handler when no longer needed.
	Subscribe(handler Handler) (Subscription, error)
}

// Subscription is a handle on an active event subscription.
type Subscription interface {
	// Unsubscribe detaches the handler. Safe to call more than once.
	Unsubscribe() error
}
