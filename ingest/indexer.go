package ingest

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/poiesic/searchidx/core"
)

// Mutator is the slice of the index the indexer writes to.
type Mutator interface {
	AddItem(item core.IndexedItem)
	UpdateItem(item core.IndexedItem)
	RemoveItem(id string)
}

// searchableFields lists, per source type, which event fields contribute to
// the searchable text and in what order. Types not listed here fall back to
// all fields in sorted key order.
var searchableFields = map[core.SourceType][]string{
	core.SourceNote:     {"body", "tags"},
	core.SourceTask:     {"description", "project", "tags"},
	core.SourceEvent:    {"location", "description", "attendees"},
	core.SourceContact:  {"email", "phone", "organization"},
	core.SourceDocument: {"body", "path", "tags"},
}

// Indexer subscribes to an event source and translates domain change
// events into index mutations. Events are applied synchronously on the
// delivery goroutine: an update followed by a delete of the same record
// can never be reordered into a resurrection.
type Indexer struct {
	source  EventSource
	mutator Mutator
	logger  *slog.Logger

	mu  sync.Mutex
	sub Subscription
}

// Option configures an Indexer.
type Option func(*Indexer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// NewIndexer creates an indexer that feeds events from source into mutator.
// Call Start to begin consuming.
func NewIndexer(source EventSource, mutator Mutator, opts ...Option) (*Indexer, error) {
	if source == nil {
		return nil, ErrEventSourceRequired
	}
	if mutator == nil {
		return nil, ErrMutatorRequired
	}

	ix := &Indexer{
		source:  source,
		mutator: mutator,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(ix); err != nil {
			return nil, err
		}
	}

	return ix, nil
}

// Start subscribes to the event source. Returns ErrAlreadyStarted if the
// indexer is already consuming.
func (ix *Indexer) Start() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.sub != nil {
		return ErrAlreadyStarted
	}

	sub, err := ix.source.Subscribe(ix.handle)
	if err != nil {
		return err
	}
	ix.sub = sub
	return nil
}

// Stop unsubscribes from the event source. Calling Stop on a stopped
// indexer is a no-op.
func (ix *Indexer) Stop() error {
	ix.mu.Lock()
	sub := ix.sub
	ix.sub = nil
	ix.mu.Unlock()

	if sub == nil {
		return nil
	}
	return sub.Unsubscribe()
}

func (ix *Indexer) handle(event Event) {
	switch event.Type {
	case EventCreated, EventUpdated:
		item, err := itemFromEvent(event)
		if err != nil {
			ix.logger.Warn("skipping unindexable event",
				"type", event.Type, "source", event.Source, "id", event.ID, "err", err)
			return
		}
		if event.Type == EventCreated {
			ix.mutator.AddItem(item)
		} else {
			ix.mutator.UpdateItem(item)
		}
	case EventDeleted:
		if event.ID == "" {
			ix.logger.Warn("skipping delete event without an id", "source", event.Source)
			return
		}
		ix.mutator.RemoveItem(event.ID)
	default:
		ix.logger.Warn("skipping event with unknown type", "type", event.Type, "id", event.ID)
	}
}

// itemFromEvent builds the indexable record for a create or update event.
// Records arriving without an ID get a stable content-derived one.
func itemFromEvent(event Event) (core.IndexedItem, error) {
	text := searchableText(event)

	id := event.ID
	if id == "" {
		id = core.IDFromContent(string(event.Source) + ":" + event.Title + ":" + text)
	}

	item := core.IndexedItem{
		ID:             id,
		Source:         event.Source,
		Title:          event.Title,
		SearchableText: text,
		TimestampMs:    event.TimestampMs,
	}

	if err := core.ValidateItem(&item); err != nil {
		return core.IndexedItem{}, err
	}
	return item, nil
}

// searchableText concatenates the title with the source-type-relevant
// fields in a fixed order, so retokenizing a stored item always recovers
// the same term set.
func searchableText(event Event) string {
	parts := make([]string, 0, len(event.Fields)+1)
	if event.Title != "" {
		parts = append(parts, event.Title)
	}

	if order, ok := searchableFields[event.Source]; ok {
		for _, field := range order {
			if value := event.Fields[field]; value != "" {
				parts = append(parts, value)
			}
		}
		return strings.Join(parts, " ")
	}

	keys := make([]string, 0, len(event.Fields))
	for key := range event.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if value := event.Fields[key]; value != "" {
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, " ")
}
