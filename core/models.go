package core

import (
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// IDFromContent generates a deterministic item ID from text content using
// BLAKE2b hashing. It is used for items that arrive from event payloads
// without an ID of their own; identical content produces identical IDs.
func IDFromContent(text string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// SourceType identifies the kind of domain record an indexed item came from.
// The engine treats it as an opaque label; the values below are the kinds
// the stock event mapping knows how to flatten into searchable text.
type SourceType string

const (
	// SourceNote is a free-form note.
	SourceNote SourceType = "note"
	// SourceTask is a task or todo entry.
	SourceTask SourceType = "task"
	// SourceEvent is a calendar entry.
	SourceEvent SourceType = "event"
	// SourceContact is an address-book entry.
	SourceContact SourceType = "contact"
	// SourceDocument is an attached or imported document.
	SourceDocument SourceType = "document"
)

// IndexedItem is the engine's view of a searchable domain record.
// SearchableText is the concatenation of every field that should be
// findable for this item; the canonical record stays with its own
// repository.
type IndexedItem struct {
	ID             string
	Source         SourceType
	Title          string
	SearchableText string
	TimestampMs    int64             // creation/update time, used for recency ranking
	Metadata       map[string]string // auxiliary fields, opaque to the engine
}

// Time returns the item timestamp as a time.Time in UTC.
func (it *IndexedItem) Time() time.Time {
	return time.UnixMilli(it.TimestampMs).UTC()
}

// Posting is the inverted-index entry for a single term: the set of item
// IDs whose searchable text contains the term. Frequency is maintained
// incrementally and always equals the size of the set.
type Posting struct {
	Term      string
	ItemIDs   map[string]struct{}
	Frequency int
}

// NewPosting creates an empty posting for a term.
func NewPosting(term string) *Posting {
	return &Posting{
		Term:    term,
		ItemIDs: make(map[string]struct{}),
	}
}

// Add inserts an item ID into the posting set.
// Returns true if the ID was not already present.
func (p *Posting) Add(id string) bool {
	if _, ok := p.ItemIDs[id]; ok {
		return false
	}
	p.ItemIDs[id] = struct{}{}
	p.Frequency = len(p.ItemIDs)
	return true
}

// Remove deletes an item ID from the posting set.
// Returns true if the ID was present.
func (p *Posting) Remove(id string) bool {
	if _, ok := p.ItemIDs[id]; !ok {
		return false
	}
	delete(p.ItemIDs, id)
	p.Frequency = len(p.ItemIDs)
	return true
}

// Contains reports whether the posting set holds the given item ID.
func (p *Posting) Contains(id string) bool {
	_, ok := p.ItemIDs[id]
	return ok
}

// SearchResult pairs an item with its relevance score for one query.
type SearchResult struct {
	Item  IndexedItem
	Score float64
}

// Snapshot is the serializable form of the whole index: the item table and
// the inverted structure, plus the time the snapshot was taken.
type Snapshot struct {
	Items     []IndexedItem
	Postings  []Posting
	BuiltAtMs int64
}

// Statistics summarizes the current index state for callers and logs.
type Statistics struct {
	TotalItems    int
	TotalTerms    int
	ApproxSizeKB  int64
	LastBuiltAt   time.Time // last successful restore, rebuild, or flush
	RejectedTerms int64     // term insertions refused by the size guard
	PerSourceType map[SourceType]int
}
