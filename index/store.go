package index

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/poiesic/searchidx/core"
)

// Store owns the two maps that make up the index: the item table and the
// inverted term structure. All mutations are serialized through its write
// lock; reads run concurrently against a consistent view.
type Store struct {
	mu       sync.RWMutex
	items    map[string]core.IndexedItem
	postings map[string]*core.Posting

	cfg       *Config
	tokenizer *Tokenizer
	logger    *slog.Logger

	budgetBytes   int64 // 0 means no size guard
	approxBytes   int64
	rejectedTerms int64

	onMutate func()
}

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithStemmer supplies the stemming hook. It only takes effect when
// cfg.EnableStemming is set.
func WithStemmer(stemmer Stemmer) Option {
	return func(s *Store) error {
		s.tokenizer = NewTokenizer(s.cfg, stemmer)
		return nil
	}
}

// NewStore creates an empty Store for the given config.
func NewStore(cfg *Config, opts ...Option) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Store{
		items:       make(map[string]core.IndexedItem),
		postings:    make(map[string]*core.Posting),
		cfg:         cfg,
		tokenizer:   NewTokenizer(cfg, nil),
		logger:      slog.Default(),
		budgetBytes: int64(cfg.MaxIndexSizeMB) * 1024 * 1024,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// OnMutate registers a hook invoked after every successful mutation, outside
// the store lock. The engine wires this to the persistence debounce. It must
// be set before the store is shared between goroutines.
func (s *Store) OnMutate(fn func()) {
	s.onMutate = fn
}

func (s *Store) notify() {
	if s.onMutate != nil {
		s.onMutate()
	}
}

// QueryTerms returns the distinct qualifying terms of the text, in scan
// order, with no truncation. The query engine uses it so queries and items
// are normalized identically.
func (s *Store) QueryTerms(text string) []string {
	return s.tokenizer.TermSet(text, 0)
}

// AddItem stores the item and indexes its searchable text, overwriting any
// prior record with the same ID. It does NOT unindex a previous version's
// terms; callers that replace an item's text must use UpdateItem.
func (s *Store) AddItem(item core.IndexedItem) {
	s.mu.Lock()
	s.addLocked(item)
	s.mu.Unlock()
	s.notify()
}

// UpdateItem replaces an item: the old version's terms are removed first,
// so no stale postings survive, then the new version is indexed.
func (s *Store) UpdateItem(item core.IndexedItem) {
	s.mu.Lock()
	s.removeLocked(item.ID)
	s.addLocked(item)
	s.mu.Unlock()
	s.notify()
}

// RemoveItem unindexes and deletes the item. An unknown ID is a no-op,
// not an error.
func (s *Store) RemoveItem(id string) {
	s.mu.Lock()
	removed := s.removeLocked(id)
	s.mu.Unlock()
	if removed {
		s.notify()
	}
}

func (s *Store) addLocked(item core.IndexedItem) {
	// Overwrites swap the record, so the accounted size swaps too.
	if prev, ok := s.items[item.ID]; ok {
		s.approxBytes -= int64(core.ItemMUS.Size(prev))
	}
	s.items[item.ID] = item
	s.approxBytes += int64(core.ItemMUS.Size(item))

	terms := s.tokenizer.TermSet(item.SearchableText, s.cfg.MaxWordsPerItem)
	rejected := 0
	for _, term := range terms {
		posting, ok := s.postings[term]
		if !ok {
			// The size guard only rejects brand-new terms; growing an
			// existing posting is cheap and keeps AND queries coherent.
			if s.budgetBytes > 0 && s.approxBytes+termCost(term)+idCost(item.ID) > s.budgetBytes {
				rejected++
				continue
			}
			posting = core.NewPosting(term)
			s.postings[term] = posting
			s.approxBytes += termCost(term)
		}
		if posting.Add(item.ID) {
			s.approxBytes += idCost(item.ID)
		}
	}

	if rejected > 0 {
		s.rejectedTerms += int64(rejected)
		s.logger.Warn("index size budget exceeded, skipping new terms",
			"itemID", item.ID, "skippedTerms", rejected, "approxBytes", s.approxBytes)
	}
}

func (s *Store) removeLocked(id string) bool {
	item, ok := s.items[id]
	if !ok {
		return false
	}

	// Retokenizing the stored text recovers exactly the term set that was
	// indexed, truncation included.
	terms := s.tokenizer.TermSet(item.SearchableText, s.cfg.MaxWordsPerItem)
	for _, term := range terms {
		posting, ok := s.postings[term]
		if !ok {
			continue
		}
		if posting.Remove(id) {
			s.approxBytes -= idCost(id)
		}
		if posting.Frequency == 0 {
			delete(s.postings, term)
			s.approxBytes -= termCost(term)
		}
	}

	delete(s.items, id)
	s.approxBytes -= int64(core.ItemMUS.Size(item))
	return true
}

// Rebuild discards the current index and constructs a new one from the
// given items. The swap is atomic: concurrent readers see either the old
// index or the finished new one, never a partial build.
func (s *Store) Rebuild(items []core.IndexedItem) {
	fresh := &Store{
		items:       make(map[string]core.IndexedItem, len(items)),
		postings:    make(map[string]*core.Posting),
		cfg:         s.cfg,
		tokenizer:   s.tokenizer,
		logger:      s.logger,
		budgetBytes: s.budgetBytes,
	}
	for _, item := range items {
		fresh.addLocked(item)
	}

	s.mu.Lock()
	s.items = fresh.items
	s.postings = fresh.postings
	s.approxBytes = fresh.approxBytes
	s.rejectedTerms = fresh.rejectedTerms
	s.mu.Unlock()
	s.notify()
}

// Clear empties the index. Deleting the durable snapshot is the engine's
// responsibility; the store only owns the in-memory maps.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = make(map[string]core.IndexedItem)
	s.postings = make(map[string]*core.Posting)
	s.approxBytes = 0
	s.rejectedTerms = 0
	s.mu.Unlock()
}

// GetItem returns the stored item for the given ID.
func (s *Store) GetItem(id string) (core.IndexedItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok
}

// View runs fn against a consistent read-only view of the index. The view
// is only valid inside the callback; postings handed out must not be
// mutated or retained.
func (s *Store) View(fn func(v View)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(storeView{s})
}

// View is the read-only window a query evaluates against.
type View interface {
	// PostingFor returns the posting for a term, or false if the term is
	// not indexed.
	PostingFor(term string) (*core.Posting, bool)
	// Item returns the stored item for an ID.
	Item(id string) (core.IndexedItem, bool)
}

type storeView struct {
	s *Store
}

func (v storeView) PostingFor(term string) (*core.Posting, bool) {
	posting, ok := v.s.postings[term]
	return posting, ok
}

func (v storeView) Item(id string) (core.IndexedItem, bool) {
	item, ok := v.s.items[id]
	return item, ok
}

// Snapshot captures a deep copy of the index for serialization. Items are
// sorted by ID and postings by term so the persisted bytes are stable for
// a given index state.
func (s *Store) Snapshot() core.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := core.Snapshot{
		Items:     make([]core.IndexedItem, 0, len(s.items)),
		Postings:  make([]core.Posting, 0, len(s.postings)),
		BuiltAtMs: time.Now().UTC().UnixMilli(),
	}
	for _, item := range s.items {
		snap.Items = append(snap.Items, item)
	}
	sort.Slice(snap.Items, func(i, j int) bool {
		return snap.Items[i].ID < snap.Items[j].ID
	})

	for _, posting := range s.postings {
		ids := make(map[string]struct{}, len(posting.ItemIDs))
		for id := range posting.ItemIDs {
			ids[id] = struct{}{}
		}
		snap.Postings = append(snap.Postings, core.Posting{
			Term:      posting.Term,
			ItemIDs:   ids,
			Frequency: posting.Frequency,
		})
	}
	sort.Slice(snap.Postings, func(i, j int) bool {
		return snap.Postings[i].Term < snap.Postings[j].Term
	})

	return snap
}

// Load replaces the in-memory index with a restored snapshot. Postings that
// violate the index invariants (empty sets, IDs without an item record) are
// dropped rather than trusted.
func (s *Store) Load(snap core.Snapshot) {
	items := make(map[string]core.IndexedItem, len(snap.Items))
	var approx int64
	for _, item := range snap.Items {
		items[item.ID] = item
		approx += int64(core.ItemMUS.Size(item))
	}

	postings := make(map[string]*core.Posting, len(snap.Postings))
	for _, p := range snap.Postings {
		posting := core.NewPosting(p.Term)
		for id := range p.ItemIDs {
			if _, ok := items[id]; !ok {
				continue
			}
			posting.Add(id)
			approx += idCost(id)
		}
		if posting.Frequency == 0 {
			continue
		}
		postings[p.Term] = posting
		approx += termCost(p.Term)
	}

	s.mu.Lock()
	s.items = items
	s.postings = postings
	s.approxBytes = approx
	s.rejectedTerms = 0
	s.mu.Unlock()
}

// Stats reports the current index counters. LastBuiltAt is owned by the
// engine, which folds in persistence timing.
func (s *Store) Stats() core.Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	perSource := make(map[core.SourceType]int)
	for _, item := range s.items {
		perSource[item.Source]++
	}

	return core.Statistics{
		TotalItems:    len(s.items),
		TotalTerms:    len(s.postings),
		ApproxSizeKB:  s.approxBytes / 1024,
		RejectedTerms: s.rejectedTerms,
		PerSourceType: perSource,
	}
}

// Serialized cost approximations used by the size guard. They track the MUS
// encoding closely enough for budget decisions without re-serializing
// postings on every mutation.
func termCost(term string) int64 {
	return int64(len(term)) + 8
}

func idCost(id string) int64 {
	return int64(len(id)) + 4
}
