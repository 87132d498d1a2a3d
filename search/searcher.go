package search

import (
	"context"
	"log/slog"
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/poiesic/searchidx/core"
	"github.com/poiesic/searchidx/index"
)

// Scoring defaults. These are ranking heuristics, not contractual values:
// title matches dominate, broader queries score higher, and items touched
// within the last week get a small boost.
const (
	titleMatchWeight  = 30
	termCountWeight   = 20
	recencyBase       = 10
	recencyWindowDays = 7

	queryCacheSize = 512
)

// Index is the read-only surface the Searcher evaluates queries against.
// *index.Store satisfies it.
type Index interface {
	// QueryTerms normalizes text into distinct qualifying terms.
	QueryTerms(text string) []string
	// View runs fn against a consistent view of the index.
	View(fn func(v index.View))
}

// Options narrows and sizes a search.
type Options struct {
	// MaxResults caps the result list. Zero or less means the default of 100.
	MaxResults int
	// Sources, when non-empty, restricts results to the given source types.
	Sources []core.SourceType
}

// DefaultMaxResults is used when Options.MaxResults is not set.
const DefaultMaxResults = 100

// Searcher evaluates multi-term AND queries over the index and ranks the
// matches. It is stateless apart from a memo of tokenized queries and safe
// for concurrent use.
type Searcher struct {
	index  Index
	terms  *lru.Cache[string, []string]
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithClock overrides the evaluation-time source used for recency scoring.
// Default is time.Now. Tests use this to make ranking deterministic.
func WithClock(now func() time.Time) Option {
	return func(s *Searcher) error {
		if now != nil {
			s.now = now
		}
		return nil
	}
}

// NewSearcher creates a new searcher over the given index.
func NewSearcher(idx Index, opts ...Option) (*Searcher, error) {
	if idx == nil {
		return nil, ErrIndexRequired
	}

	// Tokenization is pure, so the memo never needs invalidation.
	terms, err := lru.New[string, []string](queryCacheSize)
	if err != nil {
		return nil, err
	}

	s := &Searcher{
		index:  idx,
		terms:  terms,
		now:    time.Now,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search tokenizes the query, intersects the per-term postings, and returns
// the matches ranked by score. A query with no qualifying terms yields an
// empty result, not an error; so does a query containing any term absent
// from the corpus (AND semantics, precision over recall).
func (s *Searcher) Search(ctx context.Context, query string, opts *Options) ([]core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, query, opts, nil)
}

// SearchWithMonitor is Search with observation hooks; the monitor receives
// callbacks at each stage of query evaluation.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, opts *Options, monitor SearchMonitor) ([]core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if opts == nil {
		opts = &Options{}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	monitor.Start(query)

	terms := s.queryTerms(query)
	monitor.AfterTokenize(terms)
	if len(terms) == 0 {
		results := []core.SearchResult{}
		monitor.Finish(results)
		return results, nil
	}

	var sourceSet map[core.SourceType]bool
	if len(opts.Sources) > 0 {
		sourceSet = make(map[core.SourceType]bool, len(opts.Sources))
		for _, source := range opts.Sources {
			sourceSet[source] = true
		}
	}

	now := s.now()
	results := []core.SearchResult{}

	s.index.View(func(v index.View) {
		ids := intersect(v, terms)
		monitor.AfterIntersect(ids)

		for _, id := range ids {
			item, ok := v.Item(id)
			if !ok {
				// Postings always reference stored items; a miss here means
				// the index invariant is broken.
				s.logger.Error("posting references unknown item", "itemID", id)
				continue
			}
			if sourceSet != nil && !sourceSet[item.Source] {
				continue
			}
			results = append(results, core.SearchResult{
				Item:  item,
				Score: s.scoreItem(&item, terms, now, monitor),
			})
		}
	})

	rank(results)

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	monitor.Finish(results)
	return results, nil
}

// queryTerms returns the normalized distinct terms for a query, memoized.
func (s *Searcher) queryTerms(query string) []string {
	if terms, ok := s.terms.Get(query); ok {
		return terms
	}
	terms := s.index.QueryTerms(query)
	s.terms.Add(query, terms)
	return terms
}

// intersect computes the AND-intersection of the posting sets for all
// terms, iterating the smallest set and probing the rest.
func intersect(v index.View, terms []string) []string {
	postings := make([]*core.Posting, len(terms))
	smallest := 0
	for i, term := range terms {
		posting, ok := v.PostingFor(term)
		if !ok {
			return nil
		}
		postings[i] = posting
		if posting.Frequency < postings[smallest].Frequency {
			smallest = i
		}
	}

	ids := make([]string, 0, postings[smallest].Frequency)
	for id := range postings[smallest].ItemIDs {
		match := true
		for i, posting := range postings {
			if i == smallest {
				continue
			}
			if !posting.Contains(id) {
				match = false
				break
			}
		}
		if match {
			ids = append(ids, id)
		}
	}
	return ids
}

// scoreItem computes the ranking score for one matched item.
func (s *Searcher) scoreItem(item *core.IndexedItem, terms []string, now time.Time, monitor SearchMonitor) float64 {
	titleTerms := s.queryTerms(item.Title)
	titleSet := make(map[string]bool, len(titleTerms))
	for _, term := range titleTerms {
		titleSet[term] = true
	}

	titleHits := 0
	for _, term := range terms {
		if titleSet[term] {
			titleHits++
		}
	}
	if titleHits > 0 {
		monitor.TitleHit(item, titleHits)
	}

	return float64(titleMatchWeight*titleHits+termCountWeight*len(terms)) + recencyBonus(item, now)
}

// recencyBonus rewards items touched within the last week: 10 points fresh,
// fading by one per day, nothing past the window.
func recencyBonus(item *core.IndexedItem, now time.Time) float64 {
	daysOld := int(now.Sub(item.Time()).Hours() / 24)
	if daysOld < 0 {
		daysOld = 0
	}
	if daysOld >= recencyWindowDays {
		return 0
	}
	bonus := recencyBase - daysOld
	if bonus < 0 {
		return 0
	}
	return float64(bonus)
}

// rank orders results by score descending, breaking ties by timestamp
// descending and then ID ascending so equal scores order reproducibly.
func rank(results []core.SearchResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Item.TimestampMs != results[j].Item.TimestampMs {
			return results[i].Item.TimestampMs > results[j].Item.TimestampMs
		}
		return results[i].Item.ID < results[j].Item.ID
	})
}
