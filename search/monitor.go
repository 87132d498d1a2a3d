package search

import "github.com/poiesic/searchidx/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterTokenize(terms []string)
	AfterIntersect(ids []string)
	TitleHit(item *core.IndexedItem, matchedTerms int)
	Finish(results []core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string) {}

func (n *noopMonitor) AfterTokenize(_ []string) {}

func (n *noopMonitor) AfterIntersect(_ []string) {}

func (n *noopMonitor) TitleHit(_ *core.IndexedItem, _ int) {}

func (n *noopMonitor) Finish(_ []core.SearchResult) {}
