// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package searchidx

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/poiesic/searchidx/core"
	"github.com/poiesic/searchidx/index"
	"github.com/poiesic/searchidx/ingest"
	"github.com/poiesic/searchidx/persist"
	"github.com/poiesic/searchidx/search"
	"github.com/poiesic/searchidx/storage"
	"github.com/poiesic/searchidx/storage/badger"
)

// ItemLoader supplies a batch of items for a bulk rebuild. Each domain
// repository (notes, tasks, events) implements one.
type ItemLoader interface {
	Load(ctx context.Context) ([]core.IndexedItem, error)
}

// Engine is the embedding application's entry point: an in-memory inverted
// index with ranked AND-query search, kept durable through a debounced
// snapshot writer and kept current through an optional event subscription.
type Engine struct {
	store    storage.SnapshotStore
	ownStore bool
	index    *index.Store
	searcher *search.Searcher
	manager  *persist.Manager
	indexer  *ingest.Indexer
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	cfg     *index.Config
	logger  *slog.Logger
	stemmer index.Stemmer
	source  ingest.EventSource
}

// WithConfig sets the index configuration.
// Default is index.DefaultConfig().
func WithConfig(cfg *index.Config) Option {
	return func(o *engineOptions) {
		if cfg != nil {
			o.cfg = cfg
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStemmer supplies the tokenizer's stemming hook. It only takes effect
// when the configuration enables stemming.
func WithStemmer(stemmer index.Stemmer) Option {
	return func(o *engineOptions) {
		o.stemmer = stemmer
	}
}

// WithEventSource attaches a domain change feed. The engine starts an
// incremental indexer consuming it and stops the indexer on Close.
func WithEventSource(source ingest.EventSource) Option {
	return func(o *engineOptions) {
		o.source = source
	}
}

// Open creates an engine backed by a badger store at filePath. The engine
// owns the store and closes it on Close.
func Open(filePath string, opts ...Option) (*Engine, error) {
	store, err := badger.OpenStore(filePath, false)
	if err != nil {
		return nil, err
	}

	engine, err := New(store, opts...)
	if err != nil {
		store.Close()
		return nil, err
	}
	engine.ownStore = true
	return engine, nil
}

// New creates an engine on an existing snapshot store. The caller retains
// ownership of the store and closes it after the engine.
//
// Construction restores the persisted snapshot when one exists. A missing
// or unreadable snapshot is not fatal: the engine starts empty and logs,
// and the next flush overwrites whatever was there.
func New(store storage.SnapshotStore, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, persist.ErrStoreRequired
	}

	options := &engineOptions{
		cfg:    index.DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	if err := options.cfg.Validate(); err != nil {
		return nil, err
	}

	indexOpts := []index.Option{index.WithLogger(options.logger)}
	if options.stemmer != nil {
		indexOpts = append(indexOpts, index.WithStemmer(options.stemmer))
	}
	idx, err := index.NewStore(options.cfg, indexOpts...)
	if err != nil {
		return nil, err
	}

	searcher, err := search.NewSearcher(idx, search.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}

	manager, err := persist.NewManager(store, idx,
		persist.WithLogger(options.logger),
		persist.WithDebounce(options.cfg.DebounceDelay))
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		store:    store,
		index:    idx,
		searcher: searcher,
		manager:  manager,
		logger:   options.logger,
	}

	snapshot, err := manager.Restore(context.Background())
	switch {
	case err == nil:
		idx.Load(*snapshot)
		options.logger.Info("restored index snapshot",
			"items", len(snapshot.Items), "terms", len(snapshot.Postings))
	case errors.Is(err, storage.ErrNotFound):
		options.logger.Info("no index snapshot found, starting empty")
	default:
		options.logger.Warn("unreadable index snapshot, starting empty", "err", err)
	}

	// Every index mutation arms the debounced flush.
	idx.OnMutate(manager.Schedule)

	if options.source != nil {
		indexer, ixErr := ingest.NewIndexer(options.source, idx, ingest.WithLogger(options.logger))
		if ixErr != nil {
			manager.Close()
			return nil, ixErr
		}
		if ixErr := indexer.Start(); ixErr != nil {
			manager.Close()
			return nil, ixErr
		}
		engine.indexer = indexer
	}

	return engine, nil
}

// Search runs a ranked AND query. opts may be nil for defaults.
func (e *Engine) Search(ctx context.Context, query string, opts *search.Options) ([]core.SearchResult, error) {
	return e.searcher.Search(ctx, query, opts)
}

// GetItem returns the indexed item by ID.
func (e *Engine) GetItem(id string) (core.IndexedItem, bool) {
	return e.index.GetItem(id)
}

// Statistics reports current index counters plus persistence timing.
func (e *Engine) Statistics() core.Statistics {
	stats := e.index.Stats()
	stats.LastBuiltAt = e.manager.LastFlushedAt()
	return stats
}

// AddItem validates and indexes a new item, overwriting any existing record
// with the same ID.
func (e *Engine) AddItem(item core.IndexedItem) error {
	if err := core.ValidateItem(&item); err != nil {
		return err
	}
	e.index.AddItem(item)
	return nil
}

// UpdateItem validates and reindexes an item, removing the previous
// version's terms first.
func (e *Engine) UpdateItem(item core.IndexedItem) error {
	if err := core.ValidateItem(&item); err != nil {
		return err
	}
	e.index.UpdateItem(item)
	return nil
}

// RemoveItem unindexes the item. An unknown ID is a no-op.
func (e *Engine) RemoveItem(id string) {
	e.index.RemoveItem(id)
}

// Rebuild loads items from every loader concurrently, then atomically
// replaces the index contents and schedules a flush. A failing loader
// aborts the rebuild and leaves the current index untouched.
func (e *Engine) Rebuild(ctx context.Context, loaders ...ItemLoader) error {
	group, ctx := errgroup.WithContext(ctx)
	batches := make([][]core.IndexedItem, len(loaders))

	for i, loader := range loaders {
		group.Go(func() error {
			items, err := loader.Load(ctx)
			if err != nil {
				return err
			}
			for idx := range items {
				if vErr := core.ValidateItem(&items[idx]); vErr != nil {
					return vErr
				}
			}
			batches[i] = items
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	var items []core.IndexedItem
	for _, batch := range batches {
		items = append(items, batch...)
	}

	e.index.Rebuild(items)
	e.manager.Schedule()
	e.logger.Info("index rebuilt", "items", len(items), "loaders", len(loaders))
	return nil
}

// Reset empties the index and deletes the durable snapshot.
func (e *Engine) Reset(ctx context.Context) error {
	e.index.Clear()
	return e.manager.DeleteSnapshot(ctx)
}

// Flush forces a synchronous write of any pending index changes, bypassing
// the debounce window.
func (e *Engine) Flush(ctx context.Context) error {
	return e.manager.Flush(ctx)
}

// Close stops the indexer and flushes pending changes. The backing store is
// closed only when the engine opened it itself (via Open).
func (e *Engine) Close() error {
	if e.indexer != nil {
		if err := e.indexer.Stop(); err != nil {
			e.logger.Error("error stopping indexer", "err", err)
		}
	}

	if err := e.manager.Close(); err != nil {
		e.logger.Error("error closing persistence manager", "err", err)
		return err
	}

	if e.ownStore {
		if err := e.store.Close(); err != nil {
			e.logger.Error("error closing snapshot store", "err", err)
			return err
		}
	}
	return nil
}
