package persist

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/searchidx/core"
	"github.com/poiesic/searchidx/storage"
)

// snapshotKey is where the index snapshot lives inside the KV store.
const snapshotKey = "searchidx:snapshot"

const (
	defaultDebounce     = time.Second
	defaultMaxAttempts  = 3
	defaultRetryBackoff = 250 * time.Millisecond
)

// SnapshotSource produces a consistent copy of the index for flushing.
// *index.Store satisfies it.
type SnapshotSource interface {
	Snapshot() core.Snapshot
}

// Manager bridges the in-memory index to the durable KV store. Flushes are
// debounced: every mutation reschedules a write after a quiet period, so
// bursts coalesce into one. Write failures never reach the mutating caller;
// the state stays dirty and the next schedule retries.
type Manager struct {
	store   storage.SnapshotStore
	source  SnapshotSource
	key     []byte
	logger  *slog.Logger
	pool    *ants.Pool
	encoder *zstd.Encoder
	decoder *zstd.Decoder

	debounce    time.Duration
	maxAttempts int
	baseDelay   time.Duration

	mu            sync.Mutex
	timer         *time.Timer
	dirty         bool
	closed        bool
	lastFlushedAt time.Time

	flushMu sync.Mutex // serializes flush bodies (pool task vs Close)
}

// Option configures a Manager.
type Option func(*Manager) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// WithDebounce sets the flush coalescing window.
// Default is 1s.
func WithDebounce(d time.Duration) Option {
	return func(m *Manager) error {
		if d > 0 {
			m.debounce = d
		}
		return nil
	}
}

// WithRetry sets the bounded retry policy applied to store writes.
// Defaults are 3 attempts with a 250ms base delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(m *Manager) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		m.maxAttempts = maxAttempts
		m.baseDelay = baseDelay
		return nil
	}
}

// WithKey overrides the KV key the snapshot is stored under.
func WithKey(key []byte) Option {
	return func(m *Manager) error {
		if len(key) > 0 {
			m.key = key
		}
		return nil
	}
}

// NewManager creates a persistence manager flushing source snapshots into
// the given store.
func NewManager(store storage.SnapshotStore, source SnapshotSource, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if source == nil {
		return nil, ErrSourceRequired
	}

	// Single worker: flushes are strictly sequential.
	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, err
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		pool.Release()
		return nil, err
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		pool.Release()
		return nil, err
	}

	m := &Manager{
		store:       store,
		source:      source,
		key:         []byte(snapshotKey),
		logger:      slog.Default(),
		pool:        pool,
		encoder:     encoder,
		decoder:     decoder,
		debounce:    defaultDebounce,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultRetryBackoff,
	}

	for _, opt := range opts {
		if optErr := opt(m); optErr != nil {
			m.decoder.Close()
			m.encoder.Close()
			m.pool.Release()
			return nil, optErr
		}
	}

	return m, nil
}

// Schedule marks the index dirty and (re)starts the debounce timer. Each
// call cancels the pending flush and arms a new one, so a burst of
// mutations produces a single write after the quiet period.
func (m *Manager) Schedule() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dirty = true
	if m.closed {
		return
	}

	if m.timer == nil {
		m.timer = time.AfterFunc(m.debounce, m.fire)
		return
	}
	m.timer.Stop()
	m.timer.Reset(m.debounce)
}

func (m *Manager) fire() {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return
	}

	if err := m.pool.Submit(func() {
		// Errors are already logged inside Flush; the dirty flag stays set
		// so the write is retried on the next schedule.
		_ = m.Flush(context.Background())
	}); err != nil {
		m.logger.Error("error submitting flush task", "err", err)
	}
}

// Flush serializes the current index snapshot and writes it to the store,
// retrying with backoff. A no-op when the index is clean. On failure the
// dirty flag is restored and the error is logged as well as returned.
func (m *Manager) Flush(ctx context.Context) error {
	m.flushMu.Lock()
	defer m.flushMu.Unlock()

	m.mu.Lock()
	if !m.dirty {
		m.mu.Unlock()
		return nil
	}
	m.dirty = false
	m.mu.Unlock()

	snapshot := m.source.Snapshot()
	frame, err := encodeFrame(&snapshot, m.encoder)
	if err != nil {
		m.mu.Lock()
		m.dirty = true
		m.mu.Unlock()
		m.logger.Error("error encoding index snapshot", "err", err)
		return err
	}

	err = RetryWithBackoff(ctx, func() error {
		return m.store.Set(ctx, m.key, frame)
	}, m.maxAttempts, m.baseDelay)
	if err != nil {
		m.mu.Lock()
		m.dirty = true
		m.mu.Unlock()
		m.logger.Error("error flushing index snapshot, will retry on next change",
			"err", err, "frameBytes", len(frame))
		return err
	}

	m.mu.Lock()
	m.lastFlushedAt = time.Now().UTC()
	m.mu.Unlock()

	m.logger.Debug("index snapshot flushed",
		"frameBytes", len(frame), "items", len(snapshot.Items), "terms", len(snapshot.Postings))
	return nil
}

// Restore reads the persisted snapshot. A missing snapshot returns
// storage.ErrNotFound; corrupt bytes return a wrapped ErrCorruptSnapshot.
// Callers degrade to an empty index in both cases rather than failing
// initialization.
func (m *Manager) Restore(ctx context.Context) (*core.Snapshot, error) {
	data, err := m.store.Get(ctx, m.key)
	if err != nil {
		return nil, err
	}

	snapshot, err := decodeFrame(data, m.decoder)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.lastFlushedAt = time.UnixMilli(snapshot.BuiltAtMs).UTC()
	m.mu.Unlock()
	return snapshot, nil
}

// DeleteSnapshot removes the durable snapshot and cancels any pending
// flush. Used by the reset path together with clearing the in-memory maps.
// It takes the flush lock, so a flush already mid-write drains before the
// key is removed and cannot resurrect the snapshot; any flush queued after
// this sees a clean dirty flag and no-ops.
func (m *Manager) DeleteSnapshot(ctx context.Context) error {
	m.flushMu.Lock()
	defer m.flushMu.Unlock()

	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
	}
	m.dirty = false
	m.lastFlushedAt = time.Time{}
	m.mu.Unlock()

	return m.store.Remove(ctx, m.key)
}

// LastFlushedAt reports when a snapshot was last successfully written or
// restored. Zero if never.
func (m *Manager) LastFlushedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastFlushedAt
}

// Dirty reports whether the in-memory index has changes not yet persisted.
func (m *Manager) Dirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirty
}

// Close performs a final synchronous flush of any dirty state and releases
// the manager's resources. The manager must not be used after Close.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	if m.timer != nil {
		m.timer.Stop()
	}
	m.mu.Unlock()

	err := m.Flush(context.Background())
	if err != nil && errors.Is(err, context.Canceled) {
		err = nil
	}

	m.pool.Release()
	m.encoder.Close()
	m.decoder.Close()
	return err
}
