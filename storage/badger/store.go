package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/searchidx/storage"
)

// Store implements storage.SnapshotStore on top of a BadgerDB instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ storage.SnapshotStore = (*Store)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenStore opens a BadgerDB-backed snapshot store at the specified path.
// Creates the directory if it doesn't exist. Snapshot frames are already
// compressed, so badger's own compression stays off.
func OpenStore(filePath string, inMemory bool) (storage.SnapshotStore, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		// Ensure directory exists
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:     db,
		logger: slog.Default(),
	}, nil
}

// Get retrieves the value for a key.
func (s *Store) Get(ctx context.Context, key []byte) ([]byte, error) {
	if s.db.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var value []byte
	err := s.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set stores a value under a key.
func (s *Store) Set(ctx context.Context, key, value []byte) error {
	if s.db.IsClosed() {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *badger.Txn) error {
		return tx.Set(key, value)
	})
}

// Remove deletes a key. Absent keys are not an error.
func (s *Store) Remove(ctx context.Context, key []byte) error {
	if s.db.IsClosed() {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *badger.Txn) error {
		return tx.Delete(key)
	})
}

// Close closes the BadgerDB database.
func (s *Store) Close() error {
	return s.db.Close()
}
