// Package badgerstore is an embedded, log-structured on-disk implementation
// of storage.Store, backed by github.com/dgraph-io/badger/v4.
package badgerstore

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/arborix-labs/statetrie/storage"
)

// Store wraps a badger database opened at a fixed path.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) a badger store at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerstore: open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying badger database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get implements storage.Store.
func (s *Store) Get(key [32]byte) ([]byte, bool, error) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key[:])
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("badgerstore: get: %w", err)
	}
	return val, true, nil
}

// Put implements storage.Store.
func (s *Store) Put(key [32]byte, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key[:], value)
	})
	if err != nil {
		return fmt.Errorf("badgerstore: put: %w", err)
	}
	return nil
}

// Delete implements storage.Store.
func (s *Store) Delete(key [32]byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key[:])
	})
	if err != nil {
		return fmt.Errorf("badgerstore: delete: %w", err)
	}
	return nil
}

// Stat reports the on-disk size of the store's LSM tree and value log.
func (s *Store) Stat() string {
	lsm, vlog := s.db.Size()
	return fmt.Sprintf("badger: lsm=%d bytes vlog=%d bytes", lsm, vlog)
}

// Sync ensures all pending writes are flushed to disk.
func (s *Store) Sync() error {
	return s.db.Sync()
}

// batch buffers writes against a badger.WriteBatch.
type batch struct {
	store *Store
	wb    *badger.WriteBatch
	size  int
}

// NewBatch implements storage.Batcher.
func (s *Store) NewBatch() storage.Batch {
	return &batch{store: s, wb: s.db.NewWriteBatch()}
}

func (b *batch) Put(key [32]byte, value []byte) error {
	if err := b.wb.Set(key[:], value); err != nil {
		return fmt.Errorf("badgerstore: batch put: %w", err)
	}
	b.size += 32 + len(value)
	return nil
}

func (b *batch) Delete(key [32]byte) error {
	if err := b.wb.Delete(key[:]); err != nil {
		return fmt.Errorf("badgerstore: batch delete: %w", err)
	}
	b.size += 32
	return nil
}

func (b *batch) ValueSize() int { return b.size }

func (b *batch) Write() error {
	if err := b.wb.Flush(); err != nil {
		return fmt.Errorf("badgerstore: batch write: %w", err)
	}
	return nil
}

func (b *batch) Reset() {
	b.wb.Cancel()
	b.wb = b.store.db.NewWriteBatch()
	b.size = 0
}
