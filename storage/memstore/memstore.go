// Package memstore is an ephemeral, in-memory implementation of
// storage.Store, used in tests and as a scratch store for the demo CLI.
package memstore

import (
	"sync"

	"github.com/arborix-labs/statetrie/storage"
)

// Store is a map-backed key-value store. It supports batched writes via
// NewBatch but offers no durability: its content is lost on process exit.
type Store struct {
	mu sync.RWMutex
	db map[[32]byte][]byte
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{db: make(map[[32]byte][]byte)}
}

// Get implements storage.Store.
func (s *Store) Get(key [32]byte) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.db[key]
	if !ok {
		return nil, false, nil
	}
	return storage.CopyBytes(v), true, nil
}

// Put implements storage.Store.
func (s *Store) Put(key [32]byte, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.db[key] = storage.CopyBytes(value)
	return nil
}

// Delete implements storage.Store.
func (s *Store) Delete(key [32]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.db, key)
	return nil
}

// Len returns the number of keys currently stored. Mostly useful in tests.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.db)
}

type op struct {
	key [32]byte
	val []byte
	del bool
}

// batch is a write-only buffer of operations against a Store.
type batch struct {
	store *Store
	ops   []op
	size  int
}

// NewBatch implements storage.Batcher.
func (s *Store) NewBatch() storage.Batch {
	return &batch{store: s}
}

func (b *batch) Put(key [32]byte, value []byte) error {
	b.ops = append(b.ops, op{key: key, val: storage.CopyBytes(value)})
	b.size += 32 + len(value)
	return nil
}

func (b *batch) Delete(key [32]byte) error {
	b.ops = append(b.ops, op{key: key, del: true})
	b.size += 32
	return nil
}

func (b *batch) ValueSize() int { return b.size }

func (b *batch) Write() error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	for _, o := range b.ops {
		if o.del {
			delete(b.store.db, o.key)
			continue
		}
		b.store.db[o.key] = o.val
	}
	return nil
}

func (b *batch) Reset() {
	b.ops = b.ops[:0]
	b.size = 0
}
