package trie

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/arborix-labs/statetrie/internal/log"
	"github.com/arborix-labs/statetrie/storage"
)

// TrieDB sits between the in-memory trie and its backing store: newly
// committed nodes land in its dirty cache first, keyed by content hash, and
// are only written out to storage.Store (and evicted from the cache) by an
// explicit Commit. Nodes not found dirty fall through to the store, which
// makes TrieDB also the trie's only read path into persisted state.
type TrieDB struct {
	diskdb storage.Store
	log    log.Logger

	dirties map[common.Hash]*cachedNode
	oldest  common.Hash
	newest  common.Hash

	lock sync.RWMutex
}

// NewTrieDB wraps diskdb with a dirty-node cache, logging through logger.
// The zero hash is seeded as a sentinel root-of-the-flush-list entry,
// mirroring the teacher's metaroot convention. A nil logger falls back to
// a discard logger, matching the nil-safe convention tracer also follows.
func NewTrieDB(diskdb storage.Store, logger log.Logger) *TrieDB {
	if logger == nil {
		logger = log.Discard()
	}
	return &TrieDB{
		diskdb: diskdb,
		log:    logger,
		dirties: map[common.Hash]*cachedNode{{}: {
			children: make(map[common.Hash]uint16),
		}},
	}
}

// Node retrieves the trie node with the given hash, resolving it from the
// dirty cache or, failing that, the backing store. If the node is not found
// anywhere it returns a plain "not found" error, which callers wrap into a
// MissingNodeError at the call site (see reader.go). A store hit whose
// bytes fail the re-hash check or don't decode to a valid node shape
// returns a non-nil error a caller can recognize with isDecodeFailure.
func (db *TrieDB) Node(hash common.Hash) (node, error) {
	return db.node(hash)
}

// NodeBlob retrieves the RLP-encoded form of the node with the given hash.
func (db *TrieDB) NodeBlob(hash common.Hash) ([]byte, error) {
	return db.nodeBlob(hash)
}

func (db *TrieDB) node(hash common.Hash) (node, error) {
	db.lock.RLock()
	dirty := db.dirties[hash]
	db.lock.RUnlock()
	if dirty != nil {
		return dirty.obj(hash), nil
	}
	enc, err := db.nodeBlob(hash)
	if err != nil {
		return nil, err
	}
	return decodeNode(hash[:], enc)
}

// nodeBlob fetches the raw bytes for hash from the dirty cache or the
// backing store. A blob read from the store is re-hashed and compared
// against hash before being returned, so a bit-flipped or swapped-in
// record is caught here rather than surfacing later as a bad decode.
func (db *TrieDB) nodeBlob(hash common.Hash) ([]byte, error) {
	if hash == (common.Hash{}) {
		return nil, errors.New("trie: not found")
	}
	db.lock.RLock()
	dirty := db.dirties[hash]
	db.lock.RUnlock()
	if dirty != nil {
		return dirty.rlp(), nil
	}
	enc, found, err := db.diskdb.Get(hash)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("trie: not found")
	}
	if got := crypto.Keccak256Hash(enc); got != hash {
		db.log.Error("node failed re-hash check", "want", hash, "got", got)
		return nil, errCorruption("node %x re-hashes to %x", hash, got)
	}
	return enc, nil
}

// Nodes returns the hashes of every node presently held in the dirty
// cache. Expensive; meant for tests validating internal state, not
// production use.
func (db *TrieDB) Nodes() []common.Hash {
	db.lock.RLock()
	defer db.lock.RUnlock()

	hashes := make([]common.Hash, 0, len(db.dirties))
	for hash := range db.dirties {
		if hash != (common.Hash{}) {
			hashes = append(hashes, hash)
		}
	}
	return hashes
}

// insert adds a committed node to the dirty cache and bumps the parent
// refcount of any child already cached, then appends it to the tail of the
// flush-list.
func (db *TrieDB) insert(hash common.Hash, n node) {
	if _, ok := db.dirties[hash]; ok {
		return
	}
	entry := &cachedNode{node: n}
	entry.forChilds(func(child common.Hash) {
		if c := db.dirties[child]; c != nil {
			c.parents++
		}
	})

	db.dirties[hash] = entry
	entry.flushPrev = db.newest
	if db.oldest == (common.Hash{}) {
		db.oldest, db.newest = hash, hash
	} else {
		db.dirties[db.newest].flushNext, db.newest = hash, hash
	}
}

// Update merges a single Commit's worth of dirty nodes into the database.
// Children are always inserted before parents, since NodeSet's update order
// is recorded by the committer in that same order.
func (db *TrieDB) Update(nodes *NodeSet) error {
	if nodes == nil {
		return nil
	}
	db.lock.Lock()
	defer db.lock.Unlock()

	for _, path := range nodes.updates.order {
		n, ok := nodes.updates.nodes[path]
		if !ok {
			return fmt.Errorf("trie: update: missing node for path %x", path)
		}
		db.insert(n.hash, n.node)
	}
	return nil
}

func (db *TrieDB) dereference(child, parent common.Hash) {
	n := db.dirties[parent]
	if n != nil && n.children != nil && n.children[child] > 0 {
		n.children[child]--
		if n.children[child] == 0 {
			delete(n.children, child)
		}
	}
	n, ok := db.dirties[child]
	if !ok {
		return
	}
	if n.parents > 0 {
		n.parents--
	}
	if n.parents == 0 {
		switch child {
		case db.oldest:
			db.oldest = n.flushNext
			db.dirties[n.flushNext].flushPrev = common.Hash{}
		case db.newest:
			db.newest = n.flushPrev
			db.dirties[n.flushPrev].flushNext = common.Hash{}
		default:
			db.dirties[n.flushPrev].flushNext = n.flushNext
			db.dirties[n.flushNext].flushPrev = n.flushPrev
		}
		n.forChilds(func(hash common.Hash) {
			db.dereference(hash, child)
		})
		delete(db.dirties, child)
	}
}

// Commit flushes every dirty node reachable from root to the backing
// store, in child-before-parent order, and evicts each one from the dirty
// cache once the batch that wrote it is durable — a node is never
// uncached before its bytes are confirmed on disk. Nodes unreachable from
// root (superseded by an earlier Commit on the same Trie) stay in the
// cache; Commit does not evict them, and dereference, which would, has no
// caller outside its own recursion.
func (db *TrieDB) Commit(root common.Hash) error {
	batcher, ok := db.diskdb.(storage.Batcher)
	if !ok {
		if err := db.commitDirect(root); err != nil {
			return err
		}
		db.log.Debug("committed trie root", "root", root)
		return nil
	}
	batch := batcher.NewBatch()
	uncacher := newCleaner(db)
	if err := db.commit(root, batch, uncacher); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return err
	}
	db.lock.Lock()
	uncacher.flush()
	db.lock.Unlock()
	db.log.Debug("committed trie root", "root", root)
	return nil
}

func (db *TrieDB) commit(hash common.Hash, batch storage.Batch, uncacher *cleaner) error {
	n, ok := db.dirties[hash]
	if !ok {
		return nil
	}
	var err error
	n.forChilds(func(child common.Hash) {
		if err == nil {
			err = db.commit(child, batch, uncacher)
		}
	})
	if err != nil {
		return err
	}
	if err := batch.Put(hash, n.rlp()); err != nil {
		return err
	}
	uncacher.queue(hash)
	if batch.ValueSize() >= storage.IdealBatchSize {
		if err := batch.Write(); err != nil {
			return err
		}
		db.lock.Lock()
		uncacher.flush()
		db.lock.Unlock()
		batch.Reset()
	}
	return nil
}

// commitDirect is the fallback path for a storage.Store that doesn't
// implement storage.Batcher: every node is written with its own Put.
func (db *TrieDB) commitDirect(hash common.Hash) error {
	n, ok := db.dirties[hash]
	if !ok {
		return nil
	}
	var err error
	n.forChilds(func(child common.Hash) {
		if err == nil {
			err = db.commitDirect(child)
		}
	})
	if err != nil {
		return err
	}
	if err := db.diskdb.Put(hash, n.rlp()); err != nil {
		return err
	}
	db.lock.Lock()
	delete(db.dirties, hash)
	db.lock.Unlock()
	return nil
}
