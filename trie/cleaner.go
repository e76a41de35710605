package trie

import "github.com/ethereum/go-ethereum/common"

// cleaner accumulates the hashes written out by a single batch and, once
// that batch is confirmed durable, evicts them from TrieDB's dirty cache.
// Splitting queue/flush this way (rather than uncaching as each Put is
// issued) keeps a consistent view for concurrent readers: a node never
// disappears from the dirty cache before its bytes are safely on disk.
type cleaner struct {
	db      *TrieDB
	pending []common.Hash
}

func newCleaner(db *TrieDB) *cleaner {
	return &cleaner{db: db}
}

func (c *cleaner) queue(hash common.Hash) {
	c.pending = append(c.pending, hash)
}

// flush removes every queued hash from the dirty cache and the flush-list,
// then clears the queue. Caller must hold db.lock for writing.
func (c *cleaner) flush() {
	for _, hash := range c.pending {
		n, ok := c.db.dirties[hash]
		if !ok {
			continue
		}
		switch hash {
		case c.db.oldest:
			c.db.oldest = n.flushNext
			c.db.dirties[n.flushNext].flushPrev = common.Hash{}
		case c.db.newest:
			c.db.newest = n.flushPrev
			c.db.dirties[n.flushPrev].flushNext = common.Hash{}
		default:
			c.db.dirties[n.flushPrev].flushNext = n.flushNext
			c.db.dirties[n.flushNext].flushPrev = n.flushPrev
		}
		delete(c.db.dirties, hash)
	}
	c.pending = c.pending[:0]
}
