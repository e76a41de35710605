package trie

import "github.com/ethereum/go-ethereum/common"

// cachedNode is a node held in TrieDB's dirty cache, plus the bookkeeping
// needed to flush it to the backing store in child-before-parent order and
// to garbage-collect it once nothing references it anymore.
//
// node is always in its "committed" shape: a *shortNode/*fullNode whose
// non-embedded children are hashNode references, exactly as produced by
// committer.commit and by decodeNode when reading a blob back from disk.
type cachedNode struct {
	node node

	parents  uint32                 // number of live references to this node
	children map[common.Hash]uint16 // children referenced by this node, by hash

	flushPrev common.Hash // previous node in the flush-list
	flushNext common.Hash // next node in the flush-list
}

// rlp returns the RLP wire encoding of the cached node, used when
// persisting it to the backing store.
func (n *cachedNode) rlp() []byte {
	return nodeToBytes(n.node)
}

// obj returns the node ready for use by the trie engine. hash is accepted
// for symmetry with TrieDB.node's disk path, which must re-derive it from
// the decoded blob; the in-memory node already carries it.
func (n *cachedNode) obj(hash common.Hash) node {
	return n.node
}

// forChilds invokes onChild for every hash-referenced child of n, used both
// to bump parent refcounts on insert and to cascade dereference on removal.
func (n *cachedNode) forChilds(onChild func(hash common.Hash)) {
	forGatheredChildren(n.node, onChild)
}

func forGatheredChildren(n node, onChild func(hash common.Hash)) {
	switch n := n.(type) {
	case *shortNode:
		forGatheredChildren(n.Val, onChild)
	case *fullNode:
		for i := 0; i < 16; i++ {
			forGatheredChildren(n.Children[i], onChild)
		}
	case hashNode:
		onChild(common.BytesToHash(n))
	}
}
