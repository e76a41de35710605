package trie

import "github.com/ethereum/go-ethereum/common"

// memoryNode is everything known about a single node cached in memory: its
// content hash (once computed) and its in-memory form.
type memoryNode struct {
	hash common.Hash
	node node
}

// nodeWithPrev wraps a memoryNode together with whatever RLP-encoded blob
// previously occupied its path, so a commit that later discovers the path
// was actually deleted (e.g. a node that got embedded into its parent
// instead) can still mark the old on-disk entry for removal.
type nodeWithPrev struct {
	*memoryNode
	oldv []byte
}

// nodesWithOrder tracks dirty nodes by path, in the order they were first
// marked dirty, so commit order always places children before parents.
type nodesWithOrder struct {
	order []string
	nodes map[string]*nodeWithPrev
}

// NodeSet accumulates every dirty node discovered during a single Commit,
// keyed by the hex-nibble path from the root. It is not safe for
// concurrent use — the trie that owns it isn't either.
type NodeSet struct {
	updates *nodesWithOrder
	deletes map[string][]byte
}

// NewNodeSet returns an empty set ready to accumulate a commit's changes.
func NewNodeSet() *NodeSet {
	return &NodeSet{
		updates: &nodesWithOrder{nodes: make(map[string]*nodeWithPrev)},
		deletes: make(map[string][]byte),
	}
}

func (set *NodeSet) markUpdated(path []byte, n *memoryNode, oldv []byte) {
	key := string(path)
	if _, exists := set.updates.nodes[key]; !exists {
		set.updates.order = append(set.updates.order, key)
	}
	set.updates.nodes[key] = &nodeWithPrev{memoryNode: n, oldv: oldv}
}

func (set *NodeSet) markDeleted(path []byte, oldv []byte) {
	set.deletes[string(path)] = oldv
}

// Size reports how many nodes were touched (inserted, updated, or deleted)
// by the commit this set describes.
func (set *NodeSet) Size() (updates, deletes int) {
	return len(set.updates.order), len(set.deletes)
}
