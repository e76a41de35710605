package trie

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// committer walks the in-memory tree after hashing and collapses every
// dirty node into a hashNode, collecting the dirty (inserted/updated) and
// deleted nodes into a NodeSet for TrieDB.Update to persist.
type committer struct {
	nodes  *NodeSet
	tracer *tracer
}

func newCommitter(nodes *NodeSet, tracer *tracer) *committer {
	return &committer{nodes: nodes, tracer: tracer}
}

// Commit collapses n (the trie root, already hash-annotated by hasher.hash)
// into its root hashNode and returns the accumulated NodeSet.
func (c *committer) Commit(n node) (hashNode, *NodeSet, error) {
	h, err := c.commit(nil, n)
	if err != nil {
		return nil, nil, err
	}
	// Some deletions (e.g. a node that got embedded into its parent and so
	// never passes back through nodeCommit) are only visible to the
	// tracer. Fold those in now, but only for paths that actually existed
	// on disk before — an embed-then-delete within the same batch is a
	// no-op from the store's point of view.
	for _, path := range c.tracer.deleteList() {
		if oldv := c.tracer.getOldv(path); len(oldv) > 0 {
			c.nodes.markDeleted(path, oldv)
		}
	}
	hn, ok := h.(hashNode)
	if !ok {
		return nil, nil, fmt.Errorf("trie: commit: root did not collapse to a hash (got %T)", h)
	}
	return hn, c.nodes, nil
}

// commit collapses n at path into a hashNode, recursing into children
// first so that by the time a parent is persisted, every child it
// references by hash has already been written to the NodeSet.
func (c *committer) commit(path []byte, n node) (node, error) {
	hash, dirty := n.cache()
	if hash != nil && !dirty {
		return hash, nil
	}
	switch cn := n.(type) {
	case *shortNode:
		collapsed := cn.copy()
		if _, ok := cn.Val.(*fullNode); ok {
			childHash, err := c.commit(prefixConcat(path, cn.Key...), cn.Val)
			if err != nil {
				return nil, err
			}
			collapsed.Val = childHash
		}
		collapsed.Key = hexToCompact(cn.Key)
		return c.nodeCommit(path, collapsed)

	case *fullNode:
		children, err := c.commitChildren(path, cn)
		if err != nil {
			return nil, err
		}
		collapsed := cn.copy()
		collapsed.Children = children
		return c.nodeCommit(path, collapsed)

	case hashNode:
		return cn, nil

	default:
		panic(fmt.Sprintf("trie: commit: unexpected node type %T", n))
	}
}

func (c *committer) commitChildren(path []byte, n *fullNode) ([17]node, error) {
	var children [17]node
	for i := 0; i < 16; i++ {
		child := n.Children[i]
		if child == nil {
			continue
		}
		if hn, ok := child.(hashNode); ok {
			children[i] = hn
			continue
		}
		hashed, err := c.commit(prefixConcat(path, byte(i)), child)
		if err != nil {
			return children, err
		}
		children[i] = hashed
	}
	if n.Children[16] != nil {
		children[16] = n.Children[16]
	}
	return children, nil
}

// nodeCommit records collapsed (whose children are already hashes) into
// the NodeSet, keyed by its own hash, unless it turned out to be too small
// to hash and so is left embedded in its parent.
func (c *committer) nodeCommit(path []byte, collapsed node) (node, error) {
	hash, _ := collapsed.cache()
	if hash != nil {
		mn := &memoryNode{hash: common.BytesToHash(hash), node: collapsed}
		c.nodes.markUpdated(path, mn, c.tracer.getOldv(path))
		return hash, nil
	}
	if hn, ok := collapsed.(hashNode); ok {
		return hn, nil
	}
	// Too small to hash: stays embedded in its parent. If a node used to
	// live at this path on disk, it's effectively deleted now.
	if oldv := c.tracer.getOldv(path); len(oldv) != 0 {
		c.nodes.markDeleted(path, oldv)
	}
	return collapsed, nil
}
