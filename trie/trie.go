package trie

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// emptyRoot is the root hash of the trie holding no key-value pairs, by
// convention Keccak256 of the RLP encoding of the empty list (0xC0), not
// of an empty string. Derived rather than hardcoded so the constant can
// never drift from that convention.
var emptyRoot = crypto.Keccak256Hash([]byte{0xc0})

// Trie is a Merkle-Patricia trie over a content-addressed backing store.
// Reads that fall outside the in-memory working set resolve lazily through
// reader; writes only mutate the in-memory tree until Commit persists them.
//
// Trie is not safe for concurrent use.
type Trie struct {
	root node

	reader *TrieDB
	tracer *tracer
}

func (t *Trie) newFlag() nodeFlag {
	return nodeFlag{dirty: true}
}

// New opens the trie rooted at id.Root against db. A zero or empty-trie
// root yields an empty trie; any other root must already be present in
// db, or New returns a MissingNodeError, or a corruption error if the
// stored bytes don't re-hash to id.Root or don't decode to a valid node.
func New(id *ID, db *TrieDB) (*Trie, error) {
	t := &Trie{reader: db, tracer: newTracer()}
	if id.Root != (common.Hash{}) && id.Root != emptyRoot {
		root, err := t.resolveAndTrack(id.Root[:], nil)
		if err != nil {
			return nil, err
		}
		t.root = root
	}
	return t, nil
}

// NewEmpty returns a trie with no key-value pairs, backed by db.
func NewEmpty(db *TrieDB) *Trie {
	tr, _ := New(TrieID(common.Hash{}), db)
	return tr
}

// Get returns the value stored for key, or nil if key is not present. The
// returned slice must not be modified.
func (t *Trie) Get(key []byte) []byte {
	value, err := t.TryGet(key)
	if err != nil {
		return nil
	}
	return value
}

// TryGet is Get, but surfaces a MissingNodeError instead of silently
// treating an unresolvable Hash node as absent.
func (t *Trie) TryGet(key []byte) ([]byte, error) {
	value, newroot, didResolve, err := t.tryGet(t.root, keybytesToHex(key), 0)
	if err == nil && didResolve {
		t.root = newroot
	}
	return value, err
}

func (t *Trie) tryGet(n node, key []byte, pos int) (value []byte, newnode node, didResolve bool, err error) {
	switch n := n.(type) {
	case nil:
		return nil, nil, false, nil
	case valueNode:
		return n, n, false, nil
	case *shortNode:
		if len(key)-pos < len(n.Key) || !bytes.Equal(n.Key, key[pos:pos+len(n.Key)]) {
			return nil, n, false, nil
		}
		value, newnode, didResolve, err = t.tryGet(n.Val, key, pos+len(n.Key))
		if err == nil && didResolve {
			n = n.copy()
			n.Val = newnode
		}
		return value, n, didResolve, err
	case *fullNode:
		value, newnode, didResolve, err = t.tryGet(n.Children[key[pos]], key, pos+1)
		if err == nil && didResolve {
			n = n.copy()
			n.Children[key[pos]] = newnode
		}
		return value, n, didResolve, err
	case hashNode:
		child, err := t.resolveAndTrack(n, key[:pos])
		if err != nil {
			return nil, n, true, err
		}
		value, newnode, _, err := t.tryGet(child, key, pos)
		return value, newnode, true, err
	default:
		panic(fmt.Sprintf("trie: get: invalid node type %T", n))
	}
}

func (t *Trie) resolve(n node, prefix []byte) (node, error) {
	if n, ok := n.(hashNode); ok {
		return t.resolveAndTrack(n, prefix)
	}
	return n, nil
}

// resolveAndTrack hydrates a Hash node by fetching its RLP blob through
// reader — which re-hashes the blob against n and rejects it as corrupt
// on mismatch — decoding it, and recording the blob with the tracer so a
// later Commit can tell a genuine deletion from a node that never existed
// on disk.
func (t *Trie) resolveAndTrack(n hashNode, prefix []byte) (node, error) {
	r := newTrieReader(t.reader)
	blob, err := r.nodeBlob(prefix, common.BytesToHash(n))
	if err != nil {
		return nil, err
	}
	t.tracer.onRead(prefix, blob)
	decoded, err := decodeNode(n, blob)
	if err != nil {
		return nil, err
	}
	return decoded, nil
}

// Hash returns the current root hash without persisting anything.
func (t *Trie) Hash() common.Hash {
	hash, cached, _ := t.hashRoot()
	t.root = cached
	return common.BytesToHash(hash.(hashNode))
}

func (t *Trie) hashRoot() (node, node, error) {
	if t.root == nil {
		return hashNode(emptyRoot[:]), nil, nil
	}
	h := newHasher()
	defer returnHasherToPool(h)
	hashed, cached := h.hash(t.root, true)
	return hashed, cached, nil
}

// Update sets key to value, or removes key if value is empty, discarding
// any error. Use TryUpdate to observe hydration failures.
func (t *Trie) Update(key, value []byte) {
	_ = t.TryUpdate(key, value)
}

// TryUpdate is Update, but returns any error met while hydrating a stored
// node on the way down.
func (t *Trie) TryUpdate(key, value []byte) error {
	k := keybytesToHex(key)
	if len(value) != 0 {
		_, n, err := t.insert(t.root, nil, k, valueNode(value))
		if err != nil {
			return err
		}
		t.root = n
		return nil
	}
	_, n, err := t.delete(t.root, nil, k)
	if err != nil {
		return err
	}
	t.root = n
	return nil
}

// insert implements the recursive descent that walks n following key,
// creating a shortNode at a nil slot, splitting a shortNode into a branch
// where paths diverge, and hydrating any hashNode it must pass through.
func (t *Trie) insert(n node, prefix, key []byte, value node) (bool, node, error) {
	if len(key) == 0 {
		if v, ok := n.(valueNode); ok {
			dirty := !bytes.Equal(v, value.(valueNode))
			return dirty, value, nil
		}
		return true, value, nil
	}
	switch n := n.(type) {
	case *shortNode:
		matchlen := prefixLen(key, n.Key)
		if matchlen == len(n.Key) {
			dirty, nn, err := t.insert(n.Val, append(prefix, key[:matchlen]...), key[matchlen:], value)
			if !dirty || err != nil {
				return false, n, err
			}
			return true, &shortNode{n.Key, nn, t.newFlag()}, nil
		}
		// Paths diverge at matchlen: replace this node with a branch that
		// carries both the old suffix and the new one.
		branch := &fullNode{flags: t.newFlag()}
		var err error
		_, branch.Children[n.Key[matchlen]], err = t.insert(nil, append(prefix, n.Key[:matchlen+1]...), n.Key[matchlen+1:], n.Val)
		if err != nil {
			return false, nil, err
		}
		_, branch.Children[key[matchlen]], err = t.insert(nil, append(prefix, key[:matchlen+1]...), key[matchlen+1:], value)
		if err != nil {
			return false, nil, err
		}
		if matchlen == 0 {
			return true, branch, nil
		}
		t.tracer.onInsert(append(prefix, key[:matchlen]...))
		return true, &shortNode{key[:matchlen], branch, t.newFlag()}, nil

	case *fullNode:
		dirty, nn, err := t.insert(n.Children[key[0]], append(prefix, key[0]), key[1:], value)
		if !dirty || err != nil {
			return false, n, err
		}
		n = n.copy()
		n.flags = t.newFlag()
		n.Children[key[0]] = nn
		return true, n, nil

	case nil:
		t.tracer.onInsert(prefix)
		return true, &shortNode{key, value, t.newFlag()}, nil

	case hashNode:
		rn, err := t.resolveAndTrack(n, prefix)
		if err != nil {
			return false, nil, err
		}
		dirty, nn, err := t.insert(rn, prefix, key, value)
		if !dirty || err != nil {
			return false, rn, err
		}
		return true, nn, nil

	default:
		panic(fmt.Sprintf("trie: insert: invalid node type %T", n))
	}
}

// delete implements the recursive descent and canonicalizing merge/split:
// it removes key from n, then collapses a branch left with one child into
// a shortNode and fuses an adjacent pair of shortNodes so the result never
// violates the no-singleton-branch / no-empty-extension invariants.
func (t *Trie) delete(n node, prefix, key []byte) (bool, node, error) {
	switch n := n.(type) {
	case *shortNode:
		matchlen := prefixLen(key, n.Key)
		if matchlen < len(n.Key) {
			return false, n, nil
		}
		if matchlen == len(key) {
			t.tracer.onDelete(prefix)
			return true, nil, nil
		}
		dirty, child, err := t.delete(n.Val, append(prefix, key[:len(n.Key)]...), key[len(n.Key):])
		if !dirty || err != nil {
			return false, n, err
		}
		switch child := child.(type) {
		case *shortNode:
			t.tracer.onDelete(append(prefix, n.Key...))
			return true, &shortNode{prefixConcat(n.Key, child.Key...), child.Val, t.newFlag()}, nil
		default:
			return true, &shortNode{n.Key, child, t.newFlag()}, nil
		}

	case *fullNode:
		dirty, nn, err := t.delete(n.Children[key[0]], append(prefix, key[0]), key[1:])
		if !dirty || err != nil {
			return false, n, err
		}
		n = n.copy()
		n.flags = t.newFlag()
		n.Children[key[0]] = nn

		if nn != nil {
			return true, n, nil
		}
		// n had at least two children before the delete; find out whether
		// exactly one remains (pos >= 0) or several do (pos == -2).
		pos := -1
		for i, child := range &n.Children {
			if child != nil {
				if pos == -1 {
					pos = i
				} else {
					pos = -2
					break
				}
			}
		}
		if pos >= 0 {
			if pos != 16 {
				cnode, err := t.resolve(n.Children[pos], append(prefix, byte(pos)))
				if err != nil {
					return false, nil, err
				}
				if cnode, ok := cnode.(*shortNode); ok {
					t.tracer.onDelete(append(prefix, byte(pos)))
					k := append([]byte{byte(pos)}, cnode.Key...)
					return true, &shortNode{k, cnode.Val, t.newFlag()}, nil
				}
			}
			return true, &shortNode{[]byte{byte(pos)}, n.Children[pos], t.newFlag()}, nil
		}
		return true, n, nil

	case valueNode:
		return true, nil, nil

	case nil:
		return false, nil, nil

	case hashNode:
		rn, err := t.resolveAndTrack(n, prefix)
		if err != nil {
			return false, nil, err
		}
		dirty, nn, err := t.delete(rn, prefix, key)
		if !dirty || err != nil {
			return false, rn, err
		}
		return true, nn, nil

	default:
		panic(fmt.Sprintf("trie: delete: invalid node type %T (key %x)", n, key))
	}
}

// Commit hashes the current tree, collects every dirty node into a
// NodeSet, and persists it through reader's TrieDB, returning the new
// root hash. After Commit the tracer is reset so a subsequent batch of
// Update/Delete calls starts clean.
func (t *Trie) Commit() (common.Hash, *NodeSet, error) {
	if t.root == nil {
		return emptyRoot, nil, nil
	}
	rootHash := t.Hash()

	c := newCommitter(NewNodeSet(), t.tracer)
	rootHN, nodes, err := c.Commit(t.root)
	if err != nil {
		return common.Hash{}, nil, err
	}
	if err := t.reader.Update(nodes); err != nil {
		return common.Hash{}, nil, err
	}
	if err := t.reader.Commit(rootHash); err != nil {
		return common.Hash{}, nil, err
	}
	t.root = rootHN
	t.tracer.reset()
	return rootHash, nodes, nil
}
