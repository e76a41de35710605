package trie

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
)

var indices = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "a", "b", "c", "d", "e", "f", "[value]"}

// node is the common interface every trie node variant implements. The
// spec's five-case taxonomy (Empty, Leaf, Extension, Branch, Hash) collapses
// here into four concrete Go types: Empty is represented by a nil node,
// Leaf and Extension share shortNode (distinguished by a terminator nibble
// on Key, see hasTerm), Branch is fullNode, and Hash is hashNode.
type node interface {
	cache() (hashNode, bool)
	encode(w rlp.EncoderBuffer)
	fstring(string) string
}

// fullNode is the Branch node: one child slot per nibble plus a 17th slot
// for a value terminating exactly at this node.
type fullNode struct {
	Children [17]node
	flags    nodeFlag
}

// shortNode represents both Leaf and Extension nodes. Key carries the
// compressed path in hex (nibble-per-byte) form; hasTerm(Key) is true for
// a Leaf (Val is a valueNode) and false for an Extension (Val is some
// other node).
type shortNode struct {
	Key   []byte
	Val   node
	flags nodeFlag
}

// hashNode is a lazy reference to an unhydrated subtree, identified by its
// 32-byte content hash. It resolves through the trie's reader on demand.
type hashNode []byte

// valueNode is an opaque leaf payload. It is never stored independently;
// it's always embedded as the Val of a Leaf shortNode or the 17th slot of
// a fullNode.
type valueNode []byte

// nilValueNode is substituted for unset branch slots during hashing so
// that the RLP encoding of an empty slot always looks the same.
var nilValueNode = valueNode(nil)

func (n *fullNode) copy() *fullNode   { cp := *n; return &cp }
func (n *shortNode) copy() *shortNode { cp := *n; return &cp }

// nodeFlag holds caching metadata attached to every in-memory Branch/Leaf/
// Extension node: its last-computed hash (if any) and whether it has been
// mutated since that hash was computed (dirty).
type nodeFlag struct {
	hash  hashNode
	dirty bool
}

func (n *fullNode) cache() (hashNode, bool)  { return n.flags.hash, n.flags.dirty }
func (n *shortNode) cache() (hashNode, bool) { return n.flags.hash, n.flags.dirty }
func (n hashNode) cache() (hashNode, bool)   { return nil, true }
func (n valueNode) cache() (hashNode, bool)  { return nil, true }

func (n *fullNode) String() string  { return n.fstring("") }
func (n *shortNode) String() string { return n.fstring("") }
func (n hashNode) String() string   { return n.fstring("") }
func (n valueNode) String() string  { return n.fstring("") }

func (n *fullNode) fstring(ind string) string {
	resp := fmt.Sprintf("[\n%s  ", ind)
	for i, child := range &n.Children {
		if child == nil {
			resp += fmt.Sprintf("%s: <nil> ", indices[i])
		} else {
			resp += fmt.Sprintf("%s: %v", indices[i], child.fstring(ind+"  "))
		}
	}
	return resp + fmt.Sprintf("\n%s] ", ind)
}

func (n *shortNode) fstring(ind string) string {
	return fmt.Sprintf("{%x: %v} ", n.Key, n.Val.fstring(ind+"  "))
}

func (n hashNode) fstring(string) string  { return fmt.Sprintf("<%x> ", []byte(n)) }
func (n valueNode) fstring(string) string { return fmt.Sprintf("%x ", []byte(n)) }
