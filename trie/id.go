package trie

import "github.com/ethereum/go-ethereum/common"

// ID identifies a trie by the root hash it should be opened at. A zero
// Root denotes the empty trie.
type ID struct {
	Root common.Hash
}

// TrieID builds an ID for reopening a previously committed trie, e.g. the
// hash returned by a prior Commit.
func TrieID(root common.Hash) *ID {
	return &ID{Root: root}
}
