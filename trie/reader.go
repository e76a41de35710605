package trie

import "github.com/ethereum/go-ethereum/common"

// trieReader resolves Hash node references against a TrieDB. A node that
// can't be found at all surfaces as a MissingNodeError; a node that is
// found but whose bytes are malformed or re-hash to the wrong value
// surfaces as-is, so callers can tell "absent" from "corrupt" apart.
type trieReader struct {
	db *TrieDB
}

func newTrieReader(db *TrieDB) *trieReader {
	return &trieReader{db: db}
}

func (r *trieReader) node(path []byte, hash common.Hash) (node, error) {
	if r == nil || r.db == nil {
		return nil, &MissingNodeError{NodeHash: hash, Path: path}
	}
	n, err := r.db.Node(hash)
	if err != nil {
		if isDecodeFailure(err) {
			return nil, err
		}
		return nil, &MissingNodeError{NodeHash: hash, Path: path, err: err}
	}
	if n == nil {
		return nil, &MissingNodeError{NodeHash: hash, Path: path}
	}
	return n, nil
}

func (r *trieReader) nodeBlob(path []byte, hash common.Hash) ([]byte, error) {
	if r == nil || r.db == nil {
		return nil, &MissingNodeError{NodeHash: hash, Path: path}
	}
	blob, err := r.db.NodeBlob(hash)
	if err != nil {
		if isDecodeFailure(err) {
			return nil, err
		}
		return nil, &MissingNodeError{NodeHash: hash, Path: path, err: err}
	}
	if len(blob) == 0 {
		return nil, &MissingNodeError{NodeHash: hash, Path: path}
	}
	return blob, nil
}
