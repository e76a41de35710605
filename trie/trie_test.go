package trie

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/arborix-labs/statetrie/internal/log"
	"github.com/arborix-labs/statetrie/storage/memstore"
)

func newTestDB() *TrieDB {
	return NewTrieDB(memstore.New(), log.Discard())
}

func TestEmptyTrieRoot(t *testing.T) {
	tr := NewEmpty(newTestDB())
	require.Equal(t, emptyRoot, tr.Hash())
}

func TestInsertGet(t *testing.T) {
	tr := NewEmpty(newTestDB())
	tr.Update([]byte("key"), []byte("value"))
	require.Equal(t, []byte("value"), tr.Get([]byte("key")))
}

func TestGetMissingKeyReturnsNil(t *testing.T) {
	tr := NewEmpty(newTestDB())
	tr.Update([]byte("key"), []byte("value"))
	require.Nil(t, tr.Get([]byte("nope")))
}

func TestOverwriteUpdatesValue(t *testing.T) {
	tr := NewEmpty(newTestDB())
	tr.Update([]byte("key"), []byte("v1"))
	tr.Update([]byte("key"), []byte("v2"))
	require.Equal(t, []byte("v2"), tr.Get([]byte("key")))
}

// Two keys sharing a common nibble prefix split a shortNode into an
// extension over a branch — the core diverge case of insertion.
func TestInsertSplitsSharedPrefix(t *testing.T) {
	tr := NewEmpty(newTestDB())
	tr.Update([]byte("120000"), []byte("qwerqwerqwerqwerqwerqwerqwerqwer"))
	tr.Update([]byte("123456"), []byte("asdfasdfasdfasdfasdfasdfasdfasdf"))

	require.Equal(t, []byte("qwerqwerqwerqwerqwerqwerqwerqwer"), tr.Get([]byte("120000")))
	require.Equal(t, []byte("asdfasdfasdfasdfasdfasdfasdfasdf"), tr.Get([]byte("123456")))
	require.Nil(t, tr.Get([]byte("120099")))
}

// Deleting one of two siblings under a branch must collapse it back down
// to a single shortNode rather than leaving a singleton branch.
func TestDeleteCollapsesBranch(t *testing.T) {
	tr := NewEmpty(newTestDB())
	tr.Update([]byte("120000"), []byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"))
	tr.Update([]byte("123456"), []byte("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"))

	tr.Update([]byte("123456"), nil)
	require.Nil(t, tr.Get([]byte("123456")))
	require.Equal(t, []byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"), tr.Get([]byte("120000")))

	// The trie is left exactly as if "123456" had never been inserted.
	fresh := NewEmpty(newTestDB())
	fresh.Update([]byte("120000"), []byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"))
	require.Equal(t, fresh.Hash(), tr.Hash())
}

// Canonicalization: the root hash depends only on the final set of
// key-value pairs, not on the order or intermediate history of operations
// that produced it.
func TestCanonicalizationInsertOrderIndependent(t *testing.T) {
	a := NewEmpty(newTestDB())
	a.Update([]byte("alpha"), []byte("1111111111111111111111111111111111"))
	a.Update([]byte("beta"), []byte("2222222222222222222222222222222222"))
	a.Update([]byte("gamma"), []byte("3333333333333333333333333333333333"))

	b := NewEmpty(newTestDB())
	b.Update([]byte("gamma"), []byte("3333333333333333333333333333333333"))
	b.Update([]byte("alpha"), []byte("1111111111111111111111111111111111"))
	b.Update([]byte("beta"), []byte("2222222222222222222222222222222222"))

	require.Equal(t, a.Hash(), b.Hash())
}

func TestCanonicalizationSurvivesInsertThenDelete(t *testing.T) {
	base := NewEmpty(newTestDB())
	base.Update([]byte("alpha"), []byte("1111111111111111111111111111111111"))

	withTransient := NewEmpty(newTestDB())
	withTransient.Update([]byte("alpha"), []byte("1111111111111111111111111111111111"))
	withTransient.Update([]byte("transient"), []byte("2222222222222222222222222222222222"))
	withTransient.Update([]byte("transient"), nil)

	require.Equal(t, base.Hash(), withTransient.Hash())
}

// Commit persists the working tree to the backing store, and the result
// can be reopened from its root hash with every key still resolvable.
func TestCommitAndReopen(t *testing.T) {
	db := newTestDB()
	tr := NewEmpty(db)
	tr.Update([]byte("120000"), []byte("qwerqwerqwerqwerqwerqwerqwerqwer"))
	tr.Update([]byte("123456"), []byte("asdfasdfasdfasdfasdfasdfasdfasdf"))

	root, nodes, err := tr.Commit()
	require.NoError(t, err)
	require.NotNil(t, nodes)
	require.NotEqual(t, emptyRoot, root)

	reopened, err := New(TrieID(root), db)
	require.NoError(t, err)

	v, err := reopened.TryGet([]byte("120000"))
	require.NoError(t, err)
	require.Equal(t, []byte("qwerqwerqwerqwerqwerqwerqwerqwer"), v)

	v, err = reopened.TryGet([]byte("123456"))
	require.NoError(t, err)
	require.Equal(t, []byte("asdfasdfasdfasdfasdfasdfasdfasdf"), v)
}

// Committing an empty trie is a no-op: there is nothing to persist and no
// node hash to look up afterwards.
func TestCommitEmptyTrie(t *testing.T) {
	db := newTestDB()
	tr := NewEmpty(db)
	root, nodes, err := tr.Commit()
	require.NoError(t, err)
	require.Nil(t, nodes)
	require.Equal(t, emptyRoot, root)
}

// Reopening an unknown root surfaces the broken closure over hash
// references as a MissingNodeError rather than silently returning an
// empty trie.
func TestOpenUnknownRootFails(t *testing.T) {
	db := newTestDB()
	bogus := common.HexToHash("deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef")
	_, err := New(TrieID(bogus), db)
	require.Error(t, err)
	var mnErr *MissingNodeError
	require.ErrorAs(t, err, &mnErr)
}

// A stored node whose bytes have been tampered with fails the re-hash
// check during hydration and surfaces as corruption rather than panicking
// or silently decoding garbage.
func TestReopenDetectsTamperedNode(t *testing.T) {
	store := memstore.New()
	db := NewTrieDB(store, log.Discard())
	tr := NewEmpty(db)
	tr.Update([]byte("key"), []byte("value-that-is-long-enough-to-hash"))
	root, _, err := tr.Commit()
	require.NoError(t, err)

	blob, found, err := store.Get(root)
	require.NoError(t, err)
	require.True(t, found)
	tampered := append([]byte(nil), blob...)
	tampered[0] ^= 0xff
	require.NoError(t, store.Put(root, tampered))

	reopened, err := New(TrieID(root), db)
	require.Error(t, err)
	require.Nil(t, reopened)
	require.True(t, IsCorruption(err))
}

// A root committed from one Trie instance produces byte-identical commits
// (same hash) when reopened and the same further mutation is replayed —
// demonstrating the trie is purely a function of its key-value contents.
func TestReopenThenMutateMatchesDirectMutation(t *testing.T) {
	db := newTestDB()
	tr := NewEmpty(db)
	tr.Update([]byte("a"), []byte("1111111111111111111111111111111111"))
	root, _, err := tr.Commit()
	require.NoError(t, err)

	reopened, err := New(TrieID(root), db)
	require.NoError(t, err)
	reopened.Update([]byte("b"), []byte("2222222222222222222222222222222222"))

	direct := NewEmpty(newTestDB())
	direct.Update([]byte("a"), []byte("1111111111111111111111111111111111"))
	direct.Update([]byte("b"), []byte("2222222222222222222222222222222222"))

	require.Equal(t, direct.Hash(), reopened.Hash())
}
