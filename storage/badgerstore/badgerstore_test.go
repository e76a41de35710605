package badgerstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func TestPutGetDelete(t *testing.T) {
	s := openTestStore(t)
	key := [32]byte{1, 2, 3}

	_, ok, err := s.Get(key)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Put(key, []byte("value")))
	v, ok, err := s.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("value"), v)

	require.NoError(t, s.Delete(key))
	_, ok, err = s.Get(key)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBatchWrite(t *testing.T) {
	s := openTestStore(t)
	b := s.NewBatch()
	key := [32]byte{9}
	require.NoError(t, b.Put(key, []byte("batched")))
	require.NoError(t, b.Write())

	v, ok, err := s.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("batched"), v)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	key := [32]byte{7}

	s1, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s1.Put(key, []byte("durable")))
	require.NoError(t, s1.Close())

	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()

	v, ok, err := s2.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("durable"), v)
}
