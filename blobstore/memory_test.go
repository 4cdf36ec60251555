package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Open(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	data := []byte("hello")
	require.NoError(t, store.Put(ctx, "a/1", data))
	require.NoError(t, store.Put(ctx, "b/1", []byte("world")))

	// Mutating the caller's slice does not leak into the store.
	data[0] = 'j'

	got, err := Get(ctx, store, "a/1")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	blob, err := store.Open(ctx, "a/1")
	require.NoError(t, err)
	buf := make([]byte, 10)
	n, err := blob.ReadAt(ctx, buf, 2)
	assert.Equal(t, 3, n)
	assert.Error(t, err)
	assert.Equal(t, "llo", string(buf[:n]))
	require.NoError(t, blob.Close())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/1", "b/1"}, names)

	names, err = store.List(ctx, "b/")
	require.NoError(t, err)
	assert.Equal(t, []string{"b/1"}, names)

	require.NoError(t, store.Delete(ctx, "a/1"))
	require.NoError(t, store.Delete(ctx, "a/1"))
	_, err = store.Open(ctx, "a/1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreOpenIsSnapshot(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "dumps/a.tsv", []byte("v1")))
	blob, err := store.Open(ctx, "dumps/a.tsv")
	require.NoError(t, err)
	defer blob.Close()

	require.NoError(t, store.Put(ctx, "dumps/a.tsv", []byte("v2")))

	got, err := ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))

	_, ok := blob.(Mappable)
	assert.True(t, ok)
}

func TestMemoryStoreCanceled(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Put(ctx, "x", nil), context.Canceled)
	_, err := store.Open(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.List(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Delete(ctx, "x"), context.Canceled)
}
