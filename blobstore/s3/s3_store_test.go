package s3

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/hupe1980/formdb/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_S3Store(t *testing.T) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		t.Skip("Skipping S3 integration test: S3_BUCKET not set")
	}

	ctx := context.Background()

	// Create a unique prefix for this test run
	prefix := fmt.Sprintf("test-formdb-%d/", time.Now().UnixNano())
	store, err := New(ctx, bucket, WithPrefix(prefix))
	require.NoError(t, err)

	t.Run("Put and Read", func(t *testing.T) {
		name := "dumps/test.tsv"
		data := make([]byte, 1024*1024) // 1MB
		_, _ = rand.Read(data)

		require.NoError(t, store.Put(ctx, name, data))

		blobs, err := store.List(ctx, "dumps/")
		require.NoError(t, err)
		assert.Contains(t, blobs, name)

		r, err := store.Open(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, int64(len(data)), r.Size())

		buf := make([]byte, 100)
		n, err := r.ReadAt(ctx, buf, 1024)
		require.NoError(t, err)
		assert.Equal(t, 100, n)
		assert.Equal(t, data[1024:1124], buf)
		require.NoError(t, r.Close())

		got, err := blobstore.Get(ctx, store, name)
		require.NoError(t, err)
		assert.Equal(t, data, got)

		require.NoError(t, store.Delete(ctx, name))
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := store.Open(ctx, "nonexistent")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})
}
