// Package blobstore provides the object storage abstraction used to persist
// word-form dumps outside the local filesystem.
//
// A BlobStore holds named, immutable byte blobs. Writers replace a blob as a
// whole with Put; readers open a blob and read it through ReadAt.
//
// # Built-in Implementations
//
//   - LocalStore: Local directory, reads through mmap, atomic Put
//   - MemoryStore: In-process map, for tests and ephemeral stores
//   - s3.Store: Amazon S3 with CRC32C-checked uploads
//   - s3.DDBCommitStore: S3 plus a DynamoDB conditional-write CURRENT pointer
//   - minio.Store: MinIO and other S3-compatible servers
//
// # Custom Implementations
//
// Implement the BlobStore interface to support custom storage backends:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Open must return an error satisfying errors.Is(err, ErrNotFound) for a
// missing blob. Delete of a missing blob is not an error.
package blobstore
