// Package storage defines the persistence contract of a word-form store.
//
// A Backend holds one dump: the full, ordered list of records. The store
// reads it once at construction and replaces it after every mutation.
//
// Implementations:
//
//   - storage/file: a TSV file on a local file system
//   - storage/blob: a TSV object in any blobstore.BlobStore
//   - storage/sqlite: a table in a SQLite database
//   - MemoryBackend: in-process, for tests and scratch stores
package storage
