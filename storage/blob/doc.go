// Package blob stores the dump as an object in a blobstore.BlobStore.
//
// Every save writes a new, uniquely named dump object and then points the
// CURRENT blob at it. Readers resolve CURRENT first, so they see either the
// old or the new dump and never a partial one. The previously current dump
// is deleted once the pointer has moved.
//
// With s3.DDBCommitStore the pointer update is a conditional write, which
// turns a lost update between two writers into ErrConcurrentModification.
package blob
