// Package formdb provides an embedded word-form datastore with fuzzy lookup.
//
// A Store holds records of the form (word, form) -> description, keyed
// uniquely by (word, form). It is loaded once from a storage.Backend and
// every mutation is written through to that backend before it returns.
//
// # Quick Start
//
//	ctx := context.Background()
//	db, err := formdb.New(ctx, file.New("forms.tsv"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	_ = db.UpdateWordForm(ctx, formdb.Record{Word: "run", Form: "past", Description: "ran"})
//	_ = db.UpdateWordForm(ctx, formdb.Record{Word: "run", Form: "present", Description: "runs"})
//
//	db.SimilarWords("rum", 3)        // ["run"]
//	db.SimilarForms("run", "pas", 5) // ["past", "present"]
//
// # Ranking
//
// Lookups rank candidates by a weighted edit distance that transforms the
// query into the candidate: an insertion costs 1, a deletion 5 and a
// substitution 2 (see WithWeights). A query that is a prefix of a candidate
// therefore ranks the candidate high. At most count results are returned,
// closest first; candidates at equal distance keep the order in which the
// store first saw them.
//
// # Storage
//
// Backends live in the storage packages:
//
//   - storage/file: a TSV file, optionally zstd or lz4 compressed
//   - storage/blob: a TSV object in local, S3, S3+DynamoDB or MinIO blob storage
//   - storage/sqlite: a SQLite table
//   - storage.MemoryBackend: process memory
//
// A failed save leaves the store unchanged and returns a *StoreError.
//
// # Concurrency
//
// Store is not safe for concurrent use. NewSyncStore wraps a Store with a
// read-write lock for shared use.
package formdb
