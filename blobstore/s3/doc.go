// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("formdb/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	backend := blob.New(store)
//	db, err := formdb.New(ctx, backend)
//
// # Features
//
//   - CRC32C-checked single-request uploads for small dumps
//   - Multipart uploads through the transfer manager for large dumps
//   - Range reads and automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
//   - DDBCommitStore: DynamoDB conditional writes for the CURRENT pointer
package s3
