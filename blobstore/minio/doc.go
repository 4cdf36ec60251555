// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works against MinIO and other S3-compatible systems such as Ceph,
// SeaweedFS and Garage without pulling in the AWS SDK.
//
// # Basic Usage
//
//	store, err := minio.Dial(ctx, minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	}, "forms", "dictionary/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	db, err := formdb.New(ctx, blob.New(store))
//
// Dial creates the bucket when it does not exist yet. Use NewStore to wrap
// an already configured *minio.Client.
package minio
