package main

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/formdb/blobstore"
	"github.com/hupe1980/formdb/blobstore/minio"
	"github.com/hupe1980/formdb/blobstore/s3"
	"github.com/hupe1980/formdb/storage"
	"github.com/hupe1980/formdb/storage/blob"
	"github.com/hupe1980/formdb/storage/file"
	"github.com/hupe1980/formdb/storage/sqlite"
	"github.com/hupe1980/formdb/storage/tsv"
)

// location is a parsed storage URL.
type location struct {
	Scheme   string // file, sqlite, s3 or minio
	Path     string // file and sqlite
	Endpoint string // minio
	Bucket   string // s3 and minio
	Prefix   string // s3 and minio
}

// parseLocation parses a storage URL:
//
//	forms.tsv, file://forms.tsv.zst
//	sqlite://forms.db
//	s3://bucket/prefix
//	minio://host:9000/bucket/prefix
func parseLocation(raw string) (location, error) {
	if raw == "" {
		return location{}, fmt.Errorf("no store configured: use --store or the store config key")
	}

	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return location{Scheme: "file", Path: raw}, nil
	}

	switch scheme {
	case "file", "sqlite":
		if rest == "" {
			return location{}, fmt.Errorf("%s store: empty path", scheme)
		}
		return location{Scheme: scheme, Path: rest}, nil
	case "s3":
		u, err := url.Parse(raw)
		if err != nil {
			return location{}, err
		}
		if u.Host == "" {
			return location{}, fmt.Errorf("s3 store: missing bucket in %q", raw)
		}
		return location{Scheme: scheme, Bucket: u.Host, Prefix: strings.Trim(u.Path, "/")}, nil
	case "minio":
		u, err := url.Parse(raw)
		if err != nil {
			return location{}, err
		}
		bucket, prefix, _ := strings.Cut(strings.Trim(u.Path, "/"), "/")
		if u.Host == "" || bucket == "" {
			return location{}, fmt.Errorf("minio store: want minio://endpoint/bucket[/prefix], got %q", raw)
		}
		return location{Scheme: scheme, Endpoint: u.Host, Bucket: bucket, Prefix: prefix}, nil
	default:
		return location{}, fmt.Errorf("unsupported store scheme %q", scheme)
	}
}

// compressionFor resolves the compression of a store: an explicit setting
// wins, file stores otherwise go by their suffix.
func compressionFor(loc location, setting string) (tsv.Compression, error) {
	if setting != "" {
		return tsv.ParseCompression(setting)
	}
	if loc.Scheme == "file" {
		switch path.Ext(loc.Path) {
		case ".zst":
			return tsv.CompressionZSTD, nil
		case ".lz4":
			return tsv.CompressionLZ4, nil
		}
	}
	return tsv.CompressionNone, nil
}

func nopClose() error { return nil }

// openBackend opens the backend named by cfg.Store. The returned function
// releases it.
func openBackend(ctx context.Context, cfg Config) (storage.Backend, func() error, error) {
	loc, err := parseLocation(cfg.Store)
	if err != nil {
		return nil, nil, err
	}

	comp, err := compressionFor(loc, cfg.Compression)
	if err != nil {
		return nil, nil, err
	}

	switch loc.Scheme {
	case "file":
		return file.New(loc.Path, file.WithCompression(comp)), nopClose, nil
	case "sqlite":
		b, err := sqlite.Open(loc.Path)
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil
	case "s3":
		store, err := openS3(ctx, loc, cfg.S3)
		if err != nil {
			return nil, nil, err
		}
		return blob.New(store, blob.WithCompression(comp)), nopClose, nil
	case "minio":
		store, err := minio.Dial(ctx, minio.Config{
			Endpoint:  loc.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Secure:    cfg.MinIO.Secure,
			Region:    cfg.MinIO.Region,
		}, loc.Bucket, loc.Prefix)
		if err != nil {
			return nil, nil, err
		}
		return blob.New(store, blob.WithCompression(comp)), nopClose, nil
	}
	return nil, nil, fmt.Errorf("unsupported store scheme %q", loc.Scheme)
}

func openS3(ctx context.Context, loc location, cfg S3Config) (blobstore.BlobStore, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	store := s3.NewStore(awss3.NewFromConfig(awsCfg), loc.Bucket, loc.Prefix)
	if cfg.DDBTable == "" {
		return store, nil
	}

	baseURI := "s3://" + path.Join(loc.Bucket, loc.Prefix)
	return s3.NewDDBCommitStore(store, dynamodb.NewFromConfig(awsCfg), cfg.DDBTable, baseURI), nil
}
