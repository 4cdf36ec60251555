package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/formdb/model"
	"github.com/hupe1980/formdb/storage/file"
	"github.com/hupe1980/formdb/storage/sqlite"
	"github.com/hupe1980/formdb/storage/tsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		raw  string
		want location
	}{
		{"forms.tsv", location{Scheme: "file", Path: "forms.tsv"}},
		{"/var/lib/formdb/forms.tsv", location{Scheme: "file", Path: "/var/lib/formdb/forms.tsv"}},
		{"file://data/forms.tsv.zst", location{Scheme: "file", Path: "data/forms.tsv.zst"}},
		{"sqlite:///tmp/forms.db", location{Scheme: "sqlite", Path: "/tmp/forms.db"}},
		{"s3://words", location{Scheme: "s3", Bucket: "words"}},
		{"s3://words/prod/en/", location{Scheme: "s3", Bucket: "words", Prefix: "prod/en"}},
		{"minio://localhost:9000/words", location{Scheme: "minio", Endpoint: "localhost:9000", Bucket: "words"}},
		{"minio://localhost:9000/words/prod", location{Scheme: "minio", Endpoint: "localhost:9000", Bucket: "words", Prefix: "prod"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseLocation(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLocationErrors(t *testing.T) {
	for _, raw := range []string{
		"",
		"file://",
		"sqlite://",
		"s3:///prefix",
		"minio://localhost:9000",
		"minio:///bucket",
		"ftp://host/forms.tsv",
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := parseLocation(raw)
			assert.Error(t, err)
		})
	}
}

func TestCompressionFor(t *testing.T) {
	tests := []struct {
		name    string
		loc     location
		setting string
		want    tsv.Compression
	}{
		{"PlainFile", location{Scheme: "file", Path: "forms.tsv"}, "", tsv.CompressionNone},
		{"ZstdSuffix", location{Scheme: "file", Path: "forms.tsv.zst"}, "", tsv.CompressionZSTD},
		{"LZ4Suffix", location{Scheme: "file", Path: "forms.tsv.lz4"}, "", tsv.CompressionLZ4},
		{"SettingWins", location{Scheme: "file", Path: "forms.tsv.zst"}, "lz4", tsv.CompressionLZ4},
		{"BlobDefault", location{Scheme: "s3", Bucket: "b"}, "", tsv.CompressionNone},
		{"BlobSetting", location{Scheme: "minio", Bucket: "b"}, "zstd", tsv.CompressionZSTD},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := compressionFor(tt.loc, tt.setting)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := compressionFor(location{Scheme: "file"}, "brotli")
	assert.Error(t, err)
}

func TestOpenBackendFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forms.tsv.zst")

	b, closeFn, err := openBackend(context.Background(), Config{Store: path})
	require.NoError(t, err)
	defer func() { require.NoError(t, closeFn()) }()

	fb, ok := b.(*file.Backend)
	require.True(t, ok)
	assert.Equal(t, path, fb.Path())

	rec := model.Record{Word: "run", Form: "past", Description: "ran"}
	require.NoError(t, b.SaveDump(context.Background(), []model.Record{rec}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x28, 0xb5, 0x2f, 0xfd}, data[:4])
}

func TestOpenBackendSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forms.db")

	b, closeFn, err := openBackend(context.Background(), Config{Store: "sqlite://" + path})
	require.NoError(t, err)

	_, ok := b.(*sqlite.Backend)
	require.True(t, ok)

	_, found, err := b.ReadDump(context.Background())
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, closeFn())
}

func TestOpenBackendErrors(t *testing.T) {
	_, _, err := openBackend(context.Background(), Config{})
	assert.Error(t, err)

	_, _, err = openBackend(context.Background(), Config{Store: "forms.tsv", Compression: "brotli"})
	assert.Error(t, err)
}
