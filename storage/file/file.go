package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	vfs "github.com/hupe1980/formdb/internal/fs"
	"github.com/hupe1980/formdb/model"
	"github.com/hupe1980/formdb/storage"
	"github.com/hupe1980/formdb/storage/tsv"
)

// Options configures a Backend.
type Options struct {
	// Compression frames written dumps. Reads detect it on their own.
	Compression tsv.Compression
	// FileSystem performs all file operations. Default: the local file system.
	FileSystem vfs.FileSystem
	// Perm is the permission of the dump file. Default: 0644.
	Perm os.FileMode
}

// WithCompression sets the compression of written dumps.
func WithCompression(c tsv.Compression) func(*Options) {
	return func(o *Options) { o.Compression = c }
}

// WithFileSystem replaces the file system, e.g. with a fault injecting one.
func WithFileSystem(fsys vfs.FileSystem) func(*Options) {
	return func(o *Options) { o.FileSystem = fsys }
}

// WithPerm sets the permission of the dump file.
func WithPerm(perm os.FileMode) func(*Options) {
	return func(o *Options) { o.Perm = perm }
}

// Backend implements storage.Backend on a single file.
type Backend struct {
	path string
	opts Options
}

// New returns a backend for the dump at path. The file need not exist.
func New(path string, optFns ...func(*Options)) *Backend {
	opts := Options{
		Compression: tsv.CompressionNone,
		FileSystem:  vfs.Default,
		Perm:        0o644,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.FileSystem == nil {
		opts.FileSystem = vfs.Default
	}

	return &Backend{path: path, opts: opts}
}

// Path returns the dump location.
func (b *Backend) Path() string {
	return b.path
}

// ReadDump implements storage.Backend.
func (b *Backend) ReadDump(ctx context.Context) ([]model.Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	data, err := vfs.ReadFile(b.opts.FileSystem, b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}

	records, err := tsv.Unmarshal(data)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", b.path, err)
	}
	return records, true, nil
}

// SaveDump implements storage.Backend.
func (b *Backend) SaveDump(ctx context.Context, records []model.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := tsv.Marshal(records, b.opts.Compression)
	if err != nil {
		return err
	}

	fsys := b.opts.FileSystem
	if dir := filepath.Dir(b.path); dir != "." {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := b.path + ".tmp"
	f, err := fsys.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, b.opts.Perm)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = fsys.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = fsys.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = fsys.Remove(tmp)
		return err
	}

	if err := fsys.Rename(tmp, b.path); err != nil {
		_ = fsys.Remove(tmp)
		return err
	}
	return nil
}

var _ storage.Backend = (*Backend)(nil)
