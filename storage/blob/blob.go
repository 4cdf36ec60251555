package blob

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/formdb/blobstore"
	"github.com/hupe1980/formdb/model"
	"github.com/hupe1980/formdb/storage"
	"github.com/hupe1980/formdb/storage/tsv"
)

// DefaultPrefix is the name prefix of dump objects.
const DefaultPrefix = "dumps/"

// DefaultSweepGrace is how old an unreferenced dump must be before a sweep
// deletes it. Younger ones may belong to a writer that has not committed yet.
const DefaultSweepGrace = time.Hour

// Options configures a Backend.
type Options struct {
	// Compression frames written dumps. Reads detect it on their own.
	Compression tsv.Compression
	// Prefix is prepended to dump object names. Default: DefaultPrefix.
	Prefix string
	// SweepGrace is the minimum age of an orphaned dump before it is
	// deleted. Default: DefaultSweepGrace.
	SweepGrace time.Duration
}

// WithCompression sets the compression of written dumps.
func WithCompression(c tsv.Compression) func(*Options) {
	return func(o *Options) { o.Compression = c }
}

// WithPrefix sets the name prefix of dump objects.
func WithPrefix(prefix string) func(*Options) {
	return func(o *Options) { o.Prefix = prefix }
}

// WithSweepGrace sets the minimum age of orphaned dumps that sweeps delete.
func WithSweepGrace(d time.Duration) func(*Options) {
	return func(o *Options) { o.SweepGrace = d }
}

// Backend implements storage.Backend on a blob store.
type Backend struct {
	store blobstore.BlobStore
	opts  Options
	now   func() time.Time
}

// New returns a backend that keeps its dumps in store.
func New(store blobstore.BlobStore, optFns ...func(*Options)) *Backend {
	opts := Options{
		Compression: tsv.CompressionNone,
		Prefix:      DefaultPrefix,
		SweepGrace:  DefaultSweepGrace,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Backend{store: store, opts: opts, now: time.Now}
}

// Current returns the name of the current dump object.
// ok is false if nothing was saved yet.
func (b *Backend) Current(ctx context.Context) (name string, ok bool, err error) {
	data, err := blobstore.Get(ctx, b.store, blobstore.CurrentName)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", blobstore.CurrentName, err)
	}

	name = strings.TrimSpace(string(data))
	if name == "" {
		return "", false, fmt.Errorf("%w: empty %s pointer", tsv.ErrMalformed, blobstore.CurrentName)
	}
	return name, true, nil
}

// ReadDump implements storage.Backend.
func (b *Backend) ReadDump(ctx context.Context) ([]model.Record, bool, error) {
	name, ok, err := b.Current(ctx)
	if err != nil || !ok {
		return nil, false, err
	}

	data, err := blobstore.Get(ctx, b.store, name)
	if err != nil {
		return nil, false, fmt.Errorf("read dump %s: %w", name, err)
	}

	records, err := tsv.Unmarshal(data)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", name, err)
	}
	return records, true, nil
}

// SaveDump implements storage.Backend.
//
// The dump is written under a fresh name and published through CURRENT.
// If publishing fails with anything but blobstore.ErrConcurrentModification
// the pointer may still have been written, so the new dump is kept and left
// to a later sweep.
func (b *Backend) SaveDump(ctx context.Context, records []model.Record) error {
	prev, _, err := b.Current(ctx)
	if err != nil {
		return err
	}

	data, err := tsv.Marshal(records, b.opts.Compression)
	if err != nil {
		return err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return err
	}

	name := b.opts.Prefix + id.String() + ".tsv" + b.opts.Compression.Ext()
	if err := b.store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("write dump %s: %w", name, err)
	}

	if err := b.store.Put(ctx, blobstore.CurrentName, []byte(name)); err != nil {
		if errors.Is(err, blobstore.ErrConcurrentModification) {
			_ = b.store.Delete(ctx, name)
		}
		return fmt.Errorf("commit dump %s: %w", name, err)
	}

	if prev != "" && prev != name {
		_ = b.store.Delete(ctx, prev)
	}
	_, _ = b.sweep(ctx, name)
	return nil
}

// Sweep deletes dumps that CURRENT does not name and that are older than
// the sweep grace. It returns the number of deleted dumps. Objects under
// the prefix that were not written by a Backend are left alone.
func (b *Backend) Sweep(ctx context.Context) (int, error) {
	current, _, err := b.Current(ctx)
	if err != nil {
		return 0, err
	}
	return b.sweep(ctx, current)
}

func (b *Backend) sweep(ctx context.Context, current string) (int, error) {
	names, err := b.store.List(ctx, b.opts.Prefix)
	if err != nil {
		return 0, fmt.Errorf("list dumps: %w", err)
	}

	cutoff := b.now().Add(-b.opts.SweepGrace)
	deleted := 0
	for _, name := range names {
		if name == current {
			continue
		}
		created, ok := dumpTime(strings.TrimPrefix(name, b.opts.Prefix))
		if !ok || !created.Before(cutoff) {
			continue
		}
		if err := b.store.Delete(ctx, name); err != nil {
			return deleted, fmt.Errorf("delete dump %s: %w", name, err)
		}
		deleted++
	}
	return deleted, nil
}

// dumpTime returns the creation time encoded in a dump name written by
// SaveDump ("<uuidv7>.tsv[.ext]").
func dumpTime(base string) (time.Time, bool) {
	stem, _, _ := strings.Cut(base, ".")
	id, err := uuid.Parse(stem)
	if err != nil || id.Version() != 7 {
		return time.Time{}, false
	}
	// The first 48 bits of a version 7 UUID are Unix milliseconds.
	ms := binary.BigEndian.Uint64(id[:8]) >> 16
	return time.UnixMilli(int64(ms)), true
}

var _ storage.Backend = (*Backend)(nil)
