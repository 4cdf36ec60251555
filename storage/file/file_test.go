package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	vfs "github.com/hupe1980/formdb/internal/fs"
	"github.com/hupe1980/formdb/model"
	"github.com/hupe1980/formdb/storage/tsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = []model.Record{
	{Word: "run", Form: "past", Description: "ran"},
	{Word: "run", Form: "present", Description: "runs"},
	{Word: "go", Form: "past", Description: "went"},
}

func TestBackend_MissingFile(t *testing.T) {
	b := New(filepath.Join(t.TempDir(), "forms.tsv"))

	records, ok, err := b.ReadDump(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, records)
}

func TestBackend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "forms.tsv")
	b := New(path)

	require.NoError(t, b.SaveDump(ctx, sample))

	records, ok, err := b.ReadDump(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, sample, records)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file must not survive a save")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "word\tform\tdescription\nrun\tpast\tran\nrun\tpresent\truns\ngo\tpast\twent\n", string(data))
}

func TestBackend_SaveEmpty(t *testing.T) {
	ctx := context.Background()
	b := New(filepath.Join(t.TempDir(), "forms.tsv"))

	require.NoError(t, b.SaveDump(ctx, nil))

	records, ok, err := b.ReadDump(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, records)
}

func TestBackend_Compression(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, c := range []tsv.Compression{tsv.CompressionLZ4, tsv.CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			path := filepath.Join(dir, "forms.tsv"+c.Ext())
			require.NoError(t, New(path, WithCompression(c)).SaveDump(ctx, sample))

			// A reader without options detects the framing.
			records, ok, err := New(path).ReadDump(ctx)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, sample, records)
		})
	}
}

func TestBackend_Perm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forms.tsv")
	require.NoError(t, New(path, WithPerm(0o600)).SaveDump(context.Background(), sample))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm()&0o600)
	assert.Zero(t, fi.Mode().Perm()&0o077)
}

func TestBackend_CorruptDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forms.tsv")
	require.NoError(t, os.WriteFile(path, []byte("word\tform\tdescription\nrun\tpast\n"), 0o644))

	_, _, err := New(path).ReadDump(context.Background())
	assert.ErrorIs(t, err, tsv.ErrMalformed)
}

func TestBackend_FailedSaveKeepsPreviousDump(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "forms.tsv")

	faulty := vfs.NewFaultyFS(nil)
	b := New(path, WithFileSystem(faulty))
	require.NoError(t, b.SaveDump(ctx, sample))

	faults := map[string]vfs.Fault{
		"open":   {FailOnOpen: true},
		"write":  {FailOnWrite: true},
		"short":  {FailAfterBytes: 10},
		"sync":   {FailOnSync: true},
		"close":  {FailOnClose: true},
		"rename": {FailOnRename: true},
	}

	for name, fault := range faults {
		t.Run(name, func(t *testing.T) {
			faulty.Reset()
			faulty.AddRule("forms.tsv", fault)

			err := b.SaveDump(ctx, sample[:1])
			require.ErrorIs(t, err, vfs.ErrInjected)

			faulty.Reset()
			records, ok, err := b.ReadDump(ctx)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, sample, records)

			_, err = os.Stat(path + ".tmp")
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestBackend_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := New(filepath.Join(t.TempDir(), "forms.tsv"))
	assert.ErrorIs(t, b.SaveDump(ctx, sample), context.Canceled)
	_, _, err := b.ReadDump(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
