// Package file stores the dump as a TSV file on the local file system.
//
// Saves are atomic: the dump is written to "<path>.tmp", synced and renamed
// over the previous file. A failed save leaves the previous dump in place.
//
//	backend := file.New("forms.tsv", file.WithCompression(tsv.CompressionZSTD))
//	db, err := formdb.New(ctx, backend)
package file
