// Package tsv encodes and decodes the dump format shared by the file and
// blob backends.
//
// A dump is UTF-8 text: a header row followed by one tab separated row per
// record.
//
//	word	form	description
//	run	past	ran
//	run	present	runs
//
// Fields that contain a tab, a line break or a double quote are quoted and
// embedded quotes are doubled. Columns are matched by header name, so
// column order and additional columns do not matter. The legacy header names
// __word__, __form__ and __desc__ are accepted on read.
//
// A dump may be wrapped in a zstd or lz4 frame. Decode recognizes either by
// its magic number.
package tsv
