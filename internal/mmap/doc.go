// Package mmap maps dump files read-only into memory.
//
// A dump is always decoded front to back, so Open asks the kernel for
// sequential read-ahead on platforms that support it. Windows maps the
// view without advice.
//
//	m, err := mmap.Open("dumps/0a1b.tsv.zst")
//	if err != nil { ... }
//	defer m.Close()
//	records, err := tsv.Unmarshal(m.Bytes())
//
// Bytes must not be used after Close.
package mmap
