package mmap

import (
	"io"
	"os"
	"sync"
)

// Mapping is a read-only view of a file.
type Mapping struct {
	mu     sync.RWMutex
	data   []byte
	closed bool
	unmap  func([]byte) error
}

// Open maps the file at path. An empty file yields an empty mapping that
// holds no OS resources.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size == 0 {
		return &Mapping{}, nil
	}
	if int64(int(size)) != size {
		return nil, ErrTooLarge
	}

	data, unmap, err := osMap(f, int(size))
	if err != nil {
		return nil, &os.PathError{Op: "mmap", Path: path, Err: err}
	}
	// Advice only tunes read-ahead.
	_ = osAdviseSequential(data)

	return &Mapping{data: data, unmap: unmap}, nil
}

// Close releases the mapping. Calling it again is a no-op.
func (m *Mapping) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	data := m.data
	m.data = nil
	if m.unmap == nil || data == nil {
		return nil
	}
	return m.unmap(data)
}

// Bytes returns the mapped file, or nil after Close.
func (m *Mapping) Bytes() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data
}

// Len returns the mapped size in bytes. It is zero after Close.
func (m *Mapping) Len() int {
	return len(m.Bytes())
}

// ReadAt implements io.ReaderAt.
func (m *Mapping) ReadAt(p []byte, off int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	switch {
	case m.closed:
		return 0, ErrClosed
	case off < 0:
		return 0, ErrInvalidOffset
	case off >= int64(len(m.data)):
		return 0, io.EOF
	}

	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
