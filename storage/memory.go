package storage

import (
	"context"
	"sync"

	"github.com/hupe1980/formdb/model"
)

// MemoryBackend keeps the dump in process memory.
// It is safe for concurrent use.
type MemoryBackend struct {
	mu       sync.Mutex
	records  []model.Record
	saved    bool
	saves    int
	failNext error
}

// NewMemoryBackend returns an empty backend. If records are given they
// become the initial dump, as if they had been saved once.
func NewMemoryBackend(records ...model.Record) *MemoryBackend {
	m := &MemoryBackend{}
	if records != nil {
		m.records = append([]model.Record(nil), records...)
		m.saved = true
	}
	return m
}

// ReadDump implements Backend.
func (m *MemoryBackend) ReadDump(ctx context.Context) ([]model.Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.saved {
		return nil, false, nil
	}
	return append([]model.Record(nil), m.records...), true, nil
}

// SaveDump implements Backend.
func (m *MemoryBackend) SaveDump(ctx context.Context, records []model.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failNext; err != nil {
		m.failNext = nil
		return err
	}

	m.records = append(m.records[:0:0], records...)
	m.saved = true
	m.saves++
	return nil
}

// Saves returns the number of successful SaveDump calls.
func (m *MemoryBackend) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// FailNextSave makes the next SaveDump return err without saving.
func (m *MemoryBackend) FailNextSave(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

var _ Backend = (*MemoryBackend)(nil)
