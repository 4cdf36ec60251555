package formdb

import (
	"context"
	"sync"
)

// SyncStore serializes access to a Store with a single RWMutex.
// Reads share the lock; a write holds it across mutation and save.
type SyncStore struct {
	mu sync.RWMutex
	s  *Store
}

// NewSyncStore wraps s. s must not be used directly afterwards.
func NewSyncStore(s *Store) *SyncStore {
	return &SyncStore{s: s}
}

// SimilarWords is the synchronized form of Store.SimilarWords.
func (ss *SyncStore) SimilarWords(base string, count int) []string {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.s.SimilarWords(base, count)
}

// SimilarForms is the synchronized form of Store.SimilarForms.
func (ss *SyncStore) SimilarForms(word, base string, count int) []string {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.s.SimilarForms(word, base, count)
}

// UpdateWordForm is the synchronized form of Store.UpdateWordForm.
func (ss *SyncStore) UpdateWordForm(ctx context.Context, rec Record) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.s.UpdateWordForm(ctx, rec)
}

// DeleteWordForm is the synchronized form of Store.DeleteWordForm.
func (ss *SyncStore) DeleteWordForm(ctx context.Context, word, form string) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.s.DeleteWordForm(ctx, word, form)
}

// Lookup is the synchronized form of Store.Lookup.
func (ss *SyncStore) Lookup(word, form string) (Record, bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.s.Lookup(word, form)
}

// Words is the synchronized form of Store.Words.
func (ss *SyncStore) Words() []string {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.s.Words()
}

// Forms is the synchronized form of Store.Forms.
func (ss *SyncStore) Forms(word string) []string {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.s.Forms(word)
}

// Records is the synchronized form of Store.Records.
func (ss *SyncStore) Records() []Record {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.s.Records()
}

// Len is the synchronized form of Store.Len.
func (ss *SyncStore) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.s.Len()
}
