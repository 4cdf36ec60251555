package formdb

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hupe1980/formdb/model"
	"github.com/hupe1980/formdb/storage"
)

// Record is one form of a word and its description.
type Record = model.Record

// Key is the (word, form) identity of a Record.
type Key = model.Key

// Store is an in-memory index of word forms, loaded from and written
// through to a storage.Backend.
//
// Store is not safe for concurrent use. Wrap it in a SyncStore to share it
// between goroutines.
type Store struct {
	backend storage.Backend
	idx     *index
	opts    options
}

// New loads the dump of backend and builds the index. A backend without a
// dump yields an empty store.
//
// New fails with *ErrDuplicateKey or *ErrInvalidRecord if the dump breaks
// the index rules, and with *StoreError if the backend cannot be read.
func New(ctx context.Context, backend storage.Backend, optFns ...Option) (*Store, error) {
	opts := applyOptions(optFns)
	if err := opts.weights.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	idx, found, err := load(ctx, backend)
	n := 0
	if idx != nil {
		n = idx.len()
	}
	opts.logger.LogLoad(ctx, n, found, err)
	opts.metricsCollector.RecordLoad(n, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return &Store{
		backend: backend,
		idx:     idx,
		opts:    opts,
	}, nil
}

func load(ctx context.Context, backend storage.Backend) (*index, bool, error) {
	records, ok, err := backend.ReadDump(ctx)
	if err != nil {
		return nil, false, &StoreError{Op: "load", Err: err}
	}
	if !ok {
		return newIndex(0), false, nil
	}

	idx, err := buildIndex(records)
	if err != nil {
		return nil, true, err
	}
	return idx, true, nil
}

// SimilarWords returns up to count distinct words ordered by ascending
// distance from base. Words at equal distance keep their first-seen order.
//
// SimilarWords panics if count is not positive.
func (s *Store) SimilarWords(base string, count int) []string {
	checkCount(count)

	start := time.Now()
	words := s.idx.words()
	result := s.rank(base, words, count)

	s.opts.logger.LogLookup("similar_words", base, count, len(words), len(result))
	s.opts.metricsCollector.RecordLookup(len(words), len(result), time.Since(start))
	return result
}

// SimilarForms returns up to count forms of word ordered by ascending
// distance from base. An unknown word yields an empty result.
//
// SimilarForms panics if count is not positive.
func (s *Store) SimilarForms(word, base string, count int) []string {
	checkCount(count)

	start := time.Now()
	forms, ok := s.idx.forms(word)
	if !ok {
		s.opts.logger.LogLookup("similar_forms", base, count, 0, 0)
		s.opts.metricsCollector.RecordLookup(0, 0, time.Since(start))
		return []string{}
	}
	result := s.rank(base, forms, count)

	s.opts.logger.LogLookup("similar_forms", base, count, len(forms), len(result))
	s.opts.metricsCollector.RecordLookup(len(forms), len(result), time.Since(start))
	return result
}

// UpdateWordForm inserts rec, or replaces the description of the record
// with the same key, and saves the whole index before returning.
//
// If the save fails the index is restored and a *StoreError is returned.
// UpdateWordForm panics if rec has an empty word or form.
func (s *Store) UpdateWordForm(ctx context.Context, rec Record) error {
	k := rec.Key()
	if err := k.Validate(); err != nil {
		panic(fmt.Errorf("formdb: update word form: %w", err))
	}

	start := time.Now()
	prev, existed := s.idx.put(rec)

	err := s.save(ctx)
	if err != nil {
		if existed {
			s.idx.put(prev)
		} else {
			s.idx.remove(k)
		}
		err = &StoreError{Op: "update", Err: err}
	}

	s.opts.logger.LogUpdate(ctx, k, !existed, err)
	s.opts.metricsCollector.RecordUpdate(!existed, time.Since(start), err)
	return err
}

// DeleteWordForm removes the record with key (word, form) and saves the
// whole index before returning. Deleting an absent key does nothing and
// does not save.
//
// If the save fails the record is restored and a *StoreError is returned.
// DeleteWordForm panics if word or form is empty.
func (s *Store) DeleteWordForm(ctx context.Context, word, form string) error {
	k := Key{Word: word, Form: form}
	if err := k.Validate(); err != nil {
		panic(fmt.Errorf("formdb: delete word form: %w", err))
	}

	start := time.Now()
	rec, pos, found := s.idx.remove(k)

	var err error
	if found {
		if err = s.save(ctx); err != nil {
			s.idx.insertAt(pos, rec)
			err = &StoreError{Op: "delete", Err: err}
		}
	}

	s.opts.logger.LogDelete(ctx, k, found, err)
	s.opts.metricsCollector.RecordDelete(found, time.Since(start), err)
	return err
}

// Lookup returns the record with key (word, form).
func (s *Store) Lookup(word, form string) (Record, bool) {
	return s.idx.get(Key{Word: word, Form: form})
}

// Words returns the distinct words in first-seen order.
func (s *Store) Words() []string {
	return s.idx.words()
}

// Forms returns the forms of word in index order, or nil for an unknown word.
func (s *Store) Forms(word string) []string {
	forms, _ := s.idx.forms(word)
	return slices.Clone(forms)
}

// Records returns a copy of all records in index order.
func (s *Store) Records() []Record {
	return s.idx.records()
}

// Len returns the number of records.
func (s *Store) Len() int {
	return s.idx.len()
}

func (s *Store) save(ctx context.Context) error {
	return s.backend.SaveDump(ctx, s.idx.records())
}
