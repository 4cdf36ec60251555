package formdb

import (
	"slices"
)

// index is the ordered, uniquely keyed record set of a Store.
//
// entries holds the records in index order. pos maps each key to its
// position in entries. groups maps each word to its forms, in index order.
type index struct {
	entries []Record
	pos     map[Key]int
	groups  map[string][]string
}

func newIndex(capacity int) *index {
	return &index{
		entries: make([]Record, 0, capacity),
		pos:     make(map[Key]int, capacity),
		groups:  make(map[string][]string),
	}
}

// buildIndex loads records in dump order. It never merges duplicates.
func buildIndex(records []Record) (*index, error) {
	idx := newIndex(len(records))
	for i, r := range records {
		k := r.Key()
		if err := k.Validate(); err != nil {
			return nil, &ErrInvalidRecord{Row: i, Record: r, cause: err}
		}
		if _, ok := idx.pos[k]; ok {
			return nil, &ErrDuplicateKey{Word: r.Word, Form: r.Form}
		}
		idx.append(r)
	}
	return idx, nil
}

func (idx *index) len() int { return len(idx.entries) }

func (idx *index) get(k Key) (Record, bool) {
	i, ok := idx.pos[k]
	if !ok {
		return Record{}, false
	}
	return idx.entries[i], true
}

func (idx *index) append(r Record) {
	k := r.Key()
	idx.pos[k] = len(idx.entries)
	idx.entries = append(idx.entries, r)
	idx.groups[r.Word] = append(idx.groups[r.Word], r.Form)
}

// put inserts r or replaces the record with the same key in place.
// It returns the replaced record, if any.
func (idx *index) put(r Record) (prev Record, existed bool) {
	if i, ok := idx.pos[r.Key()]; ok {
		prev = idx.entries[i]
		idx.entries[i] = r
		return prev, true
	}
	idx.append(r)
	return Record{}, false
}

// remove deletes the record with key k and returns it with its former
// position.
func (idx *index) remove(k Key) (Record, int, bool) {
	i, ok := idx.pos[k]
	if !ok {
		return Record{}, -1, false
	}

	r := idx.entries[i]
	idx.entries = slices.Delete(idx.entries, i, i+1)
	delete(idx.pos, k)
	for j := i; j < len(idx.entries); j++ {
		idx.pos[idx.entries[j].Key()] = j
	}

	forms := idx.groups[k.Word]
	if len(forms) == 1 {
		delete(idx.groups, k.Word)
	} else if fi := slices.Index(forms, k.Form); fi >= 0 {
		idx.groups[k.Word] = slices.Delete(forms, fi, fi+1)
	}
	return r, i, true
}

// insertAt puts r back at position i. It undoes remove.
func (idx *index) insertAt(i int, r Record) {
	idx.entries = slices.Insert(idx.entries, i, r)
	for j := i; j < len(idx.entries); j++ {
		idx.pos[idx.entries[j].Key()] = j
	}

	var forms []string
	for _, e := range idx.entries {
		if e.Word == r.Word {
			forms = append(forms, e.Form)
		}
	}
	idx.groups[r.Word] = forms
}

// words returns the distinct words in first-seen order.
func (idx *index) words() []string {
	words := make([]string, 0, len(idx.groups))
	seen := make(map[string]struct{}, len(idx.groups))
	for _, e := range idx.entries {
		if _, ok := seen[e.Word]; ok {
			continue
		}
		seen[e.Word] = struct{}{}
		words = append(words, e.Word)
	}
	return words
}

// forms returns the forms of word in index order. The slice is shared.
func (idx *index) forms(word string) ([]string, bool) {
	forms, ok := idx.groups[word]
	return forms, ok
}

func (idx *index) records() []Record {
	return slices.Clone(idx.entries)
}
