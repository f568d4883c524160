package store

import (
	"sync"

	"github.com/xhad/rasanlu/internal/models"
	"github.com/xhad/rasanlu/internal/types"
)

// Store owns the live Document. Every method holds one mutex for its whole
// duration, so operations are indivisible and linearizable. Records go in
// and come out as deep copies; callers never share memory with the live
// Document.
//
// Each successful mutation takes the next sequence number and is reported to
// the observer before the lock is released, so observers see events in
// commit order.
type Store struct {
	mu       sync.Mutex
	doc      models.Document
	seq      uint64
	observer func(types.Event)
}

// New creates a Store that takes ownership of doc.
func New(doc models.Document) *Store {
	doc.Normalize()
	return &Store{doc: doc}
}

// Snapshot returns a point-in-time deep copy of the Document.
func (s *Store) Snapshot() models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// SnapshotAt is Snapshot plus the sequence number of the last mutation the
// copy includes.
func (s *Store) SnapshotAt() (models.Document, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone(), s.seq
}

// Observe registers fn to receive one Event per successful mutation,
// replacing any earlier observer. fn runs with the store lock held; it must
// not block and must not call back into the Store.
func (s *Store) Observe(fn func(types.Event)) {
	s.mu.Lock()
	s.observer = fn
	s.mu.Unlock()
}

// Seq returns the sequence number of the last mutation.
func (s *Store) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// ReplaceDocument installs doc wholesale. It is meant for startup only.
func (s *Store) ReplaceDocument(doc models.Document) {
	doc.Normalize()
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
}

// Len returns the current length of collection c.
func (s *Store) Len(c models.Collection) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch c {
	case models.Examples:
		return len(s.doc.Examples)
	case models.RegexFeatures:
		return len(s.doc.RegexFeatures)
	case models.Synonyms:
		return len(s.doc.Synonyms)
	}
	return 0
}

func (s *Store) Examples() []models.Example {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneAll(s.doc.Examples)
}

// AppendExample adds ex at the end and returns its index.
func (s *Store) AppendExample(ex models.Example) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := appendAt(&s.doc.Examples, ex)
	s.notify(types.EventAppend, models.Examples, idx)
	return idx
}

func (s *Store) ReplaceExample(index int, ex models.Example) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := replaceAt(models.Examples, s.doc.Examples, index, ex); err != nil {
		return err
	}
	s.notify(types.EventReplace, models.Examples, index)
	return nil
}

func (s *Store) RemoveExample(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := removeAt(models.Examples, &s.doc.Examples, index); err != nil {
		return err
	}
	s.notify(types.EventRemove, models.Examples, index)
	return nil
}

func (s *Store) RegexFeatures() []models.RegexFeature {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneAll(s.doc.RegexFeatures)
}

func (s *Store) AppendRegexFeature(rf models.RegexFeature) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := appendAt(&s.doc.RegexFeatures, rf)
	s.notify(types.EventAppend, models.RegexFeatures, idx)
	return idx
}

func (s *Store) ReplaceRegexFeature(index int, rf models.RegexFeature) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := replaceAt(models.RegexFeatures, s.doc.RegexFeatures, index, rf); err != nil {
		return err
	}
	s.notify(types.EventReplace, models.RegexFeatures, index)
	return nil
}

func (s *Store) RemoveRegexFeature(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := removeAt(models.RegexFeatures, &s.doc.RegexFeatures, index); err != nil {
		return err
	}
	s.notify(types.EventRemove, models.RegexFeatures, index)
	return nil
}

func (s *Store) Synonyms() []models.Synonym {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneAll(s.doc.Synonyms)
}

func (s *Store) AppendSynonym(syn models.Synonym) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := appendAt(&s.doc.Synonyms, syn)
	s.notify(types.EventAppend, models.Synonyms, idx)
	return idx
}

func (s *Store) ReplaceSynonym(index int, syn models.Synonym) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := replaceAt(models.Synonyms, s.doc.Synonyms, index, syn); err != nil {
		return err
	}
	s.notify(types.EventReplace, models.Synonyms, index)
	return nil
}

func (s *Store) RemoveSynonym(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := removeAt(models.Synonyms, &s.doc.Synonyms, index); err != nil {
		return err
	}
	s.notify(types.EventRemove, models.Synonyms, index)
	return nil
}

// The helpers below must be called with s.mu held.

func (s *Store) notify(typ string, c models.Collection, index int) {
	s.seq++
	if s.observer != nil {
		s.observer(types.Event{Seq: s.seq, Type: typ, Collection: c.String(), Index: index})
	}
}

func appendAt[T models.Record[T]](items *[]T, item T) int {
	*items = append(*items, item.Clone())
	return len(*items) - 1
}

func checkIndex(c models.Collection, index, n int) error {
	if index < 0 || index >= n {
		return &IndexError{Collection: c, Index: index, Len: n}
	}
	return nil
}

// replaceAt overwrites the slot in place; positions of all other elements
// are unchanged.
func replaceAt[T models.Record[T]](c models.Collection, items []T, index int, item T) error {
	if err := checkIndex(c, index, len(items)); err != nil {
		return err
	}
	items[index] = item.Clone()
	return nil
}

// removeAt deletes the element and shifts every later element one
// position down.
func removeAt[T any](c models.Collection, items *[]T, index int) error {
	if err := checkIndex(c, index, len(*items)); err != nil {
		return err
	}
	s := *items
	copy(s[index:], s[index+1:])
	var zero T
	s[len(s)-1] = zero
	*items = s[:len(s)-1]
	return nil
}
