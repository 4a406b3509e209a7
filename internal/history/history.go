// Package history provides the persistent collection manager shared by
// the chat, quiz, summary, and study-plan histories. A collection is an
// ordered list (newest first) stored as one JSON document; every mutation
// rewrites the whole document.
package history

import (
	"fmt"

	"github.com/edumind/edumind/internal/store"
)

// Record is any entry addressable by a stable id.
type Record interface {
	RecordID() string
}

// Store manages one persisted collection of T under a fixed key.
type Store[T Record] struct {
	kv    *store.Store
	key   string
	items []T
}

// New loads the collection stored under key. An absent key or an
// unparseable stored document yields an empty collection.
func New[T Record](kv *store.Store, key string) *Store[T] {
	s := &Store[T]{kv: kv, key: key}
	var items []T
	if err := kv.GetJSON(key, &items); err == nil {
		s.items = items
	}
	return s
}

// Append inserts r at the head (newest first) and persists.
func (s *Store[T]) Append(r T) error {
	s.items = append([]T{r}, s.items...)
	return s.persist()
}

// Upsert replaces the entry with r's id in place, preserving its
// position. When no entry matches, r is inserted at the head.
func (s *Store[T]) Upsert(r T) error {
	for i, it := range s.items {
		if it.RecordID() == r.RecordID() {
			s.items[i] = r
			return s.persist()
		}
	}
	return s.Append(r)
}

// ClearAll removes every entry and deletes the stored document.
func (s *Store[T]) ClearAll() error {
	s.items = nil
	if err := s.kv.Delete(s.key); err != nil {
		return fmt.Errorf("clear %s: %w", s.key, err)
	}
	return nil
}

// Get returns the entry with the given id.
func (s *Store[T]) Get(id string) (T, bool) {
	for _, it := range s.items {
		if it.RecordID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Items returns the entries newest first. Callers must not mutate
// the returned slice.
func (s *Store[T]) Items() []T {
	return s.items
}

// Len returns the number of entries.
func (s *Store[T]) Len() int {
	return len(s.items)
}

func (s *Store[T]) persist() error {
	if err := s.kv.PutJSON(s.key, s.items); err != nil {
		return fmt.Errorf("persist %s: %w", s.key, err)
	}
	return nil
}
