package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"locallibrary/internal/entity"

	"github.com/google/uuid"
)

// NewMemory returns a Store that keeps everything in process memory. Each
// call is serialized on its own; there is still no cross-call locking.
func NewMemory() *Store {
	return &Store{
		Authors:       newTable(authorKind),
		Books:         newTable(bookKind),
		Genres:        newTable(genreKind),
		BookInstances: newTable(bookInstanceKind),
	}
}

// kind tells a table how to read and copy records of one entity type.
type kind[T any] struct {
	name   string
	withID func(T, string) T
	clone  func(T) T
	fields map[string]func(T) []string
}

type table[T any] struct {
	kind kind[T]

	mu    sync.RWMutex
	rows  map[string]T
	order []string
}

var _ Repository[entity.Author] = (*table[entity.Author])(nil)

func newTable[T any](k kind[T]) *table[T] {
	return &table[T]{kind: k, rows: make(map[string]T)}
}

func (t *table[T]) Get(ctx context.Context, id string) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rec, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %s: %w", t.kind.name, id, ErrNotFound)
	}
	return t.kind.clone(rec), nil
}

func (t *table[T]) List(ctx context.Context, q Query) ([]T, error) {
	if err := t.check(q); err != nil {
		return nil, err
	}

	t.mu.RLock()
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		rec := t.rows[id]
		if t.matches(rec, q.Where) {
			out = append(out, t.kind.clone(rec))
		}
	}
	t.mu.RUnlock()

	if q.Sort != "" {
		key := t.kind.fields[q.Sort]
		sort.SliceStable(out, func(i, j int) bool {
			return first(key(out[i])) < first(key(out[j]))
		})
	}
	return out, nil
}

func (t *table[T]) Count(ctx context.Context, q Query) (int, error) {
	if err := t.check(q); err != nil {
		return 0, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for _, rec := range t.rows {
		if t.matches(rec, q.Where) {
			n++
		}
	}
	return n, nil
}

func (t *table[T]) Insert(ctx context.Context, rec T) (string, error) {
	id := uuid.NewString()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.rows[id] = t.kind.clone(t.kind.withID(rec, id))
	t.order = append(t.order, id)
	return id, nil
}

func (t *table[T]) Replace(ctx context.Context, id string, rec T) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		var zero T
		return zero, fmt.Errorf("%s %s: %w", t.kind.name, id, ErrNotFound)
	}
	rec = t.kind.withID(rec, id)
	t.rows[id] = t.kind.clone(rec)
	return t.kind.clone(rec), nil
}

func (t *table[T]) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return fmt.Errorf("%s %s: %w", t.kind.name, id, ErrNotFound)
	}
	delete(t.rows, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

func (t *table[T]) check(q Query) error {
	for _, c := range q.Where {
		if _, ok := t.kind.fields[c.Field]; !ok {
			return fmt.Errorf("%s filter %q: %w", t.kind.name, c.Field, ErrUnknownField)
		}
	}
	if q.Sort != "" {
		if _, ok := t.kind.fields[q.Sort]; !ok {
			return fmt.Errorf("%s sort %q: %w", t.kind.name, q.Sort, ErrUnknownField)
		}
	}
	return nil
}

func (t *table[T]) matches(rec T, where []Condition) bool {
	for _, c := range where {
		found := false
		for _, v := range t.kind.fields[c.Field](rec) {
			if v == c.Value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func one(s string) []string { return []string{s} }

func clonePtrTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

var authorKind = kind[entity.Author]{
	name:   "author",
	withID: func(a entity.Author, id string) entity.Author { a.ID = id; return a },
	clone: func(a entity.Author) entity.Author {
		a.DateOfBirth = clonePtrTime(a.DateOfBirth)
		a.DateOfDeath = clonePtrTime(a.DateOfDeath)
		return a
	},
	fields: map[string]func(entity.Author) []string{
		FieldFirstName:  func(a entity.Author) []string { return one(a.FirstName) },
		FieldFamilyName: func(a entity.Author) []string { return one(a.FamilyName) },
	},
}

var bookKind = kind[entity.Book]{
	name:   "book",
	withID: func(b entity.Book, id string) entity.Book { b.ID = id; return b },
	clone: func(b entity.Book) entity.Book {
		b.GenreIDs = append([]string{}, b.GenreIDs...)
		return b
	},
	fields: map[string]func(entity.Book) []string{
		FieldTitle:  func(b entity.Book) []string { return one(b.Title) },
		FieldAuthor: func(b entity.Book) []string { return one(b.AuthorID) },
		FieldGenre:  func(b entity.Book) []string { return b.GenreIDs },
		FieldISBN:   func(b entity.Book) []string { return one(b.ISBN) },
	},
}

var genreKind = kind[entity.Genre]{
	name:   "genre",
	withID: func(g entity.Genre, id string) entity.Genre { g.ID = id; return g },
	clone:  func(g entity.Genre) entity.Genre { return g },
	fields: map[string]func(entity.Genre) []string{
		FieldName: func(g entity.Genre) []string { return one(g.Name) },
	},
}

var bookInstanceKind = kind[entity.BookInstance]{
	name:   "book instance",
	withID: func(bi entity.BookInstance, id string) entity.BookInstance { bi.ID = id; return bi },
	clone:  func(bi entity.BookInstance) entity.BookInstance { return bi },
	fields: map[string]func(entity.BookInstance) []string{
		FieldBook:    func(bi entity.BookInstance) []string { return one(bi.BookID) },
		FieldStatus:  func(bi entity.BookInstance) []string { return one(string(bi.Status)) },
		FieldImprint: func(bi entity.BookInstance) []string { return one(bi.Imprint) },
	},
}
