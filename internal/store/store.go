// Package store persists the four catalog entity kinds. Each kind gets a
// Repository with single-record operations only; nothing here spans records
// or kinds atomically.
package store

import (
	"context"
	"errors"

	"locallibrary/internal/entity"
)

var (
	// ErrNotFound is returned when an id does not name a stored record.
	ErrNotFound = errors.New("record not found")
	// ErrUnknownField is returned for filters or sorts on attributes the
	// kind does not expose.
	ErrUnknownField = errors.New("unknown field")
)

// Condition matches records whose attribute equals Value. Multi-valued
// attributes match when any element equals Value.
type Condition struct {
	Field string
	Value string
}

// Query filters and orders a List or Count call. The zero Query matches
// everything in store order.
type Query struct {
	Where []Condition
	Sort  string
}

// All matches every record.
func All() Query {
	return Query{}
}

// Where starts a query with one equality condition.
func Where(field, value string) Query {
	return Query{Where: []Condition{{Field: field, Value: value}}}
}

// And adds an equality condition.
func (q Query) And(field, value string) Query {
	q.Where = append(append([]Condition{}, q.Where...), Condition{Field: field, Value: value})
	return q
}

// SortBy orders results ascending by field.
func (q Query) SortBy(field string) Query {
	q.Sort = field
	return q
}

// Repository is the per-kind store contract.
type Repository[T any] interface {
	Get(ctx context.Context, id string) (T, error)
	List(ctx context.Context, q Query) ([]T, error)
	Count(ctx context.Context, q Query) (int, error)
	// Insert assigns a new id and returns it. Any id on the record is ignored.
	Insert(ctx context.Context, rec T) (string, error)
	// Replace overwrites the record stored at id and returns it with that id.
	Replace(ctx context.Context, id string, rec T) (T, error)
	Delete(ctx context.Context, id string) error
}

// Store groups the repositories of a backend.
type Store struct {
	Authors       Repository[entity.Author]
	Books         Repository[entity.Book]
	Genres        Repository[entity.Genre]
	BookInstances Repository[entity.BookInstance]

	ping func(ctx context.Context) error
}

// Ping checks that the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Filterable attributes per kind.
const (
	FieldFirstName  = "firstName"
	FieldFamilyName = "familyName"

	FieldTitle  = "title"
	FieldAuthor = "author"
	FieldGenre  = "genre"
	FieldISBN   = "isbn"

	FieldName = "name"

	FieldBook    = "book"
	FieldStatus  = "status"
	FieldImprint = "imprint"
)
