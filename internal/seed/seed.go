// Package seed fills a catalog with sample records or with books imported
// from Open Library. Every record goes through the catalog's validated
// create workflow.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"unicode"

	"locallibrary/internal/catalog"
	"locallibrary/internal/entity"
	"locallibrary/internal/platform/openlibrary"
	"locallibrary/internal/validation"
)

// ErrRejected is returned when the catalog re-renders a form instead of
// creating the record.
var ErrRejected = errors.New("seed: submission rejected")

// Searcher finds books by subject.
type Searcher interface {
	SearchBooks(ctx context.Context, subject string, limit int) (*openlibrary.SearchResponse, error)
}

// Recorder counts created records per kind.
type Recorder interface {
	RecordImported(kind string, n int)
}

type nopRecorder struct{}

func (nopRecorder) RecordImported(string, int) {}

// Summary counts the records a run created.
type Summary struct {
	Authors       int
	Genres        int
	Books         int
	BookInstances int
}

func (s *Summary) add(o Summary) {
	s.Authors += o.Authors
	s.Genres += o.Genres
	s.Books += o.Books
	s.BookInstances += o.BookInstances
}

type Seeder struct {
	catalog  *catalog.Catalog
	logger   *slog.Logger
	recorder Recorder
}

type Option func(*Seeder)

func WithRecorder(r Recorder) Option {
	return func(s *Seeder) { s.recorder = r }
}

func New(cat *catalog.Catalog, logger *slog.Logger, opts ...Option) *Seeder {
	s := &Seeder{catalog: cat, logger: logger, recorder: nopRecorder{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Seeder) record(sum Summary) {
	s.recorder.RecordImported("author", sum.Authors)
	s.recorder.RecordImported("genre", sum.Genres)
	s.recorder.RecordImported("book", sum.Books)
	s.recorder.RecordImported("bookinstance", sum.BookInstances)
}

// created returns the id of the record an outcome redirected to.
func created[P any](out catalog.Outcome[P], err error) (string, error) {
	if err != nil {
		return "", err
	}
	if !out.Redirected() {
		return "", ErrRejected
	}
	return path.Base(out.Redirect), nil
}

func (s *Seeder) createAuthor(ctx context.Context, first, family, born, died string) (string, error) {
	id, err := created(s.catalog.Authors.Create(ctx, validation.Input{
		"firstName":   first,
		"familyName":  family,
		"dateOfBirth": born,
		"dateOfDeath": died,
	}))
	if err != nil {
		return "", fmt.Errorf("author %s %s: %w", first, family, err)
	}
	return id, nil
}

func (s *Seeder) createGenre(ctx context.Context, name string) (string, error) {
	id, err := created(s.catalog.Genres.Create(ctx, validation.Input{"name": name}))
	if err != nil {
		return "", fmt.Errorf("genre %s: %w", name, err)
	}
	return id, nil
}

func (s *Seeder) createBook(ctx context.Context, title, authorID, summary, isbn string, genreIDs []string) (string, error) {
	id, err := created(s.catalog.Books.Create(ctx, validation.Input{
		"title":   title,
		"author":  authorID,
		"summary": summary,
		"isbn":    isbn,
		"genre":   genreIDs,
	}))
	if err != nil {
		return "", fmt.Errorf("book %s: %w", title, err)
	}
	return id, nil
}

func (s *Seeder) createInstance(ctx context.Context, bookID, imprint string, status entity.Status, dueBack string) error {
	_, err := created(s.catalog.BookInstances.Create(ctx, validation.Input{
		"book":    bookID,
		"imprint": imprint,
		"status":  string(status),
		"dueBack": dueBack,
	}))
	if err != nil {
		return fmt.Errorf("copy of %s: %w", bookID, err)
	}
	return nil
}

// splitName turns a display name into first and family name parts the
// author form accepts. Characters other than letters and digits are
// dropped.
func splitName(name string) (first, family string) {
	keep := func(s string) string {
		return strings.Map(func(r rune) rune {
			if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
				return r
			}
			return -1
		}, s)
	}

	var parts []string
	for _, f := range strings.Fields(name) {
		if p := keep(f); p != "" {
			parts = append(parts, p)
		}
	}
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ""), parts[len(parts)-1]
}
