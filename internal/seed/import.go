package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"locallibrary/internal/entity"
	"locallibrary/internal/platform/openlibrary"
)

// Import searches Open Library for subject and creates a genre named after
// it, plus one book and one available copy per usable hit. Hits without a
// title, author or ISBN are skipped, as are hits the catalog rejects.
func (s *Seeder) Import(ctx context.Context, client Searcher, subject string, limit int) (Summary, error) {
	var sum Summary
	defer func() { s.record(sum) }()

	subject = strings.TrimSpace(subject)
	if subject == "" {
		return sum, fmt.Errorf("seed: subject is required")
	}

	res, err := client.SearchBooks(ctx, subject, limit)
	if err != nil {
		return sum, fmt.Errorf("search %q: %w", subject, err)
	}

	genreID, err := s.createGenre(ctx, subject)
	if err != nil {
		return sum, err
	}
	sum.Genres++

	authors := make(map[string]string)
	seen := make(map[string]bool)
	for _, doc := range res.Docs {
		got, err := s.importDoc(ctx, doc, genreID, authors, seen)
		sum.add(got)
		if errors.Is(err, ErrRejected) {
			s.logger.Warn("skipping open library record", "key", doc.Key, "error", err)
			continue
		}
		if err != nil {
			return sum, err
		}
	}

	s.logger.Info("open library import finished",
		"subject", subject,
		"found", res.NumFound,
		"books", sum.Books,
		"authors", sum.Authors,
	)
	return sum, nil
}

func (s *Seeder) importDoc(ctx context.Context, doc openlibrary.Doc, genreID string, authors map[string]string, seen map[string]bool) (Summary, error) {
	var sum Summary

	isbn := doc.PreferredISBN()
	if doc.Title == "" || len(doc.AuthorNames) == 0 || isbn == "" || seen[isbn] {
		return sum, nil
	}
	seen[isbn] = true

	name := doc.AuthorNames[0]
	authorID, ok := authors[name]
	if !ok {
		first, family := splitName(name)
		id, err := s.createAuthor(ctx, first, family, "", "")
		if err != nil {
			return sum, err
		}
		authors[name] = id
		authorID = id
		sum.Authors++
	}

	summary := "Imported from Open Library."
	if doc.FirstPublishYear > 0 {
		summary = fmt.Sprintf("First published in %d. Imported from Open Library.", doc.FirstPublishYear)
	}
	bookID, err := s.createBook(ctx, doc.Title, authorID, summary, isbn, []string{genreID})
	if err != nil {
		return sum, err
	}
	sum.Books++

	imprint := "Unknown imprint"
	if len(doc.Publishers) > 0 {
		imprint = doc.Publishers[0]
	}
	if err := s.createInstance(ctx, bookID, imprint, entity.StatusAvailable, ""); err != nil {
		return sum, err
	}
	sum.BookInstances++
	return sum, nil
}
