package catalog

import (
	"context"
	"fmt"

	"locallibrary/internal/entity"
	"locallibrary/internal/store"
	"locallibrary/internal/validation"

	"golang.org/x/sync/errgroup"
)

const kindBook = "book"

// BookService handles book pages and mutations.
type BookService struct {
	*deps
}

// List returns every book by title with its author attached.
func (s *BookService) List(ctx context.Context) (BookListPage, error) {
	books, err := s.store.Books.List(ctx, store.All().SortBy(store.FieldTitle))
	if err != nil {
		return BookListPage{}, fmt.Errorf("list books: %w", err)
	}
	authors, err := resolveEach(ctx, s.store.Authors, books, func(b entity.Book) string { return b.AuthorID })
	if err != nil {
		return BookListPage{}, fmt.Errorf("resolve book authors: %w", err)
	}

	items := make([]BookItem, len(books))
	for i, b := range books {
		items[i] = BookItem{Book: b, Author: authors[i]}
	}
	return BookListPage{Title: "Book list", Books: items}, nil
}

// Detail returns the book with its author, genres and copies.
func (s *BookService) Detail(ctx context.Context, id string) (BookDetailPage, error) {
	chk, err := checkDependents(ctx, s.store.Books, id, s.store.BookInstances, store.FieldBook)
	if err != nil {
		return BookDetailPage{}, fmt.Errorf("book detail: %w", err)
	}
	if !chk.found {
		return BookDetailPage{}, notFound(kindBook, id)
	}
	book := chk.parent

	page := BookDetailPage{Title: book.Title, Book: book, BookInstances: chk.records}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		page.Author, err = ResolveOne(gctx, s.store.Authors, book.AuthorID)
		return err
	})
	g.Go(func() (err error) {
		page.Genres, err = Resolve(gctx, s.store.Genres, book.GenreIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return BookDetailPage{}, fmt.Errorf("resolve book references: %w", err)
	}
	return page, nil
}

func (s *BookService) CreateForm(ctx context.Context) (BookFormPage, error) {
	return s.form(ctx, "Create Book", entity.Book{}, nil)
}

func (s *BookService) Create(ctx context.Context, in validation.Input) (Outcome[BookFormPage], error) {
	book, res, err := s.candidate(ctx, in)
	if err != nil {
		return Outcome[BookFormPage]{}, err
	}
	if !res.Valid() {
		s.observe(kindBook, "create", OutcomeInvalid)
		page, err := s.form(ctx, "Create Book", book, res.Errors)
		return render(page), err
	}

	id, err := s.store.Books.Insert(ctx, book)
	if err != nil {
		return Outcome[BookFormPage]{}, fmt.Errorf("insert book: %w", err)
	}
	book.ID = id
	s.observe(kindBook, "create", OutcomeCreated)
	return redirect[BookFormPage](book.URL()), nil
}

// UpdateForm loads the book and the form options concurrently.
func (s *BookService) UpdateForm(ctx context.Context, id string) (BookFormPage, error) {
	var (
		book    entity.Book
		authors []entity.Author
		genres  []entity.Genre
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		book, err = s.store.Books.Get(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		authors, genres, err = loadBookOptions(gctx, s.deps)
		return err
	})
	err := g.Wait()
	if isNotFound(err) {
		return BookFormPage{}, notFound(kindBook, id)
	}
	if err != nil {
		return BookFormPage{}, fmt.Errorf("book update form: %w", err)
	}
	return BookFormPage{Title: "Update Book", Book: book, Authors: authors, Genres: genreOptions(genres, book)}, nil
}

// Update replaces the book at id. Any id in the submission is ignored.
func (s *BookService) Update(ctx context.Context, id string, in validation.Input) (Outcome[BookFormPage], error) {
	book, res, err := s.candidate(ctx, in)
	if err != nil {
		return Outcome[BookFormPage]{}, err
	}
	book.ID = id
	if !res.Valid() {
		s.observe(kindBook, "update", OutcomeInvalid)
		page, err := s.form(ctx, "Update Book", book, res.Errors)
		return render(page), err
	}

	updated, err := s.store.Books.Replace(ctx, id, book)
	if isNotFound(err) {
		s.observe(kindBook, "update", OutcomeNotFound)
		return Outcome[BookFormPage]{}, notFound(kindBook, id)
	}
	if err != nil {
		return Outcome[BookFormPage]{}, fmt.Errorf("replace book: %w", err)
	}
	s.observe(kindBook, "update", OutcomeUpdated)
	return redirect[BookFormPage](updated.URL()), nil
}

// DeleteForm shows the book and its copies. A missing book redirects to the
// book list.
func (s *BookService) DeleteForm(ctx context.Context, id string) (Outcome[BookDeletePage], error) {
	chk, err := checkDependents(ctx, s.store.Books, id, s.store.BookInstances, store.FieldBook)
	if err != nil {
		return Outcome[BookDeletePage]{}, fmt.Errorf("book delete form: %w", err)
	}
	if !chk.found {
		return redirect[BookDeletePage](entity.BookListPath), nil
	}
	return render(BookDeletePage{Title: "Delete Book", Book: chk.parent, BookInstances: chk.records}), nil
}

// Delete removes the book unless copies still reference it.
func (s *BookService) Delete(ctx context.Context, id string) (Outcome[BookDeletePage], error) {
	chk, blocked, err := guardedDelete(ctx, s.store.Books, id, s.store.BookInstances, store.FieldBook)
	if err != nil {
		return Outcome[BookDeletePage]{}, fmt.Errorf("delete book: %w", err)
	}
	switch {
	case blocked:
		s.observe(kindBook, "delete", OutcomeBlocked)
		return render(BookDeletePage{Title: "Delete Book", Book: chk.parent, BookInstances: chk.records, Blocked: true}), nil
	case !chk.found:
		s.observe(kindBook, "delete", OutcomeNotFound)
	default:
		s.observe(kindBook, "delete", OutcomeDeleted)
	}
	return redirect[BookDeletePage](entity.BookListPath), nil
}

// candidate validates the submission and checks that the author and every
// selected genre exist.
func (s *BookService) candidate(ctx context.Context, in validation.Input) (entity.Book, validation.Result, error) {
	res := validation.Run(bookSchema, in)
	book := bookFrom(res)
	if !res.HasError("author") {
		ref, err := ResolveOne(ctx, s.store.Authors, book.AuthorID)
		if err != nil {
			return book, res, fmt.Errorf("check book author: %w", err)
		}
		if !ref.Resolved {
			res.AddError("author", "Author not found.")
		}
	}

	genres, err := Resolve(ctx, s.store.Genres, book.GenreIDs)
	if err != nil {
		return book, res, fmt.Errorf("check book genres: %w", err)
	}
	for _, g := range genres {
		if !g.Resolved {
			res.AddError("genre", "Genre not found.")
			break
		}
	}
	return book, res, nil
}

// form builds the book form with freshly loaded option lists.
func (s *BookService) form(ctx context.Context, title string, book entity.Book, errs []validation.FieldError) (BookFormPage, error) {
	authors, genres, err := loadBookOptions(ctx, s.deps)
	if err != nil {
		return BookFormPage{}, fmt.Errorf("load book form options: %w", err)
	}
	return BookFormPage{
		Title:   title,
		Book:    book,
		Authors: authors,
		Genres:  genreOptions(genres, book),
		Errors:  errs,
	}, nil
}

// loadBookOptions returns authors by family name and genres by name.
func loadBookOptions(ctx context.Context, d *deps) ([]entity.Author, []entity.Genre, error) {
	var (
		authors []entity.Author
		genres  []entity.Genre
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		authors, err = d.store.Authors.List(gctx, store.All().SortBy(store.FieldFamilyName))
		return err
	})
	g.Go(func() (err error) {
		genres, err = d.store.Genres.List(gctx, store.All().SortBy(store.FieldName))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return authors, genres, nil
}
