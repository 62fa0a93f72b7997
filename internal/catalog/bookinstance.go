package catalog

import (
	"context"
	"fmt"

	"locallibrary/internal/entity"
	"locallibrary/internal/store"
	"locallibrary/internal/validation"

	"golang.org/x/sync/errgroup"
)

const kindBookInstance = "bookInstance"

// BookInstanceService handles pages and mutations of physical copies.
type BookInstanceService struct {
	*deps
}

// List returns every copy with its book attached.
func (s *BookInstanceService) List(ctx context.Context) (BookInstanceListPage, error) {
	instances, err := s.store.BookInstances.List(ctx, store.All())
	if err != nil {
		return BookInstanceListPage{}, fmt.Errorf("list book instances: %w", err)
	}
	books, err := resolveEach(ctx, s.store.Books, instances, func(bi entity.BookInstance) string { return bi.BookID })
	if err != nil {
		return BookInstanceListPage{}, fmt.Errorf("resolve book instance books: %w", err)
	}

	items := make([]BookInstanceItem, len(instances))
	for i, bi := range instances {
		items[i] = BookInstanceItem{BookInstance: bi, Book: books[i]}
	}
	return BookInstanceListPage{Title: "Book Instance List", BookInstances: items}, nil
}

func (s *BookInstanceService) Detail(ctx context.Context, id string) (BookInstanceDetailPage, error) {
	bi, book, err := s.withBook(ctx, id)
	if err != nil {
		return BookInstanceDetailPage{}, err
	}
	return BookInstanceDetailPage{Title: "Copy: " + book.Record.Title, BookInstance: bi, Book: book}, nil
}

func (s *BookInstanceService) CreateForm(ctx context.Context) (BookInstanceFormPage, error) {
	return s.form(ctx, "Create BookInstance", entity.BookInstance{}, nil)
}

func (s *BookInstanceService) Create(ctx context.Context, in validation.Input) (Outcome[BookInstanceFormPage], error) {
	bi, res, err := s.candidate(ctx, in)
	if err != nil {
		return Outcome[BookInstanceFormPage]{}, err
	}
	if !res.Valid() {
		s.observe(kindBookInstance, "create", OutcomeInvalid)
		page, err := s.form(ctx, "Create BookInstance", bi, res.Errors)
		return render(page), err
	}

	id, err := s.store.BookInstances.Insert(ctx, bi)
	if err != nil {
		return Outcome[BookInstanceFormPage]{}, fmt.Errorf("insert book instance: %w", err)
	}
	bi.ID = id
	s.observe(kindBookInstance, "create", OutcomeCreated)
	return redirect[BookInstanceFormPage](bi.URL()), nil
}

// UpdateForm loads the copy and the book options concurrently.
func (s *BookInstanceService) UpdateForm(ctx context.Context, id string) (BookInstanceFormPage, error) {
	var (
		bi    entity.BookInstance
		books []entity.Book
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		bi, err = s.store.BookInstances.Get(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		books, err = s.books(gctx)
		return err
	})
	err := g.Wait()
	if isNotFound(err) {
		return BookInstanceFormPage{}, notFound(kindBookInstance, id)
	}
	if err != nil {
		return BookInstanceFormPage{}, fmt.Errorf("book instance update form: %w", err)
	}
	return BookInstanceFormPage{Title: "Update Book Instance", BookInstance: bi, Books: books, Statuses: entity.Statuses}, nil
}

// Update replaces the copy at id. Any id in the submission is ignored.
func (s *BookInstanceService) Update(ctx context.Context, id string, in validation.Input) (Outcome[BookInstanceFormPage], error) {
	bi, res, err := s.candidate(ctx, in)
	if err != nil {
		return Outcome[BookInstanceFormPage]{}, err
	}
	bi.ID = id
	if !res.Valid() {
		s.observe(kindBookInstance, "update", OutcomeInvalid)
		page, err := s.form(ctx, "Update Book Instance", bi, res.Errors)
		return render(page), err
	}

	updated, err := s.store.BookInstances.Replace(ctx, id, bi)
	if isNotFound(err) {
		s.observe(kindBookInstance, "update", OutcomeNotFound)
		return Outcome[BookInstanceFormPage]{}, notFound(kindBookInstance, id)
	}
	if err != nil {
		return Outcome[BookInstanceFormPage]{}, fmt.Errorf("replace book instance: %w", err)
	}
	s.observe(kindBookInstance, "update", OutcomeUpdated)
	return redirect[BookInstanceFormPage](updated.URL()), nil
}

func (s *BookInstanceService) DeleteForm(ctx context.Context, id string) (Outcome[BookInstanceDeletePage], error) {
	bi, book, err := s.withBook(ctx, id)
	if isNotFound(err) {
		return redirect[BookInstanceDeletePage](entity.BookInstanceListPath), nil
	}
	if err != nil {
		return Outcome[BookInstanceDeletePage]{}, err
	}
	return render(BookInstanceDeletePage{Title: "Delete Book Instance", BookInstance: bi, Book: book}), nil
}

// Delete removes the copy. Nothing references copies, so there is no guard.
func (s *BookInstanceService) Delete(ctx context.Context, id string) (Outcome[BookInstanceDeletePage], error) {
	err := s.store.BookInstances.Delete(ctx, id)
	switch {
	case isNotFound(err):
		s.observe(kindBookInstance, "delete", OutcomeNotFound)
	case err != nil:
		return Outcome[BookInstanceDeletePage]{}, fmt.Errorf("delete book instance: %w", err)
	default:
		s.observe(kindBookInstance, "delete", OutcomeDeleted)
	}
	return redirect[BookInstanceDeletePage](entity.BookInstanceListPath), nil
}

func (s *BookInstanceService) withBook(ctx context.Context, id string) (entity.BookInstance, Ref[entity.Book], error) {
	bi, err := s.store.BookInstances.Get(ctx, id)
	if isNotFound(err) {
		return entity.BookInstance{}, Ref[entity.Book]{}, notFound(kindBookInstance, id)
	}
	if err != nil {
		return entity.BookInstance{}, Ref[entity.Book]{}, fmt.Errorf("get book instance: %w", err)
	}
	book, err := ResolveOne(ctx, s.store.Books, bi.BookID)
	if err != nil {
		return entity.BookInstance{}, Ref[entity.Book]{}, fmt.Errorf("resolve book instance book: %w", err)
	}
	return bi, book, nil
}

// candidate validates the submission, applies the status and due date
// defaults and checks that the book exists.
func (s *BookInstanceService) candidate(ctx context.Context, in validation.Input) (entity.BookInstance, validation.Result, error) {
	res := validation.Run(bookInstanceSchema, in)
	bi := bookInstanceFrom(res, s.now())
	if res.HasError("book") {
		return bi, res, nil
	}
	ref, err := ResolveOne(ctx, s.store.Books, bi.BookID)
	if err != nil {
		return bi, res, fmt.Errorf("check book instance book: %w", err)
	}
	if !ref.Resolved {
		res.AddError("book", "Book not found.")
	}
	return bi, res, nil
}

func (s *BookInstanceService) form(ctx context.Context, title string, bi entity.BookInstance, errs []validation.FieldError) (BookInstanceFormPage, error) {
	books, err := s.books(ctx)
	if err != nil {
		return BookInstanceFormPage{}, fmt.Errorf("load book instance form options: %w", err)
	}
	return BookInstanceFormPage{Title: title, BookInstance: bi, Books: books, Statuses: entity.Statuses, Errors: errs}, nil
}

func (s *BookInstanceService) books(ctx context.Context) ([]entity.Book, error) {
	return s.store.Books.List(ctx, store.All().SortBy(store.FieldTitle))
}
