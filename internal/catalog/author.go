package catalog

import (
	"context"
	"fmt"

	"locallibrary/internal/entity"
	"locallibrary/internal/store"
	"locallibrary/internal/validation"
)

const kindAuthor = "author"

// AuthorService handles author pages and mutations.
type AuthorService struct {
	*deps
}

func (s *AuthorService) List(ctx context.Context) (AuthorListPage, error) {
	authors, err := s.store.Authors.List(ctx, store.All().SortBy(store.FieldFamilyName))
	if err != nil {
		return AuthorListPage{}, fmt.Errorf("list authors: %w", err)
	}
	return AuthorListPage{Title: "Author List", Authors: authors}, nil
}

// Detail returns the author with the books referencing it.
func (s *AuthorService) Detail(ctx context.Context, id string) (AuthorDetailPage, error) {
	chk, err := checkDependents(ctx, s.store.Authors, id, s.store.Books, store.FieldAuthor)
	if err != nil {
		return AuthorDetailPage{}, fmt.Errorf("author detail: %w", err)
	}
	if !chk.found {
		return AuthorDetailPage{}, notFound(kindAuthor, id)
	}
	return AuthorDetailPage{Title: "Author Detail", Author: chk.parent, Books: chk.records}, nil
}

func (s *AuthorService) CreateForm(ctx context.Context) (AuthorFormPage, error) {
	return AuthorFormPage{Title: "Create Author"}, nil
}

func (s *AuthorService) Create(ctx context.Context, in validation.Input) (Outcome[AuthorFormPage], error) {
	res := validation.Run(authorSchema, in)
	author := authorFrom(res)
	if !res.Valid() {
		s.observe(kindAuthor, "create", OutcomeInvalid)
		return render(AuthorFormPage{Title: "Create Author", Author: author, Errors: res.Errors}), nil
	}

	id, err := s.store.Authors.Insert(ctx, author)
	if err != nil {
		return Outcome[AuthorFormPage]{}, fmt.Errorf("insert author: %w", err)
	}
	author.ID = id
	s.observe(kindAuthor, "create", OutcomeCreated)
	return redirect[AuthorFormPage](author.URL()), nil
}

func (s *AuthorService) UpdateForm(ctx context.Context, id string) (AuthorFormPage, error) {
	author, err := s.store.Authors.Get(ctx, id)
	if isNotFound(err) {
		return AuthorFormPage{}, notFound(kindAuthor, id)
	}
	if err != nil {
		return AuthorFormPage{}, fmt.Errorf("get author: %w", err)
	}
	return AuthorFormPage{Title: "Update Author", Author: author}, nil
}

// Update replaces the author at id. Any id in the submission is ignored.
func (s *AuthorService) Update(ctx context.Context, id string, in validation.Input) (Outcome[AuthorFormPage], error) {
	res := validation.Run(authorSchema, in)
	author := authorFrom(res)
	author.ID = id
	if !res.Valid() {
		s.observe(kindAuthor, "update", OutcomeInvalid)
		return render(AuthorFormPage{Title: "Update Author", Author: author, Errors: res.Errors}), nil
	}

	updated, err := s.store.Authors.Replace(ctx, id, author)
	if isNotFound(err) {
		s.observe(kindAuthor, "update", OutcomeNotFound)
		return Outcome[AuthorFormPage]{}, notFound(kindAuthor, id)
	}
	if err != nil {
		return Outcome[AuthorFormPage]{}, fmt.Errorf("replace author: %w", err)
	}
	s.observe(kindAuthor, "update", OutcomeUpdated)
	return redirect[AuthorFormPage](updated.URL()), nil
}

// DeleteForm shows the author and its books. A missing author redirects to
// the author list.
func (s *AuthorService) DeleteForm(ctx context.Context, id string) (Outcome[AuthorDeletePage], error) {
	chk, err := checkDependents(ctx, s.store.Authors, id, s.store.Books, store.FieldAuthor)
	if err != nil {
		return Outcome[AuthorDeletePage]{}, fmt.Errorf("author delete form: %w", err)
	}
	if !chk.found {
		return redirect[AuthorDeletePage](entity.AuthorListPath), nil
	}
	return render(AuthorDeletePage{Title: "Delete Author", Author: chk.parent, Books: chk.records}), nil
}

// Delete removes the author unless books still reference it, in which case
// the delete page is rendered with every referencing book.
func (s *AuthorService) Delete(ctx context.Context, id string) (Outcome[AuthorDeletePage], error) {
	chk, blocked, err := guardedDelete(ctx, s.store.Authors, id, s.store.Books, store.FieldAuthor)
	if err != nil {
		return Outcome[AuthorDeletePage]{}, fmt.Errorf("delete author: %w", err)
	}
	switch {
	case blocked:
		s.observe(kindAuthor, "delete", OutcomeBlocked)
		return render(AuthorDeletePage{Title: "Delete Author", Author: chk.parent, Books: chk.records, Blocked: true}), nil
	case !chk.found:
		s.observe(kindAuthor, "delete", OutcomeNotFound)
	default:
		s.observe(kindAuthor, "delete", OutcomeDeleted)
	}
	return redirect[AuthorDeletePage](entity.AuthorListPath), nil
}
