package catalog

import (
	"context"
	"fmt"

	"locallibrary/internal/entity"
	"locallibrary/internal/store"
	"locallibrary/internal/validation"
)

const kindGenre = "genre"

// GenreService handles genre pages and mutations. Genres have no deletion
// guard.
type GenreService struct {
	*deps
}

func (s *GenreService) List(ctx context.Context) (GenreListPage, error) {
	genres, err := s.store.Genres.List(ctx, store.All().SortBy(store.FieldName))
	if err != nil {
		return GenreListPage{}, fmt.Errorf("list genres: %w", err)
	}
	return GenreListPage{Title: "Genre List", Genres: genres}, nil
}

// Detail returns the genre with the books in it.
func (s *GenreService) Detail(ctx context.Context, id string) (GenreDetailPage, error) {
	chk, err := checkDependents(ctx, s.store.Genres, id, s.store.Books, store.FieldGenre)
	if err != nil {
		return GenreDetailPage{}, fmt.Errorf("genre detail: %w", err)
	}
	if !chk.found {
		return GenreDetailPage{}, notFound(kindGenre, id)
	}
	return GenreDetailPage{Title: "Genre Detail", Genre: chk.parent, Books: chk.records}, nil
}

func (s *GenreService) CreateForm(ctx context.Context) (GenreFormPage, error) {
	return GenreFormPage{Title: "Create Genre"}, nil
}

func (s *GenreService) Create(ctx context.Context, in validation.Input) (Outcome[GenreFormPage], error) {
	res := validation.Run(genreSchema, in)
	genre := genreFrom(res)
	if !res.Valid() {
		s.observe(kindGenre, "create", OutcomeInvalid)
		return render(GenreFormPage{Title: "Create Genre", Genre: genre, Errors: res.Errors}), nil
	}

	id, err := s.store.Genres.Insert(ctx, genre)
	if err != nil {
		return Outcome[GenreFormPage]{}, fmt.Errorf("insert genre: %w", err)
	}
	genre.ID = id
	s.observe(kindGenre, "create", OutcomeCreated)
	return redirect[GenreFormPage](genre.URL()), nil
}

func (s *GenreService) UpdateForm(ctx context.Context, id string) (GenreFormPage, error) {
	genre, err := s.store.Genres.Get(ctx, id)
	if isNotFound(err) {
		return GenreFormPage{}, notFound(kindGenre, id)
	}
	if err != nil {
		return GenreFormPage{}, fmt.Errorf("get genre: %w", err)
	}
	return GenreFormPage{Title: "Update Genre", Genre: genre}, nil
}

func (s *GenreService) Update(ctx context.Context, id string, in validation.Input) (Outcome[GenreFormPage], error) {
	res := validation.Run(genreSchema, in)
	genre := genreFrom(res)
	genre.ID = id
	if !res.Valid() {
		s.observe(kindGenre, "update", OutcomeInvalid)
		return render(GenreFormPage{Title: "Update Genre", Genre: genre, Errors: res.Errors}), nil
	}

	updated, err := s.store.Genres.Replace(ctx, id, genre)
	if isNotFound(err) {
		s.observe(kindGenre, "update", OutcomeNotFound)
		return Outcome[GenreFormPage]{}, notFound(kindGenre, id)
	}
	if err != nil {
		return Outcome[GenreFormPage]{}, fmt.Errorf("replace genre: %w", err)
	}
	s.observe(kindGenre, "update", OutcomeUpdated)
	return redirect[GenreFormPage](updated.URL()), nil
}

func (s *GenreService) DeleteForm(ctx context.Context, id string) (Outcome[GenreDeletePage], error) {
	genre, err := s.store.Genres.Get(ctx, id)
	if isNotFound(err) {
		return redirect[GenreDeletePage](entity.GenreListPath), nil
	}
	if err != nil {
		return Outcome[GenreDeletePage]{}, fmt.Errorf("get genre: %w", err)
	}
	return render(GenreDeletePage{Title: "Delete Genre", Genre: genre}), nil
}

// Delete removes the genre. Books keep their reference to it; the resolver
// reports it as unresolved afterwards.
func (s *GenreService) Delete(ctx context.Context, id string) (Outcome[GenreDeletePage], error) {
	err := s.store.Genres.Delete(ctx, id)
	switch {
	case isNotFound(err):
		s.observe(kindGenre, "delete", OutcomeNotFound)
	case err != nil:
		return Outcome[GenreDeletePage]{}, fmt.Errorf("delete genre: %w", err)
	default:
		s.observe(kindGenre, "delete", OutcomeDeleted)
	}
	return redirect[GenreDeletePage](entity.GenreListPath), nil
}
