package catalog

import (
	"locallibrary/internal/entity"
	"locallibrary/internal/validation"
)

// Page view models. Each carries its title, its record or records, the
// auxiliary lists its form needs and any validation errors.

type AuthorListPage struct {
	Title   string          `json:"title"`
	Authors []entity.Author `json:"authors"`
}

type AuthorDetailPage struct {
	Title  string        `json:"title"`
	Author entity.Author `json:"author"`
	Books  []entity.Book `json:"books"`
}

type AuthorFormPage struct {
	Title  string                  `json:"title"`
	Author entity.Author           `json:"author"`
	Errors []validation.FieldError `json:"errors,omitempty"`
}

// AuthorDeletePage lists the books that keep the author from being deleted.
// Blocked is set when a delete was refused.
type AuthorDeletePage struct {
	Title   string        `json:"title"`
	Author  entity.Author `json:"author"`
	Books   []entity.Book `json:"books"`
	Blocked bool          `json:"blocked"`
}

// BookItem is a book with its author attached.
type BookItem struct {
	Book   entity.Book        `json:"book"`
	Author Ref[entity.Author] `json:"author"`
}

type BookListPage struct {
	Title string     `json:"title"`
	Books []BookItem `json:"books"`
}

type BookDetailPage struct {
	Title         string                `json:"title"`
	Book          entity.Book           `json:"book"`
	Author        Ref[entity.Author]    `json:"author"`
	Genres        []Ref[entity.Genre]   `json:"genres"`
	BookInstances []entity.BookInstance `json:"bookInstances"`
}

// GenreOption is a genre choice on the book form.
type GenreOption struct {
	Genre   entity.Genre `json:"genre"`
	Checked bool         `json:"checked"`
}

type BookFormPage struct {
	Title   string                  `json:"title"`
	Book    entity.Book             `json:"book"`
	Authors []entity.Author         `json:"authors"`
	Genres  []GenreOption           `json:"genres"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

type BookDeletePage struct {
	Title         string                `json:"title"`
	Book          entity.Book           `json:"book"`
	BookInstances []entity.BookInstance `json:"bookInstances"`
	Blocked       bool                  `json:"blocked"`
}

type GenreListPage struct {
	Title  string         `json:"title"`
	Genres []entity.Genre `json:"genres"`
}

type GenreDetailPage struct {
	Title string        `json:"title"`
	Genre entity.Genre  `json:"genre"`
	Books []entity.Book `json:"books"`
}

type GenreFormPage struct {
	Title  string                  `json:"title"`
	Genre  entity.Genre            `json:"genre"`
	Errors []validation.FieldError `json:"errors,omitempty"`
}

type GenreDeletePage struct {
	Title string       `json:"title"`
	Genre entity.Genre `json:"genre"`
}

// BookInstanceItem is a copy with its book attached.
type BookInstanceItem struct {
	BookInstance entity.BookInstance `json:"bookInstance"`
	Book         Ref[entity.Book]    `json:"book"`
}

type BookInstanceListPage struct {
	Title         string             `json:"title"`
	BookInstances []BookInstanceItem `json:"bookInstances"`
}

type BookInstanceDetailPage struct {
	Title        string              `json:"title"`
	BookInstance entity.BookInstance `json:"bookInstance"`
	Book         Ref[entity.Book]    `json:"book"`
}

type BookInstanceFormPage struct {
	Title        string                  `json:"title"`
	BookInstance entity.BookInstance     `json:"bookInstance"`
	Books        []entity.Book           `json:"books"`
	Statuses     []entity.Status         `json:"statuses"`
	Errors       []validation.FieldError `json:"errors,omitempty"`
}

type BookInstanceDeletePage struct {
	Title        string              `json:"title"`
	BookInstance entity.BookInstance `json:"bookInstance"`
	Book         Ref[entity.Book]    `json:"book"`
}

// genreOptions marks every genre the book references as checked.
func genreOptions(genres []entity.Genre, book entity.Book) []GenreOption {
	out := make([]GenreOption, len(genres))
	for i, g := range genres {
		out[i] = GenreOption{Genre: g, Checked: book.HasGenre(g.ID)}
	}
	return out
}
