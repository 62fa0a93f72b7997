package entity

// Book is a catalog title. AuthorID and GenreIDs are bare references; the
// catalog resolver attaches the records they point to.
type Book struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	ISBN     string   `json:"isbn"`
	AuthorID string   `json:"author"`
	GenreIDs []string `json:"genre"`
}

// URL returns the canonical path of the book.
func (b Book) URL() string {
	return BookPath(b.ID)
}

// HasGenre reports whether id is among the book's genre references.
func (b Book) HasGenre(id string) bool {
	for _, g := range b.GenreIDs {
		if g == id {
			return true
		}
	}
	return false
}
