package entity

import "time"

const (
	AuthorListPath       = "/catalog/authors"
	BookListPath         = "/catalog/books"
	GenreListPath        = "/catalog/genres"
	BookInstanceListPath = "/catalog/bookinstances"
)

const (
	// MediumDateLayout renders dates like "Oct 14, 1983".
	MediumDateLayout = "Jan 2, 2006"
	ISODateLayout    = "2006-01-02"
)

func AuthorPath(id string) string       { return "/catalog/author/" + id }
func BookPath(id string) string         { return "/catalog/book/" + id }
func GenrePath(id string) string        { return "/catalog/genre/" + id }
func BookInstancePath(id string) string { return "/catalog/bookInstance/" + id }

// FormatDate renders t in the medium layout. A nil or zero time yields "".
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(MediumDateLayout)
}

// ISODate renders t as YYYY-MM-DD. A nil or zero time yields "".
func ISODate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(ISODateLayout)
}
