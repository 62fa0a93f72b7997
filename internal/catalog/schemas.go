package catalog

import (
	"time"

	"locallibrary/internal/entity"
	"locallibrary/internal/validation"
)

const nameMaxLength = 100

var authorSchema = validation.Schema{
	{Name: "firstName", Rules: []validation.Rule{
		validation.Trim(),
		validation.Required("First name must be specified."),
		validation.MaxLength(nameMaxLength, "First name must be at most 100 characters."),
		validation.Escape(),
		validation.Alphanumeric("First name has non-alphanumeric characters."),
	}},
	{Name: "familyName", Rules: []validation.Rule{
		validation.Trim(),
		validation.Required("Family name must be specified."),
		validation.MaxLength(nameMaxLength, "Family name must be at most 100 characters."),
		validation.Escape(),
		validation.Alphanumeric("Family name has non-alphanumeric characters."),
	}},
	{Name: "dateOfBirth", Rules: []validation.Rule{validation.ISODate("Invalid date of birth")}},
	{Name: "dateOfDeath", Rules: []validation.Rule{validation.ISODate("Invalid date of death")}},
}

var bookSchema = validation.Schema{
	{Name: "title", Rules: required("Title must not be empty.")},
	{Name: "author", Rules: required("Author must not be empty.")},
	{Name: "summary", Rules: required("Summary must not be empty.")},
	{Name: "isbn", Rules: required("ISBN must not be empty.")},
	{Name: "genre", List: true, Rules: []validation.Rule{validation.Escape()}},
}

var genreSchema = validation.Schema{
	{Name: "name", Rules: []validation.Rule{
		validation.Trim(),
		validation.Required("Genre name required"),
		validation.MaxLength(nameMaxLength, "Genre name must be at most 100 characters."),
		validation.Escape(),
	}},
}

var bookInstanceSchema = validation.Schema{
	{Name: "book", Rules: required("Book instance must be specified")},
	{Name: "imprint", Rules: required("Imprint must be specified")},
	{Name: "status", Rules: []validation.Rule{
		validation.Escape(),
		validation.OneOf(statusNames(), "Invalid status"),
	}},
	{Name: "dueBack", Rules: []validation.Rule{validation.ISODate("Invalid date")}},
}

func required(msg string) []validation.Rule {
	return []validation.Rule{validation.Trim(), validation.Required(msg), validation.Escape()}
}

func statusNames() []string {
	out := make([]string, len(entity.Statuses))
	for i, s := range entity.Statuses {
		out[i] = string(s)
	}
	return out
}

func authorFrom(res validation.Result) entity.Author {
	return entity.Author{
		FirstName:   res.Value("firstName"),
		FamilyName:  res.Value("familyName"),
		DateOfBirth: optionalDate(res.Value("dateOfBirth")),
		DateOfDeath: optionalDate(res.Value("dateOfDeath")),
	}
}

func bookFrom(res validation.Result) entity.Book {
	return entity.Book{
		Title:    res.Value("title"),
		AuthorID: res.Value("author"),
		Summary:  res.Value("summary"),
		ISBN:     res.Value("isbn"),
		GenreIDs: distinct(res.List("genre")),
	}
}

// distinct drops repeated ids, keeping first occurrences in order.
func distinct(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func genreFrom(res validation.Result) entity.Genre {
	return entity.Genre{Name: res.Value("name")}
}

func bookInstanceFrom(res validation.Result, now time.Time) entity.BookInstance {
	bi := entity.BookInstance{
		BookID:  res.Value("book"),
		Imprint: res.Value("imprint"),
		Status:  entity.Status(res.Value("status")),
		DueBack: now,
	}
	if bi.Status == "" {
		bi.Status = entity.DefaultStatus
	}
	if d := optionalDate(res.Value("dueBack")); d != nil {
		bi.DueBack = *d
	} else if res.Value("dueBack") != "" {
		bi.DueBack = time.Time{}
	}
	return bi
}

// optionalDate returns nil for empty or unparseable values; the schema has
// already recorded an error for the latter.
func optionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := validation.ParseDate(s)
	if err != nil {
		return nil
	}
	return &t
}
