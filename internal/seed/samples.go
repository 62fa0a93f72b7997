package seed

import (
	"context"

	"locallibrary/internal/entity"
)

type sampleAuthor struct {
	first, family, born, died string
}

type sampleBook struct {
	title, summary, isbn string
	author               int
	genres               []int
	copies               []sampleCopy
}

type sampleCopy struct {
	imprint string
	status  entity.Status
	dueBack string
}

var sampleAuthors = []sampleAuthor{
	{"Patrick", "Rothfuss", "1973-06-06", ""},
	{"Ben", "Bova", "1932-11-08", ""},
	{"Isaac", "Asimov", "1920-01-02", "1992-04-06"},
	{"Bob", "Billings", "", ""},
	{"Jim", "Jones", "1971-12-16", ""},
}

var sampleGenres = []string{"Fantasy", "Science Fiction", "French Poetry"}

var sampleBooks = []sampleBook{
	{
		title:   "The Name of the Wind (The Kingkiller Chronicle, #1)",
		summary: "I have stolen princesses back from sleeping barrow kings. I burned down the town of Trebon.",
		isbn:    "9781473211896", author: 0, genres: []int{0},
		copies: []sampleCopy{
			{"London Gollancz, 2014.", entity.StatusAvailable, ""},
			{"Gollancz, 2011.", entity.StatusLoaned, "2026-12-01"},
		},
	},
	{
		title:   "The Wise Man's Fear (The Kingkiller Chronicle, #2)",
		summary: "Picking up the tale of Kvothe Kingkiller once again, we follow him into exile.",
		isbn:    "9788401352836", author: 0, genres: []int{0},
		copies: []sampleCopy{{"Gollancz, 2011.", entity.StatusMaintenance, ""}},
	},
	{
		title:   "Apes and Angels",
		summary: "Humankind headed out to the stars not for conquest, nor exploration, nor even for curiosity.",
		isbn:    "9780765379528", author: 1, genres: []int{1},
		copies: []sampleCopy{{"New York Tom Doherty Associates, 2016.", entity.StatusAvailable, ""}},
	},
	{
		title:   "Death Wave",
		summary: "In Ben Bova's previous novel New Earth, Jordan Kell led the first human mission beyond the solar system.",
		isbn:    "9780765379504", author: 1, genres: []int{1},
		copies: []sampleCopy{{"New York, NY Tom Doherty Associates, LLC, 2015.", entity.StatusReserved, ""}},
	},
	{
		title:   "Test Book 1",
		summary: "Summary of test book 1",
		isbn:    "ISBN111111", author: 4, genres: []int{0, 1},
	},
}

// Samples creates a small fixed library.
func (s *Seeder) Samples(ctx context.Context) (Summary, error) {
	var sum Summary
	defer func() { s.record(sum) }()

	authorIDs := make([]string, len(sampleAuthors))
	for i, a := range sampleAuthors {
		id, err := s.createAuthor(ctx, a.first, a.family, a.born, a.died)
		if err != nil {
			return sum, err
		}
		authorIDs[i] = id
		sum.Authors++
	}

	genreIDs := make([]string, len(sampleGenres))
	for i, name := range sampleGenres {
		id, err := s.createGenre(ctx, name)
		if err != nil {
			return sum, err
		}
		genreIDs[i] = id
		sum.Genres++
	}

	for _, b := range sampleBooks {
		genres := make([]string, len(b.genres))
		for i, g := range b.genres {
			genres[i] = genreIDs[g]
		}
		bookID, err := s.createBook(ctx, b.title, authorIDs[b.author], b.summary, b.isbn, genres)
		if err != nil {
			return sum, err
		}
		sum.Books++

		for _, c := range b.copies {
			if err := s.createInstance(ctx, bookID, c.imprint, c.status, c.dueBack); err != nil {
				return sum, err
			}
			sum.BookInstances++
		}
	}

	s.logger.Info("sample data created",
		"authors", sum.Authors,
		"genres", sum.Genres,
		"books", sum.Books,
		"book_instances", sum.BookInstances,
	)
	return sum, nil
}
