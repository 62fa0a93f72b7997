package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"locallibrary/internal/entity"
	"locallibrary/internal/store"
	"locallibrary/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

func newTestCatalog(t *testing.T) (*Catalog, *store.Store, *recordingObserver) {
	t.Helper()
	st := store.NewMemory()
	obs := &recordingObserver{}
	return New(st, WithObserver(obs), WithClock(func() time.Time { return fixedNow })), st, obs
}

func seedAuthor(t *testing.T, st *store.Store, first, family string) entity.Author {
	t.Helper()
	a := entity.Author{FirstName: first, FamilyName: family}
	id, err := st.Authors.Insert(context.Background(), a)
	require.NoError(t, err)
	a.ID = id
	return a
}

func seedGenre(t *testing.T, st *store.Store, name string) entity.Genre {
	t.Helper()
	g := entity.Genre{Name: name}
	id, err := st.Genres.Insert(context.Background(), g)
	require.NoError(t, err)
	g.ID = id
	return g
}

func seedBook(t *testing.T, st *store.Store, title, authorID string, genres ...string) entity.Book {
	t.Helper()
	id, err := st.Books.Insert(context.Background(), entity.Book{Title: title, Summary: "s", ISBN: "i", AuthorID: authorID, GenreIDs: genres})
	require.NoError(t, err)
	b, err := st.Books.Get(context.Background(), id)
	require.NoError(t, err)
	return b
}

func seedInstance(t *testing.T, st *store.Store, bookID string, status entity.Status) entity.BookInstance {
	t.Helper()
	bi := entity.BookInstance{BookID: bookID, Imprint: "imprint", Status: status, DueBack: fixedNow}
	id, err := st.BookInstances.Insert(context.Background(), bi)
	require.NoError(t, err)
	bi.ID = id
	return bi
}

func count[T any](t *testing.T, repo store.Repository[T]) int {
	t.Helper()
	n, err := repo.Count(context.Background(), store.All())
	require.NoError(t, err)
	return n
}

func TestCreate_RequiredFieldEmptyInsertsNothing(t *testing.T) {
	c, st, _ := newTestCatalog(t)
	ctx := context.Background()
	author := seedAuthor(t, st, "Ann", "Leckie")
	book := seedBook(t, st, "Ancillary Justice", author.ID)

	t.Run("author", func(t *testing.T) {
		out, err := c.Authors.Create(ctx, validation.Input{"firstName": "   ", "familyName": "Leckie"})
		require.NoError(t, err)
		assert.False(t, out.Redirected())
		assert.NotEmpty(t, out.Page.Errors)
		assert.Equal(t, 1, count(t, st.Authors))
	})

	t.Run("book", func(t *testing.T) {
		out, err := c.Books.Create(ctx, validation.Input{"title": "T", "author": author.ID, "summary": "", "isbn": "1"})
		require.NoError(t, err)
		assert.False(t, out.Redirected())
		assert.Equal(t, []validation.FieldError{{Field: "summary", Message: "Summary must not be empty."}}, out.Page.Errors)
		assert.Equal(t, 1, count(t, st.Books))
	})

	t.Run("book instance", func(t *testing.T) {
		out, err := c.BookInstances.Create(ctx, validation.Input{"book": book.ID, "imprint": " "})
		require.NoError(t, err)
		assert.False(t, out.Redirected())
		assert.Equal(t, []validation.FieldError{{Field: "imprint", Message: "Imprint must be specified"}}, out.Page.Errors)
		assert.Equal(t, 0, count(t, st.BookInstances))
	})
}

func TestCreate_ValidRedirectsToCanonicalPath(t *testing.T) {
	c, st, obs := newTestCatalog(t)
	ctx := context.Background()

	out, err := c.Authors.Create(ctx, validation.Input{"firstName": "Ursula", "familyName": "LeGuin", "dateOfBirth": "1929-10-21"})
	require.NoError(t, err)
	require.True(t, out.Redirected())

	authors, err := st.Authors.List(ctx, store.All())
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, authors[0].URL(), out.Redirect)
	assert.Equal(t, "1929-10-21", authors[0].ISODateOfBirth())

	genre := seedGenre(t, st, "Fantasy")
	out2, err := c.Books.Create(ctx, validation.Input{
		"title": "A Wizard of Earthsea", "author": authors[0].ID, "summary": "Ged", "isbn": "978", "genre": genre.ID,
	})
	require.NoError(t, err)
	books, err := st.Books.List(ctx, store.All())
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, books[0].URL(), out2.Redirect)
	assert.Equal(t, []string{genre.ID}, books[0].GenreIDs)

	assert.Equal(t, []string{"author create created", "book create created"}, obs.outcomes)
}

func TestCreate_AuthorScenario(t *testing.T) {
	c, st, _ := newTestCatalog(t)

	out, err := c.Authors.Create(context.Background(), validation.Input{"firstName": "John123", "familyName": ""})
	require.NoError(t, err)

	var messages []string
	for _, e := range out.Page.Errors {
		messages = append(messages, e.Message)
	}
	assert.Contains(t, messages, "Family name must be specified.")
	assert.NotContains(t, messages, "First name has non-alphanumeric characters.")
	assert.Equal(t, "John123", out.Page.Author.FirstName)
	assert.Equal(t, "Create Author", out.Page.Title)
	assert.Equal(t, 0, count(t, st.Authors))
}

func TestCreate_BookInstanceScenario(t *testing.T) {
	c, st, _ := newTestCatalog(t)
	ctx := context.Background()
	book := seedBook(t, st, "Dune", seedAuthor(t, st, "Frank", "Herbert").ID)

	out, err := c.BookInstances.Create(ctx, validation.Input{"book": book.ID, "imprint": "Chilton", "dueBack": "not-a-date"})
	require.NoError(t, err)
	assert.Equal(t, []validation.FieldError{{Field: "dueBack", Message: "Invalid date"}}, out.Page.Errors)
	assert.Equal(t, entity.StatusMaintenance, out.Page.BookInstance.Status)
	assert.Equal(t, []entity.Status{entity.StatusAvailable, entity.StatusMaintenance, entity.StatusLoaned, entity.StatusReserved}, out.Page.Statuses)
	require.Len(t, out.Page.Books, 1)

	ok, err := c.BookInstances.Create(ctx, validation.Input{"book": book.ID, "imprint": "Chilton"})
	require.NoError(t, err)
	require.True(t, ok.Redirected())
	instances, err := st.BookInstances.List(ctx, store.All())
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, entity.StatusMaintenance, instances[0].Status)
	assert.True(t, fixedNow.Equal(instances[0].DueBack))
	assert.Equal(t, instances[0].URL(), ok.Redirect)
}

func TestCreate_InvalidStatus(t *testing.T) {
	c, st, _ := newTestCatalog(t)
	book := seedBook(t, st, "Dune", seedAuthor(t, st, "Frank", "Herbert").ID)

	out, err := c.BookInstances.Create(context.Background(), validation.Input{"book": book.ID, "imprint": "x", "status": "Lost"})
	require.NoError(t, err)
	assert.Equal(t, []validation.FieldError{{Field: "status", Message: "Invalid status"}}, out.Page.Errors)
}

func TestCreate_DanglingReferences(t *testing.T) {
	c, st, _ := newTestCatalog(t)
	ctx := context.Background()

	out, err := c.Books.Create(ctx, validation.Input{"title": "T", "author": "missing", "summary": "s", "isbn": "1"})
	require.NoError(t, err)
	assert.Equal(t, []validation.FieldError{{Field: "author", Message: "Author not found."}}, out.Page.Errors)

	out2, err := c.BookInstances.Create(ctx, validation.Input{"book": "missing", "imprint": "x"})
	require.NoError(t, err)
	assert.Equal(t, []validation.FieldError{{Field: "book", Message: "Book not found."}}, out2.Page.Errors)

	assert.Equal(t, 0, count(t, st.Books))
	assert.Equal(t, 0, count(t, st.BookInstances))
}

func TestBookForm_GenreCheckedRoundTrip(t *testing.T) {
	c, st, _ := newTestCatalog(t)
	ctx := context.Background()
	author := seedAuthor(t, st, "Neil", "Gaiman")
	g1 := seedGenre(t, st, "A")
	g2 := seedGenre(t, st, "B")
	g3 := seedGenre(t, st, "C")
	book := seedBook(t, st, "Good Omens", author.ID, g1.ID, g3.ID)

	checked := func(opts []GenreOption) map[string]bool {
		m := map[string]bool{}
		for _, o := range opts {
			m[o.Genre.ID] = o.Checked
		}
		return m
	}
	want := map[string]bool{g1.ID: true, g2.ID: false, g3.ID: true}

	page, err := c.Books.UpdateForm(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, want, checked(page.Genres))
	assert.Equal(t, "Update Book", page.Title)

	out, err := c.Books.Update(ctx, book.ID, validation.Input{
		"title": "", "author": author.ID, "summary": "s", "isbn": "i", "genre": []string{g1.ID, g3.ID},
	})
	require.NoError(t, err)
	require.False(t, out.Redirected())
	assert.Equal(t, want, checked(out.Page.Genres))
	assert.Equal(t, []string{"A", "B", "C"}, []string{out.Page.Genres[0].Genre.Name, out.Page.Genres[1].Genre.Name, out.Page.Genres[2].Genre.Name})
}

func TestBookForm_OptionListsAreFresh(t *testing.T) {
	c, st, _ := newTestCatalog(t)
	ctx := context.Background()
	seedAuthor(t, st, "Zadie", "Smith")

	page, err := c.Books.CreateForm(ctx)
	require.NoError(t, err)
	assert.Len(t, page.Authors, 1)

	seedAuthor(t, st, "Chinua", "Achebe")
	out, err := c.Books.Create(ctx, validation.Input{})
	require.NoError(t, err)
	require.Len(t, out.Page.Authors, 2)
	assert.Equal(t, "Achebe", out.Page.Authors[0].FamilyName)
	assert.Empty(t, out.Page.Book.GenreIDs)
}

func TestUpdate_PreservesPathID(t *testing.T) {
	c, st, _ := newTestCatalog(t)
	ctx := context.Background()
	author := seedAuthor(t, st, "Iain", "Banks")
	book := seedBook(t, st, "Excession", author.ID)

	out, err := c.Books.Update(ctx, book.ID, validation.Input{
		"id": "other", "_id": "other", "title": "Excession", "author": author.ID, "summary": "Outside Context", "isbn": "2",
	})
	require.NoError(t, err)
	assert.Equal(t, book.URL(), out.Redirect)

	got, err := st.Books.Get(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Outside Context", got.Summary)
	assert.Equal(t, 1, count(t, st.Books))
}

func TestUpdate_Missing(t *testing.T) {
	c, st, _ := newTestCatalog(t)
	ctx := context.Background()
	author := seedAuthor(t, st, "Iain", "Banks")

	_, err := c.Books.Update(ctx, "missing", validation.Input{"title": "T", "author": author.ID, "summary": "s", "isbn": "i"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Authors.UpdateForm(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Genres.Update(ctx, "missing", validation.Input{"name": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthorDelete_Guard(t *testing.T) {
	c, st, obs := newTestCatalog(t)
	ctx := context.Background()
	author := seedAuthor(t, st, "Terry", "Pratchett")
	b1 := seedBook(t, st, "Mort", author.ID)
	b2 := seedBook(t, st, "Guards! Guards!", author.ID)
	seedBook(t, st, "Other", "someone-else")

	out, err := c.Authors.Delete(ctx, author.ID)
	require.NoError(t, err)
	require.False(t, out.Redirected())
	assert.True(t, out.Page.Blocked)
	assert.Equal(t, author, out.Page.Author)
	assert.ElementsMatch(t, []entity.Book{b1, b2}, out.Page.Books)

	_, err = st.Authors.Get(ctx, author.ID)
	assert.NoError(t, err)

	require.NoError(t, st.Books.Delete(ctx, b1.ID))
	require.NoError(t, st.Books.Delete(ctx, b2.ID))

	out, err = c.Authors.Delete(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AuthorListPath, out.Redirect)
	_, err = st.Authors.Get(ctx, author.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.Equal(t, []string{"author delete blocked", "author delete deleted"}, obs.outcomes)
}

func TestBookDelete_Guard(t *testing.T) {
	c, st, _ := newTestCatalog(t)
	ctx := context.Background()
	book := seedBook(t, st, "Dune", seedAuthor(t, st, "Frank", "Herbert").ID)
	bi := seedInstance(t, st, book.ID, entity.StatusLoaned)

	form, err := c.Books.DeleteForm(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Delete Book", form.Page.Title)
	assert.Equal(t, []entity.BookInstance{bi}, form.Page.BookInstances)
	assert.False(t, form.Page.Blocked)

	out, err := c.Books.Delete(ctx, book.ID)
	require.NoError(t, err)
	assert.True(t, out.Page.Blocked)
	assert.Equal(t, 1, count(t, st.Books))

	del, err := c.BookInstances.Delete(ctx, bi.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookInstanceListPath, del.Redirect)

	out, err = c.Books.Delete(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookListPath, out.Redirect)
	assert.Equal(t, 0, count(t, st.Books))
}

func TestDelete_MissingRedirectsToList(t *testing.T) {
	c, _, _ := newTestCatalog(t)
	ctx := context.Background()

	form, err := c.Authors.DeleteForm(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, entity.AuthorListPath, form.Redirect)

	out, err := c.Authors.Delete(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, entity.AuthorListPath, out.Redirect)

	bform, err := c.Books.DeleteForm(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, entity.BookListPath, bform.Redirect)

	gform, err := c.Genres.DeleteForm(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, entity.GenreListPath, gform.Redirect)

	iform, err := c.BookInstances.DeleteForm(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, entity.BookInstanceListPath, iform.Redirect)
}

func TestGenreDelete_NoGuard(t *testing.T) {
	c, st, _ := newTestCatalog(t)
	ctx := context.Background()
	genre := seedGenre(t, st, "Horror")
	book := seedBook(t, st, "It", seedAuthor(t, st, "Stephen", "King").ID, genre.ID)

	out, err := c.Genres.Delete(ctx, genre.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.GenreListPath, out.Redirect)
	assert.Equal(t, 0, count(t, st.Genres))

	page, err := c.Books.Detail(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, page.Genres, 1)
	assert.False(t, page.Genres[0].Resolved)
}

func TestReadPages(t *testing.T) {
	c, st, _ := newTestCatalog(t)
	ctx := context.Background()
	author := seedAuthor(t, st, "Octavia", "Butler")
	genre := seedGenre(t, st, "SF")
	book := seedBook(t, st, "Kindred", author.ID, genre.ID)
	orphan := seedBook(t, st, "Anonymous", "gone")
	bi := seedInstance(t, st, book.ID, entity.StatusAvailable)
	seedInstance(t, st, book.ID, entity.StatusLoaned)

	idx, err := c.Index(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Local Library Home", idx.Title)
	assert.Equal(t, Counts{Books: 2, BookInstances: 2, AvailableInstances: 1, Authors: 1, Genres: 1}, idx.Counts)

	books, err := c.Books.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Book list", books.Title)
	require.Len(t, books.Books, 2)
	assert.Equal(t, orphan.ID, books.Books[0].Book.ID)
	assert.False(t, books.Books[0].Author.Resolved)
	assert.Equal(t, "Butler, Octavia", books.Books[1].Author.Record.Name())

	detail, err := c.Books.Detail(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kindred", detail.Title)
	assert.True(t, detail.Author.Resolved)
	assert.Equal(t, "SF", detail.Genres[0].Record.Name)
	assert.Len(t, detail.BookInstances, 2)

	ad, err := c.Authors.Detail(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, "Author Detail", ad.Title)
	assert.Equal(t, []entity.Book{book}, ad.Books)

	gd, err := c.Genres.Detail(ctx, genre.ID)
	require.NoError(t, err)
	assert.Equal(t, []entity.Book{book}, gd.Books)

	id, err := c.BookInstances.Detail(ctx, bi.ID)
	require.NoError(t, err)
	assert.Equal(t, "Copy: Kindred", id.Title)

	il, err := c.BookInstances.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Book Instance List", il.Title)
	assert.Len(t, il.BookInstances, 2)

	_, err = c.Authors.Detail(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStoreFailurePropagates(t *testing.T) {
	boom := errors.New("connection reset")
	authors := &mockRepository[entity.Author]{}
	books := &mockRepository[entity.Book]{}
	st := &store.Store{Authors: authors, Books: books, Genres: store.NewMemory().Genres, BookInstances: store.NewMemory().BookInstances}
	c := New(st)
	ctx := context.Background()

	authors.On("Get", mock.Anything, "a1").Return(entity.Author{ID: "a1"}, nil)
	books.On("List", mock.Anything, store.Where(store.FieldAuthor, "a1")).Return(nil, boom)
	authors.On("Insert", mock.Anything, mock.Anything).Return("", boom)

	_, err := c.Authors.Delete(ctx, "a1")
	assert.ErrorIs(t, err, boom)
	authors.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	_, err = c.Authors.Create(ctx, validation.Input{"firstName": "A", "familyName": "B"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestBookCreate_UnknownGenreRejected(t *testing.T) {
	c, st, _ := newTestCatalog(t)
	ctx := context.Background()
	author := seedAuthor(t, st, "Octavia", "Butler")
	genre := seedGenre(t, st, "Science Fiction")

	out, err := c.Books.Create(ctx, validation.Input{
		"title": "Kindred", "author": author.ID, "summary": "s", "isbn": "1", "genre": []string{genre.ID, "not-a-genre"},
	})
	require.NoError(t, err)
	require.False(t, out.Redirected())
	assert.Equal(t, []validation.FieldError{{Field: "genre", Message: "Genre not found."}}, out.Page.Errors)
	assert.Equal(t, 0, count(t, st.Books))
}

func TestBookCreate_RepeatedGenreStoredOnce(t *testing.T) {
	c, st, _ := newTestCatalog(t)
	ctx := context.Background()
	author := seedAuthor(t, st, "Octavia", "Butler")
	g1 := seedGenre(t, st, "Science Fiction")
	g2 := seedGenre(t, st, "Historical")

	out, err := c.Books.Create(ctx, validation.Input{
		"title": "Kindred", "author": author.ID, "summary": "s", "isbn": "1", "genre": []string{g2.ID, g1.ID, g2.ID},
	})
	require.NoError(t, err)
	require.True(t, out.Redirected())

	books, err := st.Books.List(ctx, store.All())
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, []string{g2.ID, g1.ID}, books[0].GenreIDs)
}

func TestBookInstanceCreate_BookRequiredMessage(t *testing.T) {
	c, _, _ := newTestCatalog(t)

	out, err := c.BookInstances.Create(context.Background(), validation.Input{"imprint": "Penguin"})
	require.NoError(t, err)
	require.False(t, out.Redirected())
	assert.Equal(t, []validation.FieldError{{Field: "book", Message: "Book instance must be specified"}}, out.Page.Errors)
}
