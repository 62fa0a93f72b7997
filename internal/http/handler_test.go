package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"locallibrary/internal/catalog"
	"locallibrary/internal/entity"
	"locallibrary/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (http.Handler, *store.Store) {
	t.Helper()
	html, err := NewHTMLRenderer()
	require.NoError(t, err)

	st := store.NewMemory()
	router := NewRouter(&RouterDeps{
		Catalog:      catalog.New(st),
		Renderer:     NegotiatingRenderer{HTML: html, JSON: JSONRenderer{}},
		Logger:       slog.New(slog.NewJSONHandler(io.Discard, nil)),
		MaxBodyBytes: 1 << 20,
	})
	return router, st
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func get(t *testing.T, h http.Handler, path string, accept string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRoot_RedirectsToCatalog(t *testing.T) {
	h, _ := newTestServer(t)

	w := get(t, h, "/", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/catalog", w.Header().Get("Location"))

	w = get(t, h, "/catalog", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Local Library Home")
}

func TestAuthorCreate_RedirectsToCanonicalPath(t *testing.T) {
	h, st := newTestServer(t)

	w := postForm(t, h, "/catalog/author/create", url.Values{
		"firstName": {"Mary"}, "familyName": {"Shelley"}, "dateOfBirth": {"1797-08-30"},
	})
	require.Equal(t, http.StatusFound, w.Code)

	authors, err := st.Authors.List(context.Background(), store.All())
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, authors[0].URL(), w.Header().Get("Location"))

	detail := get(t, h, authors[0].URL(), "")
	assert.Equal(t, http.StatusOK, detail.Code)
	assert.Contains(t, detail.Body.String(), "Shelley, Mary")
	assert.Contains(t, detail.Body.String(), "Aug 30, 1797 - ")
}

func TestAuthorCreate_InvalidRerendersWithErrors(t *testing.T) {
	h, st := newTestServer(t)

	w := postForm(t, h, "/catalog/author/create", url.Values{"firstName": {"John123"}, "familyName": {""}})
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Family name must be specified.")
	assert.NotContains(t, body, "First name has non-alphanumeric characters.")
	assert.Contains(t, body, `value="John123"`)

	n, err := st.Authors.Count(context.Background(), store.All())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEscapedTextIsNotEscapedTwice(t *testing.T) {
	h, st := newTestServer(t)

	w := postForm(t, h, "/catalog/genre/create", url.Values{"name": {"Sci-Fi & <Fantasy>"}})
	require.Equal(t, http.StatusFound, w.Code)

	genres, err := st.Genres.List(context.Background(), store.All())
	require.NoError(t, err)
	require.Len(t, genres, 1)
	assert.Equal(t, "Sci-Fi &amp; &lt;Fantasy&gt;", genres[0].Name)

	list := get(t, h, "/catalog/genres", "")
	assert.Contains(t, list.Body.String(), "Sci-Fi &amp; &lt;Fantasy&gt;")
	assert.NotContains(t, list.Body.String(), "&amp;amp;")
}

func TestEscapedTitleIsNotEscapedTwice(t *testing.T) {
	h, st := newTestServer(t)
	ctx := context.Background()

	authorID, err := st.Authors.Insert(ctx, entity.Author{FirstName: "William", FamilyName: "Hanna"})
	require.NoError(t, err)

	w := postForm(t, h, "/catalog/book/create", url.Values{
		"title": {"Tom & Jerry"}, "author": {authorID}, "summary": {"Cat and mouse"}, "isbn": {"1"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	bookPath := w.Header().Get("Location")

	books, err := st.Books.List(ctx, store.All())
	require.NoError(t, err)
	require.Len(t, books, 1)

	w = postForm(t, h, "/catalog/bookInstance/create", url.Values{
		"book": {books[0].ID}, "imprint": {"MGM, 1940"}, "status": {"Available"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	copyPath := w.Header().Get("Location")

	detail := get(t, h, bookPath, "").Body.String()
	assert.Contains(t, detail, "<title>Tom &amp; Jerry</title>")
	assert.Contains(t, detail, "<h1>Tom &amp; Jerry</h1>")
	assert.NotContains(t, detail, "&amp;amp;")

	copyDetail := get(t, h, copyPath, "").Body.String()
	assert.Contains(t, copyDetail, "<h1>Copy: Tom &amp; Jerry</h1>")
	assert.NotContains(t, copyDetail, "&amp;amp;")
}

func TestDetail_NotFound(t *testing.T) {
	h, _ := newTestServer(t)

	for _, path := range []string{"/catalog/author/nope", "/catalog/book/nope", "/catalog/genre/nope", "/catalog/bookInstance/nope", "/catalog/book/nope/update"} {
		w := get(t, h, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}

	w := get(t, h, "/catalog/author/nope", "application/json")
	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
}

func TestDeleteGet_MissingRedirectsToList(t *testing.T) {
	h, _ := newTestServer(t)

	tests := map[string]string{
		"/catalog/author/nope/delete":       entity.AuthorListPath,
		"/catalog/book/nope/delete":         entity.BookListPath,
		"/catalog/genre/nope/delete":        entity.GenreListPath,
		"/catalog/bookInstance/nope/delete": entity.BookInstanceListPath,
	}
	for path, want := range tests {
		w := get(t, h, path, "")
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, want, w.Header().Get("Location"), path)
	}
}

func TestAuthorDelete_BlockedShowsBooks(t *testing.T) {
	h, st := newTestServer(t)
	ctx := context.Background()

	authorID, err := st.Authors.Insert(ctx, entity.Author{FirstName: "Jane", FamilyName: "Austen"})
	require.NoError(t, err)
	_, err = st.Books.Insert(ctx, entity.Book{Title: "Emma", Summary: "s", ISBN: "1", AuthorID: authorID})
	require.NoError(t, err)

	w := postForm(t, h, "/catalog/author/"+authorID+"/delete", url.Values{"authorid": {"ignored"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Delete the following books")
	assert.Contains(t, w.Body.String(), "Emma")

	_, err = st.Authors.Get(ctx, authorID)
	assert.NoError(t, err)
}

func TestBookCreate_JSONSubmission(t *testing.T) {
	h, st := newTestServer(t)
	ctx := context.Background()

	authorID, err := st.Authors.Insert(ctx, entity.Author{FirstName: "Italo", FamilyName: "Calvino"})
	require.NoError(t, err)
	g1, _ := st.Genres.Insert(ctx, entity.Genre{Name: "Fable"})
	g2, _ := st.Genres.Insert(ctx, entity.Genre{Name: "Novel"})

	body := `{"title":"Invisible Cities","author":"` + authorID + `","summary":"Marco Polo","isbn":9780156453806,"genre":["` + g1 + `","` + g2 + `"]}`
	req := httptest.NewRequest(http.MethodPost, "/catalog/book/create", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code)

	books, err := st.Books.List(ctx, store.All())
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "9780156453806", books[0].ISBN)
	assert.Equal(t, []string{g1, g2}, books[0].GenreIDs)
}

func TestBookCreate_MalformedJSON(t *testing.T) {
	h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/catalog/book/create", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJSONRenderer_Envelope(t *testing.T) {
	h, st := newTestServer(t)
	_, err := st.Genres.Insert(context.Background(), entity.Genre{Name: "Poetry"})
	require.NoError(t, err)

	w := get(t, h, "/catalog/genres", "application/json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body struct {
		Success bool                   `json:"success"`
		Data    catalog.GenreListPage  `json:"data"`
		Meta    map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Genre List", body.Data.Title)
	require.Len(t, body.Data.Genres, 1)
	assert.Equal(t, "genre_list", body.Meta["view"])
	assert.NotEmpty(t, body.Meta["request_id"])
}

func TestEveryPageRenders(t *testing.T) {
	h, st := newTestServer(t)
	ctx := context.Background()

	authorID, _ := st.Authors.Insert(ctx, entity.Author{FirstName: "A", FamilyName: "B"})
	genreID, _ := st.Genres.Insert(ctx, entity.Genre{Name: "G"})
	bookID, _ := st.Books.Insert(ctx, entity.Book{Title: "T", Summary: "S", ISBN: "I", AuthorID: authorID, GenreIDs: []string{genreID}})
	instanceID, _ := st.BookInstances.Insert(ctx, entity.BookInstance{BookID: bookID, Imprint: "P", Status: entity.StatusLoaned})

	paths := []string{
		"/catalog", "/catalog/authors", "/catalog/books", "/catalog/genres", "/catalog/bookinstances",
		"/catalog/author/create", "/catalog/book/create", "/catalog/genre/create", "/catalog/bookInstance/create",
		entity.AuthorPath(authorID), entity.BookPath(bookID), entity.GenrePath(genreID), entity.BookInstancePath(instanceID),
		entity.AuthorPath(authorID) + "/update", entity.BookPath(bookID) + "/update",
		entity.GenrePath(genreID) + "/update", entity.BookInstancePath(instanceID) + "/update",
		entity.AuthorPath(authorID) + "/delete", entity.BookPath(bookID) + "/delete",
		entity.GenrePath(genreID) + "/delete", entity.BookInstancePath(instanceID) + "/delete",
	}
	for _, p := range paths {
		w := get(t, h, p, "")
		assert.Equal(t, http.StatusOK, w.Code, p)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html", p)
	}
}

func TestHealthAndReady(t *testing.T) {
	h, _ := newTestServer(t)

	assert.Equal(t, http.StatusOK, get(t, h, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/readyz", "").Code)
}

type failingRenderer struct{}

func (failingRenderer) Render(http.ResponseWriter, *http.Request, int, string, any) error {
	return errors.New("template exploded")
}

func TestRenderFailureIs500(t *testing.T) {
	router := NewRouter(&RouterDeps{
		Catalog:  catalog.New(store.NewMemory()),
		Renderer: failingRenderer{},
		Logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})

	w := get(t, router, "/catalog/genres", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
