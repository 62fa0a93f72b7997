package store

//Repository implementation (Postgres)

import (
	"context"
	"fmt"

	"locallibrary/internal/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BookPG keeps the genre references of a book in book_genres, written in
// the same transaction as the book row.
type BookPG struct {
	pgBase
}

var bookFields = map[string]pgField{
	FieldTitle:  {cond: "b.title = $%d", sort: "b.title"},
	FieldAuthor: {cond: "b.author_id = $%d", uuid: true},
	FieldGenre:  {cond: "EXISTS (SELECT 1 FROM book_genres bg WHERE bg.book_id = b.id AND bg.genre_id = $%d)", uuid: true},
	FieldISBN:   {cond: "b.isbn = $%d", sort: "b.isbn"},
}

func (r *BookPG) Get(ctx context.Context, id string) (entity.Book, error) {
	if !validID(id) {
		return entity.Book{}, fmt.Errorf("book %s: %w", id, ErrNotFound)
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var b entity.Book
	err := r.db.QueryRow(timeoutCtx, `SELECT id, title, summary, isbn, author_id FROM books WHERE id = $1`, id).Scan(
		&b.ID, &b.Title, &b.Summary, &b.ISBN, &b.AuthorID,
	)
	if err != nil {
		return entity.Book{}, notFound(err, "book", id)
	}

	books := []entity.Book{b}
	if err := r.loadGenres(timeoutCtx, books); err != nil {
		return entity.Book{}, err
	}
	return books[0], nil
}

func (r *BookPG) List(ctx context.Context, q Query) ([]entity.Book, error) {
	where, args, ok, err := buildWhere(bookFields, q)
	if err != nil || !ok {
		return []entity.Book{}, err
	}
	order, err := orderBy(bookFields, q, "b.id")
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	dataSQL := fmt.Sprintf(`
		SELECT b.id, b.title, b.summary, b.isbn, b.author_id
		FROM books b
		%s
		%s`, where, order)
	rows, err := r.db.Query(timeoutCtx, dataSQL, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Book{}
	for rows.Next() {
		var b entity.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Summary, &b.ISBN, &b.AuthorID); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if err := r.loadGenres(timeoutCtx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// loadGenres fills GenreIDs for books in one round trip.
func (r *BookPG) loadGenres(ctx context.Context, books []entity.Book) error {
	if len(books) == 0 {
		return nil
	}
	ids := make([]string, len(books))
	index := make(map[string]int, len(books))
	for i := range books {
		ids[i] = books[i].ID
		index[books[i].ID] = i
		books[i].GenreIDs = []string{}
	}

	rows, err := r.db.Query(ctx, `
		SELECT book_id, genre_id
		FROM book_genres
		WHERE book_id = ANY($1::uuid[])
		ORDER BY book_id, position`, ids)
	if err != nil {
		return fmt.Errorf("load book genres: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookID, genreID string
		if err := rows.Scan(&bookID, &genreID); err != nil {
			return err
		}
		i := index[bookID]
		books[i].GenreIDs = append(books[i].GenreIDs, genreID)
	}
	return rows.Err()
}

func (r *BookPG) Count(ctx context.Context, q Query) (int, error) {
	return r.count(ctx, "books b", bookFields, q)
}

func (r *BookPG) Insert(ctx context.Context, b entity.Book) (string, error) {
	id := uuid.NewString()

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(timeoutCtx)

	const bookSQL = `
		INSERT INTO books (id, title, summary, isbn, author_id)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.Exec(timeoutCtx, bookSQL, id, b.Title, b.Summary, b.ISBN, b.AuthorID); err != nil {
		return "", fmt.Errorf("insert book: %w", err)
	}
	if err := writeGenres(timeoutCtx, tx, id, b.GenreIDs); err != nil {
		return "", err
	}
	if err := tx.Commit(timeoutCtx); err != nil {
		return "", err
	}
	return id, nil
}

func (r *BookPG) Replace(ctx context.Context, id string, b entity.Book) (entity.Book, error) {
	if !validID(id) {
		return entity.Book{}, fmt.Errorf("book %s: %w", id, ErrNotFound)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return entity.Book{}, err
	}
	defer tx.Rollback(timeoutCtx)

	const bookSQL = `
		UPDATE books
		SET title = $2, summary = $3, isbn = $4, author_id = $5
		WHERE id = $1`
	tag, err := tx.Exec(timeoutCtx, bookSQL, id, b.Title, b.Summary, b.ISBN, b.AuthorID)
	if err != nil {
		return entity.Book{}, fmt.Errorf("update book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.Book{}, fmt.Errorf("book %s: %w", id, ErrNotFound)
	}
	if _, err := tx.Exec(timeoutCtx, `DELETE FROM book_genres WHERE book_id = $1`, id); err != nil {
		return entity.Book{}, fmt.Errorf("clear book genres: %w", err)
	}
	if err := writeGenres(timeoutCtx, tx, id, b.GenreIDs); err != nil {
		return entity.Book{}, err
	}
	if err := tx.Commit(timeoutCtx); err != nil {
		return entity.Book{}, err
	}

	b.ID = id
	return b, nil
}

func (r *BookPG) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, "book", id, `DELETE FROM books WHERE id = $1`, id)
}

func writeGenres(ctx context.Context, tx pgx.Tx, bookID string, genreIDs []string) error {
	const sql = `
		INSERT INTO book_genres (book_id, genre_id, position)
		VALUES ($1, $2, $3)
		ON CONFLICT (book_id, genre_id) DO NOTHING`
	for i, g := range genreIDs {
		if !validID(g) {
			continue
		}
		if _, err := tx.Exec(ctx, sql, bookID, g, i); err != nil {
			return fmt.Errorf("insert book genre: %w", err)
		}
	}
	return nil
}
