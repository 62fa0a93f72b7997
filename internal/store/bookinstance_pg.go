package store

import (
	"context"
	"fmt"

	"locallibrary/internal/entity"

	"github.com/google/uuid"
)

type BookInstancePG struct {
	pgBase
}

var bookInstanceFields = map[string]pgField{
	FieldBook:    {cond: "book_id = $%d", uuid: true},
	FieldStatus:  {cond: "status = $%d", sort: "status"},
	FieldImprint: {cond: "imprint = $%d", sort: "imprint"},
}

const bookInstanceColumns = `id, book_id, imprint, status, due_back`

func (r *BookInstancePG) Get(ctx context.Context, id string) (entity.BookInstance, error) {
	if !validID(id) {
		return entity.BookInstance{}, fmt.Errorf("book instance %s: %w", id, ErrNotFound)
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var bi entity.BookInstance
	err := r.db.QueryRow(timeoutCtx, `SELECT `+bookInstanceColumns+` FROM book_instances WHERE id = $1`, id).Scan(
		&bi.ID, &bi.BookID, &bi.Imprint, &bi.Status, &bi.DueBack,
	)
	if err != nil {
		return entity.BookInstance{}, notFound(err, "book instance", id)
	}
	return bi, nil
}

func (r *BookInstancePG) List(ctx context.Context, q Query) ([]entity.BookInstance, error) {
	where, args, ok, err := buildWhere(bookInstanceFields, q)
	if err != nil || !ok {
		return []entity.BookInstance{}, err
	}
	order, err := orderBy(bookInstanceFields, q, "id")
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, fmt.Sprintf(`SELECT %s FROM book_instances %s %s`, bookInstanceColumns, where, order), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.BookInstance{}
	for rows.Next() {
		var bi entity.BookInstance
		if err := rows.Scan(&bi.ID, &bi.BookID, &bi.Imprint, &bi.Status, &bi.DueBack); err != nil {
			return nil, err
		}
		out = append(out, bi)
	}
	return out, rows.Err()
}

func (r *BookInstancePG) Count(ctx context.Context, q Query) (int, error) {
	return r.count(ctx, "book_instances", bookInstanceFields, q)
}

func (r *BookInstancePG) Insert(ctx context.Context, bi entity.BookInstance) (string, error) {
	const sql = `
		INSERT INTO book_instances (id, book_id, imprint, status, due_back)
		VALUES ($1, $2, $3, $4, $5)`

	id := uuid.NewString()
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.Exec(timeoutCtx, sql, id, bi.BookID, bi.Imprint, string(bi.Status), bi.DueBack); err != nil {
		return "", fmt.Errorf("insert book instance: %w", err)
	}
	return id, nil
}

func (r *BookInstancePG) Replace(ctx context.Context, id string, bi entity.BookInstance) (entity.BookInstance, error) {
	const sql = `
		UPDATE book_instances
		SET book_id = $2, imprint = $3, status = $4, due_back = $5
		WHERE id = $1`

	if err := r.exec(ctx, "book instance", id, sql, id, bi.BookID, bi.Imprint, string(bi.Status), bi.DueBack); err != nil {
		return entity.BookInstance{}, err
	}
	bi.ID = id
	return bi, nil
}

func (r *BookInstancePG) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, "book instance", id, `DELETE FROM book_instances WHERE id = $1`, id)
}
