package store

import (
	"context"
	"fmt"

	"locallibrary/internal/entity"

	"github.com/google/uuid"
)

type AuthorPG struct {
	pgBase
}

var authorFields = map[string]pgField{
	FieldFirstName:  {cond: "first_name = $%d", sort: "first_name"},
	FieldFamilyName: {cond: "family_name = $%d", sort: "family_name"},
}

const authorColumns = `id, first_name, family_name, date_of_birth, date_of_death`

func (r *AuthorPG) Get(ctx context.Context, id string) (entity.Author, error) {
	if !validID(id) {
		return entity.Author{}, fmt.Errorf("author %s: %w", id, ErrNotFound)
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var a entity.Author
	err := r.db.QueryRow(timeoutCtx, `SELECT `+authorColumns+` FROM authors WHERE id = $1`, id).Scan(
		&a.ID, &a.FirstName, &a.FamilyName, &a.DateOfBirth, &a.DateOfDeath,
	)
	if err != nil {
		return entity.Author{}, notFound(err, "author", id)
	}
	return a, nil
}

func (r *AuthorPG) List(ctx context.Context, q Query) ([]entity.Author, error) {
	where, args, ok, err := buildWhere(authorFields, q)
	if err != nil || !ok {
		return []entity.Author{}, err
	}
	order, err := orderBy(authorFields, q, "id")
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, fmt.Sprintf(`SELECT %s FROM authors %s %s`, authorColumns, where, order), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Author{}
	for rows.Next() {
		var a entity.Author
		if err := rows.Scan(&a.ID, &a.FirstName, &a.FamilyName, &a.DateOfBirth, &a.DateOfDeath); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AuthorPG) Count(ctx context.Context, q Query) (int, error) {
	return r.count(ctx, "authors", authorFields, q)
}

func (r *AuthorPG) Insert(ctx context.Context, a entity.Author) (string, error) {
	const sql = `
		INSERT INTO authors (id, first_name, family_name, date_of_birth, date_of_death)
		VALUES ($1, $2, $3, $4, $5)`

	id := uuid.NewString()
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.Exec(timeoutCtx, sql, id, a.FirstName, a.FamilyName, a.DateOfBirth, a.DateOfDeath); err != nil {
		return "", fmt.Errorf("insert author: %w", err)
	}
	return id, nil
}

func (r *AuthorPG) Replace(ctx context.Context, id string, a entity.Author) (entity.Author, error) {
	const sql = `
		UPDATE authors
		SET first_name = $2, family_name = $3, date_of_birth = $4, date_of_death = $5
		WHERE id = $1`

	if err := r.exec(ctx, "author", id, sql, id, a.FirstName, a.FamilyName, a.DateOfBirth, a.DateOfDeath); err != nil {
		return entity.Author{}, err
	}
	a.ID = id
	return a, nil
}

func (r *AuthorPG) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, "author", id, `DELETE FROM authors WHERE id = $1`, id)
}
