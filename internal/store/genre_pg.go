package store

import (
	"context"
	"fmt"

	"locallibrary/internal/entity"

	"github.com/google/uuid"
)

type GenrePG struct {
	pgBase
}

var genreFields = map[string]pgField{
	FieldName: {cond: "name = $%d", sort: "name"},
}

func (r *GenrePG) Get(ctx context.Context, id string) (entity.Genre, error) {
	if !validID(id) {
		return entity.Genre{}, fmt.Errorf("genre %s: %w", id, ErrNotFound)
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var g entity.Genre
	err := r.db.QueryRow(timeoutCtx, `SELECT id, name FROM genres WHERE id = $1`, id).Scan(&g.ID, &g.Name)
	if err != nil {
		return entity.Genre{}, notFound(err, "genre", id)
	}
	return g, nil
}

func (r *GenrePG) List(ctx context.Context, q Query) ([]entity.Genre, error) {
	where, args, ok, err := buildWhere(genreFields, q)
	if err != nil || !ok {
		return []entity.Genre{}, err
	}
	order, err := orderBy(genreFields, q, "id")
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, fmt.Sprintf(`SELECT id, name FROM genres %s %s`, where, order), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Genre{}
	for rows.Next() {
		var g entity.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *GenrePG) Count(ctx context.Context, q Query) (int, error) {
	return r.count(ctx, "genres", genreFields, q)
}

func (r *GenrePG) Insert(ctx context.Context, g entity.Genre) (string, error) {
	id := uuid.NewString()
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.Exec(timeoutCtx, `INSERT INTO genres (id, name) VALUES ($1, $2)`, id, g.Name); err != nil {
		return "", fmt.Errorf("insert genre: %w", err)
	}
	return id, nil
}

func (r *GenrePG) Replace(ctx context.Context, id string, g entity.Genre) (entity.Genre, error) {
	if err := r.exec(ctx, "genre", id, `UPDATE genres SET name = $2 WHERE id = $1`, id, g.Name); err != nil {
		return entity.Genre{}, err
	}
	g.ID = id
	return g, nil
}

func (r *GenrePG) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, "genre", id, `DELETE FROM genres WHERE id = $1`, id)
}
