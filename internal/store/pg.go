package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPostgres returns a Store backed by pool. Every call runs under its own
// timeout.
func NewPostgres(pool *pgxpool.Pool, timeout time.Duration) *Store {
	base := pgBase{db: pool, timeout: timeout}
	return &Store{
		Authors:       &AuthorPG{pgBase: base},
		Books:         &BookPG{pgBase: base},
		Genres:        &GenrePG{pgBase: base},
		BookInstances: &BookInstancePG{pgBase: base},
		ping:          pool.Ping,
	}
}

type pgBase struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func (r pgBase) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// exec runs a single-row write and maps zero affected rows to ErrNotFound.
func (r pgBase) exec(ctx context.Context, what, id, sql string, args ...any) error {
	if !validID(id) {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s %s: %w", what, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return nil
}

func (r pgBase) count(ctx context.Context, table string, fields map[string]pgField, q Query) (int, error) {
	where, args, ok, err := buildWhere(fields, q)
	if err != nil || !ok {
		return 0, err
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", table, where)
	if err := r.db.QueryRow(timeoutCtx, countSQL, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// pgField maps a query attribute to SQL. cond takes the placeholder
// number; sort is empty when the attribute cannot order results.
type pgField struct {
	cond string
	sort string
	uuid bool
}

// buildWhere renders q's conditions. ok is false when a condition can never
// match, such as a malformed id, so callers can skip the round trip.
func buildWhere(fields map[string]pgField, q Query) (where string, args []any, ok bool, err error) {
	clauses := []string{"1=1"}
	argn := 1
	for _, c := range q.Where {
		f, known := fields[c.Field]
		if !known {
			return "", nil, false, fmt.Errorf("filter %q: %w", c.Field, ErrUnknownField)
		}
		if f.uuid && !validID(c.Value) {
			return "", nil, false, nil
		}
		clauses = append(clauses, fmt.Sprintf(f.cond, argn))
		args = append(args, c.Value)
		argn++
	}
	return "WHERE " + strings.Join(clauses, " AND "), args, true, nil
}

func orderBy(fields map[string]pgField, q Query, fallback string) (string, error) {
	if q.Sort == "" {
		return "ORDER BY " + fallback, nil
	}
	f, ok := fields[q.Sort]
	if !ok || f.sort == "" {
		return "", fmt.Errorf("sort %q: %w", q.Sort, ErrUnknownField)
	}
	return "ORDER BY " + f.sort + " ASC, " + fallback, nil
}

func notFound(err error, what, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return err
}

// validID reports whether id can name a row. Anything that is not a UUID
// is treated as absent instead of surfacing a driver error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
