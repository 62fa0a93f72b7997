package catalog

import (
	"context"

	"locallibrary/internal/store"
)

// Ref is a reference attached in place of a raw id. Resolved is false when
// the id names no record; Record is then the zero value.
type Ref[T any] struct {
	ID       string `json:"id"`
	Record   T      `json:"record"`
	Resolved bool   `json:"resolved"`
}

// Resolve fetches the records named by ids, one level deep, keeping the
// order of ids. Each distinct id is fetched once. Ids that do not resolve
// yield unresolved refs; any other store error is returned.
func Resolve[T any](ctx context.Context, repo store.Repository[T], ids []string) ([]Ref[T], error) {
	seen := make(map[string]Ref[T], len(ids))
	out := make([]Ref[T], 0, len(ids))
	for _, id := range ids {
		ref, ok := seen[id]
		if !ok {
			var err error
			ref, err = ResolveOne(ctx, repo, id)
			if err != nil {
				return nil, err
			}
			seen[id] = ref
		}
		out = append(out, ref)
	}
	return out, nil
}

// ResolveOne fetches the record named by id.
func ResolveOne[T any](ctx context.Context, repo store.Repository[T], id string) (Ref[T], error) {
	rec, err := repo.Get(ctx, id)
	switch {
	case err == nil:
		return Ref[T]{ID: id, Record: rec, Resolved: true}, nil
	case isNotFound(err):
		return Ref[T]{ID: id}, nil
	default:
		return Ref[T]{}, err
	}
}

// resolveEach resolves one reference per record, sharing fetches across the
// whole slice.
func resolveEach[R, T any](ctx context.Context, repo store.Repository[T], recs []R, ref func(R) string) ([]Ref[T], error) {
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = ref(r)
	}
	return Resolve(ctx, repo, ids)
}
