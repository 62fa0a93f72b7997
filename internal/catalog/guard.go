package catalog

import (
	"context"

	"locallibrary/internal/store"

	"golang.org/x/sync/errgroup"
)

// dependents is a parent record together with the records referencing it.
type dependents[P, D any] struct {
	parent  P
	found   bool
	records []D
}

// checkDependents fetches the parent at id and the children whose field
// equals id, concurrently. A missing parent is reported through found.
func checkDependents[P, D any](ctx context.Context, parents store.Repository[P], id string, children store.Repository[D], field string) (dependents[P, D], error) {
	var out dependents[P, D]

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := parents.Get(gctx, id)
		if isNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		out.parent, out.found = p, true
		return nil
	})
	g.Go(func() (err error) {
		out.records, err = children.List(gctx, store.Where(field, id))
		return err
	})
	return out, g.Wait()
}

// guardedDelete removes the parent at id unless children still reference
// it, and reports whether it refused. The check and the delete are separate
// store calls; a child created in between is not noticed. A parent that is
// already gone counts as deleted.
func guardedDelete[P, D any](ctx context.Context, parents store.Repository[P], id string, children store.Repository[D], field string) (dependents[P, D], bool, error) {
	chk, err := checkDependents(ctx, parents, id, children, field)
	if err != nil || !chk.found {
		return chk, false, err
	}
	if len(chk.records) > 0 {
		return chk, true, nil
	}
	if err := parents.Delete(ctx, id); err != nil && !isNotFound(err) {
		return chk, false, err
	}
	return chk, false, nil
}
