// Package catalog joins, validates and guards mutations of library records.
// Reads go store, resolver, view model; writes go validation, then either a
// re-rendered form or persistence and a redirect to the canonical path.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"locallibrary/internal/entity"
	"locallibrary/internal/store"

	"golang.org/x/sync/errgroup"
)

// ErrNotFound reports that a requested id does not name a record.
var ErrNotFound = fmt.Errorf("catalog: %w", store.ErrNotFound)

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

// Observer receives mutation outcomes, e.g. for metrics.
type Observer interface {
	ObserveMutation(kind, op, outcome string)
}

type nopObserver struct{}

func (nopObserver) ObserveMutation(string, string, string) {}

// Mutation outcomes reported to the Observer.
const (
	OutcomeCreated  = "created"
	OutcomeUpdated  = "updated"
	OutcomeDeleted  = "deleted"
	OutcomeInvalid  = "invalid"
	OutcomeBlocked  = "blocked"
	OutcomeNotFound = "not_found"
)

// Outcome is what a write operation hands back: either a page to render or a
// location to redirect to.
type Outcome[P any] struct {
	Page     P
	Redirect string
}

// Redirected reports whether the caller should redirect instead of render.
func (o Outcome[P]) Redirected() bool {
	return o.Redirect != ""
}

func redirect[P any](path string) Outcome[P] {
	return Outcome[P]{Redirect: path}
}

func render[P any](page P) Outcome[P] {
	return Outcome[P]{Page: page}
}

// Catalog bundles the per-entity services over one store.
type Catalog struct {
	Authors       *AuthorService
	Books         *BookService
	Genres        *GenreService
	BookInstances *BookInstanceService

	store *store.Store
}

// Option configures a Catalog.
type Option func(*deps)

// WithObserver reports mutation outcomes to o.
func WithObserver(o Observer) Option {
	return func(d *deps) { d.observer = o }
}

// WithClock overrides the time source used for default due dates.
func WithClock(now func() time.Time) Option {
	return func(d *deps) { d.now = now }
}

type deps struct {
	store    *store.Store
	observer Observer
	now      func() time.Time
}

func (d *deps) observe(kind, op, outcome string) {
	d.observer.ObserveMutation(kind, op, outcome)
}

// New returns a Catalog backed by st.
func New(st *store.Store, opts ...Option) *Catalog {
	d := &deps{store: st, observer: nopObserver{}, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return &Catalog{
		Authors:       &AuthorService{d},
		Books:         &BookService{d},
		Genres:        &GenreService{d},
		BookInstances: &BookInstanceService{d},
		store:         st,
	}
}

// Counts are the record totals shown on the home page.
type Counts struct {
	Books              int `json:"books"`
	BookInstances      int `json:"bookInstances"`
	AvailableInstances int `json:"availableInstances"`
	Authors            int `json:"authors"`
	Genres             int `json:"genres"`
}

// IndexPage is the home view.
type IndexPage struct {
	Title  string `json:"title"`
	Counts Counts `json:"counts"`
}

// Index counts every kind concurrently.
func (c *Catalog) Index(ctx context.Context) (IndexPage, error) {
	var counts Counts
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		counts.Books, err = c.store.Books.Count(ctx, store.All())
		return err
	})
	g.Go(func() (err error) {
		counts.BookInstances, err = c.store.BookInstances.Count(ctx, store.All())
		return err
	})
	g.Go(func() (err error) {
		counts.AvailableInstances, err = c.store.BookInstances.Count(ctx, store.Where(store.FieldStatus, string(entity.StatusAvailable)))
		return err
	})
	g.Go(func() (err error) {
		counts.Authors, err = c.store.Authors.Count(ctx, store.All())
		return err
	})
	g.Go(func() (err error) {
		counts.Genres, err = c.store.Genres.Count(ctx, store.All())
		return err
	})
	if err := g.Wait(); err != nil {
		return IndexPage{}, fmt.Errorf("count records: %w", err)
	}
	return IndexPage{Title: "Local Library Home", Counts: counts}, nil
}

// Ping checks the underlying store.
func (c *Catalog) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
