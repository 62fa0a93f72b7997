package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"locallibrary/internal/catalog"
	"locallibrary/internal/httpx"
	"locallibrary/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// RouterDeps groups what NewRouter wires together. Metrics, Gatherer and
// RateLimiter are optional.
type RouterDeps struct {
	Catalog      *catalog.Catalog
	Renderer     Renderer
	Logger       *slog.Logger
	Metrics      *metrics.Collector
	Gatherer     prometheus.Gatherer
	RateLimiter  *httpx.RateLimitMiddleware
	MaxBodyBytes int64
	EnableHSTS   bool
}

// NewRouter returns the application handler.
//
// Middleware order:
//
//	RequestID → AccessLog → Recovery → SecurityHeaders
//
// Catalog routes add RequestSizeLimit and RateLimit.
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var observe httpx.ObserveFunc
	if deps.Metrics != nil {
		observe = deps.Metrics.ObserveHTTP
	}

	r := chi.NewRouter()
	r.Use(httpx.RequestIDMiddleware)
	r.Use(httpx.AccessLogMiddleware(logger, observe))
	r.Use(httpx.RecoveryMiddleware(logger))
	r.Use(httpx.SecurityHeadersMiddleware(deps.EnableHSTS))

	h := NewHandler(deps.Catalog, deps.Renderer, logger)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.errorView(w, r, http.StatusNotFound, "not_found", "Not Found")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := deps.Catalog.Ping(ctx); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/catalog", http.StatusFound)
	})

	c := deps.Catalog
	r.Route("/catalog", func(r chi.Router) {
		if deps.MaxBodyBytes > 0 {
			r.Use(httpx.RequestSizeLimitMiddleware(deps.MaxBodyBytes))
		}
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware)
		}

		r.Get("/", page(h, "index", c.Index))

		r.Get("/authors", page(h, "author_list", c.Authors.List))
		r.Route("/author", func(r chi.Router) {
			r.Get("/create", page(h, "author_form", c.Authors.CreateForm))
			r.Post("/create", create(h, "author_form", c.Authors.Create))
			r.Get("/{id}", show(h, "author_detail", c.Authors.Detail))
			r.Get("/{id}/update", show(h, "author_form", c.Authors.UpdateForm))
			r.Post("/{id}/update", update(h, "author_form", c.Authors.Update))
			r.Get("/{id}/delete", byID(h, "author_delete", c.Authors.DeleteForm))
			r.Post("/{id}/delete", byID(h, "author_delete", c.Authors.Delete))
		})

		r.Get("/books", page(h, "book_list", c.Books.List))
		r.Route("/book", func(r chi.Router) {
			r.Get("/create", page(h, "book_form", c.Books.CreateForm))
			r.Post("/create", create(h, "book_form", c.Books.Create))
			r.Get("/{id}", show(h, "book_detail", c.Books.Detail))
			r.Get("/{id}/update", show(h, "book_form", c.Books.UpdateForm))
			r.Post("/{id}/update", update(h, "book_form", c.Books.Update))
			r.Get("/{id}/delete", byID(h, "book_delete", c.Books.DeleteForm))
			r.Post("/{id}/delete", byID(h, "book_delete", c.Books.Delete))
		})

		r.Get("/genres", page(h, "genre_list", c.Genres.List))
		r.Route("/genre", func(r chi.Router) {
			r.Get("/create", page(h, "genre_form", c.Genres.CreateForm))
			r.Post("/create", create(h, "genre_form", c.Genres.Create))
			r.Get("/{id}", show(h, "genre_detail", c.Genres.Detail))
			r.Get("/{id}/update", show(h, "genre_form", c.Genres.UpdateForm))
			r.Post("/{id}/update", update(h, "genre_form", c.Genres.Update))
			r.Get("/{id}/delete", byID(h, "genre_delete", c.Genres.DeleteForm))
			r.Post("/{id}/delete", byID(h, "genre_delete", c.Genres.Delete))
		})

		r.Get("/bookinstances", page(h, "bookinstance_list", c.BookInstances.List))
		r.Route("/bookInstance", func(r chi.Router) {
			r.Get("/create", page(h, "bookinstance_form", c.BookInstances.CreateForm))
			r.Post("/create", create(h, "bookinstance_form", c.BookInstances.Create))
			r.Get("/{id}", show(h, "bookinstance_detail", c.BookInstances.Detail))
			r.Get("/{id}/update", show(h, "bookinstance_form", c.BookInstances.UpdateForm))
			r.Post("/{id}/update", update(h, "bookinstance_form", c.BookInstances.Update))
			r.Get("/{id}/delete", byID(h, "bookinstance_delete", c.BookInstances.DeleteForm))
			r.Post("/{id}/delete", byID(h, "bookinstance_delete", c.BookInstances.Delete))
		})
	})

	return r
}
