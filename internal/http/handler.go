package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"locallibrary/internal/catalog"
	"locallibrary/internal/httpx"
	"locallibrary/internal/validation"

	"github.com/go-chi/chi/v5"
)

// errorPage is the payload of the generic error view.
type errorPage struct {
	Title   string `json:"title"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Handler serves catalog pages.
type Handler struct {
	catalog  *catalog.Catalog
	renderer Renderer
	logger   *slog.Logger
}

func NewHandler(c *catalog.Catalog, renderer Renderer, logger *slog.Logger) *Handler {
	return &Handler{catalog: c, renderer: renderer, logger: logger}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, view string, data any) {
	if err := h.renderer.Render(w, r, status, view, data); err != nil {
		h.logger.ErrorContext(r.Context(), "render failed",
			slog.String("view", view),
			slog.String("request_id", httpx.RequestIDFrom(r)),
			slog.Any("error", err),
		)
		http.Error(w, "An internal error occurred", http.StatusInternalServerError)
	}
}

// fail is the generic error handler: missing records are 404, malformed
// submissions 400 and everything else a logged 500.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		h.errorView(w, r, http.StatusNotFound, "not_found", "Not Found")
	case errors.Is(err, errBadRequest):
		h.errorView(w, r, http.StatusBadRequest, "bad_request", "Bad Request")
	case errors.As(err, &maxErr):
		h.errorView(w, r, http.StatusRequestEntityTooLarge, "payload_too_large", "Request body too large")
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", httpx.RequestIDFrom(r)),
			slog.Any("error", err),
		)
		h.errorView(w, r, http.StatusInternalServerError, "internal_error", "An internal error occurred")
	}
}

func (h *Handler) errorView(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	if httpx.WantsJSON(r) {
		httpx.JSONErrorWithRequest(r, w, status, code, message, nil)
		return
	}
	h.render(w, r, status, "error", errorPage{Title: message, Status: status, Message: message})
}

// page serves a view that needs no path parameter.
func page[P any](h *Handler, view string, load func(context.Context) (P, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := load(r.Context())
		if err != nil {
			h.fail(w, r, err)
			return
		}
		h.render(w, r, http.StatusOK, view, p)
	}
}

// show serves a view of the record named by the {id} path parameter.
func show[P any](h *Handler, view string, load func(context.Context, string) (P, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := load(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			h.fail(w, r, err)
			return
		}
		h.render(w, r, http.StatusOK, view, p)
	}
}

// create decodes a submission and hands it to a create operation.
func create[P any](h *Handler, view string, op func(context.Context, validation.Input) (catalog.Outcome[P], error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := decodeInput(r)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		out, err := op(r.Context(), in)
		finish(h, w, r, view, out, err)
	}
}

// update is create for an existing record. The id comes from the path only.
func update[P any](h *Handler, view string, op func(context.Context, string, validation.Input) (catalog.Outcome[P], error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := decodeInput(r)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		out, err := op(r.Context(), chi.URLParam(r, "id"), in)
		finish(h, w, r, view, out, err)
	}
}

// byID serves the delete confirmation and delete submission, which take
// only the path id.
func byID[P any](h *Handler, view string, op func(context.Context, string) (catalog.Outcome[P], error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := op(r.Context(), chi.URLParam(r, "id"))
		finish(h, w, r, view, out, err)
	}
}

func finish[P any](h *Handler, w http.ResponseWriter, r *http.Request, view string, out catalog.Outcome[P], err error) {
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if out.Redirected() {
		http.Redirect(w, r, out.Redirect, http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, view, out.Page)
}
