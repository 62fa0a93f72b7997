package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"locallibrary/internal/validation"
)

var errBadRequest = errors.New("bad request")

// decodeInput reads a url-encoded or JSON submission. Repeated form keys
// and JSON arrays stay sequences.
func decodeInput(r *http.Request) (validation.Input, error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "application/json" {
		in := validation.Input{}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: decode json body: %v", errBadRequest, err)
		}
		return in, nil
	}

	if err := r.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: parse form: %v", errBadRequest, err)
	}
	return validation.FromValues(r.PostForm), nil
}
