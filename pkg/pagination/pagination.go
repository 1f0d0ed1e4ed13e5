// Package pagination implements limit/skip windowing over list
// endpoints, mirroring the upstream catalog API's parameter names.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds the window extracted from a request's query string.
type Params struct {
	Limit int `json:"limit"`
	Skip  int `json:"skip"`
}

// DefaultParams returns the first window with the default limit.
func DefaultParams() Params {
	return Params{Limit: DefaultLimit}
}

// FromRequest extracts limit and skip from an HTTP request,
// falling back to defaults for missing or out-of-range values.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil && v > 0 && v <= MaxLimit {
			p.Limit = v
		}
	}
	if skip := r.URL.Query().Get("skip"); skip != "" {
		if v, err := strconv.Atoi(skip); err == nil && v >= 0 {
			p.Skip = v
		}
	}
	return p
}

// Window slices items to the window described by p. The second return
// is the total size of items before slicing.
func Window[T any](items []T, p Params) ([]T, int) {
	total := len(items)
	if p.Skip >= total {
		return []T{}, total
	}
	end := p.Skip + p.Limit
	if end > total {
		end = total
	}
	return items[p.Skip:end], total
}

// Result wraps one window of a list response.
type Result[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
	Limit int `json:"limit"`
	Skip  int `json:"skip"`
}

// NewResult creates a windowed result.
func NewResult[T any](data []T, total int, p Params) Result[T] {
	return Result[T]{
		Data:  data,
		Total: total,
		Limit: p.Limit,
		Skip:  p.Skip,
	}
}
