package appflow

import (
	"context"
	"fmt"
	"strings"
)

// DefaultPageSize is the page size FetchAll uses for option lists.
// It is deliberately small; the lists it serves hold a handful of entries.
const DefaultPageSize = 1

// Envelope is the JSON wrapper every build service response uses.
type Envelope[T any] struct {
	Data T     `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta carries list metadata requested with meta_fields=total.
type Meta struct {
	Total int `json:"total"`
}

// Page is one page of a list endpoint.
type Page[T any] struct {
	Items   []T
	HasMore bool
}

// FetchPage requests a single page of path. More pages remain when the
// reported total exceeds page*pageSize.
func FetchPage[T any](ctx context.Context, r Requester, path string, page, pageSize int) (Page[T], error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	endpoint := fmt.Sprintf("%s%spage=%d&page_size=%d&meta_fields=total", path, sep, page, pageSize)

	var env Envelope[[]T]
	if err := r.Get(ctx, endpoint, &env); err != nil {
		return Page[T]{}, err
	}

	total := 0
	if env.Meta != nil {
		total = env.Meta.Total
	}
	return Page[T]{Items: env.Data, HasMore: total > page*pageSize}, nil
}

// FetchAll collects every page of path in server order. A pageSize below one
// selects DefaultPageSize. Nothing is cached; each call re-fetches.
func FetchAll[T any](ctx context.Context, r Requester, path string, pageSize int) ([]T, error) {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	var all []T
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p, err := FetchPage[T](ctx, r, path, page, pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Items...)

		// An empty page means the reported total is stale; stop instead of spinning.
		if !p.HasMore || len(p.Items) == 0 {
			return all, nil
		}
	}
}
