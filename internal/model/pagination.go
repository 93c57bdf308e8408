package model

import (
	"context"
	"errors"
	"iter"
)

var ErrPagesConsumed = errors.New("pagination: sequence already consumed")

// Page is one page of a marker-paginated listing.
type Page[T any] struct {
	Items      []T
	Truncated  bool
	NextMarker string // Only meaningful when Truncated is set
}

// HasNext reports whether another page can be requested after this one.
// A truncated page without a marker is treated as the last page.
func (p Page[T]) HasNext() bool {
	return p.Truncated && p.NextMarker != ""
}

// FetchPageFunc fetches the page starting after marker. The first page is
// requested with an empty marker.
type FetchPageFunc[T any] func(ctx context.Context, marker string) (Page[T], error)

// Paginate returns a lazy sequence of pages. Each page is fetched only when the
// consumer asks for it and the sequence ends after the first page that has no
// successor, or after the first error. The sequence is single-use, ranging over
// it a second time yields ErrPagesConsumed.
func Paginate[T any](ctx context.Context, fetch FetchPageFunc[T]) iter.Seq2[Page[T], error] {
	consumed := false
	return func(yield func(Page[T], error) bool) {
		if consumed {
			yield(Page[T]{}, ErrPagesConsumed)
			return
		}
		consumed = true

		marker := ""
		for {
			page, err := fetch(ctx, marker)
			if err != nil {
				yield(Page[T]{}, err)
				return
			}
			if !yield(page, nil) || !page.HasNext() {
				return
			}
			marker = page.NextMarker
		}
	}
}

// CollectPages drains pages in order and concatenates their items.
func CollectPages[T any](pages iter.Seq2[Page[T], error]) ([]T, error) {
	items := make([]T, 0)
	for page, err := range pages {
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
	}
	return items, nil
}
