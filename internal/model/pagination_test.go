package model

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedSource serves n pages of one item each and records every marker it was asked for.
type pagedSource struct {
	pages   int
	markers []string
	failAt  int
}

func (s *pagedSource) fetch(_ context.Context, marker string) (Page[int], error) {
	s.markers = append(s.markers, marker)
	idx := 0
	if marker != "" {
		n, err := strconv.Atoi(marker)
		if err != nil {
			return Page[int]{}, err
		}
		idx = n
	}
	if s.failAt > 0 && idx+1 == s.failAt {
		return Page[int]{}, errors.New("boom")
	}
	if s.pages == 0 {
		return Page[int]{}, nil
	}

	page := Page[int]{Items: []int{idx + 1}}
	if idx+1 < s.pages {
		page.Truncated = true
		page.NextMarker = strconv.Itoa(idx + 1)
	}
	return page, nil
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		pages     int
		wantItems []int
		wantCalls int
	}{
		{name: "empty listing", pages: 0, wantItems: []int{}, wantCalls: 1},
		{name: "single page", pages: 1, wantItems: []int{1}, wantCalls: 1},
		{name: "three pages", pages: 3, wantItems: []int{1, 2, 3}, wantCalls: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := &pagedSource{pages: tt.pages}
			items, err := CollectPages(Paginate(context.Background(), src.fetch))
			require.NoError(t, err)
			assert.Equal(t, tt.wantItems, items)
			assert.Len(t, src.markers, tt.wantCalls)
			assert.Equal(t, "", src.markers[0])
		})
	}
}

func TestPaginate_Lazy(t *testing.T) {
	src := &pagedSource{pages: 5}
	for page, err := range Paginate(context.Background(), src.fetch) {
		require.NoError(t, err)
		if page.Items[0] == 2 {
			break
		}
	}
	assert.Equal(t, []string{"", "1"}, src.markers)
}

func TestPaginate_StopsOnError(t *testing.T) {
	src := &pagedSource{pages: 5, failAt: 2}
	_, err := CollectPages(Paginate(context.Background(), src.fetch))
	require.EqualError(t, err, "boom")
	assert.Len(t, src.markers, 2)
}

func TestPaginate_TruncatedWithoutMarkerEnds(t *testing.T) {
	calls := 0
	fetch := func(context.Context, string) (Page[int], error) {
		calls++
		return Page[int]{Items: []int{calls}, Truncated: true}, nil
	}

	items, err := CollectPages(Paginate(context.Background(), fetch))
	require.NoError(t, err)
	assert.Equal(t, []int{1}, items)
	assert.Equal(t, 1, calls)
}

func TestPaginate_SingleUse(t *testing.T) {
	src := &pagedSource{pages: 2}
	pages := Paginate(context.Background(), src.fetch)

	_, err := CollectPages(pages)
	require.NoError(t, err)

	_, err = CollectPages(pages)
	require.ErrorIs(t, err, ErrPagesConsumed)
	assert.Len(t, src.markers, 2)
}
