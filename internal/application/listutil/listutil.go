// Package listutil parses list-view query parameters and pages in-memory results.
package listutil

import (
	"net/url"
	"slices"
	"strconv"
)

// DefaultPerPage is the page size used when none, or an unsupported one, is requested.
const DefaultPerPage = 20

// PerPageOptions are the page sizes a client may ask for.
var PerPageOptions = []int{10, 20, 50, 100}

// PageParams is the requested page. Page is 1-indexed.
type PageParams struct {
	Page    int
	PerPage int
}

// SortParams names a whitelisted column and a direction ("asc" or "desc").
// An empty Sort keeps the store's order.
type SortParams struct {
	Sort string
	Dir  string
}

// FilterParams carries the free-text search (q) and recognised exact-match filters.
type FilterParams struct {
	Search  string
	Filters map[string]string
}

// ListParams combines everything a list endpoint reads from the query string.
type ListParams struct {
	PageParams
	SortParams
	FilterParams
}

// ParseListParams reads page, per_page, sort, dir, q and the given filter keys.
// Unknown sort columns and page sizes fall back to defaults instead of failing.
func ParseListParams(q url.Values, sortColumns, filterKeys []string) ListParams {
	p := ListParams{
		PageParams: PageParams{Page: 1, PerPage: DefaultPerPage},
		SortParams: SortParams{Dir: "asc"},
		FilterParams: FilterParams{
			Search:  q.Get("q"),
			Filters: make(map[string]string, len(filterKeys)),
		},
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 1 {
		p.Page = page
	}
	if n, err := strconv.Atoi(q.Get("per_page")); err == nil && slices.Contains(PerPageOptions, n) {
		p.PerPage = n
	}
	if col := q.Get("sort"); slices.Contains(sortColumns, col) {
		p.Sort = col
	}
	if q.Get("dir") == "desc" {
		p.Dir = "desc"
	}
	for _, key := range filterKeys {
		if v := q.Get(key); v != "" {
			p.Filters[key] = v
		}
	}
	return p
}

// PageInfo describes the page actually returned.
type PageInfo struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// NewPageInfo clamps page into [1, TotalPages]. An empty result still has one page.
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	pages := max((total+perPage-1)/perPage, 1)
	return PageInfo{
		Page:       min(max(page, 1), pages),
		PerPage:    perPage,
		Total:      total,
		TotalPages: pages,
	}
}

// Offset is the index of the first item on the page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Slice returns the items on page p. Never nil.
func Slice[T any](items []T, p PageInfo) []T {
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	return items[start:min(start+p.PerPage, len(items))]
}

// SortStable orders items by the comparator registered for sp.Sort, reversed for "desc".
// Items are left untouched when sp.Sort has no comparator.
func SortStable[T any](items []T, sp SortParams, cmps map[string]func(a, b T) int) {
	cmp, ok := cmps[sp.Sort]
	if !ok {
		return
	}
	if sp.Dir == "desc" {
		slices.SortStableFunc(items, func(a, b T) int { return cmp(b, a) })
		return
	}
	slices.SortStableFunc(items, cmp)
}
