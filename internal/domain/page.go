package domain

// ListPage carries page/size values from the HTTP layer to the repo layer
// for the trip history listing. Page is 1-indexed.
type ListPage struct {
	Page int
	Size int
}

// NewListPage builds a ListPage from optional HTTP query params.
// Nil pointers fall back to page=1, size=50. A logbook period holds twelve
// weeks of trips, so the default size keeps a typical week-by-week review to
// a handful of requests; size is capped at 500 to bound query cost.
func NewListPage(page, size *int) ListPage {
	p := ListPage{Page: 1, Size: 50}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if size != nil && *size >= 1 {
		p.Size = *size
		if p.Size > 500 {
			p.Size = 500
		}
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p ListPage) Offset() int {
	return (p.Page - 1) * p.Size
}
