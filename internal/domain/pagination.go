package domain

// TotalPages returns ceil(totalCount / pageSize), never less than 1.
// Non-positive page sizes are treated as 1.
func TotalPages(totalCount, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	if totalCount <= 0 {
		return 1
	}
	return (totalCount + pageSize - 1) / pageSize
}

// Pager tracks the current page against a known number of pages.
type Pager struct {
	Page       int
	TotalPages int
}

// NewPager returns a pager on page for totalCount items of pageSize.
func NewPager(page, totalCount, pageSize int) Pager {
	p := Pager{Page: page, TotalPages: TotalPages(totalCount, pageSize)}
	if p.Page < 1 {
		p.Page = 1
	}
	return p
}

// HasNext reports whether Next would move.
func (p Pager) HasNext() bool {
	return p.Page < p.TotalPages
}

// HasPrev reports whether Prev would move.
func (p Pager) HasPrev() bool {
	return p.Page > 1
}

// Next advances one page unless already on the last one.
// Returns true if the page changed.
func (p *Pager) Next() bool {
	if !p.HasNext() {
		return false
	}
	p.Page++
	return true
}

// Prev goes back one page unless on page 1.
// Returns true if the page changed.
func (p *Pager) Prev() bool {
	if !p.HasPrev() {
		return false
	}
	p.Page--
	return true
}

// PageSlice returns the items of page (1-based) for a client-side paged slice.
func PageSlice[T any](items []T, page, limit int) []T {
	if limit < 1 || page < 1 {
		return items
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
