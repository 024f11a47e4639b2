package domain

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// DefaultLimit is the page size used when none is chosen.
const DefaultLimit = 5

// LimitChoices are the page sizes offered by the "Show" selector.
var LimitChoices = []int{5, 10, 20}

// MaxLimit bounds the page size accepted anywhere.
const MaxLimit = 100

// ViewState is the shareable part of the list view: filter, search and paging.
type ViewState struct {
	Status  Status
	Search  string
	Page    int
	Limit   int
	Overdue bool
}

// DefaultViewState returns page 1 of every task with the default limit.
func DefaultViewState() ViewState {
	return ViewState{Page: 1, Limit: DefaultLimit}
}

// Searching reports whether a title search is active.
func (v ViewState) Searching() bool {
	return strings.TrimSpace(v.Search) != ""
}

// Query returns the backend query for the current page.
func (v ViewState) Query() TaskQuery {
	return TaskQuery{
		Status:  v.Status,
		Overdue: v.Overdue,
		Page:    v.Page,
		Limit:   v.Limit,
	}
}

// Encode renders the view as a query string (page, limit, status, overdue, search).
// Unset filters are omitted.
func (v ViewState) Encode() string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(v.Page))
	q.Set("limit", strconv.Itoa(v.Limit))
	if v.Status != "" {
		q.Set("status", string(v.Status))
	}
	if v.Overdue {
		q.Set("overdue", "true")
	}
	if v.Searching() {
		q.Set("search", v.Search)
	}
	return q.Encode()
}

// ParseViewState restores a view from Encode's output.
// Missing keys keep their defaults; a leading "?" is allowed.
func ParseViewState(raw string) (ViewState, error) {
	v := DefaultViewState()
	q, err := url.ParseQuery(strings.TrimPrefix(strings.TrimSpace(raw), "?"))
	if err != nil {
		return v, fmt.Errorf("%w: %w", ErrInvalidView, err)
	}

	if s := q.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return v, fmt.Errorf("%w: page %q", ErrInvalidPage, s)
		}
		v.Page = n
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return v, fmt.Errorf("%w: limit %q", ErrInvalidLimit, s)
		}
		if err := ValidateLimit(n); err != nil {
			return v, err
		}
		v.Limit = n
	}
	if s := q.Get("status"); s != "" {
		st, err := ParseStatus(s)
		if err != nil {
			return v, err
		}
		v.Status = st
	}
	if s := q.Get("overdue"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return v, fmt.Errorf("%w: overdue %q", ErrInvalidView, s)
		}
		v.Overdue = b
	}
	v.Search = q.Get("search")
	return v, nil
}

// ValidateLimit accepts page sizes in [1, MaxLimit].
func ValidateLimit(n int) error {
	if n < 1 || n > MaxLimit {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	return nil
}

// NextLimit cycles through LimitChoices.
func NextLimit(current int) int {
	i := slices.Index(LimitChoices, current)
	return LimitChoices[(i+1)%len(LimitChoices)]
}
