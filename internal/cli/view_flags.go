package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/todo/internal/domain"
)

// viewFlags are the list filters shared by list, count and export.
// Flags given explicitly override the values decoded from --view.
type viewFlags struct {
	query   string
	status  string
	search  string
	page    int
	limit   int
	overdue bool
}

func (f *viewFlags) register(cmd *cobra.Command, paging bool) {
	cmd.Flags().StringVar(&f.query, "view", "", "Start from a view query string (page=2&limit=10&status=1)")
	cmd.Flags().StringVar(&f.status, "status", "", "Filter by status (pending, in_progress, completed or 0/1/2)")
	cmd.Flags().StringVarP(&f.search, "search", "q", "", "Search titles (case-insensitive)")
	cmd.Flags().BoolVar(&f.overdue, "overdue", false, "Only tasks past their due date")
	if paging {
		cmd.Flags().IntVarP(&f.page, "page", "p", 1, "Page number")
		cmd.Flags().IntVarP(&f.limit, "limit", "n", 0, "Page size (default from view.limit)")
	}
}

// build resolves the view. defaultLimit applies when neither --view nor
// --limit sets one.
func (f *viewFlags) build(cmd *cobra.Command, defaultLimit int) (domain.ViewState, error) {
	v := domain.ViewState{Page: 1, Limit: defaultLimit}
	if f.query != "" {
		parsed, err := domain.ParseViewState(f.query)
		if err != nil {
			return v, fmt.Errorf("--view: %w", err)
		}
		v = parsed
	}

	changed := cmd.Flags().Changed
	if changed("status") {
		st, err := domain.ParseStatus(f.status)
		if err != nil {
			return v, err
		}
		v.Status = st
	}
	if changed("search") {
		v.Search = f.search
	}
	if changed("overdue") {
		v.Overdue = f.overdue
	}
	if changed("page") {
		if f.page < 1 {
			return v, fmt.Errorf("%w: %d", domain.ErrInvalidPage, f.page)
		}
		v.Page = f.page
	}
	if changed("limit") {
		if err := domain.ValidateLimit(f.limit); err != nil {
			return v, err
		}
		v.Limit = f.limit
	}
	return v, nil
}
