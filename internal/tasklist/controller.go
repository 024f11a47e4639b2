// Package tasklist holds the state of the task list view and orchestrates
// its backend calls.
//
// The controller is not safe for concurrent use. State changes return request
// values; the caller runs Fetch/FetchCount/Delete elsewhere (they only read the
// request) and hands the responses back to Apply/ApplyCount/ApplyDelete on the
// goroutine that owns the controller. Every request carries a sequence number
// and only the response to the latest one is committed.
package tasklist

import (
	"context"
	"log/slog"

	"github.com/runoshun/todo/internal/domain"
	"github.com/runoshun/todo/internal/usecase"
)

// Request asks for one page of the list view.
type Request struct {
	View domain.ViewState
	Seq  uint64
}

// Response is the outcome of a Request.
// Fields are ordered to minimize memory padding.
type Response struct {
	Err      error
	Tasks    []domain.Task
	Seq      uint64
	Total    int // Search matches; zero for paged listings
	Searched bool
}

// CountRequest asks for the number of tasks matching the active filters.
type CountRequest struct {
	Input usecase.CountTasksInput
	Seq   uint64
}

// CountResponse is the outcome of a CountRequest.
type CountResponse struct {
	Err   error
	Seq   uint64
	Count int
}

// Refresh bundles the requests issued by a state change.
// Count is nil while searching: the total comes from the search results.
type Refresh struct {
	Count *CountRequest
	List  Request
}

// Deps are the use cases the controller drives.
type Deps struct {
	List   *usecase.ListTasks
	Count  *usecase.CountTasks
	Delete *usecase.DeleteTask
	Logger *slog.Logger
}

// Controller holds the list view state.
// Fields are ordered to minimize memory padding.
type Controller struct {
	lastErr    error
	deps       Deps
	tasks      []domain.Task
	view       domain.ViewState
	deleteFlow domain.DeleteFlow
	seq        uint64
	countSeq   uint64
	total      int
	loading    bool
}

// New creates a controller showing view.
// Invalid page or limit values fall back to the defaults.
func New(deps Deps, view domain.ViewState) *Controller {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if view.Page < 1 {
		view.Page = 1
	}
	if domain.ValidateLimit(view.Limit) != nil {
		view.Limit = domain.DefaultLimit
	}
	return &Controller{deps: deps, view: view}
}

// View returns the current view state.
func (c *Controller) View() domain.ViewState {
	return c.view
}

// Location returns the view encoded as a shareable query string.
func (c *Controller) Location() string {
	return c.view.Encode()
}

// Tasks returns the cached page as received.
func (c *Controller) Tasks() []domain.Task {
	return c.tasks
}

// Visible returns the cached page re-filtered by the search text.
func (c *Controller) Visible() []domain.Task {
	return domain.FilterByTitle(c.tasks, c.view.Search)
}

// Total returns the last known number of matching tasks.
func (c *Controller) Total() int {
	return c.total
}

// TotalPages returns the number of pages for the last known total.
func (c *Controller) TotalPages() int {
	return domain.TotalPages(c.total, c.view.Limit)
}

// Pager returns a pager positioned on the current page.
func (c *Controller) Pager() domain.Pager {
	return domain.NewPager(c.view.Page, c.total, c.view.Limit)
}

// Loading reports whether the latest list request is still outstanding.
func (c *Controller) Loading() bool {
	return c.loading
}

// Err returns the last backend error, if any.
func (c *Controller) Err() error {
	return c.lastErr
}

// ClearErr forgets the last backend error.
func (c *Controller) ClearErr() {
	c.lastErr = nil
}

// Start issues the initial fetch.
func (c *Controller) Start() Refresh {
	return c.refresh()
}

// Reload refetches the current page without changing the view.
func (c *Controller) Reload() Refresh {
	return c.refresh()
}

// SetStatus filters by status ("" = all) and goes back to page 1.
func (c *Controller) SetStatus(s domain.Status) Refresh {
	c.view.Status = s
	c.view.Page = 1
	return c.refresh()
}

// SetOverdue toggles the overdue filter and goes back to page 1.
func (c *Controller) SetOverdue(on bool) Refresh {
	c.view.Overdue = on
	c.view.Page = 1
	return c.refresh()
}

// SetLimit changes the page size and goes back to page 1.
func (c *Controller) SetLimit(n int) (Refresh, error) {
	if err := domain.ValidateLimit(n); err != nil {
		return Refresh{}, err
	}
	c.view.Limit = n
	c.view.Page = 1
	return c.refresh(), nil
}

// SetSearch changes the title search and goes back to page 1.
func (c *Controller) SetSearch(q string) Refresh {
	c.view.Search = q
	c.view.Page = 1
	return c.refresh()
}

// SetView replaces the whole view, e.g. from a parsed query string.
func (c *Controller) SetView(v domain.ViewState) (Refresh, error) {
	if v.Page < 1 {
		return Refresh{}, domain.ErrInvalidPage
	}
	if err := domain.ValidateLimit(v.Limit); err != nil {
		return Refresh{}, err
	}
	c.view = v
	return c.refresh(), nil
}

// NextPage moves forward unless on the last page.
// ok is false when the page did not change and nothing needs fetching.
func (c *Controller) NextPage() (r Refresh, ok bool) {
	p := c.Pager()
	if !p.Next() {
		return Refresh{}, false
	}
	c.view.Page = p.Page
	return c.refreshList(), true
}

// PrevPage moves back unless on page 1.
func (c *Controller) PrevPage() (r Refresh, ok bool) {
	p := c.Pager()
	if !p.Prev() {
		return Refresh{}, false
	}
	c.view.Page = p.Page
	return c.refreshList(), true
}

func (c *Controller) refresh() Refresh {
	r := c.refreshList()
	if !c.view.Searching() {
		c.countSeq++
		r.Count = &CountRequest{
			Seq:   c.countSeq,
			Input: usecase.CountTasksInput{Status: c.view.Status, Overdue: c.view.Overdue},
		}
	}
	return r
}

func (c *Controller) refreshList() Refresh {
	c.seq++
	c.loading = true
	c.deps.Logger.Debug("fetch tasks", "seq", c.seq, "view", c.view.Encode())
	return Refresh{List: Request{Seq: c.seq, View: c.view}}
}

// Fetch runs a list request. It reads nothing but req and may run on any goroutine.
func (c *Controller) Fetch(ctx context.Context, req Request) Response {
	out, err := c.deps.List.Execute(ctx, usecase.ListTasksInput{View: req.View})
	if err != nil {
		return Response{Seq: req.Seq, Err: err}
	}
	return Response{
		Seq:      req.Seq,
		Tasks:    out.Tasks,
		Total:    out.Total,
		Searched: out.Searched,
	}
}

// FetchCount runs a count request. It may run on any goroutine.
func (c *Controller) FetchCount(ctx context.Context, req CountRequest) CountResponse {
	out, err := c.deps.Count.Execute(ctx, req.Input)
	if err != nil {
		return CountResponse{Seq: req.Seq, Err: err}
	}
	return CountResponse{Seq: req.Seq, Count: out.Count}
}

// Apply commits resp if it answers the latest request.
// Returns false for stale responses and failures; a failure keeps the
// current list.
func (c *Controller) Apply(resp Response) bool {
	if resp.Seq != c.seq {
		c.deps.Logger.Debug("discard stale tasks response", "seq", resp.Seq, "latest", c.seq)
		return false
	}
	c.loading = false
	if resp.Err != nil {
		c.lastErr = resp.Err
		c.deps.Logger.Warn("fetch tasks failed", "seq", resp.Seq, "error", resp.Err)
		return false
	}
	c.tasks = resp.Tasks
	if resp.Searched {
		c.total = resp.Total
	}
	return true
}

// ApplyCount commits a count if it answers the latest count request.
// When the current page no longer exists the view moves to the last page and
// the returned refresh must be run.
func (c *Controller) ApplyCount(resp CountResponse) (*Refresh, bool) {
	if resp.Seq != c.countSeq {
		c.deps.Logger.Debug("discard stale count response", "seq", resp.Seq, "latest", c.countSeq)
		return nil, false
	}
	if resp.Err != nil {
		c.lastErr = resp.Err
		c.deps.Logger.Warn("count tasks failed", "seq", resp.Seq, "error", resp.Err)
		return nil, false
	}
	if c.view.Searching() {
		return nil, false
	}
	c.total = resp.Count
	if last := c.TotalPages(); c.view.Page > last {
		c.view.Page = last
		r := c.refreshList()
		return &r, true
	}
	return nil, true
}

// Reorder moves the visible task at from to index to in the cached page.
// The new order is not sent to the backend.
func (c *Controller) Reorder(from, to int) bool {
	visible := c.Visible()
	if from < 0 || from >= len(visible) || to < 0 || to >= len(visible) {
		return false
	}
	src := c.indexOf(visible[from].ID)
	dst := c.indexOf(visible[to].ID)
	moved, ok := domain.Move(c.tasks, src, dst)
	if !ok {
		return false
	}
	c.tasks = moved
	return true
}

func (c *Controller) indexOf(id string) int {
	for i, t := range c.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// DeleteDialog reports whether a delete confirmation is open, and for which task.
func (c *Controller) DeleteDialog() (string, bool) {
	return c.deleteFlow.Target(), c.deleteFlow.DialogOpen()
}

// RequestDelete selects a task for deletion and opens the confirmation.
func (c *Controller) RequestDelete(id string) error {
	return c.deleteFlow.Request(id)
}

// CancelDelete closes the confirmation and leaves the list untouched.
func (c *Controller) CancelDelete() bool {
	if !c.deleteFlow.Cancel() {
		return false
	}
	c.deleteFlow.Settle()
	return true
}

// ConfirmDelete accepts the pending deletion and returns the id to delete.
func (c *Controller) ConfirmDelete() (string, error) {
	return c.deleteFlow.Confirm()
}

// Delete runs the deletion. It may run on any goroutine.
func (c *Controller) Delete(ctx context.Context, id string) error {
	_, err := c.deps.Delete.Execute(ctx, usecase.DeleteTaskInput{TaskID: id})
	return err
}

// ApplyDelete settles the flow. After a successful delete the current page
// is refetched; a failure is recorded and nothing is retried.
func (c *Controller) ApplyDelete(id string, err error) (Refresh, bool) {
	c.deleteFlow.Settle()
	if err != nil {
		c.lastErr = err
		c.deps.Logger.Warn("delete task failed", "id", id, "error", err)
		return Refresh{}, false
	}
	return c.refresh(), true
}
