package browser

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/five82/galley/internal/recipes"
	"github.com/five82/galley/internal/render"
	"github.com/five82/galley/internal/state"
)

// Request is one fetch the controller wants performed. Page, Limit, Mode and
// Filters are the state the store takes on once the fetch succeeds.
type Request struct {
	Seq     uint64
	Mode    state.Mode
	Page    int
	Limit   int
	Filters recipes.Filters
}

// Result is the outcome of Execute.
type Result struct {
	Request Request
	List    recipes.ListResponse
	Matches []recipes.Recipe
	Err     error
	Elapsed time.Duration
}

// Controller maps browsing events onto the store, the fetcher and the view.
// All methods except Execute must be called from a single goroutine.
type Controller struct {
	store   *state.Store
	fetcher recipes.Fetcher
	view    View
	logger  *zap.Logger
	limits  []int
	filters recipes.Filters
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLimitOptions replaces the accepted page sizes.
func WithLimitOptions(limits []int) Option {
	return func(c *Controller) {
		valid := make([]int, 0, len(limits))
		for _, l := range limits {
			if l > 0 && !slices.Contains(valid, l) {
				valid = append(valid, l)
			}
		}
		if len(valid) > 0 {
			slices.Sort(valid)
			c.limits = valid
		}
	}
}

// New wires a controller. The store is used as-is; its current limit should
// be one of the limit options.
func New(store *state.Store, fetcher recipes.Fetcher, view View, opts ...Option) *Controller {
	c := &Controller{
		store:   store,
		fetcher: fetcher,
		view:    view,
		logger:  zap.NewNop(),
		limits:  slices.Clone(state.DefaultLimitOptions),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns a copy of the committed state.
func (c *Controller) Snapshot() state.Snapshot {
	return c.store.Snapshot()
}

// Filters returns the last successfully submitted search filters.
func (c *Controller) Filters() recipes.Filters {
	return c.filters
}

// LimitOptions returns the accepted page sizes in ascending order.
func (c *Controller) LimitOptions() []int {
	return slices.Clone(c.limits)
}

func (c *Controller) issue(mode state.Mode, page, limit int, filters recipes.Filters) Request {
	req := Request{
		Seq:     c.store.Issue(),
		Mode:    mode,
		Page:    page,
		Limit:   limit,
		Filters: filters,
	}
	c.logger.Debug("request issued",
		zap.Uint64("seq", req.Seq),
		zap.Stringer("mode", req.Mode),
		zap.Int("page", req.Page),
		zap.Int("limit", req.Limit))
	return req
}

func (c *Controller) current(page, limit int) Request {
	return c.issue(c.store.Mode(), page, limit, c.filters)
}

// Load issues the initial list fetch for page 1.
func (c *Controller) Load() (Request, bool) {
	return c.issue(state.ModeList, 1, c.store.Limit(), recipes.Filters{}), true
}

// PrevPage moves one page back in the current mode.
func (c *Controller) PrevPage() (Request, bool) {
	if c.store.PrevDisabled() {
		return Request{}, false
	}
	return c.current(c.store.Page()-1, c.store.Limit()), true
}

// NextPage moves one page forward in the current mode.
func (c *Controller) NextPage() (Request, bool) {
	if c.store.Page() >= c.store.LastPage() {
		return Request{}, false
	}
	return c.current(c.store.Page()+1, c.store.Limit()), true
}

// SetLimit changes the page size and returns to page 1. Sizes outside the
// option set are rejected.
func (c *Controller) SetLimit(limit int) (Request, bool) {
	if !slices.Contains(c.limits, limit) {
		return Request{}, false
	}
	return c.current(1, limit), true
}

// CycleLimit steps to the next (delta>0) or previous (delta<0) page size.
func (c *Controller) CycleLimit(delta int) (Request, bool) {
	if delta == 0 || len(c.limits) == 0 {
		return Request{}, false
	}
	idx := slices.Index(c.limits, c.store.Limit())
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = len(c.limits) - 1
	case delta > 0 && idx < len(c.limits)-1:
		idx++
	case delta < 0 && idx > 0:
		idx--
	default:
		return Request{}, false
	}
	return c.SetLimit(c.limits[idx])
}

// Search submits filters and enters search mode at page 1.
func (c *Controller) Search(filters recipes.Filters) (Request, bool) {
	return c.issue(state.ModeSearch, 1, c.store.Limit(), filters.Trimmed()), true
}

// Clear drops the filters and returns to list mode at page 1.
func (c *Controller) Clear() (Request, bool) {
	return c.issue(state.ModeList, 1, c.store.Limit(), recipes.Filters{}), true
}

// Refresh re-fetches the current page in the current mode.
func (c *Controller) Refresh() (Request, bool) {
	return c.current(c.store.Page(), c.store.Limit()), true
}

// OpenRow shows the detail drawer for the i-th visible row. It issues no
// request.
func (c *Controller) OpenRow(i int) bool {
	item, ok := c.store.Row(i)
	if !ok {
		return false
	}
	c.view.OpenDetail(render.NewDetail(item))
	return true
}

// Execute performs the fetch described by req. It is safe to call from any
// goroutine.
func (c *Controller) Execute(ctx context.Context, req Request) Result {
	start := time.Now()
	res := Result{Request: req}
	switch req.Mode {
	case state.ModeSearch:
		res.Matches, res.Err = c.fetcher.Search(ctx, req.Filters)
	default:
		res.List, res.Err = c.fetcher.List(ctx, req.Page, req.Limit)
	}
	res.Elapsed = time.Since(start)
	return res
}

// Apply commits res to the store and redraws the view. It returns false when
// res belongs to a superseded request.
func (c *Controller) Apply(res Result) bool {
	req := res.Request
	if !c.store.IsCurrent(req.Seq) {
		c.logger.Debug("stale result discarded",
			zap.Uint64("seq", req.Seq),
			zap.Stringer("mode", req.Mode))
		return false
	}

	if res.Err != nil {
		msg := ErrorMessage(res.Err)
		c.logger.Warn("fetch failed",
			zap.Uint64("seq", req.Seq),
			zap.Stringer("mode", req.Mode),
			zap.Int("page", req.Page),
			zap.Stringer("kind", msg.Kind),
			zap.Duration("elapsed", res.Elapsed),
			zap.Error(res.Err))
		c.view.ShowMessage(msg)
		return true
	}

	c.store.SetPage(req.Page)
	c.store.SetLimit(req.Limit)
	c.filters = req.Filters

	var pager Pager
	switch req.Mode {
	case state.ModeSearch:
		c.store.ApplySearch(res.Matches)
		pager = c.pager(c.store.Page(), c.store.Limit(), c.store.Total())
	default:
		c.store.ApplyList(res.List)
		// The pager echoes what the server says it served.
		page, limit := res.List.Page, res.List.Limit
		if page < 1 {
			page = c.store.Page()
		}
		if limit < 1 {
			limit = c.store.Limit()
		}
		pager = c.pager(page, limit, c.store.Total())
	}

	c.logger.Debug("fetch applied",
		zap.Uint64("seq", req.Seq),
		zap.Stringer("mode", req.Mode),
		zap.Int("page", req.Page),
		zap.Int("rows", len(c.store.Data())),
		zap.Int("total", c.store.Total()),
		zap.Duration("elapsed", res.Elapsed))

	mode := c.store.Mode()
	rows := render.Rows(c.store.Data())
	c.view.RenderRows(rows, mode)
	c.view.RenderPager(pager)
	if len(rows) == 0 {
		c.view.ShowMessage(Message{Kind: MessageEmpty, Text: render.EmptyMessage(mode)})
	} else {
		c.view.ClearMessage()
	}
	return true
}

// Do executes req and applies the result. The fetch error, if any, is
// returned after it has been shown on the view.
func (c *Controller) Do(ctx context.Context, req Request) error {
	res := c.Execute(ctx, req)
	c.Apply(res)
	return res.Err
}

func (c *Controller) pager(page, limit, total int) Pager {
	mode := c.store.Mode()
	return Pager{
		Mode:         mode,
		Page:         page,
		Limit:        limit,
		Total:        total,
		LastPage:     state.LastPage(total, limit),
		PrevDisabled: state.PrevDisabled(c.store.Page()),
		NextDisabled: c.store.NextDisabled(),
		Info:         render.PageInfo(mode, page, limit, total),
	}
}

// ErrorMessage maps a fetch error onto a message box entry.
func ErrorMessage(err error) Message {
	if errors.Is(err, recipes.ErrDecode) {
		return Message{
			Kind:   MessageDecode,
			Text:   "The recipe service sent data that could not be read.",
			Detail: err.Error(),
		}
	}
	text := "Could not reach the recipe service."
	var reqErr *recipes.RequestError
	if errors.As(err, &reqErr) && reqErr.Status > 0 {
		text = fmt.Sprintf("The recipe service answered with status %d.", reqErr.Status)
	}
	return Message{Kind: MessageNetwork, Text: text, Detail: err.Error()}
}
