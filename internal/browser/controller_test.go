package browser_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/five82/galley/internal/browser"
	"github.com/five82/galley/internal/recipes"
	"github.com/five82/galley/internal/recipes/recipestest"
	"github.com/five82/galley/internal/render"
	"github.com/five82/galley/internal/state"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"))
}

type fakeView struct {
	rows     []render.Row
	mode     state.Mode
	pager    browser.Pager
	message  *browser.Message
	detail   *render.Detail
	rendered int
}

func (v *fakeView) RenderRows(rows []render.Row, mode state.Mode) {
	v.rows = rows
	v.mode = mode
	v.rendered++
}

func (v *fakeView) RenderPager(p browser.Pager) { v.pager = p }

func (v *fakeView) ShowMessage(m browser.Message) { v.message = &m }

func (v *fakeView) ClearMessage() { v.message = nil }

func (v *fakeView) OpenDetail(d render.Detail) { v.detail = &d }

func (v *fakeView) titles() []string {
	out := make([]string, 0, len(v.rows))
	for _, r := range v.rows {
		out = append(out, r.Title)
	}
	return out
}

type harness struct {
	t     *testing.T
	srv   *recipestest.Server
	store *state.Store
	view  *fakeView
	ctrl  *browser.Controller
	ctx   context.Context
}

func newHarness(t *testing.T, items []recipes.Recipe) *harness {
	t.Helper()
	srv := recipestest.New(t, items)
	client, err := recipes.NewClient(srv.BaseURL())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	store := state.NewStore(state.DefaultLimit)
	view := &fakeView{}
	return &harness{
		t:     t,
		srv:   srv,
		store: store,
		view:  view,
		ctrl:  browser.New(store, client, view),
		ctx:   ctx,
	}
}

func (h *harness) do(req browser.Request, ok bool) error {
	h.t.Helper()
	require.True(h.t, ok, "event should issue a request")
	return h.ctrl.Do(h.ctx, req)
}

func TestLoadRendersFirstPage(t *testing.T) {
	h := newHarness(t, recipestest.Fixture(42))
	require.NoError(t, h.do(h.ctrl.Load()))

	assert.Len(t, h.view.rows, 15)
	assert.Equal(t, "Recipe 01", h.view.rows[0].Title)
	assert.Equal(t, state.ModeList, h.view.mode)
	assert.Nil(t, h.view.message)
	assert.Equal(t, browser.Pager{
		Mode:         state.ModeList,
		Page:         1,
		Limit:        15,
		Total:        42,
		LastPage:     3,
		PrevDisabled: true,
		NextDisabled: false,
		Info:         "Page 1 • 15/page • Total 42",
	}, h.view.pager)

	last := h.srv.LastRequest()
	assert.Equal(t, "/api/US_recipes", last.Path)
	assert.Equal(t, "1", last.Query.Get("page"))
	assert.Equal(t, "15", last.Query.Get("limit"))
}

func TestPagingThroughList(t *testing.T) {
	h := newHarness(t, recipestest.Fixture(42))
	require.NoError(t, h.do(h.ctrl.Load()))

	_, ok := h.ctrl.PrevPage()
	assert.False(t, ok, "previous is disabled on page 1")

	require.NoError(t, h.do(h.ctrl.NextPage()))
	require.NoError(t, h.do(h.ctrl.NextPage()))
	assert.Equal(t, 3, h.store.Page())
	assert.Len(t, h.view.rows, 12)
	assert.Equal(t, "Recipe 31", h.view.rows[0].Title)
	assert.True(t, h.view.pager.NextDisabled)
	assert.False(t, h.view.pager.PrevDisabled)

	before := len(h.srv.Requests())
	_, ok = h.ctrl.NextPage()
	assert.False(t, ok, "next is disabled on the last page")
	assert.Len(t, h.srv.Requests(), before)

	require.NoError(t, h.do(h.ctrl.PrevPage()))
	assert.Equal(t, 2, h.store.Page())
	assert.Equal(t, "Recipe 16", h.view.rows[0].Title)
}

func TestSetLimitResetsPage(t *testing.T) {
	h := newHarness(t, recipestest.Fixture(42))
	require.NoError(t, h.do(h.ctrl.Load()))
	require.NoError(t, h.do(h.ctrl.NextPage()))

	require.NoError(t, h.do(h.ctrl.SetLimit(50)))
	assert.Equal(t, 1, h.store.Page())
	assert.Equal(t, 50, h.store.Limit())
	assert.Len(t, h.view.rows, 42)
	assert.True(t, h.view.pager.NextDisabled)

	_, ok := h.ctrl.SetLimit(7)
	assert.False(t, ok, "limits outside the option set are rejected")
	assert.Equal(t, 50, h.store.Limit())
}

func TestCycleLimit(t *testing.T) {
	h := newHarness(t, recipestest.Fixture(42))

	require.NoError(t, h.do(h.ctrl.CycleLimit(1)))
	assert.Equal(t, 20, h.store.Limit())
	require.NoError(t, h.do(h.ctrl.CycleLimit(1)))
	assert.Equal(t, 50, h.store.Limit())
	_, ok := h.ctrl.CycleLimit(1)
	assert.False(t, ok)

	require.NoError(t, h.do(h.ctrl.CycleLimit(-1)))
	assert.Equal(t, 20, h.store.Limit())
}

func TestSearchPaginatesLocally(t *testing.T) {
	h := newHarness(t, recipestest.Fixture(42))
	require.NoError(t, h.do(h.ctrl.SetLimit(5)))

	require.NoError(t, h.do(h.ctrl.Search(recipes.Filters{Cuisine: " italian "})))
	assert.Equal(t, state.ModeSearch, h.store.Mode())
	assert.Equal(t, 21, h.store.Total())
	assert.Equal(t, []string{"Recipe 01", "Recipe 03", "Recipe 05", "Recipe 07", "Recipe 09"}, h.view.titles())
	assert.Equal(t, "Search • Page 1 • 5/page • Matches 21", h.view.pager.Info)
	assert.Equal(t, "italian", h.ctrl.Filters().Cuisine)

	last := h.srv.LastRequest()
	assert.Equal(t, "/api/US_recipes/search", last.Path)
	assert.Equal(t, "italian", last.Query.Get("cuisine"))
	assert.False(t, last.Query.Has("title"))
	assert.False(t, last.Query.Has("page"))

	require.NoError(t, h.do(h.ctrl.NextPage()))
	assert.Equal(t, []string{"Recipe 11", "Recipe 13", "Recipe 15", "Recipe 17", "Recipe 19"}, h.view.titles())
	assert.Equal(t, "italian", h.srv.LastRequest().Query.Get("cuisine"), "paging reuses the submitted filters")

	for range 3 {
		require.NoError(t, h.do(h.ctrl.NextPage()))
	}
	assert.Equal(t, 5, h.store.Page())
	assert.Equal(t, []string{"Recipe 41"}, h.view.titles())
	assert.True(t, h.view.pager.NextDisabled)
}

func TestSearchWithNoMatches(t *testing.T) {
	h := newHarness(t, recipestest.Fixture(10))
	require.NoError(t, h.do(h.ctrl.Search(recipes.Filters{Title: "nothing like this"})))

	assert.Empty(t, h.view.rows)
	require.NotNil(t, h.view.message)
	assert.Equal(t, browser.Message{Kind: browser.MessageEmpty, Text: "No results found."}, *h.view.message)
	assert.True(t, h.view.pager.PrevDisabled)
	assert.True(t, h.view.pager.NextDisabled)
}

func TestEmptyListMessage(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.do(h.ctrl.Load()))
	require.NotNil(t, h.view.message)
	assert.Equal(t, "No data.", h.view.message.Text)
}

func TestClearReturnsToList(t *testing.T) {
	h := newHarness(t, recipestest.Fixture(42))
	require.NoError(t, h.do(h.ctrl.Search(recipes.Filters{Cuisine: "Mexican"})))
	require.NoError(t, h.do(h.ctrl.NextPage()))

	require.NoError(t, h.do(h.ctrl.Clear()))
	assert.Equal(t, state.ModeList, h.store.Mode())
	assert.Equal(t, 1, h.store.Page())
	assert.Equal(t, recipes.Filters{}, h.ctrl.Filters())
	assert.Equal(t, "/api/US_recipes", h.srv.LastRequest().Path)
}

func TestEmptySearchMatchesDirectList(t *testing.T) {
	h := newHarness(t, recipestest.Fixture(42))
	require.NoError(t, h.do(h.ctrl.Search(recipes.Filters{Title: "  "})))
	searched := h.view.rows

	require.NoError(t, h.do(h.ctrl.Clear()))
	listed := h.view.rows

	if diff := cmp.Diff(listed, searched); diff != "" {
		t.Fatalf("empty search differs from list (-list +search):\n%s", diff)
	}
	assert.Equal(t, h.view.pager.Total, h.store.Total())
}

func TestRefreshKeepsPageAndMode(t *testing.T) {
	h := newHarness(t, recipestest.Fixture(42))
	require.NoError(t, h.do(h.ctrl.Load()))
	require.NoError(t, h.do(h.ctrl.NextPage()))

	h.srv.SetRecipes(recipestest.Fixture(20))
	require.NoError(t, h.do(h.ctrl.Refresh()))
	assert.Equal(t, 2, h.store.Page())
	assert.Equal(t, 20, h.store.Total())
	assert.Len(t, h.view.rows, 5)
}

func TestErrorsKeepRowsAndRecover(t *testing.T) {
	h := newHarness(t, recipestest.Fixture(42))
	require.NoError(t, h.do(h.ctrl.Load()))
	rendered := h.view.rendered

	h.srv.SetFailure(recipestest.FailStatus)
	err := h.do(h.ctrl.NextPage())
	require.Error(t, err)
	assert.True(t, recipes.IsNetwork(err))
	require.NotNil(t, h.view.message)
	assert.Equal(t, browser.MessageNetwork, h.view.message.Kind)
	assert.Contains(t, h.view.message.Text, "500")
	assert.Equal(t, rendered, h.view.rendered, "rows are not redrawn on failure")
	assert.Equal(t, 1, h.store.Page(), "failed fetches do not move the page")
	assert.Len(t, h.view.rows, 15)

	h.srv.SetFailure(recipestest.FailDecode)
	err = h.do(h.ctrl.NextPage())
	require.Error(t, err)
	assert.Equal(t, browser.MessageDecode, h.view.message.Kind)

	h.srv.SetFailure(recipestest.FailNone)
	require.NoError(t, h.do(h.ctrl.NextPage()))
	assert.Nil(t, h.view.message)
	assert.Equal(t, 2, h.store.Page())
}

func TestUnreachableServerIsNetworkMessage(t *testing.T) {
	client, err := recipes.NewClient("http://127.0.0.1:1/api", recipes.WithTimeout(time.Second))
	require.NoError(t, err)
	view := &fakeView{}
	ctrl := browser.New(state.NewStore(0), client, view)

	req, _ := ctrl.Load()
	require.Error(t, ctrl.Do(context.Background(), req))
	require.NotNil(t, view.message)
	assert.Equal(t, browser.MessageNetwork, view.message.Kind)
	assert.Equal(t, "Could not reach the recipe service.", view.message.Text)
	assert.Nil(t, view.rows)
}

func TestStaleResultsAreDiscarded(t *testing.T) {
	h := newHarness(t, recipestest.Fixture(42))
	require.NoError(t, h.do(h.ctrl.Load()))

	slow, _ := h.ctrl.NextPage()
	fast, _ := h.ctrl.SetLimit(5)

	fastRes := h.ctrl.Execute(h.ctx, fast)
	slowRes := h.ctrl.Execute(h.ctx, slow)

	assert.True(t, h.ctrl.Apply(fastRes))
	assert.False(t, h.ctrl.Apply(slowRes), "older request must not overwrite newer state")
	assert.Equal(t, 5, h.store.Limit())
	assert.Equal(t, 1, h.store.Page())
	assert.Len(t, h.view.rows, 5)

	// Even when the older response arrives last, it loses.
	a, _ := h.ctrl.Search(recipes.Filters{Cuisine: "Italian"})
	b, _ := h.ctrl.Search(recipes.Filters{Cuisine: "Mexican"})
	resB := h.ctrl.Execute(h.ctx, b)
	resA := h.ctrl.Execute(h.ctx, a)
	assert.True(t, h.ctrl.Apply(resB))
	assert.False(t, h.ctrl.Apply(resA))
	assert.Equal(t, "Mexican", h.ctrl.Filters().Cuisine)
}

func TestStaleErrorIsIgnored(t *testing.T) {
	h := newHarness(t, recipestest.Fixture(42))
	first, _ := h.ctrl.Load()
	second, _ := h.ctrl.Refresh()

	ok := h.ctrl.Apply(browser.Result{Request: first, Err: recipes.ErrNetwork})
	assert.False(t, ok)
	assert.Nil(t, h.view.message)

	require.NoError(t, h.ctrl.Do(h.ctx, second))
}

func TestCancelledRequestIsStale(t *testing.T) {
	h := newHarness(t, recipestest.Fixture(42))
	release := h.srv.Hold()
	t.Cleanup(release)

	ctx, cancel := context.WithCancel(h.ctx)
	old, _ := h.ctrl.Load()
	done := make(chan browser.Result, 1)
	go func() { done <- h.ctrl.Execute(ctx, old) }()

	cancel()
	res := <-done
	require.Error(t, res.Err)
	release()

	next, _ := h.ctrl.Refresh()
	assert.False(t, h.ctrl.Apply(res))
	require.NoError(t, h.ctrl.Do(h.ctx, next))
	assert.Len(t, h.view.rows, 15)
}

func TestOpenRow(t *testing.T) {
	h := newHarness(t, recipestest.Fixture(42))
	require.NoError(t, h.do(h.ctrl.Load()))
	requests := len(h.srv.Requests())

	require.True(t, h.ctrl.OpenRow(2))
	require.NotNil(t, h.view.detail)
	assert.Equal(t, "Recipe 03", h.view.detail.Title)
	assert.False(t, h.view.detail.TimesExpanded)
	assert.Len(t, h.srv.Requests(), requests, "opening a row issues no request")

	assert.False(t, h.ctrl.OpenRow(15))
	assert.False(t, h.ctrl.OpenRow(-1))
}

func TestWithLimitOptions(t *testing.T) {
	ctrl := browser.New(state.NewStore(10), nil, &fakeView{},
		browser.WithLimitOptions([]int{25, 10, -1, 10, 0}))
	assert.Equal(t, []int{10, 25}, ctrl.LimitOptions())

	_, ok := ctrl.SetLimit(15)
	assert.False(t, ok)
	req, ok := ctrl.SetLimit(25)
	require.True(t, ok)
	assert.Equal(t, 25, req.Limit)
	assert.Equal(t, 1, req.Page)
}

func TestErrorMessage(t *testing.T) {
	decode := &recipes.RequestError{Kind: recipes.ErrDecode, Path: "US_recipes"}
	assert.Equal(t, browser.MessageDecode, browser.ErrorMessage(decode).Kind)

	status := &recipes.RequestError{Kind: recipes.ErrNetwork, Path: "US_recipes", Status: 503}
	msg := browser.ErrorMessage(status)
	assert.Equal(t, browser.MessageNetwork, msg.Kind)
	assert.Equal(t, "The recipe service answered with status 503.", msg.Text)
	assert.True(t, msg.Kind.IsError())
	assert.False(t, browser.MessageEmpty.IsError())
}
