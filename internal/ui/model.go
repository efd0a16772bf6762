package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/five82/galley/internal/browser"
	"github.com/five82/galley/internal/prefs"
	"github.com/five82/galley/internal/recipes"
	"github.com/five82/galley/internal/state"
)

// Options configure the TUI.
type Options struct {
	Store        *state.Store
	Fetcher      recipes.Fetcher
	Logger       *zap.Logger
	LimitOptions []int
	Prefs        prefs.Prefs
	// PrefsPath is where theme and page-size changes are saved. Empty
	// disables saving.
	PrefsPath string
	APIURL    string
	// Probe, when set, runs in the background alongside the initial load.
	Probe func(context.Context) error
}

type focusArea int

const (
	focusTable focusArea = iota
	focusForm
	focusQuick
	focusDrawer
)

const (
	defaultWidth  = 100
	defaultHeight = 30
)

type fetchedMsg struct {
	res browser.Result
}

type prefsSavedMsg struct {
	err error
}

type probedMsg struct {
	err error
}

// Model is the Bubble Tea model for the recipe browser.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	ctrl   *browser.Controller
	scr    *screen
	logger *zap.Logger

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	form    filterForm
	quick   textinput.Model
	detail  viewport.Model

	theme     Theme
	prefs     prefs.Prefs
	prefsPath string
	apiURL    string

	focus       focusArea
	cursor      int
	visible     []int
	rowsVersion int
	loading     bool
	pending     uint64
	limitSeq    uint64
	apiDown     bool

	width  int
	height int

	markdown    *glamour.TermRenderer
	markdownKey string

	initCmd tea.Cmd
}

// New builds the model and issues the initial list request. ctx bounds every
// request the model makes.
func New(ctx context.Context, opts Options) (Model, error) {
	if opts.Store == nil {
		return Model{}, fmt.Errorf("ui requires a state store")
	}
	if opts.Fetcher == nil {
		return Model{}, fmt.Errorf("ui requires a recipe fetcher")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	scr := &screen{}
	ctrlOpts := []browser.Option{browser.WithLogger(logger)}
	if len(opts.LimitOptions) > 0 {
		ctrlOpts = append(ctrlOpts, browser.WithLimitOptions(opts.LimitOptions))
	}

	quick := textinput.New()
	quick.Prompt = "filter: "
	quick.Placeholder = "title or cuisine"
	quick.CharLimit = 64

	p := opts.Prefs
	if p.Theme == "" {
		p = prefs.Default()
	}

	m := Model{
		ctx:       ctx,
		ctrl:      browser.New(opts.Store, opts.Fetcher, scr, ctrlOpts...),
		scr:       scr,
		logger:    logger,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		form:      newFilterForm(),
		quick:     quick,
		detail:    viewport.New(defaultWidth/2, defaultHeight-8),
		theme:     GetTheme(p.Theme),
		prefs:     p,
		prefsPath: opts.PrefsPath,
		apiURL:    opts.APIURL,
		width:     defaultWidth,
		height:    defaultHeight,
	}
	m.applyTheme()
	m.initCmd = m.start(m.ctrl.Load())
	if opts.Probe != nil {
		m.initCmd = tea.Batch(m.initCmd, probe(ctx, opts.Probe))
	}
	return m, nil
}

func probe(ctx context.Context, check func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return probedMsg{err: check(ctx)}
	}
}

// Init starts the initial fetch and the health probe, if any.
func (m Model) Init() tea.Cmd {
	return m.initCmd
}

// Update handles messages and keys.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.refreshDetail()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case fetchedMsg:
		return m, m.handleFetched(msg.res)

	case prefsSavedMsg:
		if msg.err != nil {
			m.logger.Warn("save preferences failed", zap.Error(msg.err))
		}
		return m, nil

	case probedMsg:
		m.apiDown = msg.err != nil && m.ctx.Err() == nil
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blink and other input housekeeping.
	var cmd tea.Cmd
	switch m.focus {
	case focusForm:
		cmd = m.form.Update(msg)
	case focusQuick:
		m.quick, cmd = m.quick.Update(msg)
	}
	return m, cmd
}

// start runs req in the background, cancelling whatever was in flight.
func (m *Model) start(req browser.Request, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.pending = req.Seq

	ctrl := m.ctrl
	fetch := func() tea.Msg {
		return fetchedMsg{res: ctrl.Execute(ctx, req)}
	}
	if m.loading {
		return fetch
	}
	m.loading = true
	return tea.Batch(fetch, m.spinner.Tick)
}

// changeLimit runs a page-size request. The size is saved to prefs once the
// page loads.
func (m *Model) changeLimit(req browser.Request, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	m.limitSeq = req.Seq
	return m.start(req, ok)
}

func (m *Model) handleFetched(res browser.Result) tea.Cmd {
	if res.Request.Seq == m.pending {
		m.loading = false
		m.pending = 0
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
	}
	if !m.ctrl.Apply(res) || res.Err != nil {
		return nil
	}
	m.apiDown = false
	m.syncRows()
	if res.Request.Seq == m.limitSeq {
		m.limitSeq = 0
		if m.prefs.PageSize != res.Request.Limit {
			m.prefs.PageSize = res.Request.Limit
			return m.savePrefs()
		}
	}
	return nil
}

// syncRows refreshes the visible rows after the controller redrew them.
func (m *Model) syncRows() {
	if m.scr.rowsVersion == m.rowsVersion {
		return
	}
	m.rowsVersion = m.scr.rowsVersion
	for _, row := range m.scr.rows {
		m.form.Remember(row.Cuisine)
	}
	m.cursor = 0
	m.refilter()
}

func (m *Model) refilter() {
	m.visible = quickMatch(m.scr.rows, m.quick.Value())
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

func (m *Model) stop() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Model) quit() tea.Cmd {
	m.stop()
	return tea.Quit
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, m.quit()
	}
	switch m.focus {
	case focusForm:
		return m, m.handleFormKey(msg)
	case focusQuick:
		return m, m.handleQuickKey(msg)
	case focusDrawer:
		return m, m.handleDrawerKey(msg)
	}
	return m, m.handleTableKey(msg)
}

func (m *Model) handleTableKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.CycleTheme):
		return m.cycleTheme()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(len(m.visible)-1, 0)
	case key.Matches(msg, m.keys.Open):
		m.openSelected()

	case key.Matches(msg, m.keys.PrevPage):
		return m.start(m.ctrl.PrevPage())
	case key.Matches(msg, m.keys.NextPage):
		return m.start(m.ctrl.NextPage())
	case key.Matches(msg, m.keys.Bigger):
		return m.changeLimit(m.ctrl.CycleLimit(1))
	case key.Matches(msg, m.keys.Smaller):
		return m.changeLimit(m.ctrl.CycleLimit(-1))
	case key.Matches(msg, m.keys.Refresh):
		return m.start(m.ctrl.Refresh())

	case key.Matches(msg, m.keys.Filter):
		m.focus = focusForm
		return m.form.Focus()
	case key.Matches(msg, m.keys.Clear):
		m.form.Reset()
		return m.start(m.ctrl.Clear())
	case key.Matches(msg, m.keys.Quick):
		m.focus = focusQuick
		return m.quick.Focus()
	case key.Matches(msg, m.keys.Close):
		if m.quick.Value() != "" {
			m.quick.Reset()
			m.refilter()
		}
	}
	return nil
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.form.Blur()
		m.focus = focusTable
		return nil
	case key.Matches(msg, m.keys.Submit):
		m.form.Blur()
		m.focus = focusTable
		return m.start(m.ctrl.Search(m.form.Filters()))
	case key.Matches(msg, m.keys.NextField):
		return m.form.Cycle(1)
	case key.Matches(msg, m.keys.PrevField):
		return m.form.Cycle(-1)
	case key.Matches(msg, m.keys.Suggestion):
		m.form.AcceptSuggestion()
		return nil
	}
	return m.form.Update(msg)
}

func (m *Model) handleQuickKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.quick.Reset()
		m.quick.Blur()
		m.focus = focusTable
		m.refilter()
		return nil
	case tea.KeyEnter:
		m.quick.Blur()
		m.focus = focusTable
		return nil
	}
	var cmd tea.Cmd
	m.quick, cmd = m.quick.Update(msg)
	m.cursor = 0
	m.refilter()
	return cmd
}

func (m *Model) handleDrawerKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.scr.drawer.Close()
		m.focus = focusTable
		return nil
	case key.Matches(msg, m.keys.ToggleTimes):
		m.scr.drawer.ToggleTimes()
		m.refreshDetail()
		return nil
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(msg, m.keys.CycleTheme):
		return m.cycleTheme()
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return cmd
}

func (m *Model) openSelected() {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return
	}
	if !m.ctrl.OpenRow(m.visible[m.cursor]) {
		return
	}
	m.focus = focusDrawer
	m.refreshDetail()
	m.detail.GotoTop()
}

func (m *Model) cycleTheme() tea.Cmd {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.prefs.Theme = m.theme.Name
	m.applyTheme()
	m.refreshDetail()
	return m.savePrefs()
}

func (m *Model) applyTheme() {
	styles := m.theme.Styles()
	m.spinner.Style = styles.AccentText
	m.help.Styles.ShortKey = styles.AccentText
	m.help.Styles.ShortDesc = styles.MutedText
	m.help.Styles.ShortSeparator = styles.FaintText
	m.help.Styles.FullKey = styles.AccentText
	m.help.Styles.FullDesc = styles.MutedText
	m.help.Styles.FullSeparator = styles.FaintText
	m.quick.PromptStyle = styles.AccentText
	m.quick.TextStyle = styles.Text
	for i := range m.form.inputs {
		m.form.inputs[i].TextStyle = styles.Input
		m.form.inputs[i].PlaceholderStyle = styles.FaintText
	}
}

func (m Model) savePrefs() tea.Cmd {
	if m.prefsPath == "" {
		return nil
	}
	path, p := m.prefsPath, m.prefs
	return func() tea.Msg {
		return prefsSavedMsg{err: prefs.Save(path, p)}
	}
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m, err := New(ctx, opts)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if fm, ok := final.(Model); ok {
		fm.stop()
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
