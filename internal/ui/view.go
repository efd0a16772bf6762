package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/galley/internal/render"
	"github.com/five82/galley/internal/state"
)

const (
	cuisineWidth = 18
	minTitle     = 12
	// fixedColumns covers rating, total, serves, cell padding and borders.
	fixedColumns = 7 + 9 + 10 + cuisineWidth + 5*2 + 6
	drawerMin    = 36
	splitWidth   = 110
)

// View renders the whole screen.
func (m Model) View() string {
	sections := []string{
		m.renderHeader(),
		m.renderForm(),
	}
	if s := m.renderSuggestions(); s != "" {
		sections = append(sections, s)
	}
	sections = append(sections, m.renderBody())
	sections = append(sections, m.renderPager())
	if s := m.renderMessage(); s != "" {
		sections = append(sections, s)
	}
	if m.focus == focusQuick || m.quick.Value() != "" {
		sections = append(sections, " "+m.quick.View())
	}
	sections = append(sections, m.theme.Styles().Footer.Render(m.help.View(m.keys)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := newBgStyle(m.theme.Surface)

	mode := "LIST"
	if m.scr.mode == state.ModeSearch {
		mode = "SEARCH"
	}
	parts := []string{
		bg.Render("galley", styles.Logo),
		bg.Render(mode, styles.InfoText.Bold(true)),
	}
	if m.scr.mode == state.ModeSearch {
		if summary := filterSummary(m.ctrl.Filters().Values().Encode()); summary != "" {
			parts = append(parts, bg.Render(truncate(summary, 40), styles.MutedText))
		}
	}
	if m.loading {
		parts = append(parts, bg.Render(m.spinner.View()+" loading", styles.WarningText))
	}
	if m.apiURL != "" {
		parts = append(parts, bg.Render(truncate(m.apiURL, 40), styles.FaintText))
	}
	if m.apiDown {
		parts = append(parts, bg.Render("api unreachable", styles.DangerText))
	}
	return styles.Header.Width(m.width).Render(bg.Join(parts, 2))
}

func filterSummary(encoded string) string {
	return strings.ReplaceAll(encoded, "&", " ")
}

func (m Model) renderForm() string {
	styles := m.theme.Styles()
	cells := make([]string, 0, fieldCount)
	for i, in := range m.form.inputs {
		label := styles.MutedText.Render(fieldLabels[i])
		if m.form.active && m.form.focus == i {
			label = styles.AccentText.Bold(true).Render(fieldLabels[i])
		}
		cells = append(cells, label+" "+in.View())
	}
	row := strings.Join(cells, "  ")
	if lipgloss.Width(row) > m.width-4 {
		row = lipgloss.JoinVertical(lipgloss.Left, cells...)
	}
	return styles.FocusPanel(m.form.active).Width(max(m.width-2, 20)).Render(row)
}

func (m Model) renderSuggestions() string {
	suggestions := m.form.Suggestions()
	if len(suggestions) == 0 {
		return ""
	}
	styles := m.theme.Styles()
	return " " + styles.FaintText.Render("ctrl+n:") + " " + styles.InfoText.Render(strings.Join(suggestions, "  "))
}

func (m Model) renderBody() string {
	if !m.scr.drawer.IsOpen() {
		return m.renderTable(m.width)
	}
	if m.width < splitWidth {
		return m.renderDrawer(m.width)
	}
	drawerWidth := max(m.width*2/5, drawerMin)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderTable(m.width-drawerWidth),
		m.renderDrawer(drawerWidth),
	)
}

func (m Model) renderTable(width int) string {
	styles := m.theme.Styles()
	if len(m.visible) == 0 {
		text := render.EmptyMessage(m.scr.mode)
		switch {
		case len(m.scr.rows) > 0:
			text = "No rows on this page match the filter."
		case m.loading && !m.scr.hasPager:
			text = "Loading recipes…"
		}
		return styles.Panel.Width(max(width-2, 20)).Render(styles.MutedText.Render(text))
	}

	titleWidth := max(width-fixedColumns, minTitle)
	rows := make([][]string, 0, len(m.visible))
	for _, idx := range m.visible {
		cells := m.scr.rows[idx].Cells()
		cells[0] = truncate(cells[0], titleWidth)
		cells[1] = truncate(cells[1], cuisineWidth)
		rows = append(rows, cells)
	}

	cursor := m.cursor
	highlight := m.focus == focusTable || m.focus == focusDrawer
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Border))).
		Headers(render.RowHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styles.TableHead
			case highlight && row == cursor:
				return styles.Selected.Padding(0, 1)
			}
			return styles.Cell
		})
	return t.Render()
}

func (m Model) renderPager() string {
	styles := m.theme.Styles()
	if !m.scr.hasPager {
		return " " + styles.FaintText.Render("‹ Prev  Next ›")
	}
	p := m.scr.pager
	prev := styles.AccentText.Render("‹ Prev")
	if p.PrevDisabled {
		prev = styles.FaintText.Render("‹ Prev")
	}
	next := styles.AccentText.Render("Next ›")
	if p.NextDisabled {
		next = styles.FaintText.Render("Next ›")
	}
	info := styles.Text.Render(p.Info)
	if p.LastPage > 0 {
		info += styles.MutedText.Render(fmt.Sprintf(" (of %d)", p.LastPage))
	}
	return " " + prev + "  " + info + "  " + next
}

func (m Model) renderMessage() string {
	msg := m.scr.message
	if msg == nil {
		return ""
	}
	styles := m.theme.Styles()
	line := styles.MessageStyle(msg.Kind).Render(msg.Text)
	if msg.Kind.IsError() {
		line += "  " + styles.MutedText.Render("press r to retry")
	}
	if msg.Detail != "" {
		line += "\n " + styles.FaintText.Render(truncate(msg.Detail, max(m.width-4, 20)))
	}
	return " " + line
}

func (m Model) renderDrawer(width int) string {
	styles := m.theme.Styles()
	footer := styles.FaintText.Render("t toggle times • esc close")
	return styles.FocusPanel(m.focus == focusDrawer).
		Width(max(width-2, 20)).
		Render(m.detail.View() + "\n" + footer)
}

// refreshDetail re-renders the drawer content into the viewport.
func (m *Model) refreshDetail() {
	width := m.width
	if m.width >= splitWidth {
		width = max(m.width*2/5, drawerMin)
	}
	inner := max(width-4, 16)
	m.detail.Width = inner
	m.detail.Height = max(m.height-14, 5)
	if !m.scr.drawer.IsOpen() {
		return
	}
	m.detail.SetContent(m.renderDetail(inner))
}

func (m *Model) renderDetail(width int) string {
	styles := m.theme.Styles()
	d := m.scr.drawer.Detail()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(d.Title))
	b.WriteString("\n")
	if d.Subtitle != "" {
		b.WriteString(styles.MutedText.Render(d.Subtitle))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.renderMarkdown(d.Description, width))
	b.WriteString("\n\n")

	b.WriteString(styles.MutedText.Render(padRight("Total time", 12)))
	b.WriteString(styles.Text.Render(d.TotalTime))
	b.WriteString(" ")
	b.WriteString(styles.AccentText.Render(d.TimesIndicator()))
	b.WriteString("\n")
	if d.TimesExpanded {
		b.WriteString(styles.MutedText.Render(padRight("  Prep", 12)))
		b.WriteString(styles.Text.Render(d.PrepTime))
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render(padRight("  Cook", 12)))
		b.WriteString(styles.Text.Render(d.CookTime))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("Nutrition"))
	b.WriteString("\n")
	for _, row := range d.Nutrition {
		b.WriteString(styles.MutedText.Render(padRight(row.Key, 22)))
		b.WriteString(styles.Text.Render(row.Value))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderMarkdown wraps text through glamour, falling back to plain wrapping.
func (m *Model) renderMarkdown(text string, width int) string {
	plain := lipgloss.NewStyle().Width(width).Render(text)
	if text == render.Placeholder {
		return plain
	}
	key := fmt.Sprintf("%s/%d", m.theme.Glamour, width)
	if m.markdown == nil || m.markdownKey != key {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.theme.Glamour),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return plain
		}
		m.markdown, m.markdownKey = r, key
	}
	out, err := m.markdown.Render(text)
	if err != nil {
		return plain
	}
	return strings.Trim(out, "\n")
}
