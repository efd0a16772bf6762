package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/five82/galley/internal/browser"
	"github.com/five82/galley/internal/render"
	"github.com/five82/galley/internal/state"
)

const defaultWidth = 100

// printer draws controller output to a writer. It is the headless
// counterpart of the TUI screen.
type printer struct {
	out    io.Writer
	errOut io.Writer
	r      *lipgloss.Renderer
	tty    bool
	width  int
}

func newPrinter(out, errOut io.Writer) *printer {
	p := &printer{
		out:    out,
		errOut: errOut,
		r:      lipgloss.NewRenderer(out),
		width:  defaultWidth,
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.tty = true
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			p.width = w
		}
	}
	return p
}

func (p *printer) border() lipgloss.Border {
	if p.tty {
		return lipgloss.RoundedBorder()
	}
	return lipgloss.ASCIIBorder()
}

func (p *printer) RenderRows(rows []render.Row, _ state.Mode) {
	if len(rows) == 0 {
		return
	}
	header := p.r.NewStyle().Bold(true).Padding(0, 1)
	cell := p.r.NewStyle().Padding(0, 1)
	titleWidth := max(p.width/3, 16)

	t := table.New().
		Border(p.border()).
		Headers(render.RowHeaders...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, row := range rows {
		cells := row.Cells()
		cells[0] = clip(cells[0], titleWidth)
		t.Row(cells...)
	}
	fmt.Fprintln(p.out, t.Render())
}

func (p *printer) RenderPager(pg browser.Pager) {
	prev, next := "‹ prev", "next ›"
	if pg.PrevDisabled {
		prev = strings.Repeat(" ", len([]rune(prev)))
	}
	if pg.NextDisabled {
		next = ""
	}
	line := strings.TrimRight(fmt.Sprintf("%s  %s  %s", prev, pg.Info, next), " ")
	fmt.Fprintln(p.out, p.r.NewStyle().Faint(true).Render(line))
}

func (p *printer) ShowMessage(m browser.Message) {
	if m.Kind.IsError() {
		fmt.Fprintln(p.errOut, m.Text)
		return
	}
	fmt.Fprintln(p.out, m.Text)
}

func (p *printer) ClearMessage() {}

// OpenDetail prints the drawer with the time breakdown expanded.
func (p *printer) OpenDetail(d render.Detail) {
	if !d.TimesExpanded {
		d.ToggleTimes()
	}
	title := p.r.NewStyle().Bold(true)
	label := p.r.NewStyle().Faint(true)

	var b strings.Builder
	b.WriteString(title.Render(d.Title))
	if d.Subtitle != "" {
		b.WriteString("  " + label.Render(d.Subtitle))
	}
	b.WriteString("\n\n")
	b.WriteString(d.Description)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s %s\n", label.Render("Total time"), d.TotalTime, d.TimesIndicator())
	fmt.Fprintf(&b, "  %s %s\n", label.Render("Prep"), d.PrepTime)
	fmt.Fprintf(&b, "  %s %s\n", label.Render("Cook"), d.CookTime)

	nutrition := table.New().
		Border(p.border()).
		Headers("Nutrient", "Amount").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return title.Padding(0, 1)
			}
			return p.r.NewStyle().Padding(0, 1)
		})
	for _, n := range d.Nutrition {
		nutrition.Row(n.Key, n.Value)
	}
	b.WriteString(nutrition.Render())

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, b.String())
}

func clip(s string, width int) string {
	r := []rune(s)
	if width < 2 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
