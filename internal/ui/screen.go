package ui

import (
	"github.com/five82/galley/internal/browser"
	"github.com/five82/galley/internal/render"
	"github.com/five82/galley/internal/state"
)

// screen is what the controller draws on. The Model reads it when rendering.
type screen struct {
	rows     []render.Row
	mode     state.Mode
	pager    browser.Pager
	hasPager bool
	message  *browser.Message
	drawer   render.Drawer

	// rowsVersion changes whenever rows are replaced.
	rowsVersion int
}

var _ browser.View = (*screen)(nil)

func (s *screen) RenderRows(rows []render.Row, mode state.Mode) {
	s.rows = rows
	s.mode = mode
	s.rowsVersion++
}

func (s *screen) RenderPager(p browser.Pager) {
	s.pager = p
	s.hasPager = true
}

func (s *screen) ShowMessage(m browser.Message) {
	s.message = &m
}

func (s *screen) ClearMessage() {
	s.message = nil
}

func (s *screen) OpenDetail(d render.Detail) {
	s.drawer.Open(d)
}
