package browser

import (
	"github.com/five82/galley/internal/render"
	"github.com/five82/galley/internal/state"
)

// MessageKind classifies a message box entry.
type MessageKind int

const (
	// MessageEmpty reports a successful fetch with no rows.
	MessageEmpty MessageKind = iota + 1
	// MessageNetwork reports a transport failure, timeout or bad status.
	MessageNetwork
	// MessageDecode reports a response that could not be parsed.
	MessageDecode
)

func (k MessageKind) String() string {
	switch k {
	case MessageEmpty:
		return "empty"
	case MessageNetwork:
		return "network"
	case MessageDecode:
		return "decode"
	}
	return "unknown"
}

// IsError reports whether the kind describes a failed fetch.
func (k MessageKind) IsError() bool {
	return k == MessageNetwork || k == MessageDecode
}

// Message is one entry for the message box.
type Message struct {
	Kind   MessageKind
	Text   string
	Detail string
}

// Pager is the rendered pagination line.
type Pager struct {
	Mode         state.Mode
	Page         int
	Limit        int
	Total        int
	LastPage     int
	PrevDisabled bool
	NextDisabled bool
	Info         string
}

// View is the display surface the controller draws on.
type View interface {
	RenderRows(rows []render.Row, mode state.Mode)
	RenderPager(p Pager)
	ShowMessage(m Message)
	ClearMessage()
	OpenDetail(d render.Detail)
}
