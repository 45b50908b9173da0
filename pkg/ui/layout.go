package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/go-go-golems/convopanel/pkg/conversation"
	"github.com/go-go-golems/convopanel/pkg/dom"
)

// TerminalLayout measures transcript offsets from the rendered lines, so that
// scroll offsets line up with what the viewport shows.
type TerminalLayout struct {
	conversation.CellLayout
	width int
}

var _ conversation.Layout = (*TerminalLayout)(nil)

func NewTerminalLayout(width int) *TerminalLayout {
	return &TerminalLayout{width: width}
}

// SetWidth updates the transcript width used for rendering, in cells.
func (l *TerminalLayout) SetWidth(w int) { l.width = w }

func (l *TerminalLayout) Width() int { return l.width }

func (l *TerminalLayout) OffsetTop(n *dom.Node) int {
	parent := n.Parent()
	if parent == nil {
		return 0
	}
	top := 0
	for _, sib := range parent.Children() {
		if sib == n {
			break
		}
		top += lipgloss.Height(RenderNode(sib, l.width))
	}
	return top
}
