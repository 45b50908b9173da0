package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/go-go-golems/convopanel/pkg/conversation"
	"github.com/go-go-golems/convopanel/pkg/dom"
)

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	agentStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("118"))
	latestStyle    = lipgloss.NewStyle().Bold(true)
	timestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Faint(true)
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	underlineStyle = lipgloss.NewStyle().Underline(true)
)

// RenderNode draws one transcript node. User lines are right-aligned within
// width; a zero width disables alignment.
func RenderNode(n *dom.Node, width int) string {
	var lines []string
	if stamp, ok := conversation.Timestamp(n); ok {
		lines = append(lines, timestampStyle.Render(stamp))
	}

	style := agentStyle
	prefix := "agent› "
	if n.HasClass(conversation.ClassFromUser) {
		style = userStyle
		prefix = "you› "
	}
	if !n.HasClass(conversation.ClassTop) {
		prefix = strings.Repeat(" ", lipgloss.Width(prefix))
	}
	if n.HasClass(conversation.ClassLatest) {
		style = style.Inherit(latestStyle)
	}
	lines = append(lines, style.Render(prefix+conversation.MessageText(n)))

	block := strings.Join(lines, "\n")
	if width > 0 && n.HasClass(conversation.ClassFromUser) {
		block = lipgloss.NewStyle().Width(width).Align(lipgloss.Right).Render(block)
	}
	return block
}

// RenderTranscript draws every node of the container, top to bottom.
func RenderTranscript(container *dom.Node, width int) string {
	var parts []string
	for _, n := range container.Children() {
		parts = append(parts, RenderNode(n, width))
	}
	return strings.Join(parts, "\n")
}
