package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/convopanel/pkg/conversation"
	"github.com/go-go-golems/convopanel/pkg/dom"
)

type initMsg struct{}

// Model shows a panel's transcript in a viewport above its input box. Keys and
// window resizes are forwarded to the panel's document as DOM events, and the
// document is redrawn after every message.
type Model struct {
	ctx         context.Context
	panel       *conversation.Panel
	layout      *TerminalLayout
	cellWidthPx int

	input    textinput.Model
	viewport viewport.Model
	width    int
	height   int

	lastAnchor *dom.Node
	status     string
}

// NewModel builds the model. layout must be the one the panel was created with.
func NewModel(ctx context.Context, panel *conversation.Panel, layout *TerminalLayout, cellWidthPx int) Model {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = "Type a message and press enter"
	ti.Focus()

	vp := viewport.New(80, 20)
	layout.SetWidth(vp.Width)

	if cellWidthPx <= 0 {
		cellWidthPx = 8
	}
	return Model{
		ctx:         ctx,
		panel:       panel,
		layout:      layout,
		cellWidthPx: cellWidthPx,
		input:       ti,
		viewport:    vp,
		width:       80,
		height:      24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg { return initMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch ev := msg.(type) {
	case initMsg:
		if err := m.panel.Init(m.ctx); err != nil {
			log.Error().Err(err).Msg("panel init failed")
			m.status = err.Error()
		}
	case callbackMsg:
		ev.fn()
	case tea.WindowSizeMsg:
		m.width = ev.Width
		m.height = ev.Height
		m.viewport.Width = ev.Width
		m.viewport.Height = max(ev.Height-3, 1)
		m.layout.SetWidth(ev.Width)
		dom.FireEvent(m.panel.Document().Window, dom.EventResize)
	case tea.KeyMsg:
		switch ev.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+y":
			m.copyLatestAgentMessage()
		case "enter":
			m.submit()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
			m.syncInputNode()
		}
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.refresh()
	return m, tea.Batch(cmds...)
}

func (m *Model) submit() {
	node := m.panel.Input()
	ev := &dom.Event{Type: "keydown", Target: node, KeyCode: conversation.KeyEnter, Key: "enter"}
	if err := m.panel.InputKeyDown(m.ctx, ev, node); err != nil {
		log.Error().Err(err).Msg("could not send message")
		m.status = err.Error()
		return
	}
	m.status = ""
	m.input.SetValue(node.Value)
}

// syncInputNode copies the text box into the input node and fires the input
// event when it changed.
func (m *Model) syncInputNode() {
	node := m.panel.Input()
	if node.Value == m.input.Value() {
		return
	}
	node.Value = m.input.Value()
	dom.FireEvent(node, dom.EventInput)
}

func (m *Model) copyLatestAgentMessage() {
	latest := m.panel.View().Latest(conversation.RoleAgent)
	if latest == nil {
		return
	}
	if err := clipboard.WriteAll(conversation.MessageText(latest)); err != nil {
		log.Warn().Err(err).Msg("could not copy to clipboard")
		m.status = "clipboard unavailable"
		return
	}
	m.status = "copied latest agent message"
}

// refresh redraws the transcript and applies the document's input width and
// scroll position.
func (m *Model) refresh() {
	view := m.panel.View()
	m.viewport.SetContent(RenderTranscript(view.Container(), m.viewport.Width))
	if anchor := view.ScrollAnchor(); anchor != nil && anchor != m.lastAnchor {
		m.lastAnchor = anchor
		m.viewport.SetYOffset(view.ScrollTop())
	}

	node := m.panel.Input()
	m.input.Width = InputCells(node.Style["width"], m.cellWidthPx, m.width)
	if node.HasClass(conversation.ClassUnderline) {
		m.input.TextStyle = underlineStyle
	} else {
		m.input.TextStyle = underlineStyle.UnsetUnderline()
	}
}

// InputCells converts a CSS width ("100%" or "<n>px") into terminal cells,
// bounded by the available width.
func InputCells(width string, cellWidthPx, available int) int {
	limit := max(available-2, 1)
	if width == "" || strings.HasSuffix(width, "%") {
		return limit
	}
	px := conversation.ParsePx(width)
	cells := int(px) / cellWidthPx
	if int(px)%cellWidthPx != 0 {
		cells++
	}
	return min(max(cells, 1), limit)
}

func (m Model) View() string {
	header := headerStyle.Render("convo-panel")
	if m.status != "" {
		header += "  " + errorStyle.Render(m.status)
	}
	return fmt.Sprintf("%s\n%s\n%s", header, m.viewport.View(), m.input.View())
}
