package conversation

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/convopanel/pkg/api"
	"github.com/go-go-golems/convopanel/pkg/config"
	"github.com/go-go-golems/convopanel/pkg/dom"
)

// KeyEnter is the key code that submits the input.
const KeyEnter = 13

// Transport is everything the panel needs from the API client.
type Transport interface {
	ChatTransport
	GetResponsePayload() (*api.ChatPayload, error)
	SendRequest(ctx context.Context, text string, convContext map[string]any) error
}

// Panel wires the observer, renderer, transcript view and input sizer to one
// document and transport.
type Panel struct {
	settings  config.Settings
	doc       *dom.Document
	transport Transport

	observer *PayloadObserver
	renderer *MessageRenderer
	view     *TranscriptView
	sizer    *InputSizer

	input *dom.Node
}

// NewPanel looks up the chat container and the input in doc. Missing elements
// and invalid settings are a setup error.
func NewPanel(doc *dom.Document, transport Transport, s config.Settings, layout Layout, opts ...RendererOption) (*Panel, error) {
	if doc == nil {
		return nil, errors.New("panel: nil document")
	}
	if transport == nil {
		return nil, errors.New("panel: nil transport")
	}
	if err := s.Validate(); err != nil {
		return nil, errors.Wrap(err, "panel: settings")
	}
	chatBox, err := doc.MustElementByID(s.Selectors.ChatBoxID)
	if err != nil {
		return nil, errors.Wrap(err, "panel: chat box")
	}
	input, err := doc.MustElementByID(s.Selectors.InputID)
	if err != nil {
		return nil, errors.Wrap(err, "panel: input")
	}
	if layout == nil {
		layout = CellLayout{}
	}

	view, err := NewTranscriptView(chatBox, layout)
	if err != nil {
		return nil, err
	}

	p := &Panel{
		settings:  s,
		doc:       doc,
		transport: transport,
		renderer:  NewMessageRenderer(s, opts...),
		view:      view,
		sizer:     NewInputSizer(doc, layout, s),
		input:     input,
	}
	p.observer = NewPayloadObserver(s.Roles, p.DisplayMessage)
	return p, nil
}

// Init subscribes to the transport, opens the conversation with an empty
// request and sets up the input box.
func (p *Panel) Init(ctx context.Context) error {
	p.observer.Attach(p.transport)
	if err := p.transport.SendRequest(ctx, "", nil); err != nil {
		return errors.Wrap(err, "send initial request")
	}
	if err := p.sizer.Bind(p.input); err != nil {
		return errors.Wrap(err, "bind input sizer")
	}
	return nil
}

// DisplayMessage renders a payload written by the side named by label and
// appends it to the transcript. Unknown labels and payloads without text for
// that side are ignored.
func (p *Panel) DisplayMessage(payload *api.ChatPayload, label string) {
	role := RoleFromLabel(p.settings.Roles, label)
	if role == RoleNone {
		log.Debug().Str("label", label).Msg("ignoring payload from unknown author")
		return
	}
	nodes := p.renderer.Render(payload, role)
	if len(nodes) == 0 {
		return
	}
	p.view.Append(nodes, role)
}

// InputKeyDown sends the input's value on Enter, along with the context of the
// previous response, then clears the input.
func (p *Panel) InputKeyDown(ctx context.Context, ev *dom.Event, input *dom.Node) error {
	if ev == nil || input == nil {
		return errors.New("input key down: nil event or input")
	}
	if ev.KeyCode != KeyEnter || input.Value == "" {
		return nil
	}

	var convContext map[string]any
	latest, err := p.transport.GetResponsePayload()
	if err != nil {
		return errors.Wrap(err, "read previous response")
	}
	if latest != nil {
		convContext = latest.Context
	}

	if err := p.transport.SendRequest(ctx, input.Value, convContext); err != nil {
		return errors.Wrap(err, "send request")
	}

	input.Value = ""
	dom.FireEvent(input, dom.EventInput)
	return nil
}

func (p *Panel) View() *TranscriptView { return p.view }

func (p *Panel) Input() *dom.Node { return p.input }

func (p *Panel) Sizer() *InputSizer { return p.sizer }

func (p *Panel) Document() *dom.Document { return p.doc }
