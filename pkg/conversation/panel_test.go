package conversation

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/convopanel/pkg/agent"
	"github.com/go-go-golems/convopanel/pkg/api"
	"github.com/go-go-golems/convopanel/pkg/config"
	"github.com/go-go-golems/convopanel/pkg/dom"
)

// fakeTransport records requests and lets tests deliver responses by hand.
type fakeTransport struct {
	*api.Api
	sent []sentRequest
}

type sentRequest struct {
	text    string
	context map[string]any
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{Api: api.New("http://unused")}
}

func (f *fakeTransport) SendRequest(_ context.Context, text string, convContext map[string]any) error {
	f.sent = append(f.sent, sentRequest{text: text, context: convContext})
	p := api.ChatPayload{Input: &api.Message{}, Context: convContext}
	if text != "" {
		p.Input.Text = api.Text{text}
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return f.SetRequestPayload(string(raw))
}

// queue holds posted callbacks until the test runs them, standing in for the
// UI loop.
type queue struct {
	pending chan func()
}

func newQueue() *queue { return &queue{pending: make(chan func(), 16)} }

func (q *queue) Post(fn func()) { q.pending <- fn }

func (q *queue) drain() {
	for {
		select {
		case fn := <-q.pending:
			fn()
		default:
			return
		}
	}
}

func newTestPanel(t *testing.T, transport Transport) *Panel {
	t.Helper()
	s := config.Default()
	p, err := NewPanel(NewDocument(s), transport, s, CellLayout{},
		WithClock(ClockFunc(func() time.Time { return time.Unix(0, 0) })))
	require.NoError(t, err)
	return p
}

func enter() *dom.Event { return &dom.Event{Type: "keydown", KeyCode: KeyEnter, Key: "enter"} }

func TestNewPanel_MissingElements(t *testing.T) {
	s := config.Default()
	_, err := NewPanel(dom.NewDocument(), newFakeTransport(), s, nil)
	require.Error(t, err)

	doc := dom.NewDocument()
	doc.Body.AppendChild(dom.Build(dom.Spec{
		TagName:    "div",
		Attributes: []dom.Attribute{{Name: "id", Value: s.Selectors.ChatBoxID}},
	}))
	_, err = NewPanel(doc, newFakeTransport(), s, nil)
	require.ErrorContains(t, err, "input")
}

func TestNewPanel_RejectsInvalidSettings(t *testing.T) {
	_, err := NewPanel(NewDocument(config.Default()), newFakeTransport(), config.Settings{}, nil)
	require.ErrorContains(t, err, "settings")
}

func TestInit_SendsEmptyRequestAndBindsInput(t *testing.T) {
	transport := newFakeTransport()
	p := newTestPanel(t, transport)

	require.NoError(t, p.Init(context.Background()))
	require.Equal(t, []sentRequest{{text: ""}}, transport.sent)
	require.Empty(t, p.View().Nodes())
	require.Equal(t, "100%", p.Input().Style["width"])
	require.NotNil(t, p.Sizer().Dummy())

	require.NoError(t, transport.SetResponsePayload(`{"output":{"text":["Hello.","How can I help?"]},"context":{"turn":1}}`))
	nodes := p.View().Nodes()
	require.Len(t, nodes, 2)
	require.Same(t, nodes[1], p.View().Latest(RoleAgent))
}

func TestDisplay_UnexpectedShapesAreSkippedSilently(t *testing.T) {
	transport := newFakeTransport()
	p := newTestPanel(t, transport)
	require.NoError(t, p.Init(context.Background()))

	for _, raw := range []string{`{"input":"Hi"}`, `[1,2,3]`, `"just a string"`, `{"input":{"text":{"a":1}}}`} {
		require.NoError(t, transport.SetRequestPayload(raw), raw)
	}
	require.Empty(t, p.View().Nodes())

	require.NoError(t, transport.SetRequestPayload(`{"input":{"text":"Hi"},"context":"opaque"}`))
	nodes := p.View().Nodes()
	require.Len(t, nodes, 1)
	require.Equal(t, "Hi", MessageText(nodes[0]))
}

func TestInputKeyDown_SendsValueWithPreviousContext(t *testing.T) {
	transport := newFakeTransport()
	p := newTestPanel(t, transport)
	require.NoError(t, p.Init(context.Background()))
	require.NoError(t, transport.SetResponsePayload(`{"output":{"text":"Hi there"},"context":{"turn":1}}`))

	input := p.Input()
	input.Value = "Hi"
	dom.FireEvent(input, dom.EventInput)
	require.True(t, input.HasClass(ClassUnderline))

	require.NoError(t, p.InputKeyDown(context.Background(), enter(), input))

	require.Len(t, transport.sent, 2)
	require.Equal(t, "Hi", transport.sent[1].text)
	require.EqualValues(t, 1, transport.sent[1].context["turn"])
	require.Equal(t, "", input.Value)
	require.False(t, input.HasClass(ClassUnderline))
	require.Equal(t, "100%", input.Style["width"])

	user := p.View().Latest(RoleUser)
	require.NotNil(t, user)
	require.Equal(t, "Hi", MessageText(user))
	require.True(t, user.HasClass(ClassTop))
	_, stamped := Timestamp(user)
	require.True(t, stamped)
	require.Same(t, user, p.View().ScrollAnchor())
}

func TestInputKeyDown_IgnoresOtherKeysAndEmptyInput(t *testing.T) {
	transport := newFakeTransport()
	p := newTestPanel(t, transport)
	input := p.Input()

	input.Value = "draft"
	require.NoError(t, p.InputKeyDown(context.Background(), &dom.Event{KeyCode: 65}, input))
	require.Equal(t, "draft", input.Value)

	input.Value = ""
	require.NoError(t, p.InputKeyDown(context.Background(), enter(), input))
	require.Empty(t, transport.sent)
}

func TestDisplayMessage_UnknownLabelIsIgnored(t *testing.T) {
	p := newTestPanel(t, newFakeTransport())
	p.DisplayMessage(userPayload("x"), "watson")
	p.DisplayMessage(agentPayload(), "agent")
	require.Empty(t, p.View().Nodes())
}

func TestPanel_EndToEndAgainstAgent(t *testing.T) {
	srv := httptest.NewServer(agent.NewRouter(agent.New(nil)))
	defer srv.Close()

	loop := newQueue()
	transport := api.New(srv.URL+"/api/message", api.WithScheduler(loop))
	p := newTestPanel(t, transport)
	ctx := context.Background()

	require.NoError(t, p.Init(ctx))
	transport.Wait()
	require.Empty(t, p.View().Nodes())
	loop.drain()
	require.Len(t, p.View().Nodes(), 2)

	input := p.Input()
	input.Value = "ping"
	require.NoError(t, p.InputKeyDown(ctx, enter(), input))
	transport.Wait()
	// the user turn is on screen before the reply is handled
	require.Len(t, p.View().Nodes(), 3)
	loop.drain()

	nodes := p.View().Nodes()
	require.Len(t, nodes, 4)
	require.Equal(t, "ping", MessageText(nodes[2]))
	require.True(t, nodes[2].HasClass(ClassFromUser))
	require.Equal(t, "You said: ping", MessageText(nodes[3]))
	require.True(t, nodes[3].HasClass(ClassFromAgent))
	require.Same(t, nodes[2], p.View().ScrollAnchor())

	resp, err := transport.GetResponsePayload()
	require.NoError(t, err)
	require.EqualValues(t, 2, resp.Context["turn"])
}
