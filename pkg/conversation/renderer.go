package conversation

import (
	"time"

	"github.com/go-go-golems/convopanel/pkg/api"
	"github.com/go-go-golems/convopanel/pkg/config"
	"github.com/go-go-golems/convopanel/pkg/dom"
)

// Clock supplies the time stamped on the first segment of a group.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// MessageRenderer turns one payload into transcript nodes.
type MessageRenderer struct {
	clock  Clock
	format func(time.Time) string
}

type RendererOption func(*MessageRenderer)

func WithClock(c Clock) RendererOption {
	return func(r *MessageRenderer) { r.clock = c }
}

func WithTimestampFormatter(f func(time.Time) string) RendererOption {
	return func(r *MessageRenderer) { r.format = f }
}

func NewMessageRenderer(s config.Settings, opts ...RendererOption) *MessageRenderer {
	layout := s.TimestampLayout
	r := &MessageRenderer{
		clock:  ClockFunc(time.Now),
		format: func(t time.Time) string { return t.Local().Format(layout) },
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Render builds one node per non-empty text element of the role's side of the
// payload, in order. Only the first node is tagged top and carries the
// timestamp. A nil payload, RoleNone or missing text yield nil.
func (r *MessageRenderer) Render(p *api.ChatPayload, role AuthorRole) []*dom.Node {
	var text api.Text
	switch role {
	case RoleUser:
		text = p.InputText()
	case RoleAgent:
		text = p.OutputText()
	default:
		return nil
	}
	if text.Empty() {
		return nil
	}

	var ret []*dom.Node
	var stamp string
	for _, segment := range text {
		if segment == "" {
			continue
		}
		first := len(ret) == 0
		if first {
			stamp = r.format(r.clock.Now())
		}
		ret = append(ret, buildSegment(segment, role, first, stamp))
	}
	return ret
}

func buildSegment(text string, role AuthorRole, first bool, stamp string) *dom.Node {
	var children []dom.Spec
	classes := []string{ClassSegments, role.LaneClass()}
	if first {
		classes = append(classes, ClassTop)
		children = append(children, dom.Spec{
			TagName: "div",
			Children: []dom.Spec{{
				TagName:    "small",
				ClassNames: []string{ClassTextMuted},
				Text:       stamp,
			}},
		})
	}
	children = append(children, dom.Spec{
		TagName:    "div",
		ClassNames: []string{ClassMessageInner},
		Children:   []dom.Spec{{TagName: "p", Text: text}},
	})

	return dom.Build(dom.Spec{
		TagName:    "div",
		ClassNames: classes,
		Children:   children,
	})
}

// Timestamp returns the timestamp text of a rendered node, if it has one.
func Timestamp(n *dom.Node) (string, bool) {
	small := n.QuerySelector("small." + ClassTextMuted)
	if small == nil {
		return "", false
	}
	return small.TextContent(), true
}

// MessageText returns the message body of a rendered node.
func MessageText(n *dom.Node) string {
	p := n.QuerySelector("." + ClassMessageInner + " p")
	if p == nil {
		return ""
	}
	return p.TextContent()
}
