package conversation

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/convopanel/pkg/dom"
)

// TranscriptView owns the transcript container. It is the only writer of the
// container's children and of the latest marker.
type TranscriptView struct {
	container *dom.Node
	layout    Layout

	scrollTop    int
	scrollAnchor *dom.Node
}

func NewTranscriptView(container *dom.Node, layout Layout) (*TranscriptView, error) {
	if container == nil {
		return nil, errors.New("transcript view: nil container")
	}
	if layout == nil {
		layout = CellLayout{}
	}
	return &TranscriptView{container: container, layout: layout}, nil
}

// Append adds nodes to the role's lane. The previous latest marker of the lane
// is removed, the last new node takes it, and if a user node was added the
// container scrolls so that it sits at the top of the view.
func (v *TranscriptView) Append(nodes []*dom.Node, role AuthorRole) {
	lane := role.LaneClass()
	if len(nodes) == 0 || lane == "" {
		return
	}

	previous := v.container.QuerySelectorAll("." + lane + "." + ClassLatest)
	dom.ForEach(previous, func(_ int, n *dom.Node) {
		n.RemoveClass(ClassLatest)
	})

	var lastUser *dom.Node
	for _, n := range nodes {
		v.container.AppendChild(n)
		if n.HasClass(ClassFromUser) {
			lastUser = n
		}
	}
	nodes[len(nodes)-1].AddClass(ClassLatest)

	dom.ForEach(nodes, func(_ int, n *dom.Node) {
		n.AddClass(ClassLoad)
	})

	if lastUser != nil {
		v.scrollTo(lastUser)
	}

	log.Debug().
		Str("lane", lane).
		Int("appended", len(nodes)).
		Int("total", len(v.container.Children())).
		Msg("transcript updated")
}

func (v *TranscriptView) scrollTo(n *dom.Node) {
	v.scrollTop = v.layout.OffsetTop(n)
	v.scrollAnchor = n
}

// ScrollTop is the current vertical scroll offset of the container, in lines.
func (v *TranscriptView) ScrollTop() int { return v.scrollTop }

// ScrollAnchor is the node the container was last scrolled to, or nil.
func (v *TranscriptView) ScrollAnchor() *dom.Node { return v.scrollAnchor }

// Latest returns the node holding the latest marker in the role's lane.
func (v *TranscriptView) Latest(role AuthorRole) *dom.Node {
	lane := role.LaneClass()
	if lane == "" {
		return nil
	}
	return v.container.QuerySelector("." + lane + "." + ClassLatest)
}

func (v *TranscriptView) Nodes() []*dom.Node {
	return v.container.Children()
}

func (v *TranscriptView) Container() *dom.Node { return v.container }

// SetLayout replaces the layout used for scroll offsets, e.g. once a frontend
// knows its real geometry.
func (v *TranscriptView) SetLayout(l Layout) {
	if l != nil {
		v.layout = l
	}
}
