package dom

import (
	"strings"

	"github.com/pkg/errors"
)

// Document holds the root element, the body and a window target for
// viewport-level events such as resize.
type Document struct {
	Root   *Node
	Body   *Node
	Window *Node
}

func NewDocument() *Document {
	root := NewElement("html")
	body := NewElement("body")
	root.AppendChild(body)
	return &Document{
		Root:   root,
		Body:   body,
		Window: NewElement("window"),
	}
}

// GetElementByID returns the first element with the given id, or nil.
func (d *Document) GetElementByID(id string) *Node {
	return d.Root.QuerySelector("#" + id)
}

// MustElementByID returns an error naming the id when the element is missing.
func (d *Document) MustElementByID(id string) (*Node, error) {
	n := d.GetElementByID(id)
	if n == nil {
		return nil, errors.Errorf("element #%s not found", id)
	}
	return n, nil
}

// QuerySelectorAll returns all descendants of n (excluding n) matching selector.
// Supported: compound selectors of a tag, #id and .class parts, separated by
// whitespace for descendant matching.
func (n *Node) QuerySelectorAll(selector string) []*Node {
	parts := strings.Fields(selector)
	if len(parts) == 0 {
		return nil
	}
	compounds := make([]compound, 0, len(parts))
	for _, p := range parts {
		compounds = append(compounds, parseCompound(p))
	}

	var ret []*Node
	for _, c := range n.children {
		c.Walk(func(el *Node) bool {
			if matchesChain(el, n, compounds) {
				ret = append(ret, el)
			}
			return true
		})
	}
	return ret
}

func (n *Node) QuerySelector(selector string) *Node {
	all := n.QuerySelectorAll(selector)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// Matches reports whether n matches a single compound selector.
func (n *Node) Matches(selector string) bool {
	return parseCompound(selector).matches(n)
}

type compound struct {
	tag     string
	id      string
	classes []string
}

func parseCompound(s string) compound {
	var c compound
	var cur strings.Builder
	kind := byte('t')
	flush := func() {
		v := cur.String()
		cur.Reset()
		if v == "" {
			return
		}
		switch kind {
		case 't':
			c.tag = v
		case '#':
			c.id = v
		case '.':
			c.classes = append(c.classes, v)
		}
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == '.' || ch == '#' {
			flush()
			kind = ch
			continue
		}
		cur.WriteByte(ch)
	}
	flush()
	return c
}

func (c compound) matches(n *Node) bool {
	if n.IsText() {
		return false
	}
	if c.tag != "" && c.tag != "*" && c.tag != n.Tag {
		return false
	}
	if c.id != "" && c.id != n.ID {
		return false
	}
	for _, cl := range c.classes {
		if !n.HasClass(cl) {
			return false
		}
	}
	return true
}

// matchesChain checks el against the last compound and walks up the ancestors for
// the preceding ones, stopping at scope.
func matchesChain(el, scope *Node, chain []compound) bool {
	last := len(chain) - 1
	if !chain[last].matches(el) {
		return false
	}
	i := last - 1
	for p := el.parent; i >= 0 && p != nil && p != scope; p = p.parent {
		if chain[i].matches(p) {
			i--
		}
	}
	return i < 0
}
