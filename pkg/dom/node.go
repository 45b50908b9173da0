package dom

import (
	"strings"
)

// Node is an element of the in-memory document the panel renders into.
// Text nodes have an empty Tag and carry their content in Text.
type Node struct {
	Tag        string
	ID         string
	Text       string
	Value      string
	Style      map[string]string
	attributes map[string]string
	classes    []string
	children   []*Node
	parent     *Node
	listeners  map[string][]Listener
}

// Listener handles an event dispatched on a node.
type Listener func(ev *Event)

func NewElement(tag string) *Node {
	return &Node{
		Tag:        tag,
		Style:      map[string]string{},
		attributes: map[string]string{},
	}
}

func NewText(text string) *Node {
	return &Node{Text: text}
}

func (n *Node) IsText() bool { return n.Tag == "" }

func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

func (n *Node) AppendChild(child *Node) {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// SetTextContent replaces all children with a single text node.
func (n *Node) SetTextContent(text string) {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	n.AppendChild(NewText(text))
}

// TextContent concatenates the text of n and all its descendants in document order.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}
	var sb strings.Builder
	n.Walk(func(c *Node) bool {
		if c.IsText() {
			sb.WriteString(c.Text)
		}
		return true
	})
	return sb.String()
}

// Walk visits n and its descendants depth-first. Returning false from fn skips the
// subtree of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

func (n *Node) Classes() []string {
	out := make([]string, len(n.classes))
	copy(out, n.classes)
	return out
}

func (n *Node) HasClass(name string) bool {
	for _, c := range n.classes {
		if c == name {
			return true
		}
	}
	return false
}

func (n *Node) AddClass(names ...string) {
	for _, name := range names {
		if name == "" || n.HasClass(name) {
			continue
		}
		n.classes = append(n.classes, name)
	}
}

func (n *Node) RemoveClass(name string) {
	for i, c := range n.classes {
		if c == name {
			n.classes = append(n.classes[:i], n.classes[i+1:]...)
			return
		}
	}
}

func (n *Node) SetAttribute(name, value string) {
	if n.attributes == nil {
		n.attributes = map[string]string{}
	}
	switch name {
	case "id":
		n.ID = value
	case "class":
		n.classes = nil
		n.AddClass(strings.Fields(value)...)
		return
	case "style":
		n.Style = parseStyle(value)
	}
	n.attributes[name] = value
}

func (n *Node) Attribute(name string) (string, bool) {
	v, ok := n.attributes[name]
	return v, ok
}

// SetStyle sets a single style property. An empty value removes it.
func (n *Node) SetStyle(prop, value string) {
	if n.Style == nil {
		n.Style = map[string]string{}
	}
	if value == "" {
		delete(n.Style, prop)
	} else {
		n.Style[prop] = value
	}
}

func parseStyle(s string) map[string]string {
	ret := map[string]string{}
	for _, decl := range strings.Split(s, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k != "" {
			ret[k] = v
		}
	}
	return ret
}
