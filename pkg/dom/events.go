package dom

// Event is dispatched synchronously to the listeners of a node.
type Event struct {
	Type    string
	Target  *Node
	KeyCode int
	Key     string
}

const (
	EventInput  = "input"
	EventResize = "resize"
)

func (n *Node) AddEventListener(typ string, l Listener) {
	if n.listeners == nil {
		n.listeners = map[string][]Listener{}
	}
	n.listeners[typ] = append(n.listeners[typ], l)
}

// ListenerCount reports how many listeners n has for typ.
func (n *Node) ListenerCount(typ string) int {
	return len(n.listeners[typ])
}

// Dispatch runs the listeners registered for ev.Type on n, in registration order.
func (n *Node) Dispatch(ev *Event) {
	if ev.Target == nil {
		ev.Target = n
	}
	for _, l := range n.listeners[ev.Type] {
		l(ev)
	}
}

// FireEvent dispatches a synthetic event of the given type on n.
func FireEvent(n *Node, typ string) {
	n.Dispatch(&Event{Type: typ, Target: n})
}

// ForEach calls fn for every node of list.
func ForEach(list []*Node, fn func(i int, n *Node)) {
	for i, n := range list {
		fn(i, n)
	}
}
