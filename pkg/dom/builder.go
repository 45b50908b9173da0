package dom

// Attribute is a name/value pair in a Spec.
type Attribute struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Spec declaratively describes an element tree for Build.
type Spec struct {
	TagName    string      `json:"tagName" yaml:"tagName"`
	ClassNames []string    `json:"classNames,omitempty" yaml:"classNames,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Text       string      `json:"text,omitempty" yaml:"text,omitempty"`
	Children   []Spec      `json:"children,omitempty" yaml:"children,omitempty"`
}

// Build constructs the element described by s. Text, when set, is appended before
// any children.
func Build(s Spec) *Node {
	n := NewElement(s.TagName)
	n.AddClass(s.ClassNames...)
	for _, a := range s.Attributes {
		n.SetAttribute(a.Name, a.Value)
	}
	if s.Text != "" {
		n.AppendChild(NewText(s.Text))
	}
	for _, c := range s.Children {
		n.AppendChild(Build(c))
	}
	return n
}
