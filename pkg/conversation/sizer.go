package conversation

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/go-go-golems/convopanel/pkg/config"
	"github.com/go-go-golems/convopanel/pkg/dom"
)

// InputSizer keeps a text input as wide as its content and underlines it while
// it holds text. Widths are measured on a hidden element mirroring the input's
// font properties.
type InputSizer struct {
	doc     *dom.Document
	layout  Layout
	sizing  config.Sizing
	dummyID string

	input *dom.Node
	dummy *dom.Node
	bound map[*dom.Node]bool
	// resizeBound is set once the window listener is installed.
	resizeBound bool
}

func NewInputSizer(doc *dom.Document, layout Layout, s config.Settings) *InputSizer {
	if layout == nil {
		layout = CellLayout{}
	}
	return &InputSizer{
		doc:     doc,
		layout:  layout,
		sizing:  s.Sizing,
		dummyID: s.Selectors.DummyID,
		bound:   map[*dom.Node]bool{},
	}
}

// Bind attaches the sizer to input and adjusts it once right away. Binding the
// same input again only re-runs the adjustment. Only the most recently bound
// input is adjusted; earlier ones keep their last width.
func (s *InputSizer) Bind(input *dom.Node) error {
	if input == nil {
		return errors.New("input sizer: nil input")
	}
	if s.doc == nil {
		return errors.New("input sizer: nil document")
	}

	if s.dummy == nil {
		s.dummy = s.doc.GetElementByID(s.dummyID)
		if s.dummy == nil {
			s.dummy = dom.Build(dom.Spec{
				TagName:    "div",
				Attributes: []dom.Attribute{{Name: "id", Value: s.dummyID}},
			})
			s.doc.Body.AppendChild(s.dummy)
		}
	}

	s.input = input
	if !s.bound[input] {
		s.bound[input] = true
		input.AddEventListener(dom.EventInput, func(*dom.Event) {
			if s.input == input {
				s.adjust(input)
			}
		})
	}
	if !s.resizeBound {
		s.resizeBound = true
		s.doc.Window.AddEventListener(dom.EventResize, func(*dom.Event) { s.adjust(s.input) })
	}

	dom.FireEvent(input, dom.EventInput)
	return nil
}

func (s *InputSizer) adjust(input *dom.Node) {
	if input.Value == "" {
		input.RemoveClass(ClassUnderline)
		setWidth(input, "100%")
		return
	}

	input.AddClass(ClassUnderline)
	for _, prop := range fontProperties {
		s.dummy.SetStyle(prop, input.Style[prop])
	}
	s.dummy.SetTextContent(input.Value)

	setWidth(input, fmt.Sprintf("%dpx", s.layout.OffsetWidth(s.dummy)+s.Padding()))
}

// setWidth rewrites the inline style to the given width while keeping the font
// properties the input was styled with.
func setWidth(input *dom.Node, width string) {
	styles := input.Style
	input.SetAttribute("style", "width: "+width)
	for _, prop := range fontProperties {
		input.SetStyle(prop, styles[prop])
	}
}

// Padding interpolates the extra width between the sizing breakpoints from the
// document's root font size. An unknown root size, or breakpoints that do not
// span a range, get the maximum padding.
func (s *InputSizer) Padding() int {
	sz := s.sizing
	current := int(ParsePx(s.doc.Root.Style["font-size"]))
	if current == 0 || sz.MaxFontSize <= sz.MinFontSize {
		return sz.MaxPadding
	}
	return int(math.Floor(float64(current-sz.MinFontSize)/float64(sz.MaxFontSize-sz.MinFontSize)*
		float64(sz.MaxPadding-sz.MinPadding) + float64(sz.MinPadding)))
}

// Dummy returns the measurement element, once bound.
func (s *InputSizer) Dummy() *dom.Node { return s.dummy }
