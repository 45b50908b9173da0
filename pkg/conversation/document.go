package conversation

import (
	"github.com/go-go-golems/convopanel/pkg/config"
	"github.com/go-go-golems/convopanel/pkg/dom"
)

// NewDocument builds the page the panel runs in: a scrolling chat container
// followed by the text input, with the root and input font sizes from s.
func NewDocument(s config.Settings) *dom.Document {
	doc := dom.NewDocument()
	doc.Root.SetStyle("font-size", s.UI.RootFontSize)

	doc.Body.AppendChild(dom.Build(dom.Spec{
		TagName:    "div",
		Attributes: []dom.Attribute{{Name: "id", Value: s.Selectors.ChatBoxID}},
	}))

	input := dom.Build(dom.Spec{
		TagName:    "input",
		Attributes: []dom.Attribute{{Name: "id", Value: s.Selectors.InputID}},
	})
	input.SetStyle("font-size", s.UI.InputFont)
	doc.Body.AppendChild(input)

	return doc
}
