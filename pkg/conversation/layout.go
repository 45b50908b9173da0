package conversation

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/go-go-golems/convopanel/pkg/dom"
)

// Layout answers the geometry questions the panel asks of its document.
type Layout interface {
	// OffsetTop is the vertical offset of n from the top of its parent, in lines.
	OffsetTop(n *dom.Node) int
	// OffsetWidth is the rendered width of n's text content, in px.
	OffsetWidth(n *dom.Node) int
}

// Font properties mirrored from the input into the measurement element.
var fontProperties = []string{
	"font-size",
	"font-style",
	"font-weight",
	"font-family",
	"line-height",
	"text-transform",
	"letter-spacing",
}

// CellLayout lays text out on a monospace grid where a glyph cell is half the
// font size wide, and every block element with text takes one line.
type CellLayout struct {
	DefaultFontSize float64
}

var _ Layout = CellLayout{}

func (l CellLayout) OffsetTop(n *dom.Node) int {
	parent := n.Parent()
	if parent == nil {
		return 0
	}
	top := 0
	for _, sib := range parent.Children() {
		if sib == n {
			break
		}
		top += lineCount(sib)
	}
	return top
}

func (l CellLayout) OffsetWidth(n *dom.Node) int {
	fontSize := ParsePx(n.Style["font-size"])
	if fontSize <= 0 {
		fontSize = l.DefaultFontSize
	}
	if fontSize <= 0 {
		fontSize = 16
	}
	text := applyTextTransform(n.TextContent(), n.Style["text-transform"])
	cells := lipgloss.Width(text)
	spacing := ParsePx(n.Style["letter-spacing"]) * float64(len([]rune(text)))
	return int(math.Floor(float64(cells)*fontSize/2 + spacing))
}

// lineCount counts the lines a node occupies: one per element that directly
// holds text.
func lineCount(n *dom.Node) int {
	if n.IsText() {
		return 1
	}
	lines := 0
	hasText := false
	for _, c := range n.Children() {
		if c.IsText() {
			hasText = true
			continue
		}
		lines += lineCount(c)
	}
	if hasText {
		lines++
	}
	return lines
}

func applyTextTransform(text, transform string) string {
	switch transform {
	case "uppercase":
		return strings.ToUpper(text)
	case "lowercase":
		return strings.ToLower(text)
	default:
		return text
	}
}

// ParsePx parses a CSS length such as "16px" or "1.5px". Anything else is 0.
func ParsePx(v string) float64 {
	v = strings.TrimSpace(v)
	v = strings.TrimSuffix(v, "px")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}
