// ABOUTME: Rendering helpers turning richtext node sequences into styled terminal text.
// ABOUTME: Icons render as glyphs, card tokens as highlighted names, the caret as a block cursor.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vtes-biased/rulings-website/richtext"
	"github.com/vtes-biased/rulings-website/rulings"
)

var caretStyle = lipgloss.NewStyle().Reverse(true)

// RenderNodes renders a node sequence for display. Icon nodes show their
// glyph, card nodes their highlighted name.
func RenderNodes(nodes []richtext.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(renderNode(n))
	}
	return b.String()
}

// RenderBuffer renders an editable buffer; when focused the caret shows as a
// reversed cell at its position.
func RenderBuffer(buf *richtext.Buffer, focused bool) string {
	if buf == nil {
		return ""
	}
	if !focused {
		return RenderNodes(buf.Nodes())
	}
	caret := buf.Caret()
	var b strings.Builder
	for i, n := range buf.Nodes() {
		if n.Kind == richtext.KindText && i == caret.Node {
			b.WriteString(renderTextWithCaret(n.Text, caret.Offset))
			continue
		}
		s := renderNode(n)
		if i == caret.Node && caret.Offset == 0 {
			s = caretStyle.Render(s)
		}
		b.WriteString(s)
	}
	if caret.Node >= len(buf.Nodes()) || buf.Empty() {
		b.WriteString(caretStyle.Render(" "))
	}
	return b.String()
}

func renderTextWithCaret(text string, offset int) string {
	runes := []rune(text)
	if offset > len(runes) {
		offset = len(runes)
	}
	if offset == len(runes) {
		return string(runes) + caretStyle.Render(" ")
	}
	return string(runes[:offset]) + caretStyle.Render(string(runes[offset])) + string(runes[offset+1:])
}

func renderNode(n richtext.Node) string {
	switch n.Kind {
	case richtext.KindIcon:
		return n.Glyph
	case richtext.KindCard:
		return CardTokenStyle.Render(n.Name)
	default:
		return n.Text
	}
}

// ReferenceBadges renders a ruling's attached references as underlined uid
// badges, space-separated, in attachment order.
func ReferenceBadges(refs []rulings.ReferenceSubstitution) string {
	if len(refs) == 0 {
		return ""
	}
	badges := make([]string, 0, len(refs))
	for _, sub := range refs {
		badges = append(badges, BadgeStyle.Render("["+sub.Reference.UID+"]"))
	}
	return strings.Join(badges, " ")
}
