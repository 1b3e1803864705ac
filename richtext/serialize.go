// ABOUTME: Serializer converting a node sequence back into the canonical encoded string sent to the server.
// ABOUTME: Icons encode through the reverse glyph map, cards as braced names, references as trailing bracketed uids.
package richtext

import (
	"strings"

	"github.com/vtes-biased/rulings-website/rulings"
	"github.com/vtes-biased/rulings-website/symbol"
)

// Serialize walks the nodes in order and produces the canonical text. Text
// nodes contribute their literal content, icon nodes their `[abo]` token via
// the reverse glyph lookup, card nodes their `{Name}` token. Leading and
// trailing whitespace is trimmed from the accumulated text, then every
// attached reference contributes a trailing ` [UID]` token in order.
func Serialize(nodes []Node, refs []rulings.ReferenceSubstitution) string {
	var b strings.Builder
	for _, n := range nodes {
		switch n.Kind {
		case KindText:
			b.WriteString(n.Text)
		case KindIcon:
			if code, ok := symbol.Code(n.Glyph); ok {
				b.WriteString(symbol.Token(code))
			} else {
				b.WriteString(symbol.Token(n.Code))
			}
		case KindCard:
			b.WriteString("{" + n.Name + "}")
		}
	}
	text := strings.TrimSpace(b.String())
	for _, ref := range refs {
		if text != "" {
			text += " "
		}
		text += "[" + ref.UID + "]"
	}
	return text
}
